package term

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/colorprofile"
)

// Terminal environment detection is cached: it depends only on the process
// environment and stdout, both stable for the process lifetime.
var (
	envTermType  string
	envColorTerm string
	envOnce      sync.Once
)

// terminalEnv returns the TERM and COLORTERM values to hand to spawned
// processes, derived from the detected color profile of the outer terminal.
func terminalEnv() (termType, colorTerm string) {
	envOnce.Do(func() {
		profile := colorprofile.Detect(os.Stdout, os.Environ())
		envTermType, envColorTerm = profileToEnv(profile)
	})
	return envTermType, envColorTerm
}

func profileToEnv(profile colorprofile.Profile) (termType, colorTerm string) {
	parentTerm := os.Getenv("TERM")

	switch profile {
	case colorprofile.TrueColor:
		if parentTerm != "" && (strings.Contains(parentTerm, "256color") ||
			strings.Contains(parentTerm, "truecolor") ||
			parentTerm == "alacritty" ||
			parentTerm == "kitty" ||
			strings.HasPrefix(parentTerm, "kitty-")) {
			termType = parentTerm
		} else {
			termType = "xterm-256color"
		}
		colorTerm = "truecolor"

	case colorprofile.ANSI256:
		switch {
		case parentTerm != "" && strings.Contains(parentTerm, "256color"):
			termType = parentTerm
		case strings.HasPrefix(parentTerm, "screen"):
			termType = "screen-256color"
		case strings.HasPrefix(parentTerm, "tmux"):
			termType = "tmux-256color"
		default:
			termType = "xterm-256color"
		}

	case colorprofile.ANSI:
		if parentTerm != "" && parentTerm != "dumb" {
			termType = parentTerm
		} else {
			termType = "xterm"
		}

	case colorprofile.Ascii, colorprofile.NoTTY:
		termType = "dumb"

	default:
		termType = "xterm-256color"
	}

	return termType, colorTerm
}
