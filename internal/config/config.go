// Package config holds the floating terminal configuration record and the
// resolvers that turn it into concrete spawn/window parameters. Defaults are
// merged with user overrides field by field; nothing is validated here —
// invalid geometry or commands surface when the host rejects them.
package config

import (
	"math"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/EpsilonKu/fterm/internal/host"
)

// Dimensions describes the floating window as ratios of the screen size.
// Width/Height scale the window, X/Y place it within the remaining space
// (0.5 centers it). All values are expected in [0, 1].
type Dimensions struct {
	Width  float64
	Height float64
	X      float64
	Y      float64
}

// Command is a shell invocation: either a single command line (one element,
// run through the shell) or an argv list (run directly).
type Command []string

// Text returns the command as a single line, for sending to a job's input.
func (c Command) Text() string {
	return strings.Join(c, " ")
}

// Config is the full configuration record for one session. It is immutable
// per session except via an explicit Setup merge and is owned exclusively by
// the session controller instance.
type Config struct {
	Dimensions Dimensions
	Border     string
	Highlight  string
	Blend      int
	Cmd        Command
	FileType   string
	AutoClose  bool

	OnExit   func(host.ExitInfo)
	OnStdout func(host.JobID, []string)
	OnStderr func(host.JobID, []string)
}

// Default returns the built-in configuration record.
func Default() Config {
	return Config{
		Dimensions: Dimensions{Width: 0.8, Height: 0.8, X: 0.5, Y: 0.5},
		Border:     "rounded",
		Highlight:  "FloatTerm",
		Blend:      0,
		Cmd:        nil, // resolved to the default shell
		FileType:   "fterm",
		AutoClose:  true,
	}
}

// DimensionOverrides overrides individual window ratios. Nil fields keep the
// base value.
type DimensionOverrides struct {
	Width  *float64
	Height *float64
	X      *float64
	Y      *float64
}

// Overrides carries user-supplied configuration. Nil fields keep the base
// value; a nil Cmd keeps the base command.
type Overrides struct {
	Dimensions *DimensionOverrides
	Border     *string
	Highlight  *string
	Blend      *int
	Cmd        Command
	FileType   *string
	AutoClose  *bool

	OnExit   func(host.ExitInfo)
	OnStdout func(host.JobID, []string)
	OnStderr func(host.JobID, []string)
}

// Empty reports whether the overrides change nothing.
func (o *Overrides) Empty() bool {
	if o == nil {
		return true
	}
	return o.Dimensions == nil && o.Border == nil && o.Highlight == nil &&
		o.Blend == nil && o.Cmd == nil && o.FileType == nil &&
		o.AutoClose == nil && o.OnExit == nil && o.OnStdout == nil &&
		o.OnStderr == nil
}

// Merge deep-merges overrides onto base, field by field. Unspecified fields
// retain base's value.
func Merge(base Config, o Overrides) Config {
	out := base
	if o.Dimensions != nil {
		if o.Dimensions.Width != nil {
			out.Dimensions.Width = *o.Dimensions.Width
		}
		if o.Dimensions.Height != nil {
			out.Dimensions.Height = *o.Dimensions.Height
		}
		if o.Dimensions.X != nil {
			out.Dimensions.X = *o.Dimensions.X
		}
		if o.Dimensions.Y != nil {
			out.Dimensions.Y = *o.Dimensions.Y
		}
	}
	if o.Border != nil {
		out.Border = *o.Border
	}
	if o.Highlight != nil {
		out.Highlight = *o.Highlight
	}
	if o.Blend != nil {
		out.Blend = *o.Blend
	}
	if o.Cmd != nil {
		out.Cmd = o.Cmd
	}
	if o.FileType != nil {
		out.FileType = *o.FileType
	}
	if o.AutoClose != nil {
		out.AutoClose = *o.AutoClose
	}
	if o.OnExit != nil {
		out.OnExit = o.OnExit
	}
	if o.OnStdout != nil {
		out.OnStdout = o.OnStdout
	}
	if o.OnStderr != nil {
		out.OnStderr = o.OnStderr
	}
	return out
}

// ResolveCommand normalizes a configured command into the argv the spawn
// primitive expects. An empty command resolves to the user's default shell; a single
// command line containing spaces runs through the shell.
func ResolveCommand(cmd Command) []string {
	if len(cmd) == 0 {
		return []string{DefaultShell()}
	}
	if len(cmd) == 1 && strings.ContainsRune(cmd[0], ' ') {
		return []string{DefaultShell(), "-c", cmd[0]}
	}
	return append([]string(nil), cmd...)
}

// ResolveGeometry converts relative ratios into absolute cell geometry,
// placed within the screen bounds by the X/Y ratios. Values are floored so
// identical inputs always produce identical output.
func ResolveGeometry(d Dimensions, cols, rows int) host.Geometry {
	width := int(math.Floor(float64(cols) * d.Width))
	height := int(math.Floor(float64(rows) * d.Height))
	width = max(width, 1)
	height = max(height, 1)

	col := int(math.Floor(float64(cols-width) * d.X))
	row := int(math.Floor(float64(rows-height) * d.Y))

	return host.Geometry{
		Width:  width,
		Height: height,
		Row:    max(row, 0),
		Col:    max(col, 0),
	}
}

// DefaultShell returns the user's shell, falling back through the common
// candidates when $SHELL is unset.
func DefaultShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}

	if runtime.GOOS == "windows" {
		for _, shell := range []string{"powershell.exe", "pwsh.exe", "cmd.exe"} {
			if _, err := exec.LookPath(shell); err == nil {
				return shell
			}
		}
		return "cmd.exe"
	}

	for _, shell := range []string{"/bin/bash", "/bin/zsh", "/bin/fish", "/bin/sh"} {
		if _, err := os.Stat(shell); err == nil {
			return shell
		}
	}
	return "/bin/sh"
}
