// Package app implements the interactive floating terminal application: a
// plain editor pane with one toggleable terminal float on top, driven by the
// session controller.
package app

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/fsnotify/fsnotify"

	"github.com/EpsilonKu/fterm/internal/config"
	"github.com/EpsilonKu/fterm/internal/host"
	"github.com/EpsilonKu/fterm/internal/session"
	"github.com/EpsilonKu/fterm/internal/term"
)

// Target frame rates, matching the tick cadence the UI needs: terminals
// repaint often, system info rarely.
const (
	tickInterval    = time.Second / 30
	sysinfoInterval = 2 * time.Second
)

// TickerMsg drives periodic repaints while the float is showing.
type TickerMsg time.Time

// JobExitMsg carries a process exit from the host's channel into the event
// loop, where it is dispatched to the controller.
type JobExitMsg struct {
	Info host.ExitInfo
}

// ConfigChangedMsg carries freshly parsed overrides after the config file
// changed on disk.
type ConfigChangedMsg struct {
	Overrides config.Overrides
}

// SysinfoMsg carries sampled CPU/memory usage for the status bar.
type SysinfoMsg struct {
	CPUPercent float64
	MemPercent float64
}

// App is the bubbletea model. It owns the editor host and the session
// controller; all state transitions happen inside Update, which bubbletea
// serializes, so the controller sees the single-threaded world it expects.
type App struct {
	Editor *term.Editor
	Ctrl   *session.Controller

	Width  int
	Height int

	// RunOnStart, when set, is sent to the terminal once at startup.
	RunOnStart config.Command

	CPUPercent float64
	MemPercent float64

	watcher    *fsnotify.Watcher
	configPath string

	quitting bool
}

// New builds the application around a fresh editor host and controller,
// applying the given configuration overrides.
func New(overrides *config.Overrides) *App {
	editor := term.NewEditor(80, 24)
	ctrl := session.New(editor)
	if !overrides.Empty() {
		ctrl.Setup(overrides)
	}
	return &App{
		Editor: editor,
		Ctrl:   ctrl,
	}
}

// WatchConfig enables live reloading of the config file at path.
func (a *App) WatchConfig(path string) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return
	}
	if err := w.Add(path); err != nil {
		_ = w.Close()
		return
	}
	a.watcher = w
	a.configPath = path
}

// Init starts the tick loop and the exit/config listeners.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(),
		sysinfoCmd(),
		listenForExits(a.Editor.ExitEvents()),
	}
	if a.watcher != nil {
		cmds = append(cmds, watchConfigCmd(a.watcher))
	}
	if len(a.RunOnStart) > 0 {
		run := a.RunOnStart
		cmds = append(cmds, func() tea.Msg { return runCommandMsg{cmd: run} })
	}
	return tea.Batch(cmds...)
}

type runCommandMsg struct {
	cmd config.Command
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickerMsg(t)
	})
}

// listenForExits converts host exit events into messages. The returned
// command re-arms itself from Update after each delivery.
func listenForExits(exitCh <-chan host.ExitInfo) tea.Cmd {
	return func() tea.Msg {
		info, ok := <-exitCh
		if !ok {
			return nil
		}
		return JobExitMsg{Info: info}
	}
}

// watchConfigCmd waits for the next config file change and reparses it.
// Editors replace files on save, so Rename/Create count as changes too.
func watchConfigCmd(w *fsnotify.Watcher) tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return nil
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				o, err := config.LoadUserConfig()
				if err != nil {
					continue
				}
				return ConfigChangedMsg{Overrides: o}
			case _, ok := <-w.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}

// Update handles all incoming messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.Width = msg.Width
		a.Height = msg.Height
		a.Editor.SetScreenSize(msg.Width, msg.Height)
		a.relayoutFloat()
		return a, nil

	case TickerMsg:
		return a, tickCmd()

	case SysinfoMsg:
		a.CPUPercent = msg.CPUPercent
		a.MemPercent = msg.MemPercent
		return a, sysinfoCmd()

	case JobExitMsg:
		// Serialized delivery point for the asynchronous exit event.
		a.Editor.DispatchExit(msg.Info)
		return a, listenForExits(a.Editor.ExitEvents())

	case ConfigChangedMsg:
		o := msg.Overrides
		a.Ctrl.Setup(&o)
		a.Editor.Notify(host.LevelInfo, "configuration reloaded")
		return a, watchConfigCmd(a.watcher)

	case runCommandMsg:
		if err := a.Ctrl.Run(msg.cmd); err != nil {
			a.Editor.Notify(host.LevelError, err.Error())
		}
		return a, nil

	case tea.KeyPressMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

// relayoutFloat recreates the float with geometry resolved against the new
// screen size and resizes the PTY to match. The buffer and process carry
// over, so this is invisible to the shell beyond a redraw.
func (a *App) relayoutFloat() {
	if !a.Ctrl.IsOpen() {
		return
	}
	a.Ctrl.Close(false)
	if err := a.Ctrl.Open(); err != nil {
		a.Editor.Notify(host.LevelError, err.Error())
		return
	}
	if w, ok := a.Editor.FloatWindow(a.Ctrl.Window()); ok {
		geo := w.Opts.Geometry
		a.Editor.ResizeJob(a.Ctrl.Job(), geo.Width-2, geo.Height-2)
	}
}

func (a *App) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+t":
		if err := a.Ctrl.Toggle(); err != nil {
			a.Editor.Notify(host.LevelError, err.Error())
		}
		return a, nil
	case "ctrl+q":
		a.quitting = true
		a.Ctrl.Close(true)
		if a.watcher != nil {
			_ = a.watcher.Close()
		}
		return a, tea.Quit
	}

	if a.Ctrl.IsOpen() && a.Editor.InsertMode() {
		// ctrl+b drops to normal mode so the plain keybindings work.
		if msg.String() == "ctrl+b" {
			a.Editor.StopInsert()
			return a, nil
		}
		if raw := rawKeyBytes(msg); len(raw) > 0 {
			if err := a.Editor.SendKeys(a.Ctrl.Job(), string(raw)); err != nil {
				a.Editor.Notify(host.LevelError, err.Error())
			}
		}
		return a, nil
	}

	switch msg.String() {
	case "t":
		if err := a.Ctrl.Toggle(); err != nil {
			a.Editor.Notify(host.LevelError, err.Error())
		}
	case "i":
		if a.Ctrl.IsOpen() {
			a.Editor.StartInsert()
		}
	case "q", "ctrl+c":
		a.quitting = true
		a.Ctrl.Close(true)
		if a.watcher != nil {
			_ = a.watcher.Close()
		}
		return a, tea.Quit
	}
	return a, nil
}
