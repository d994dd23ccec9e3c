// Package session implements the floating terminal session lifecycle: one
// logical terminal instance whose window is created and destroyed on every
// show/hide cycle while the buffer and process persist underneath, so
// re-opening reattaches to the same running shell and scrollback.
package session

import (
	"github.com/EpsilonKu/fterm/internal/config"
	"github.com/EpsilonKu/fterm/internal/host"
)

// snapshot is the cursor context captured before the float opens, used to
// restore editor focus after it closes. It lives for exactly one open->close
// cycle.
type snapshot struct {
	win         host.WindowID
	prevOrdinal int
	cursor      host.CursorPos
}

// Controller owns the session state for a single floating terminal and
// drives it through open/close/toggle/run transitions against the host
// capability surface. All handle fields are "" when absent; they are only
// ever updated together, so an asynchronous exit notification observed
// between two operations always sees a consistent record.
type Controller struct {
	ed   host.Editor
	cfg  config.Config
	argv []string

	win  host.WindowID
	buf  host.BufferID
	term host.TermID
	job  host.JobID
	snap *snapshot
}

// New creates a controller in the Closed state with the default
// configuration. Nothing is created until the first Open.
func New(ed host.Editor) *Controller {
	cfg := config.Default()
	return &Controller{
		ed:   ed,
		cfg:  cfg,
		argv: config.ResolveCommand(cfg.Cmd),
	}
}

// Setup merges overrides into the configuration and eagerly resolves the
// command field. Valid in any state; calling it with nothing to change is
// reported as a warning rather than an error.
func (c *Controller) Setup(o *config.Overrides) {
	if o.Empty() {
		c.ed.Notify(host.LevelWarn, "setup called without any overrides")
		return
	}
	c.cfg = config.Merge(c.cfg, *o)
	c.argv = config.ResolveCommand(c.cfg.Cmd)
}

// Open shows the floating terminal. When the window already exists it only
// transfers focus. Otherwise it captures the cursor context, reuses or
// creates the buffer, opens a new window per the resolved geometry, and
// spawns the shell process if none is alive for this buffer. A spawn failure
// is unwound completely: the caller sees the host error and the session
// state is unchanged.
func (c *Controller) Open() error {
	if c.ed.WindowValid(c.win) {
		return c.ed.FocusWindow(c.win)
	}

	snap := &snapshot{
		win:         c.ed.CurrentWindow(),
		prevOrdinal: c.ed.PreviousWindowOrdinal(),
	}
	if pos, err := c.ed.Cursor(snap.win); err == nil {
		snap.cursor = pos
	}

	buf := c.buf
	createdBuf := false
	if !c.ed.BufferValid(buf) {
		b, err := c.ed.CreateBuffer()
		if err != nil {
			return err
		}
		buf = b
		createdBuf = true
	}

	cols, rows := c.ed.ScreenSize()
	win, err := c.ed.OpenWindow(buf, host.WindowOptions{
		Geometry:  config.ResolveGeometry(c.cfg.Dimensions, cols, rows),
		Border:    c.cfg.Border,
		Highlight: c.cfg.Highlight,
		Blend:     c.cfg.Blend,
	})
	if err != nil {
		if createdBuf {
			_ = c.ed.DeleteBuffer(buf)
		}
		return err
	}

	if !c.ed.JobAlive(c.job) {
		term, job, err := c.ed.Spawn(buf, c.argv, host.Callbacks{
			OnStdout: c.cfg.OnStdout,
			OnStderr: c.cfg.OnStderr,
			OnExit:   c.HandleExit,
		})
		if err != nil {
			_ = c.ed.CloseWindow(win)
			if createdBuf {
				_ = c.ed.DeleteBuffer(buf)
			}
			return err
		}
		c.term = term
		c.job = job
	}

	// The spawn may clobber the buffer's filetype, so it is asserted after
	// the process is attached.
	_ = c.ed.SetBufferFiletype(buf, c.cfg.FileType)

	c.ed.StartInsert()
	c.win = win
	c.buf = buf
	c.snap = snap
	return nil
}

// Close hides the floating terminal. Without force the buffer and process
// stay alive in the background for the next Open; with force the buffer is
// deleted and the process terminated, returning the controller to its
// initial empty state. The saved cursor context is always restored and
// cleared. Safe to call repeatedly: a missing window makes it a no-op and
// every destructive call swallows already-gone failures.
func (c *Controller) Close(force bool) {
	if c.win == "" {
		return
	}

	if c.ed.WindowValid(c.win) {
		_ = c.ed.CloseWindow(c.win)
	}
	c.win = ""

	if force {
		if c.ed.BufferValid(c.buf) {
			_ = c.ed.DeleteBuffer(c.buf)
		}
		c.buf = ""
		if c.job != "" {
			_ = c.ed.StopJob(c.job)
		}
		c.term = ""
		c.job = ""
	}

	if c.snap != nil {
		// Reselect the previous window ordinal first so the layout order
		// survives; that window may be gone, which is fine.
		_ = c.ed.FocusOrdinal(c.snap.prevOrdinal)
		if c.ed.WindowValid(c.snap.win) {
			_ = c.ed.FocusWindow(c.snap.win)
			_ = c.ed.SetCursor(c.snap.win, c.snap.cursor)
		}
		c.snap = nil
	}
}

// Toggle hides the terminal when it is showing and shows it otherwise.
func (c *Controller) Toggle() error {
	if c.ed.WindowValid(c.win) {
		c.Close(false)
		return nil
	}
	return c.Open()
}

// Run ensures the terminal is open and sends the command line followed by
// the confirm keystroke to the running process. Without a job id (process
// never started) it is a silent no-op.
func (c *Controller) Run(cmd config.Command) error {
	if err := c.Open(); err != nil {
		return err
	}
	if c.job == "" {
		return nil
	}
	return c.ed.SendKeys(c.job, cmd.Text()+c.ed.TranslateKey(host.KeyEnter))
}

// HandleExit reacts to the host's process-exit notification: force-close
// when auto-close is configured, then hand the exit payload to the
// user-supplied callback unchanged.
func (c *Controller) HandleExit(info host.ExitInfo) {
	if c.cfg.AutoClose {
		c.Close(true)
	}
	if c.cfg.OnExit != nil {
		c.cfg.OnExit(info)
	}
}

// IsOpen reports whether the floating window is currently showing.
func (c *Controller) IsOpen() bool {
	return c.ed.WindowValid(c.win)
}

// Window returns the current window handle, "" when closed.
func (c *Controller) Window() host.WindowID { return c.win }

// Buffer returns the current buffer handle, "" before the first open or
// after a force-close.
func (c *Controller) Buffer() host.BufferID { return c.buf }

// Job returns the job id used to send input to the process, "" when no
// process has been started.
func (c *Controller) Job() host.JobID { return c.job }

// Config returns the active configuration record.
func (c *Controller) Config() config.Config { return c.cfg }
