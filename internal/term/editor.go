// Package term is the in-process host for the floating terminal: it owns
// scratch buffers, PTY jobs, and floating windows, and implements the
// capability surface the session controller drives. It plays the role an
// editor's window/buffer/process API would play.
package term

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/EpsilonKu/fterm/internal/host"
)

// Window is a floating window over the editor pane.
type Window struct {
	ID   host.WindowID
	Buf  host.BufferID
	Opts host.WindowOptions
}

// Notice is a user-facing notification.
type Notice struct {
	Level host.Level
	Msg   string
	At    time.Time
}

// Editor implements host.Editor in process. All methods are called from the
// UI event loop; the only concurrent actors are the job goroutines, which
// communicate exits through a channel drained by that same loop.
type Editor struct {
	cols int
	rows int

	root     host.WindowID
	current  host.WindowID
	previous host.WindowID
	order    []host.WindowID
	cursors  map[host.WindowID]host.CursorPos

	windows map[host.WindowID]*Window
	buffers map[host.BufferID]*Buffer
	jobs    map[host.JobID]*Job

	insert bool

	exitCh    chan host.ExitInfo
	exitFuncs map[host.JobID]func(host.ExitInfo)

	notices []Notice
}

// NewEditor creates an editor host with one root window covering the whole
// screen, which is the window the cursor snapshot refers to before the
// float opens.
func NewEditor(cols, rows int) *Editor {
	e := &Editor{
		cols:      cols,
		rows:      rows,
		cursors:   make(map[host.WindowID]host.CursorPos),
		windows:   make(map[host.WindowID]*Window),
		buffers:   make(map[host.BufferID]*Buffer),
		jobs:      make(map[host.JobID]*Job),
		exitCh:    make(chan host.ExitInfo, 10),
		exitFuncs: make(map[host.JobID]func(host.ExitInfo)),
	}

	root := host.WindowID(uuid.NewString())
	e.windows[root] = &Window{
		ID:   root,
		Opts: host.WindowOptions{Geometry: host.Geometry{Width: cols, Height: rows}},
	}
	e.order = append(e.order, root)
	e.root = root
	e.current = root
	return e
}

// SetScreenSize updates the usable screen area.
func (e *Editor) SetScreenSize(cols, rows int) {
	e.cols = cols
	e.rows = rows
	if root := e.windows[e.root]; root != nil {
		root.Opts.Geometry = host.Geometry{Width: cols, Height: rows}
	}
}

// ScreenSize reports the usable screen area in cells.
func (e *Editor) ScreenSize() (cols, rows int) {
	return e.cols, e.rows
}

// OpenWindow creates a floating window showing buf and focuses it.
func (e *Editor) OpenWindow(buf host.BufferID, opts host.WindowOptions) (host.WindowID, error) {
	b := e.buffers[buf]
	if b == nil || !b.Valid() {
		return "", fmt.Errorf("open window: invalid buffer %q", buf)
	}

	id := host.WindowID(uuid.NewString())
	e.windows[id] = &Window{ID: id, Buf: buf, Opts: opts}
	e.order = append(e.order, id)

	e.previous = e.current
	e.current = id
	return id, nil
}

// CloseWindow destroys a window. Closing an absent or already destroyed
// window is not an error.
func (e *Editor) CloseWindow(win host.WindowID) error {
	if _, ok := e.windows[win]; !ok {
		return nil
	}
	delete(e.windows, win)
	for i, id := range e.order {
		if id == win {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	delete(e.cursors, win)

	if e.current == win {
		if _, ok := e.windows[e.previous]; ok {
			e.current = e.previous
		} else {
			e.current = e.root
		}
		e.insert = false
	}
	if e.previous == win {
		e.previous = ""
	}
	return nil
}

// WindowValid reports whether win refers to a live window. Absent handles
// are simply invalid.
func (e *Editor) WindowValid(win host.WindowID) bool {
	if win == "" {
		return false
	}
	_, ok := e.windows[win]
	return ok
}

// CurrentWindow returns the focused window.
func (e *Editor) CurrentWindow() host.WindowID {
	return e.current
}

// FocusWindow transfers input focus to win.
func (e *Editor) FocusWindow(win host.WindowID) error {
	if !e.WindowValid(win) {
		return fmt.Errorf("focus: invalid window %q", win)
	}
	if e.current != win {
		e.previous = e.current
		e.current = win
	}
	return nil
}

// FocusOrdinal focuses the window at the given 1-based layout ordinal.
func (e *Editor) FocusOrdinal(ordinal int) error {
	if ordinal < 1 || ordinal > len(e.order) {
		return fmt.Errorf("focus: no window at ordinal %d", ordinal)
	}
	return e.FocusWindow(e.order[ordinal-1])
}

// PreviousWindowOrdinal reports the 1-based layout ordinal of the window
// focused before the current one, 0 when there is none.
func (e *Editor) PreviousWindowOrdinal() int {
	for i, id := range e.order {
		if id == e.previous && id != "" {
			return i + 1
		}
	}
	return 0
}

// Cursor returns the cursor position within win.
func (e *Editor) Cursor(win host.WindowID) (host.CursorPos, error) {
	if !e.WindowValid(win) {
		return host.CursorPos{}, fmt.Errorf("cursor: invalid window %q", win)
	}
	return e.cursors[win], nil
}

// SetCursor moves the cursor within win.
func (e *Editor) SetCursor(win host.WindowID, pos host.CursorPos) error {
	if !e.WindowValid(win) {
		return fmt.Errorf("cursor: invalid window %q", win)
	}
	e.cursors[win] = pos
	return nil
}

// CreateBuffer creates an empty scratch buffer.
func (e *Editor) CreateBuffer() (host.BufferID, error) {
	id := host.BufferID(uuid.NewString())
	e.buffers[id] = newBuffer(id)
	return id, nil
}

// BufferValid reports whether buf refers to a live buffer.
func (e *Editor) BufferValid(buf host.BufferID) bool {
	if buf == "" {
		return false
	}
	b, ok := e.buffers[buf]
	return ok && b.Valid()
}

// DeleteBuffer destroys a buffer. Deleting an absent buffer is not an error.
func (e *Editor) DeleteBuffer(buf host.BufferID) error {
	if b, ok := e.buffers[buf]; ok {
		b.invalidate()
		delete(e.buffers, buf)
	}
	return nil
}

// SetBufferFiletype tags the buffer with a filetype.
func (e *Editor) SetBufferFiletype(buf host.BufferID, filetype string) error {
	b, ok := e.buffers[buf]
	if !ok || !b.Valid() {
		return fmt.Errorf("filetype: invalid buffer %q", buf)
	}
	b.setFiletype(filetype)
	return nil
}

// Spawn attaches argv to buf as a pseudo-terminal process. The PTY is sized
// to the inner area of the window showing buf when one exists. Exit
// callbacks are not invoked directly from process goroutines: the exit is
// queued on the editor's channel and delivered when the event loop calls
// DispatchExit.
func (e *Editor) Spawn(buf host.BufferID, argv []string, cb host.Callbacks) (host.TermID, host.JobID, error) {
	b, ok := e.buffers[buf]
	if !ok || !b.Valid() {
		return "", "", fmt.Errorf("spawn: invalid buffer %q", buf)
	}

	cols, rows := 80, 24
	for _, w := range e.windows {
		if w.Buf == buf {
			cols = w.Opts.Geometry.Width - 2
			rows = w.Opts.Geometry.Height - 2
			break
		}
	}

	jobID := host.JobID(uuid.NewString())
	termID := host.TermID(uuid.NewString())

	job, err := startJob(jobID, termID, b, argv, cols, rows, cb.OnStdout, func(info host.ExitInfo) {
		select {
		case e.exitCh <- info:
		default:
		}
	})
	if err != nil {
		return "", "", err
	}

	e.jobs[jobID] = job
	if cb.OnExit != nil {
		e.exitFuncs[jobID] = cb.OnExit
	}

	// Attaching a terminal process claims the buffer's filetype; callers
	// that care reassert their own afterwards.
	b.setFiletype("terminal")

	return termID, jobID, nil
}

// JobAlive reports whether the job's process is still running.
func (e *Editor) JobAlive(job host.JobID) bool {
	if job == "" {
		return false
	}
	j, ok := e.jobs[job]
	return ok && j.Alive()
}

// SendKeys sends raw input to a job.
func (e *Editor) SendKeys(job host.JobID, data string) error {
	j, ok := e.jobs[job]
	if !ok {
		return fmt.Errorf("send: unknown job %q", job)
	}
	return j.Write([]byte(data))
}

// StopJob terminates a job. Stopping an absent job is not an error.
func (e *Editor) StopJob(job host.JobID) error {
	if j, ok := e.jobs[job]; ok {
		j.Stop()
		delete(e.jobs, job)
		delete(e.exitFuncs, job)
	}
	return nil
}

// TranslateKey converts a logical keystroke name to raw bytes.
func (e *Editor) TranslateKey(name string) string {
	switch name {
	case host.KeyEnter:
		return "\r"
	default:
		return ""
	}
}

// StartInsert places the editor in insert mode so keystrokes flow to the
// focused terminal.
func (e *Editor) StartInsert() {
	e.insert = true
}

// InsertMode reports whether keystrokes should be forwarded to the focused
// terminal.
func (e *Editor) InsertMode() bool {
	return e.insert
}

// StopInsert leaves insert mode without touching window state.
func (e *Editor) StopInsert() {
	e.insert = false
}

// Notify records a non-fatal notification for the status line.
func (e *Editor) Notify(level host.Level, msg string) {
	e.notices = append(e.notices, Notice{Level: level, Msg: msg, At: time.Now()})
	if len(e.notices) > 20 {
		e.notices = e.notices[len(e.notices)-20:]
	}
	log.Printf("notify: %s", msg)
}

// LastNotice returns the most recent notification.
func (e *Editor) LastNotice() (Notice, bool) {
	if len(e.notices) == 0 {
		return Notice{}, false
	}
	return e.notices[len(e.notices)-1], true
}

// ExitEvents is drained by the event loop; each received exit must be
// handed back via DispatchExit.
func (e *Editor) ExitEvents() <-chan host.ExitInfo {
	return e.exitCh
}

// DispatchExit delivers a process exit to its registered callback, at most
// once per job, and forgets the job.
func (e *Editor) DispatchExit(info host.ExitInfo) {
	fn := e.exitFuncs[info.Job]
	delete(e.exitFuncs, info.Job)
	delete(e.jobs, info.Job)
	if fn != nil {
		fn(info)
	}
}

// FloatWindow returns the window for a handle, for rendering.
func (e *Editor) FloatWindow(win host.WindowID) (*Window, bool) {
	w, ok := e.windows[win]
	return w, ok
}

// BufferByID returns the buffer for a handle, for rendering.
func (e *Editor) BufferByID(buf host.BufferID) (*Buffer, bool) {
	b, ok := e.buffers[buf]
	return b, ok
}

// ResizeJob resizes the PTY behind a job to match a new window geometry.
func (e *Editor) ResizeJob(job host.JobID, cols, rows int) {
	if j, ok := e.jobs[job]; ok {
		j.Resize(cols, rows)
	}
}
