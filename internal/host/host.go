// Package host defines the capability surface the floating terminal needs
// from its hosting environment: window, buffer, and process primitives plus
// a notification channel. The session controller talks only to this
// interface, so the real terminal host and test fakes are interchangeable.
package host

// Handle types are opaque identifiers minted by the host. The empty string
// means "absent"; a non-empty handle may still refer to a destroyed object,
// which the validity checks detect.
type (
	// WindowID identifies a floating window.
	WindowID string
	// BufferID identifies a scratch buffer.
	BufferID string
	// TermID identifies a pseudo-terminal process attached to a buffer.
	TermID string
	// JobID is the handle used to send input to a running process.
	JobID string
)

// Geometry is an absolute window placement in screen cells.
type Geometry struct {
	Width  int
	Height int
	Row    int
	Col    int
}

// WindowOptions describes how a floating window should be created.
type WindowOptions struct {
	Geometry  Geometry
	Border    string // border style tag ("rounded", "single", "double", "none")
	Highlight string // style name applied to the window chrome
	Blend     int    // background opacity level, 0 = opaque
}

// CursorPos is a cursor position within a window. Rows and columns are
// zero-based.
type CursorPos struct {
	Row int
	Col int
}

// ExitInfo carries the payload of a process-exit notification.
type ExitInfo struct {
	Job  JobID
	Code int
}

// Callbacks are wired to a spawned process. Any of them may be nil.
// OnExit fires at most once per process lifetime; after it fires the
// process handle is invalid.
type Callbacks struct {
	OnStdout func(job JobID, lines []string)
	OnStderr func(job JobID, lines []string)
	OnExit   func(info ExitInfo)
}

// Level classifies a notification.
type Level int

// Notification levels.
const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// Key names understood by TranslateKey.
const (
	// KeyEnter is the logical confirm/enter keystroke.
	KeyEnter = "enter"
)

// Editor is the host capability surface. Implementations must tolerate
// absent ("") handles as well as handles referring to destroyed objects:
// validity checks report false, destructive calls return without error.
type Editor interface {
	// Window operations.
	OpenWindow(buf BufferID, opts WindowOptions) (WindowID, error)
	CloseWindow(win WindowID) error
	WindowValid(win WindowID) bool
	CurrentWindow() WindowID
	FocusWindow(win WindowID) error
	// FocusOrdinal selects a window by its layout ordinal, best effort.
	FocusOrdinal(ordinal int) error
	// PreviousWindowOrdinal reports the ordinal of the previously focused
	// window, for restoring layout order after the float is dismissed.
	PreviousWindowOrdinal() int
	Cursor(win WindowID) (CursorPos, error)
	SetCursor(win WindowID, pos CursorPos) error
	// ScreenSize reports the usable screen area in cells.
	ScreenSize() (cols, rows int)

	// Buffer operations.
	CreateBuffer() (BufferID, error)
	BufferValid(buf BufferID) bool
	DeleteBuffer(buf BufferID) error
	SetBufferFiletype(buf BufferID, filetype string) error

	// Process operations.
	// Spawn attaches a pseudo-terminal process running argv to the buffer
	// and returns the process handle plus the job id for sending input.
	Spawn(buf BufferID, argv []string, cb Callbacks) (TermID, JobID, error)
	// JobAlive reports whether the job's process is still running.
	JobAlive(job JobID) bool
	SendKeys(job JobID, data string) error
	StopJob(job JobID) error
	// TranslateKey converts a logical keystroke name (e.g. KeyEnter) to
	// the raw bytes the process expects.
	TranslateKey(name string) string

	// StartInsert places the host in insert/input mode so keystrokes flow
	// to the focused terminal.
	StartInsert()

	// Notify reports a non-fatal condition to the user.
	Notify(level Level, msg string)
}
