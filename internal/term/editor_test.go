package term

import (
	"testing"

	"github.com/EpsilonKu/fterm/internal/host"
)

func TestEditorStartsWithRootWindow(t *testing.T) {
	e := NewEditor(100, 40)

	root := e.CurrentWindow()
	if root == "" || !e.WindowValid(root) {
		t.Fatal("expected a valid root window")
	}
	cols, rows := e.ScreenSize()
	if cols != 100 || rows != 40 {
		t.Errorf("expected 100x40 screen, got %dx%d", cols, rows)
	}
}

func TestEditorHandleValidity(t *testing.T) {
	e := NewEditor(80, 24)

	if e.WindowValid("") || e.BufferValid("") || e.JobAlive("") {
		t.Error("empty handles must be invalid, not errors")
	}
	if e.WindowValid("gone") || e.BufferValid("gone") || e.JobAlive("gone") {
		t.Error("unknown handles must be invalid")
	}
}

func TestEditorWindowLifecycle(t *testing.T) {
	e := NewEditor(80, 24)
	root := e.CurrentWindow()

	buf, err := e.CreateBuffer()
	if err != nil {
		t.Fatalf("CreateBuffer failed: %v", err)
	}
	win, err := e.OpenWindow(buf, host.WindowOptions{
		Geometry: host.Geometry{Width: 40, Height: 10, Row: 2, Col: 2},
	})
	if err != nil {
		t.Fatalf("OpenWindow failed: %v", err)
	}

	if e.CurrentWindow() != win {
		t.Error("OpenWindow should focus the new window")
	}
	if e.PreviousWindowOrdinal() != 1 {
		t.Errorf("expected previous ordinal 1 (root), got %d", e.PreviousWindowOrdinal())
	}

	if err := e.CloseWindow(win); err != nil {
		t.Fatalf("CloseWindow failed: %v", err)
	}
	if e.WindowValid(win) {
		t.Error("closed window still valid")
	}
	if e.CurrentWindow() != root {
		t.Error("closing the focused window should fall back to the previous one")
	}

	// Closing again must stay silent.
	if err := e.CloseWindow(win); err != nil {
		t.Errorf("double close errored: %v", err)
	}
}

func TestEditorOpenWindowRejectsInvalidBuffer(t *testing.T) {
	e := NewEditor(80, 24)
	if _, err := e.OpenWindow("nope", host.WindowOptions{}); err == nil {
		t.Fatal("expected an error for an invalid buffer")
	}
}

func TestEditorFocusOrdinal(t *testing.T) {
	e := NewEditor(80, 24)
	buf, _ := e.CreateBuffer()
	win, _ := e.OpenWindow(buf, host.WindowOptions{})

	if err := e.FocusOrdinal(1); err != nil {
		t.Fatalf("FocusOrdinal(1) failed: %v", err)
	}
	if e.CurrentWindow() == win {
		t.Error("expected focus on the root window")
	}

	if err := e.FocusOrdinal(0); err == nil {
		t.Error("expected an error for ordinal 0")
	}
	if err := e.FocusOrdinal(9); err == nil {
		t.Error("expected an error for an out-of-range ordinal")
	}
}

func TestEditorCursorRoundTrip(t *testing.T) {
	e := NewEditor(80, 24)
	root := e.CurrentWindow()

	pos := host.CursorPos{Row: 12, Col: 7}
	if err := e.SetCursor(root, pos); err != nil {
		t.Fatalf("SetCursor failed: %v", err)
	}
	got, err := e.Cursor(root)
	if err != nil {
		t.Fatalf("Cursor failed: %v", err)
	}
	if got != pos {
		t.Errorf("expected %+v, got %+v", pos, got)
	}

	if _, err := e.Cursor("gone"); err == nil {
		t.Error("expected an error for a stale window")
	}
}

func TestEditorBufferLifecycle(t *testing.T) {
	e := NewEditor(80, 24)

	buf, err := e.CreateBuffer()
	if err != nil {
		t.Fatalf("CreateBuffer failed: %v", err)
	}
	if !e.BufferValid(buf) {
		t.Fatal("new buffer should be valid")
	}

	if err := e.SetBufferFiletype(buf, "fterm"); err != nil {
		t.Fatalf("SetBufferFiletype failed: %v", err)
	}
	b, ok := e.BufferByID(buf)
	if !ok || b.Filetype() != "fterm" {
		t.Error("filetype not stored")
	}

	if err := e.DeleteBuffer(buf); err != nil {
		t.Fatalf("DeleteBuffer failed: %v", err)
	}
	if e.BufferValid(buf) {
		t.Error("deleted buffer still valid")
	}
	if err := e.DeleteBuffer(buf); err != nil {
		t.Errorf("double delete errored: %v", err)
	}
}

func TestEditorInsertMode(t *testing.T) {
	e := NewEditor(80, 24)
	buf, _ := e.CreateBuffer()
	win, _ := e.OpenWindow(buf, host.WindowOptions{})

	e.StartInsert()
	if !e.InsertMode() {
		t.Fatal("expected insert mode on")
	}

	// Closing the focused window drops insert mode.
	_ = e.CloseWindow(win)
	if e.InsertMode() {
		t.Error("insert mode survived window close")
	}
}

func TestEditorTranslateKey(t *testing.T) {
	e := NewEditor(80, 24)
	if got := e.TranslateKey(host.KeyEnter); got != "\r" {
		t.Errorf("expected carriage return, got %q", got)
	}
	if got := e.TranslateKey("no-such-key"); got != "" {
		t.Errorf("expected empty translation, got %q", got)
	}
}

func TestEditorNotices(t *testing.T) {
	e := NewEditor(80, 24)

	if _, ok := e.LastNotice(); ok {
		t.Fatal("expected no notices initially")
	}
	e.Notify(host.LevelWarn, "first")
	e.Notify(host.LevelError, "second")

	n, ok := e.LastNotice()
	if !ok || n.Msg != "second" || n.Level != host.LevelError {
		t.Errorf("unexpected last notice: %+v ok=%v", n, ok)
	}
}

func TestEditorStopUnknownJob(t *testing.T) {
	e := NewEditor(80, 24)
	if err := e.StopJob("gone"); err != nil {
		t.Errorf("stopping an unknown job should be a no-op, got %v", err)
	}
}
