package term

import (
	"strings"
	"testing"
)

func TestBufferWriteSplitsLines(t *testing.T) {
	b := newBuffer("b1")
	_, _ = b.Write([]byte("one\ntwo\r\nthree"))

	if b.Len() != 2 {
		t.Fatalf("expected 2 completed lines, got %d", b.Len())
	}
	got := b.Tail(0)
	want := []string{"one", "two", "three"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: want %q, got %q", i, want[i], got[i])
		}
	}
}

func TestBufferStripsEscapes(t *testing.T) {
	b := newBuffer("b1")
	_, _ = b.Write([]byte("\x1b[31mred\x1b[0m text\n"))

	got := b.Tail(1)
	if len(got) != 1 || got[0] != "red text" {
		t.Errorf("expected escapes stripped, got %v", got)
	}
}

func TestBufferCarriageReturnRewritesLine(t *testing.T) {
	b := newBuffer("b1")
	_, _ = b.Write([]byte("progress 10%\rprogress 99%"))

	got := b.Tail(0)
	if len(got) != 1 || got[0] != "progress 99%" {
		t.Errorf("expected CR to rewrite the line, got %v", got)
	}
}

func TestBufferBackspace(t *testing.T) {
	b := newBuffer("b1")
	_, _ = b.Write([]byte("lss\b\n"))

	got := b.Tail(1)
	if len(got) != 1 || got[0] != "ls" {
		t.Errorf("expected backspace applied, got %v", got)
	}
}

func TestBufferTailWindow(t *testing.T) {
	b := newBuffer("b1")
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString("line\n")
	}
	_, _ = b.Write([]byte(sb.String()))

	if got := b.Tail(10); len(got) != 10 {
		t.Errorf("expected 10 lines, got %d", len(got))
	}
	if got := b.Tail(100); len(got) != 50 {
		t.Errorf("expected all 50 lines, got %d", len(got))
	}
}

func TestBufferScrollbackBound(t *testing.T) {
	b := newBuffer("b1")
	b.maxLines = 5
	for i := 0; i < 20; i++ {
		_, _ = b.Write([]byte("x\n"))
	}
	if b.Len() != 5 {
		t.Errorf("expected scrollback capped at 5, got %d", b.Len())
	}
}

func TestBufferInvalidate(t *testing.T) {
	b := newBuffer("b1")
	_, _ = b.Write([]byte("data\n"))
	if !b.Valid() {
		t.Fatal("fresh buffer should be valid")
	}

	b.invalidate()
	if b.Valid() {
		t.Error("invalidated buffer still valid")
	}
	if b.Len() != 0 {
		t.Error("invalidated buffer kept its lines")
	}
}
