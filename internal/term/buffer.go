package term

import (
	"strings"
	"sync"

	"github.com/EpsilonKu/fterm/internal/host"
	"github.com/charmbracelet/x/ansi"
)

// DefaultScrollbackLines bounds the per-buffer scrollback.
const DefaultScrollbackLines = 10000

// Buffer is a scratch buffer a terminal process renders into. Output is
// stored as plain text lines with escape sequences stripped; the PTY read
// loop writes while the UI thread reads, so access is mutex protected.
type Buffer struct {
	ID host.BufferID

	mu       sync.RWMutex
	filetype string
	lines    []string
	partial  string
	maxLines int
	valid    bool
}

func newBuffer(id host.BufferID) *Buffer {
	return &Buffer{
		ID:       id,
		maxLines: DefaultScrollbackLines,
		valid:    true,
	}
}

// Write appends process output to the buffer, splitting it into lines.
// Always reports the full length as written.
func (b *Buffer) Write(p []byte) (int, error) {
	text := ansi.Strip(string(p))
	text = strings.ReplaceAll(text, "\r\n", "\n")

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, r := range text {
		switch r {
		case '\n':
			b.appendLine(b.partial)
			b.partial = ""
		case '\r':
			// Carriage return rewrites the current line.
			b.partial = ""
		case '\b':
			if b.partial != "" {
				b.partial = b.partial[:len(b.partial)-1]
			}
		default:
			b.partial += string(r)
		}
	}
	return len(p), nil
}

func (b *Buffer) appendLine(line string) {
	b.lines = append(b.lines, line)
	if len(b.lines) > b.maxLines {
		b.lines = b.lines[len(b.lines)-b.maxLines:]
	}
}

// Tail returns the last n display lines, including the unterminated line
// currently being written.
func (b *Buffer) Tail(n int) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	lines := b.lines
	if b.partial != "" {
		lines = append(append([]string(nil), lines...), b.partial)
	}
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return append([]string(nil), lines...)
}

// Len returns the number of completed lines in the buffer.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

// Filetype returns the buffer's filetype tag.
func (b *Buffer) Filetype() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.filetype
}

func (b *Buffer) setFiletype(ft string) {
	b.mu.Lock()
	b.filetype = ft
	b.mu.Unlock()
}

// Valid reports whether the buffer still exists.
func (b *Buffer) Valid() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.valid
}

func (b *Buffer) invalidate() {
	b.mu.Lock()
	b.valid = false
	b.lines = nil
	b.partial = ""
	b.mu.Unlock()
}
