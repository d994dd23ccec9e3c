package term

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	xpty "github.com/charmbracelet/x/xpty"

	"github.com/EpsilonKu/fterm/internal/host"
)

// stopTimeout bounds how long Stop waits for the process to die.
const stopTimeout = 500 * time.Millisecond

// Job is a pseudo-terminal process attached to a buffer. Its output is
// copied into the buffer by a reader goroutine; a second goroutine waits for
// the process and reports the exit exactly once.
type Job struct {
	ID   host.JobID
	Term host.TermID

	buf    *Buffer
	pty    xpty.Pty
	cmd    *exec.Cmd
	cancel context.CancelFunc

	ioMu   sync.RWMutex
	exited atomic.Bool

	onStdout func(host.JobID, []string)
	onExit   func(host.ExitInfo)
}

// startJob spawns argv on a fresh PTY sized cols x rows and attaches its
// output to buf. onExit is invoked from the monitor goroutine when the
// process terminates.
func startJob(id host.JobID, termID host.TermID, buf *Buffer, argv []string, cols, rows int,
	onStdout func(host.JobID, []string), onExit func(host.ExitInfo),
) (*Job, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("spawn: empty command")
	}

	cols = max(cols, 1)
	rows = max(rows, 1)

	ptyInstance, err := xpty.NewPty(cols, rows)
	if err != nil {
		return nil, fmt.Errorf("spawn: %w", err)
	}

	termType, colorTerm := terminalEnv()

	// #nosec G204 - the command is intentionally user-controlled
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(),
		"TERM="+termType,
		"COLORTERM="+colorTerm,
		"FTERM=1",
	)
	configureSessionCommand(cmd)

	if err := ptyInstance.Start(cmd); err != nil {
		_ = ptyInstance.Close()
		return nil, fmt.Errorf("spawn %q: %w", argv[0], err)
	}

	// Some PTY implementations only accept a resize once the process runs.
	_ = ptyInstance.Resize(cols, rows)

	ctx, cancel := context.WithCancel(context.Background())

	j := &Job{
		ID:       id,
		Term:     termID,
		buf:      buf,
		pty:      ptyInstance,
		cmd:      cmd,
		cancel:   cancel,
		onStdout: onStdout,
		onExit:   onExit,
	}

	go j.readLoop(ctx)
	go j.monitor(ctx)

	return j, nil
}

func (j *Job) readLoop(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			_ = r
		}
	}()

	buf := make([]byte, 32*1024)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		j.ioMu.RLock()
		pty := j.pty
		j.ioMu.RUnlock()
		if pty == nil {
			return
		}

		n, err := pty.Read(buf)
		if n > 0 {
			data := buf[:n]
			_, _ = j.buf.Write(data)
			if j.onStdout != nil {
				lines := strings.Split(strings.TrimRight(string(data), "\r\n"), "\n")
				j.onStdout(j.ID, lines)
			}
		}
		if err != nil {
			if err != io.EOF &&
				!strings.Contains(err.Error(), "file already closed") &&
				!strings.Contains(err.Error(), "input/output error") {
				_ = err
			}
			return
		}
	}
}

func (j *Job) monitor(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			_ = r
		}
	}()

	_ = xpty.WaitProcess(ctx, j.cmd)

	if !j.exited.CompareAndSwap(false, true) {
		return
	}
	j.cancel()

	code := 0
	if state := j.cmd.ProcessState; state != nil {
		code = state.ExitCode()
	}
	if j.onExit != nil {
		j.onExit(host.ExitInfo{Job: j.ID, Code: code})
	}
}

// Write sends raw input to the process.
func (j *Job) Write(data []byte) error {
	j.ioMu.RLock()
	defer j.ioMu.RUnlock()

	if j.pty == nil {
		return fmt.Errorf("job %s: no PTY available", j.ID)
	}
	if len(data) == 0 {
		return nil
	}
	if _, err := j.pty.Write(data); err != nil {
		return fmt.Errorf("job %s: write: %w", j.ID, err)
	}
	return nil
}

// Resize resizes the PTY and nudges the process to redraw.
func (j *Job) Resize(cols, rows int) {
	j.ioMu.RLock()
	pty := j.pty
	j.ioMu.RUnlock()

	if pty == nil {
		return
	}
	_ = pty.Resize(max(cols, 1), max(rows, 1))
	j.triggerRedraw()
}

// Alive reports whether the process is still running.
func (j *Job) Alive() bool {
	return j != nil && !j.exited.Load()
}

// Stop terminates the process and releases the PTY. Best effort throughout:
// a process that is already gone is not an error, and the exit notification
// is suppressed since the stop was requested.
func (j *Job) Stop() {
	if j == nil {
		return
	}

	// Requested stops do not report an exit.
	j.exited.Store(true)

	if j.cancel != nil {
		j.cancel()
	}

	j.ioMu.Lock()
	defer j.ioMu.Unlock()

	if j.pty != nil {
		_ = j.pty.Close()
		j.pty = nil
	}

	if j.cmd != nil && j.cmd.Process != nil {
		done := make(chan struct{}, 1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					_ = r
				}
			}()
			_ = j.cmd.Process.Kill()
			_ = j.cmd.Wait()
			done <- struct{}{}
		}()

		select {
		case <-done:
		case <-time.After(stopTimeout):
		}
		j.cmd = nil
	}
}
