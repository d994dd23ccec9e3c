//go:build unix || linux || darwin || freebsd || openbsd || netbsd

package term

import (
	"os"
	"os/exec"
	"syscall"
	"time"
)

// configureSessionCommand sets up the command for PTY usage on Unix systems:
// a new session with the PTY slave as controlling terminal, which shells
// like fish require.
func configureSessionCommand(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
		Ctty:    0, // stdin, which will be the PTY slave
	}
}

// triggerRedraw sends SIGWINCH so applications adapt to the new size. The
// small delay lets the PTY resize land before the signal arrives.
func (j *Job) triggerRedraw() {
	j.ioMu.RLock()
	cmd := j.cmd
	j.ioMu.RUnlock()
	if cmd == nil || cmd.Process == nil {
		return
	}

	go func() {
		time.Sleep(20 * time.Millisecond)

		j.ioMu.RLock()
		defer j.ioMu.RUnlock()
		if j.cmd != nil && j.cmd.Process != nil {
			_ = j.cmd.Process.Signal(os.Signal(syscall.SIGWINCH))
		}
	}()
}
