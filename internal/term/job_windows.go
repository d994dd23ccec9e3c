//go:build windows

package term

import "os/exec"

// configureSessionCommand is a no-op on Windows; ConPTY handles session
// setup itself.
func configureSessionCommand(cmd *exec.Cmd) {}

// triggerRedraw is a no-op on Windows; ConPTY propagates resizes on its own.
func (j *Job) triggerRedraw() {}
