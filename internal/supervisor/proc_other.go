//go:build !unix

package supervisor

import (
	"errors"
	"os"
	"os/exec"
)

// setupProcessGroup is a no-op where process groups are not available.
func setupProcessGroup(*exec.Cmd) {}

// interrupt kills the task process; there is no portable stop request.
func interrupt(cmd *exec.Cmd, group bool) error {
	return terminate(cmd, group)
}

// terminate kills the task process. Safe to call after the task has exited.
func terminate(cmd *exec.Cmd, _ bool) error {
	if cmd.Process == nil {
		return nil
	}
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
