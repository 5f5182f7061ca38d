//go:build unix

package supervisor

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// setupProcessGroup configures the command to run in its own process group.
// This allows killing all child processes when the task is terminated.
func setupProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// interrupt sends SIGTERM to the task, and to its whole process group when
// group is set. Safe to call after the task has exited.
func interrupt(cmd *exec.Cmd, group bool) error {
	return signalTask(cmd, group, syscall.SIGTERM)
}

// terminate sends SIGKILL to the task, and to its whole process group when
// group is set. Safe to call after the task has exited.
func terminate(cmd *exec.Cmd, group bool) error {
	return signalTask(cmd, group, syscall.SIGKILL)
}

func signalTask(cmd *exec.Cmd, group bool, sig syscall.Signal) error {
	if cmd.Process == nil {
		return nil
	}

	if group {
		// With Setpgid the group id equals the leader's pid.
		if err := syscall.Kill(-cmd.Process.Pid, sig); err != nil && !errors.Is(err, syscall.ESRCH) {
			return err
		}
	}

	// Also signal the main process directly as a fallback
	if err := cmd.Process.Signal(sig); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
