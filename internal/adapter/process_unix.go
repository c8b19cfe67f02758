//go:build unix

package adapter

import (
	"errors"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"

	m "parity.dev/pkg/parity/internal/model"
)

func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcessGroup sends SIGKILL to every process in the command's group.
func killProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}

	err := unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
	if err == nil || errors.Is(err, unix.ESRCH) {
		return nil
	}

	return err
}

// killedByHarness reports whether the process ended from the group SIGKILL.
func killedByHarness(state *os.ProcessState) bool {
	ws, ok := state.Sys().(syscall.WaitStatus)

	return !ok || (ws.Signaled() && ws.Signal() == unix.SIGKILL)
}

// exitStatus reports 128+signal for signal-terminated processes.
func exitStatus(state *os.ProcessState) (int, string) {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return m.SignalExitBase + int(ws.Signal()), unix.SignalName(ws.Signal())
	}

	return state.ExitCode(), ""
}
