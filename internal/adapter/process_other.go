//go:build !unix

package adapter

import (
	"errors"
	"os"
	"os/exec"
)

func configureProcessGroup(_ *exec.Cmd) {}

func killProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}

	err := cmd.Process.Kill()
	if err == nil || errors.Is(err, os.ErrProcessDone) {
		return nil
	}

	return err
}

// killedByHarness cannot tell a kill from a normal exit here.
func killedByHarness(_ *os.ProcessState) bool {
	return true
}

func exitStatus(state *os.ProcessState) (int, string) {
	return state.ExitCode(), ""
}
