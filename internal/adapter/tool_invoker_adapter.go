package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	m "parity.dev/pkg/parity/internal/model"
)

// DefaultProcessLimit caps every invocation, including the ones that have no
// stage timeout of their own.
const DefaultProcessLimit = 10 * time.Minute

// defaultWaitDelay bounds how long Wait keeps reading pipes that an escaped
// grandchild still holds open after the main process exited.
const defaultWaitDelay = 2 * time.Second

// Invocation describes one external command to run.
type Invocation struct {
	// Args is the argument vector; Args[0] is the program.
	Args []string
	// Dir is the working directory of the process.
	Dir string
	// Timeout bounds the wall-clock time. Zero means the process limit applies.
	Timeout time.Duration
	// CombineStderr merges stderr into the captured stdout.
	CombineStderr bool
}

// ToolInvoker runs external commands and classifies how they ended.
type ToolInvoker interface {
	// Invoke runs the command to completion or until its time bound expires.
	// It never returns an error: every failure is expressed in the outcome.
	Invoke(ctx context.Context, inv Invocation) m.ToolOutcome
}

// LocalToolInvoker runs commands with os/exec in their own process group.
type LocalToolInvoker struct {
	processLimit time.Duration
	waitDelay    time.Duration
}

// NewLocalToolInvoker constructs a LocalToolInvoker. A non-positive limit
// falls back to DefaultProcessLimit.
func NewLocalToolInvoker(processLimit time.Duration) *LocalToolInvoker {
	if processLimit <= 0 {
		processLimit = DefaultProcessLimit
	}

	return &LocalToolInvoker{
		processLimit: processLimit,
		waitDelay:    defaultWaitDelay,
	}
}

// Invoke runs inv and returns its outcome.
func (a *LocalToolInvoker) Invoke(ctx context.Context, inv Invocation) m.ToolOutcome {
	start := time.Now()

	if len(inv.Args) == 0 {
		return launchFailure(errors.New("empty argument vector"), start)
	}

	program, err := resolveProgram(inv.Args[0], inv.Dir)
	if err != nil {
		return launchFailure(err, start)
	}

	runCtx, cancel := context.WithTimeout(ctx, a.effectiveTimeout(inv.Timeout))
	defer cancel()

	// #nosec G204 - argument vectors come from the harness configuration, never a shell
	cmd := exec.Command(program, inv.Args[1:]...)
	cmd.Dir = inv.Dir
	cmd.WaitDelay = a.waitDelay
	configureProcessGroup(cmd)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	if inv.CombineStderr {
		cmd.Stderr = &stdout
	} else {
		cmd.Stderr = &stderr
	}

	if err := cmd.Start(); err != nil {
		slog.Debug("Failed to launch command", "args", inv.Args, "dir", inv.Dir, "error", err)
		return launchFailure(err, start)
	}

	done := make(chan error, 1)

	go func() {
		done <- cmd.Wait()
	}()

	timedOut := false

	var waitErr error

	select {
	case waitErr = <-done:
	case <-runCtx.Done():
		if err := killProcessGroup(cmd); err != nil {
			slog.Error("Failed to kill timed out process group", "args", inv.Args, "pid", cmd.Process.Pid, "error", err)
		}

		waitErr = <-done

		// The main process may have exited on its own while Wait was still
		// draining pipes held open by a background child.
		timedOut = cmd.ProcessState == nil || killedByHarness(cmd.ProcessState)
	}

	// Reap anything the process left running in its group.
	if err := killProcessGroup(cmd); err != nil {
		slog.Warn("Failed to reap process group", "args", inv.Args, "pid", cmd.Process.Pid, "error", err)
	}

	outcome := m.ToolOutcome{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	if cmd.ProcessState != nil {
		outcome.ExitCode, outcome.Signal = exitStatus(cmd.ProcessState)
	}

	switch {
	case timedOut:
		outcome.Class = m.TimedOut
		slog.Debug("Command timed out", "args", inv.Args, "after", outcome.Duration)
	case cmd.ProcessState == nil:
		outcome.Class = m.LaunchFailure
		outcome.Err = errorText(waitErr)
	case outcome.ExitCode == 0 && (waitErr == nil || errors.Is(waitErr, exec.ErrWaitDelay)):
		outcome.Class = m.Success
	default:
		outcome.Class = m.NonZeroExit
	}

	return outcome
}

func (a *LocalToolInvoker) effectiveTimeout(timeout time.Duration) time.Duration {
	if timeout <= 0 || timeout > a.processLimit {
		return a.processLimit
	}

	return timeout
}

func launchFailure(err error, start time.Time) m.ToolOutcome {
	return m.ToolOutcome{
		Class:    m.LaunchFailure,
		ExitCode: -1,
		Err:      errorText(err),
		Duration: time.Since(start),
	}
}

func errorText(err error) string {
	if err == nil {
		return ""
	}

	return err.Error()
}

// resolveProgram makes a relative program path that contains a separator
// absolute with respect to dir. Bare names are left for PATH lookup.
func resolveProgram(name, dir string) (string, error) {
	if filepath.IsAbs(name) || !hasPathSeparator(name) || dir == "" {
		return name, nil
	}

	abs, err := filepath.Abs(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("resolve %s relative to %s: %w", name, dir, err)
	}

	return abs, nil
}

func hasPathSeparator(name string) bool {
	return strings.ContainsRune(name, '/') || strings.ContainsRune(name, os.PathSeparator)
}
