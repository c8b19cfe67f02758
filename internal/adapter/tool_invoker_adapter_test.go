//go:build unix

package adapter

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	m "parity.dev/pkg/parity/internal/model"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))

	return path
}

// processAlive treats zombies as dead: an orphan may wait a while for init to
// reap it.
func processAlive(pid int) bool {
	if err := unix.Kill(pid, 0); errors.Is(err, unix.ESRCH) {
		return false
	}

	stat, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "stat"))
	if err != nil {
		return !errors.Is(err, os.ErrNotExist)
	}

	fields := strings.Fields(string(stat[bytes.LastIndexByte(stat, ')')+1:]))

	return len(fields) == 0 || fields[0] != "Z"
}

func TestLocalToolInvoker_Success(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "hello.sh", `echo hello; echo warn >&2`)

	out := NewLocalToolInvoker(0).Invoke(context.Background(), Invocation{
		Args:    []string{script},
		Dir:     dir,
		Timeout: 5 * time.Second,
	})

	assert.Equal(t, m.Success, out.Class)
	assert.Equal(t, 0, out.ExitCode)
	assert.Equal(t, "hello\n", string(out.Stdout))
	assert.Equal(t, "warn\n", string(out.Stderr))
	assert.Empty(t, out.Signal)
	assert.Empty(t, out.Err)
}

func TestLocalToolInvoker_CombineStderr(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "build.sh", `echo compiling; echo "error: boom" >&2; exit 1`)

	out := NewLocalToolInvoker(0).Invoke(context.Background(), Invocation{
		Args:          []string{script},
		Dir:           dir,
		CombineStderr: true,
	})

	assert.Equal(t, m.NonZeroExit, out.Class)
	assert.Equal(t, 1, out.ExitCode)
	assert.Equal(t, "compiling\nerror: boom\n", string(out.Stdout))
	assert.Empty(t, out.Stderr)
}

func TestLocalToolInvoker_RelativeProgramResolvedAgainstDir(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "tool.sh", `pwd`)

	out := NewLocalToolInvoker(0).Invoke(context.Background(), Invocation{
		Args: []string{"./tool.sh"},
		Dir:  dir,
	})

	require.Equal(t, m.Success, out.Class, out.Err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	got, err := filepath.EvalSymlinks(strings.TrimSpace(string(out.Stdout)))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLocalToolInvoker_TimeoutKillsProcessGroup(t *testing.T) {
	dir := t.TempDir()
	pidFile := filepath.Join(dir, "child.pid")
	script := writeScript(t, dir, "hang.sh", "sleep 30 &\necho $! > "+pidFile+"\nwait")

	start := time.Now()
	out := NewLocalToolInvoker(0).Invoke(context.Background(), Invocation{
		Args:    []string{script},
		Dir:     dir,
		Timeout: 300 * time.Millisecond,
	})

	assert.Equal(t, m.TimedOut, out.Class)
	assert.Less(t, time.Since(start), 10*time.Second)

	raw, err := os.ReadFile(pidFile)
	require.NoError(t, err)

	pid, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return !processAlive(pid) }, 5*time.Second, 50*time.Millisecond,
		"background child %d survived the timeout", pid)
}

func TestLocalToolInvoker_ExitedProcessWithHeldPipesIsNotTimedOut(t *testing.T) {
	tests := []struct {
		name      string
		exit      int
		wantClass m.OutcomeClass
	}{
		{name: "success", exit: 0, wantClass: m.Success},
		{name: "failure", exit: 3, wantClass: m.NonZeroExit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			script := writeScript(t, dir, "leak.sh", "sleep 30 &\necho done\nexit "+strconv.Itoa(tt.exit))

			invoker := NewLocalToolInvoker(0)
			invoker.waitDelay = 5 * time.Second

			start := time.Now()
			out := invoker.Invoke(context.Background(), Invocation{
				Args:    []string{script},
				Dir:     dir,
				Timeout: 300 * time.Millisecond,
			})

			assert.Equal(t, tt.wantClass, out.Class)
			assert.Equal(t, tt.exit, out.ExitCode)
			assert.Equal(t, "done\n", string(out.Stdout))
			assert.Less(t, time.Since(start), 5*time.Second, "the stage bound reaps the background child")
		})
	}
}

func TestLocalToolInvoker_ParentCancellation(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "hang.sh", `sleep 30`)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	out := NewLocalToolInvoker(0).Invoke(ctx, Invocation{Args: []string{script}, Dir: dir})

	assert.Equal(t, m.TimedOut, out.Class)
}

func TestLocalToolInvoker_SignalCrash(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "crash.sh", `echo partial; kill -SEGV $$`)

	out := NewLocalToolInvoker(0).Invoke(context.Background(), Invocation{
		Args: []string{script},
		Dir:  dir,
	})

	assert.Equal(t, m.NonZeroExit, out.Class)
	assert.Equal(t, 139, out.ExitCode)
	assert.Equal(t, "SIGSEGV", out.Signal)
	assert.True(t, out.Crashed())
	assert.Equal(t, "partial\n", string(out.Stdout))
}

func TestLocalToolInvoker_LaunchFailures(t *testing.T) {
	dir := t.TempDir()
	notExecutable := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(notExecutable, []byte("data"), 0o644))

	tests := []struct {
		name string
		args []string
	}{
		{name: "empty argument vector", args: nil},
		{name: "missing binary", args: []string{filepath.Join(dir, "missing")}},
		{name: "missing on PATH", args: []string{"parity-no-such-tool"}},
		{name: "permission denied", args: []string{notExecutable}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NewLocalToolInvoker(0).Invoke(context.Background(), Invocation{Args: tt.args, Dir: dir})

			assert.Equal(t, m.LaunchFailure, out.Class)
			assert.Equal(t, -1, out.ExitCode)
			assert.NotEmpty(t, out.Err)
		})
	}
}

func TestLocalToolInvoker_EffectiveTimeout(t *testing.T) {
	inv := NewLocalToolInvoker(time.Minute)

	assert.Equal(t, time.Minute, inv.effectiveTimeout(0))
	assert.Equal(t, time.Minute, inv.effectiveTimeout(time.Hour))
	assert.Equal(t, time.Second, inv.effectiveTimeout(time.Second))
	assert.Equal(t, DefaultProcessLimit, NewLocalToolInvoker(-1).processLimit)
}
