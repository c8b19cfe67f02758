package controller

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "parity.dev/pkg/parity/internal/model"
)

func newBufferedSimpleUI() (*SimpleUI, *bytes.Buffer) {
	var buf bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	return NewSimpleUI(cmd), &buf
}

func TestSimpleUI_DisplayReport(t *testing.T) {
	ui, buf := newBufferedSimpleUI()
	table, summary, partition := reportFixture(t)

	require.NoError(t, ui.DisplayReport(context.Background(), table, summary, partition))

	output := buf.String()
	for _, want := range []string{
		"test1", "Simple Hello Program", "1 of   1", "PASS",
		"fact", "FAIL", "stdout did not match",
		"reference toolchain failed to build source [defective]",
		"Passed: 1  Failed: 2  (defective: 1)",
		"Total: 1 of 7",
	} {
		assert.Contains(t, output, want)
	}

	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	assert.Contains(t, lines[len(lines)-1], "Total: 1 of 7")
}

func TestSimpleUI_DisplayReportMarksOnlyPartitionedDefects(t *testing.T) {
	ui, buf := newBufferedSimpleUI()
	table, summary, partition := reportFixture(t)

	partition.CandidateFailures = append(partition.CandidateFailures, partition.Defective...)
	partition.Defective = nil

	require.NoError(t, ui.DisplayReport(context.Background(), table, summary, partition))

	output := buf.String()
	assert.NotContains(t, output, "[defective]")
	assert.NotContains(t, output, "(defective:")
	assert.Contains(t, output, "Passed: 1  Failed: 2\n")
}

func TestSimpleUI_RunProgress(t *testing.T) {
	ui, buf := newBufferedSimpleUI()
	ctx := context.Background()
	c := m.Case{Name: "fact", Weight: 3}

	ui.DisplayRunInfo(ctx, RunInfo{Cases: 1, MaxScore: 3, Parallel: 2, Query: "fac"})
	ui.DisplayStartingCase(ctx, 0, c)
	ui.DisplayCompletedCase(ctx, 0, c, m.NewVerdict("fact", []m.StageResult{
		m.Fail(m.StageRunCandidate, m.FaultCandidate, "candidate executable timed out", time.Second),
	}))

	output := buf.String()
	assert.Contains(t, output, `Running 1 case(s) matching "fac" (max score 3) with 2 worker(s)`)
	assert.Contains(t, output, "Starting fact")
	assert.Contains(t, output, "candidate executable timed out")
}

func TestSimpleUI_ConcurrentPrintsDoNotInterleave(t *testing.T) {
	ui, buf := newBufferedSimpleUI()
	ctx := context.Background()

	var wg sync.WaitGroup

	for i := range 50 {
		wg.Add(1)

		go func() {
			defer wg.Done()
			ui.DisplayStartingCase(ctx, i, m.Case{Name: "case"})
		}()
	}

	wg.Wait()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 50)

	for _, line := range lines {
		assert.Equal(t, "Starting case", line)
	}
}

func TestSimpleUI_Listings(t *testing.T) {
	ui, buf := newBufferedSimpleUI()
	ctx := context.Background()

	catalog, err := m.NewCatalog(
		m.Case{Name: "fact", Weight: 3, Description: "Test factorial", BuiltIn: true},
		m.Case{Name: "fib", Description: "user supplied"},
	)
	require.NoError(t, err)

	require.NoError(t, ui.DisplayCatalog(ctx, catalog))
	assert.Contains(t, buf.String(), "additional")
	assert.Contains(t, buf.String(), "2 cases")

	buf.Reset()
	require.NoError(t, ui.DisplayHistory(ctx, nil))
	assert.Equal(t, "No runs recorded\n", buf.String())

	buf.Reset()

	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, ui.DisplayHistory(ctx, []m.RunRecord{{
		ID: "abc", StartedAt: started, FinishedAt: started.Add(1500 * time.Millisecond),
		User: "alice", Query: "fact", Total: 3, Max: 3, Cases: 1, Passed: 1,
	}}))
	assert.Contains(t, buf.String(), "abc")
	assert.Contains(t, buf.String(), "1.5s")
	assert.Contains(t, buf.String(), "3 of 3")

	buf.Reset()
	require.NoError(t, ui.DisplayRunResults(ctx, "abc", []m.CaseRecord{
		{Name: "fact", Weight: 3, Passed: false, Reason: "stdout did not match", Fault: "candidate"},
	}))
	assert.Contains(t, buf.String(), "Run abc")
	assert.Contains(t, buf.String(), "stdout did not match")
}

func TestSimpleUI_CancelledContext(t *testing.T) {
	ui, buf := newBufferedSimpleUI()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, ui.Start(ctx))
	ui.DisplayMessage(ctx, "hidden")
	assert.Empty(t, buf.String())
}
