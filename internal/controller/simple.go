package controller

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	m "parity.dev/pkg/parity/internal/model"
)

// SimpleUI implements UI by printing lines to the command's output.
type SimpleUI struct {
	cmd *cobra.Command
	// mu serializes prints from concurrent workers.
	mu sync.Mutex
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayMessage prints a line.
func (s *SimpleUI) DisplayMessage(ctx context.Context, message string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s\n", message)
}

// DisplayRunInfo announces the run.
func (s *SimpleUI) DisplayRunInfo(ctx context.Context, info RunInfo) {
	if err := ctx.Err(); err != nil {
		return
	}

	workers := "one worker per case"
	if info.Parallel > 0 {
		workers = fmt.Sprintf("%d worker(s)", info.Parallel)
	}

	if info.Query != "" {
		s.printf("Running %d case(s) matching %q (max score %d) with %s\n", info.Cases, info.Query, info.MaxScore, workers)
		return
	}

	s.printf("Running %d case(s) (max score %d) with %s\n", info.Cases, info.MaxScore, workers)
}

// DisplayStartingCase shows that a case started.
func (s *SimpleUI) DisplayStartingCase(ctx context.Context, _ int, c m.Case) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Starting %s\n", c.Name)
}

// DisplayCompletedCase shows the verdict of a case as soon as it is known.
func (s *SimpleUI) DisplayCompletedCase(ctx context.Context, _ int, c m.Case, v m.Verdict) {
	if err := ctx.Err(); err != nil {
		return
	}

	if v.Passed {
		s.printf("Completed %s -> %s\n", c.Name, verdictLabel(true))
		return
	}

	s.printf("Completed %s -> %s: %s\n", c.Name, verdictLabel(false), v.Reason)
}

// DisplayReport prints the final result table.
func (s *SimpleUI) DisplayReport(ctx context.Context, table m.ResultTable, summary m.ScoreSummary, partition m.Partition) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderReport(table, summary, partition))

	return nil
}

// DisplayCatalog prints the cases of a catalog.
func (s *SimpleUI) DisplayCatalog(ctx context.Context, catalog m.Catalog) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s", renderCatalog(catalog))

	return nil
}

// DisplayHistory prints recorded runs, newest first.
func (s *SimpleUI) DisplayHistory(ctx context.Context, runs []m.RunRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s", renderHistory(runs))

	return nil
}

// DisplayRunResults prints the per-case rows of one recorded run.
func (s *SimpleUI) DisplayRunResults(ctx context.Context, runID string, results []m.CaseRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s", renderRunResults(runID, results))

	return nil
}

func (s *SimpleUI) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
