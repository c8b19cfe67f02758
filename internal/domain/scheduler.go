package domain

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	m "parity.dev/pkg/parity/internal/model"
)

// Observer is notified as cases start and complete. Calls arrive from worker
// goroutines, concurrently and in completion order.
type Observer interface {
	CaseStarted(index int, c m.Case)
	CaseCompleted(index int, c m.Case, v m.Verdict)
}

// Scheduler runs every case of a catalog and collects index-aligned results.
type Scheduler interface {
	Run(ctx context.Context, catalog m.Catalog, parallel int, observer Observer) (m.ResultTable, error)
}

type scheduler struct {
	runner PipelineRunner
}

// NewScheduler returns a Scheduler that drives cases through runner.
func NewScheduler(runner PipelineRunner) Scheduler {
	return &scheduler{runner: runner}
}

// Run starts one worker per case, at most parallel at a time when parallel is
// positive. Worker i writes only slot i, so no lock guards the results. Cases
// are independent: a failing case never cancels its siblings.
func (s *scheduler) Run(ctx context.Context, catalog m.Catalog, parallel int, observer Observer) (m.ResultTable, error) {
	if observer == nil {
		observer = noopObserver{}
	}

	verdicts := make([]m.Verdict, catalog.Len())

	var group errgroup.Group
	if parallel > 0 {
		group.SetLimit(parallel)
	}

	for i := range catalog.Len() {
		c := catalog.At(i)

		group.Go(func() error {
			verdicts[i] = s.runOne(ctx, i, c, observer)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return m.ResultTable{}, fmt.Errorf("run cases: %w", err)
	}

	return m.NewResultTable(catalog, verdicts)
}

func (s *scheduler) runOne(ctx context.Context, index int, c m.Case, observer Observer) (verdict m.Verdict) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Worker panicked", "case", c.Name, "panic", r)
			verdict = m.NewVerdict(c.Name, []m.StageResult{m.Fail(m.StageClean, m.FaultHarness, ReasonWorkerPanicked, 0)})
		}
	}()

	observer.CaseStarted(index, c)

	verdict = s.runner.RunCase(ctx, c)

	observer.CaseCompleted(index, c, verdict)

	return verdict
}

type noopObserver struct{}

func (noopObserver) CaseStarted(int, m.Case)            {}
func (noopObserver) CaseCompleted(int, m.Case, m.Verdict) {}
