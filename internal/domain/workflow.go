package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"parity.dev/pkg/parity/internal/adapter"
	"parity.dev/pkg/parity/internal/controller"
	m "parity.dev/pkg/parity/internal/model"
)

// ErrPrepareFailed is returned when a prepare command does not succeed.
var ErrPrepareFailed = errors.New("prepare command failed")

// ErrInterrupted is returned when the run was cancelled before completion.
var ErrInterrupted = errors.New("run interrupted")

// CorpusArgs locates the corpus and its catalog.
type CorpusArgs struct {
	Dir       m.Path
	SourceExt string
	Catalog   adapter.CatalogSource
}

// TestArgs contains the arguments for a harness run.
type TestArgs struct {
	Corpus CorpusArgs
	// Query filters cases by fuzzy match; empty runs the full catalog.
	Query     string
	Toolchain m.Toolchain
	// Prepare commands run in PrepareDir before any case, e.g. building the
	// candidate toolchain.
	Prepare    [][]string
	PrepareDir string
	// Parallel bounds concurrent cases; zero or less starts one worker per case.
	Parallel int
	// Summary is written after full runs only. Empty disables it.
	Summary m.Path
	// History is the run ledger. Empty disables recording.
	History m.Path
}

// ListArgs contains the arguments for listing cases.
type ListArgs struct {
	Corpus CorpusArgs
	Query  string
}

// HistoryArgs contains the arguments for showing the run ledger.
type HistoryArgs struct {
	History m.Path
	Limit   int
	// RunID selects a single run to show case by case.
	RunID string
}

// Workflow defines the harness operations exposed to the CLI.
type Workflow interface {
	Test(ctx context.Context, args TestArgs) error
	List(ctx context.Context, args ListArgs) error
	History(ctx context.Context, args HistoryArgs) error
}

// HistoryOpener opens the run ledger at a path.
type HistoryOpener func(ctx context.Context, path m.Path) (adapter.HistoryStore, error)

// OpenSQLiteHistory is the default HistoryOpener.
func OpenSQLiteHistory(ctx context.Context, path m.Path) (adapter.HistoryStore, error) {
	return adapter.OpenHistoryStore(ctx, path)
}

type workflow struct {
	adapter.CatalogLoader
	adapter.RunLocker
	adapter.ToolInvoker
	adapter.ToolResolver
	adapter.SummaryStore
	controller.UI

	fs          afero.Fs
	openHistory HistoryOpener
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fs afero.Fs,
	catalogLoader adapter.CatalogLoader,
	runLocker adapter.RunLocker,
	invoker adapter.ToolInvoker,
	resolver adapter.ToolResolver,
	summaryStore adapter.SummaryStore,
	openHistory HistoryOpener,
	ui controller.UI,
) Workflow {
	return &workflow{
		CatalogLoader: catalogLoader,
		RunLocker:     runLocker,
		ToolInvoker:   invoker,
		ToolResolver:  resolver,
		SummaryStore:  summaryStore,
		UI:            ui,
		fs:            fs,
		openHistory:   openHistory,
	}
}

func (w *workflow) Test(ctx context.Context, args TestArgs) error {
	// Reports must still be shown after the run was interrupted.
	uiCtx := context.WithoutCancel(ctx)

	catalog, ok, err := w.selectCases(ctx, args.Corpus, args.Query)
	if err != nil || !ok {
		return err
	}

	release, err := w.Acquire(args.Corpus.Dir)
	if err != nil {
		return fmt.Errorf("lock corpus: %w", err)
	}

	defer func() {
		if err := release(); err != nil {
			slog.Error("Failed to release corpus lock", "dir", args.Corpus.Dir, "error", err)
		}
	}()

	if err := w.prepare(ctx, uiCtx, args); err != nil {
		return err
	}

	if err := w.preflight(args); err != nil {
		return err
	}

	store, err := adapter.NewArtifactStore(w.fs, args.Corpus.Dir, adapter.ArtifactLayout{
		SourceExt:          args.Corpus.SourceExt,
		IntermediateSuffix: args.Toolchain.CandidateSuffix,
	})
	if err != nil {
		return fmt.Errorf("artifact store: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := w.Start(uiCtx, controller.WithRunMode(), controller.WithInterrupt(cancel)); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}
	defer w.Close(uiCtx)

	w.DisplayRunInfo(uiCtx, controller.RunInfo{
		Cases:    catalog.Len(),
		MaxScore: catalog.MaxScore(),
		Parallel: args.Parallel,
		Query:    args.Query,
	})

	startedAt := time.Now()

	table, err := NewScheduler(NewPipelineRunner(w.ToolInvoker, store, args.Toolchain)).
		Run(runCtx, catalog, args.Parallel, &uiObserver{ctx: uiCtx, ui: w.UI})
	if err != nil {
		return fmt.Errorf("schedule cases: %w", err)
	}

	finishedAt := time.Now()
	summary := Score(table)

	if err := w.DisplayReport(uiCtx, table, summary, PartitionResults(table)); err != nil {
		slog.Error("Failed to display report", "error", err)
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(uiCtx)

	if runCtx.Err() != nil {
		return fmt.Errorf("%w: results were not persisted", ErrInterrupted)
	}

	if args.Query == "" && args.Summary != "" {
		if err := w.SaveSummary(args.Summary, table, summary); err != nil {
			return fmt.Errorf("save summary: %w", err)
		}
	}

	if args.History != "" {
		run := m.RunRecord{
			ID:         uuid.NewString(),
			StartedAt:  startedAt,
			FinishedAt: finishedAt,
			User:       os.Getenv("USER"),
			Query:      args.Query,
			Total:      summary.Total,
			Max:        summary.Max,
			Cases:      table.Len(),
			Passed:     summary.Passed,
		}

		if err := w.record(ctx, args.History, run, table); err != nil {
			return fmt.Errorf("record run: %w", err)
		}
	}

	return nil
}

func (w *workflow) List(ctx context.Context, args ListArgs) error {
	catalog, ok, err := w.selectCases(ctx, args.Corpus, args.Query)
	if err != nil || !ok {
		return err
	}

	if err := w.Start(ctx, controller.WithBrowseMode()); err != nil {
		return err
	}
	defer w.Close(ctx)

	if err := w.DisplayCatalog(ctx, catalog); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	return nil
}

func (w *workflow) History(ctx context.Context, args HistoryArgs) error {
	if args.History == "" {
		return errors.New("history is disabled: set history.path")
	}

	store, err := w.openHistory(ctx, args.History)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}

	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("Failed to close history", "path", args.History, "error", err)
		}
	}()

	if err := w.Start(ctx, controller.WithBrowseMode()); err != nil {
		return err
	}
	defer w.Close(ctx)

	if args.RunID != "" {
		results, err := store.Results(ctx, args.RunID)
		if err != nil {
			return fmt.Errorf("load run: %w", err)
		}

		return w.DisplayRunResults(ctx, args.RunID, results)
	}

	runs, err := store.List(ctx, args.Limit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	return w.DisplayHistory(ctx, runs)
}

// selectCases loads the catalog and applies the query. It reports false when
// the query matched nothing; that is not an error.
func (w *workflow) selectCases(ctx context.Context, corpus CorpusArgs, query string) (m.Catalog, bool, error) {
	catalog, err := w.Load(ctx, corpus.Catalog)
	if err != nil {
		slog.Error("Failed to load catalog", "error", err)
		return m.Catalog{}, false, fmt.Errorf("load catalog: %w", err)
	}

	if query == "" {
		return catalog, true, nil
	}

	filtered := FilterCatalog(catalog, query)
	slog.Debug("Filtered catalog", "query", query, "matched", filtered.Len(), "of", catalog.Len())

	if filtered.Len() == 0 {
		w.DisplayMessage(context.WithoutCancel(ctx), fmt.Sprintf("No tests found matching: %s", query))
		return m.Catalog{}, false, nil
	}

	return filtered, true, nil
}

func (w *workflow) prepare(ctx, uiCtx context.Context, args TestArgs) error {
	for _, argv := range args.Prepare {
		outcome := w.Invoke(ctx, adapter.Invocation{
			Args:          argv,
			Dir:           args.PrepareDir,
			CombineStderr: true,
		})

		if outcome.Class == m.Success {
			continue
		}

		if len(outcome.Stdout) > 0 {
			w.DisplayMessage(uiCtx, string(outcome.Stdout))
		}

		detail := outcome.Class.String()
		if outcome.Err != "" {
			detail = outcome.Err
		} else if outcome.Class == m.NonZeroExit {
			detail = fmt.Sprintf("exit code %d", outcome.ExitCode)
		}

		return fmt.Errorf("%w: %q: %s", ErrPrepareFailed, argv, detail)
	}

	return nil
}

func (w *workflow) preflight(args TestArgs) error {
	dir := string(args.Corpus.Dir)

	for _, template := range []m.CommandTemplate{args.Toolchain.Reference, args.Toolchain.Candidate} {
		if _, err := w.LookupTool(template.Program(), dir); err != nil {
			return fmt.Errorf("preflight: %w", err)
		}
	}

	return nil
}

func (w *workflow) record(ctx context.Context, path m.Path, run m.RunRecord, table m.ResultTable) error {
	store, err := w.openHistory(ctx, path)
	if err != nil {
		return err
	}

	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("Failed to close history", "path", path, "error", err)
		}
	}()

	return store.Record(ctx, run, table)
}

// uiObserver forwards scheduler events to the UI.
type uiObserver struct {
	ctx context.Context
	ui  controller.UI
}

func (o *uiObserver) CaseStarted(index int, c m.Case) {
	o.ui.DisplayStartingCase(o.ctx, index, c)
}

func (o *uiObserver) CaseCompleted(index int, c m.Case, v m.Verdict) {
	o.ui.DisplayCompletedCase(o.ctx, index, c, v)
}
