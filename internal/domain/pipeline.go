package domain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"parity.dev/pkg/parity/internal/adapter"
	m "parity.dev/pkg/parity/internal/model"
)

// PipelineRunner drives one case through its stages and renders a verdict.
// It never returns an error: every failure ends up in the verdict.
type PipelineRunner interface {
	RunCase(ctx context.Context, c m.Case) m.Verdict
}

type pipelineRunner struct {
	invoker   adapter.ToolInvoker
	store     adapter.ArtifactStore
	toolchain m.Toolchain
}

// NewPipelineRunner constructs a PipelineRunner. All commands run inside the
// store directory and refer to artifacts by their base names.
func NewPipelineRunner(invoker adapter.ToolInvoker, store adapter.ArtifactStore, toolchain m.Toolchain) PipelineRunner {
	return &pipelineRunner{
		invoker:   invoker,
		store:     store,
		toolchain: toolchain,
	}
}

// caseRun carries the state shared between the stages of one case.
type caseRun struct {
	c         m.Case
	reference m.ToolOutcome
	candidate m.ToolOutcome
}

type stageStep struct {
	stage m.Stage
	run   func(ctx context.Context, cr *caseRun) m.StageResult
}

func (p *pipelineRunner) steps() []stageStep {
	steps := []stageStep{
		{m.StageClean, p.clean},
		{m.StageBuildReference, p.buildReference},
		{m.StageBuildCandidate, p.buildCandidate},
	}

	if p.toolchain.EmitsIntermediate() {
		steps = append(steps, stageStep{m.StageAssembleCandidate, p.assembleCandidate})
	}

	return append(steps,
		stageStep{m.StageRunReference, p.runReference},
		stageStep{m.StageRunCandidate, p.runCandidate},
		stageStep{m.StageCompare, p.compare},
	)
}

func (p *pipelineRunner) RunCase(ctx context.Context, c m.Case) m.Verdict {
	cr := &caseRun{c: c}

	var results []m.StageResult

	for _, step := range p.steps() {
		if ctx.Err() != nil {
			results = append(results, m.Fail(step.stage, m.FaultHarness, ReasonInterrupted, 0))
			break
		}

		result := p.runStep(ctx, step, cr)
		results = append(results, result)

		slog.Debug("Stage finished", "case", c.Name, "stage", step.stage, "passed", result.Passed,
			"reason", result.Reason, "duration", result.Duration)

		if !result.Passed {
			break
		}
	}

	return m.NewVerdict(c.Name, results)
}

// runStep turns a panicking stage into a harness failure of that stage.
func (p *pipelineRunner) runStep(ctx context.Context, step stageStep, cr *caseRun) (result m.StageResult) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Stage panicked", "case", cr.c.Name, "stage", step.stage, "panic", r)
			result = m.Fail(step.stage, m.FaultHarness, ReasonWorkerPanicked, time.Since(start))
		}
	}()

	result = step.run(ctx, cr)
	result.Duration = time.Since(start)

	return result
}

func (p *pipelineRunner) clean(ctx context.Context, cr *caseRun) m.StageResult {
	if err := p.store.ResetCase(ctx, cr.c.Name); err != nil {
		if ctx.Err() != nil {
			return m.Fail(m.StageClean, m.FaultHarness, ReasonInterrupted, 0)
		}

		slog.Error("Failed to clean case artifacts", "case", cr.c.Name, "error", err)

		return m.Fail(m.StageClean, m.FaultHarness, ReasonCleanupFailed, 0)
	}

	return m.Pass(m.StageClean, 0)
}

func (p *pipelineRunner) buildReference(ctx context.Context, cr *caseRun) m.StageResult {
	const stage = m.StageBuildReference

	args := p.toolchain.Reference.Expand(
		p.base(cr.c.Name, m.ArtifactSource),
		p.base(cr.c.Name, m.ArtifactReferenceExecutable),
		cr.c.Name,
	)

	return p.build(ctx, cr, stage, args, p.toolchain.ReferenceTimeout, m.ArtifactReferenceBuildLog, buildReasons{
		fault:    m.FaultReference,
		timedOut: ReasonReferenceBuildTimedOut,
		failed:   ReasonReferenceBuildFailed,
	})
}

func (p *pipelineRunner) buildCandidate(ctx context.Context, cr *caseRun) m.StageResult {
	const stage = m.StageBuildCandidate

	out := m.ArtifactCandidateExecutable
	if p.toolchain.EmitsIntermediate() {
		out = m.ArtifactCandidateIntermediate
	}

	args := p.toolchain.Candidate.Expand(
		p.base(cr.c.Name, m.ArtifactSource),
		p.base(cr.c.Name, out),
		cr.c.Name,
	)

	return p.build(ctx, cr, stage, args, p.toolchain.MaxTime, m.ArtifactCandidateBuildLog, buildReasons{
		fault:    m.FaultCandidate,
		timedOut: ReasonCandidateBuildTimedOut,
		failed:   ReasonCandidateBuildFailed,
	})
}

// assembleCandidate turns the candidate's intermediate output into an
// executable with the reference toolchain.
func (p *pipelineRunner) assembleCandidate(ctx context.Context, cr *caseRun) m.StageResult {
	const stage = m.StageAssembleCandidate

	args := p.toolchain.Reference.Expand(
		p.base(cr.c.Name, m.ArtifactCandidateIntermediate),
		p.base(cr.c.Name, m.ArtifactCandidateExecutable),
		cr.c.Name,
	)

	return p.build(ctx, cr, stage, args, p.toolchain.ReferenceTimeout, m.ArtifactAssembleLog, buildReasons{
		fault:    m.FaultCandidate,
		timedOut: ReasonAssembleTimedOut,
		failed:   ReasonAssembleFailed,
	})
}

type buildReasons struct {
	fault    m.Fault
	timedOut string
	failed   string
}

func (p *pipelineRunner) build(
	ctx context.Context,
	cr *caseRun,
	stage m.Stage,
	args []string,
	timeout time.Duration,
	log m.ArtifactKind,
	reasons buildReasons,
) m.StageResult {
	outcome := p.invoker.Invoke(ctx, adapter.Invocation{
		Args:          args,
		Dir:           string(p.store.Dir()),
		Timeout:       timeout,
		CombineStderr: true,
	})

	if outcome.Class == m.LaunchFailure {
		outcome.Stdout = append(outcome.Stdout, []byte(outcome.Err+"\n")...)
	}

	if failed, ok := p.persist(ctx, cr, stage, log, outcome.Stdout); !ok {
		return failed
	}

	switch outcome.Class {
	case m.Success:
		return m.Pass(stage, 0)
	case m.TimedOut:
		if ctx.Err() != nil {
			return m.Fail(stage, m.FaultHarness, ReasonInterrupted, 0)
		}

		return m.Fail(stage, reasons.fault, reasons.timedOut, 0)
	default:
		slog.Debug("Build failed", "case", cr.c.Name, "stage", stage, "args", args,
			"outcome", outcome.Class, "exitCode", outcome.ExitCode, "error", outcome.Err)

		return m.Fail(stage, reasons.fault, reasons.failed, 0)
	}
}

func (p *pipelineRunner) runReference(ctx context.Context, cr *caseRun) m.StageResult {
	const stage = m.StageRunReference

	cr.reference = p.execute(ctx, cr.c.Name, m.ArtifactReferenceExecutable)

	if failed, ok := p.persistRun(ctx, cr, stage, cr.reference, m.ArtifactReferenceStdout, m.ArtifactReferenceStderr); !ok {
		return failed
	}

	switch cr.reference.Class {
	case m.TimedOut:
		if ctx.Err() != nil {
			return m.Fail(stage, m.FaultHarness, ReasonInterrupted, 0)
		}

		return m.Fail(stage, m.FaultReference, ReasonReferenceRunTimedOut, 0)
	case m.LaunchFailure:
		return m.Fail(stage, m.FaultReference, ReasonReferenceLaunchFailed, 0)
	default:
		return m.Pass(stage, 0)
	}
}

func (p *pipelineRunner) runCandidate(ctx context.Context, cr *caseRun) m.StageResult {
	const stage = m.StageRunCandidate

	cr.candidate = p.execute(ctx, cr.c.Name, m.ArtifactCandidateExecutable)

	if failed, ok := p.persistRun(ctx, cr, stage, cr.candidate, m.ArtifactCandidateStdout, m.ArtifactCandidateStderr); !ok {
		return failed
	}

	switch {
	case cr.candidate.Class == m.TimedOut:
		if ctx.Err() != nil {
			return m.Fail(stage, m.FaultHarness, ReasonInterrupted, 0)
		}

		return m.Fail(stage, m.FaultCandidate, ReasonCandidateRunTimedOut, 0)
	case cr.candidate.Class == m.LaunchFailure:
		return m.Fail(stage, m.FaultCandidate, ReasonCandidateLaunchFailed, 0)
	case cr.candidate.Crashed():
		return m.Fail(stage, m.FaultCandidate, crashReason(cr.candidate), 0)
	default:
		return m.Pass(stage, 0)
	}
}

func (p *pipelineRunner) compare(_ context.Context, cr *caseRun) m.StageResult {
	const stage = m.StageCompare

	if string(cr.reference.Stdout) != string(cr.candidate.Stdout) {
		return m.Fail(stage, m.FaultCandidate, ReasonStdoutMismatch, 0)
	}

	if cr.c.CheckExitCode && cr.reference.ExitCode != cr.candidate.ExitCode {
		return m.Fail(stage, m.FaultCandidate, ReasonExitCodeMismatch, 0)
	}

	return m.Pass(stage, 0)
}

// execute runs a built executable from inside the store directory.
func (p *pipelineRunner) execute(ctx context.Context, name string, kind m.ArtifactKind) m.ToolOutcome {
	return p.invoker.Invoke(ctx, adapter.Invocation{
		Args:    []string{"." + string(filepath.Separator) + p.base(name, kind)},
		Dir:     string(p.store.Dir()),
		Timeout: p.toolchain.MaxTime,
	})
}

func (p *pipelineRunner) persistRun(
	ctx context.Context,
	cr *caseRun,
	stage m.Stage,
	outcome m.ToolOutcome,
	stdout, stderr m.ArtifactKind,
) (m.StageResult, bool) {
	if failed, ok := p.persist(ctx, cr, stage, stdout, outcome.Stdout); !ok {
		return failed, false
	}

	return p.persist(ctx, cr, stage, stderr, outcome.Stderr)
}

// persist writes an artifact before its stage is judged, so failing stages
// stay inspectable.
func (p *pipelineRunner) persist(ctx context.Context, cr *caseRun, stage m.Stage, kind m.ArtifactKind, data []byte) (m.StageResult, bool) {
	if err := p.store.WriteArtifact(ctx, cr.c.Name, kind, data); err != nil {
		if ctx.Err() != nil {
			return m.Fail(stage, m.FaultHarness, ReasonInterrupted, 0), false
		}

		slog.Error("Failed to persist artifact", "case", cr.c.Name, "stage", stage, "kind", kind, "error", err)

		return m.Fail(stage, m.FaultHarness, fmt.Sprintf(reasonPersistArtifactPattern, kind), 0), false
	}

	return m.StageResult{}, true
}

func (p *pipelineRunner) base(name string, kind m.ArtifactKind) string {
	return filepath.Base(string(p.store.ArtifactPath(name, kind)))
}

func crashReason(o m.ToolOutcome) string {
	if sig := o.SignalName(); sig != "" {
		return fmt.Sprintf("%s (%s, exit code %d)", ReasonCandidateCrashed, sig, o.ExitCode)
	}

	return fmt.Sprintf("%s (exit code %d)", ReasonCandidateCrashed, o.ExitCode)
}
