package domain

// Failure reasons reported in verdicts. Each names the first stage that
// failed and which side caused it.
const (
	ReasonCleanupFailed = "cleanup failed"

	ReasonReferenceBuildFailed   = "reference toolchain failed to build source"
	ReasonReferenceBuildTimedOut = "reference toolchain timed out"

	ReasonCandidateBuildFailed   = "candidate toolchain failed to compile"
	ReasonCandidateBuildTimedOut = "candidate toolchain timed out"

	ReasonAssembleFailed   = "reference toolchain failed to assemble candidate output"
	ReasonAssembleTimedOut = "reference toolchain timed out assembling candidate output"

	ReasonReferenceRunTimedOut   = "reference executable timed out"
	ReasonReferenceLaunchFailed  = "reference executable failed to launch"
	ReasonCandidateRunTimedOut   = "candidate executable timed out"
	ReasonCandidateCrashed       = "candidate executable crashed"
	ReasonCandidateLaunchFailed  = "candidate executable failed to launch"
	ReasonStdoutMismatch         = "stdout did not match"
	ReasonExitCodeMismatch       = "exit codes did not match"
	ReasonInterrupted            = "run interrupted"
	ReasonWorkerPanicked         = "harness worker panicked"
	reasonPersistArtifactPattern = "failed to persist %s artifact"
)
