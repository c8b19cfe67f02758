package model

import "time"

// Stage is one ordered step of the per-case pipeline.
type Stage int

const (
	// StageClean removes artifacts left by a previous run of the case.
	StageClean Stage = iota
	// StageBuildReference builds the source with the reference toolchain.
	StageBuildReference
	// StageBuildCandidate builds the source with the candidate toolchain.
	StageBuildCandidate
	// StageAssembleCandidate turns the candidate's intermediate output into an executable.
	StageAssembleCandidate
	// StageRunReference executes the reference executable.
	StageRunReference
	// StageRunCandidate executes the candidate executable.
	StageRunCandidate
	// StageCompare compares the captured outputs.
	StageCompare
)

func (s Stage) String() string {
	switch s {
	case StageClean:
		return "clean"
	case StageBuildReference:
		return "build-reference"
	case StageBuildCandidate:
		return "build-candidate"
	case StageAssembleCandidate:
		return "assemble-candidate"
	case StageRunReference:
		return "run-reference"
	case StageRunCandidate:
		return "run-candidate"
	case StageCompare:
		return "compare"
	default:
		return "unknown"
	}
}

// Fault attributes a failure to the side that caused it.
type Fault int

const (
	// FaultNone is used for passing stages.
	FaultNone Fault = iota
	// FaultCandidate blames the toolchain under test.
	FaultCandidate
	// FaultReference blames the reference side; the case itself is defective.
	FaultReference
	// FaultHarness blames the harness environment (I/O, interruption).
	FaultHarness
)

func (f Fault) String() string {
	switch f {
	case FaultNone:
		return "none"
	case FaultCandidate:
		return "candidate"
	case FaultReference:
		return "reference"
	case FaultHarness:
		return "harness"
	default:
		return "unknown"
	}
}

// StageResult records whether one stage passed and why it did not.
type StageResult struct {
	Stage    Stage
	Passed   bool
	Reason   string
	Fault    Fault
	Duration time.Duration
}

// Pass builds a passing stage result.
func Pass(stage Stage, d time.Duration) StageResult {
	return StageResult{Stage: stage, Passed: true, Duration: d}
}

// Fail builds a failing stage result.
func Fail(stage Stage, fault Fault, reason string, d time.Duration) StageResult {
	return StageResult{Stage: stage, Passed: false, Reason: reason, Fault: fault, Duration: d}
}
