package model

import (
	"syscall"
	"time"
)

// OutcomeClass classifies how an external command ended.
type OutcomeClass int

const (
	// Success means the process exited with code 0.
	Success OutcomeClass = iota
	// NonZeroExit means the process ran to completion with a non-zero code.
	NonZeroExit
	// TimedOut means the process was killed after exceeding its time bound.
	TimedOut
	// LaunchFailure means the process could not be started at all.
	LaunchFailure
)

func (c OutcomeClass) String() string {
	switch c {
	case Success:
		return "success"
	case NonZeroExit:
		return "non-zero exit"
	case TimedOut:
		return "timed out"
	case LaunchFailure:
		return "launch failure"
	default:
		return "unknown"
	}
}

// SignalExitBase is added to a signal number to form the exit code of a
// signal-terminated process (e.g. 139 for SIGSEGV).
const SignalExitBase = 128

// fatalSignals are the signals that indicate the program itself crashed.
var fatalSignals = map[syscall.Signal]string{
	syscall.SIGSEGV: "SIGSEGV",
	syscall.SIGBUS:  "SIGBUS",
	syscall.SIGFPE:  "SIGFPE",
	syscall.SIGILL:  "SIGILL",
	syscall.SIGABRT: "SIGABRT",
	syscall.SIGTRAP: "SIGTRAP",
}

// ToolOutcome is the result of one external command execution.
type ToolOutcome struct {
	Class  OutcomeClass
	Stdout []byte
	// Stderr is empty when stderr was merged into Stdout.
	Stderr   []byte
	ExitCode int
	// Signal names the terminating signal, if any.
	Signal   string
	Duration time.Duration
	// Err carries the launch error text for LaunchFailure outcomes.
	Err string
}

// Crashed reports whether the exit code encodes a fatal signal (128+signal).
func (o ToolOutcome) Crashed() bool {
	if o.Class != NonZeroExit || o.ExitCode <= SignalExitBase {
		return false
	}

	_, fatal := fatalSignals[syscall.Signal(o.ExitCode-SignalExitBase)]

	return fatal
}

// SignalName returns the recorded signal name, falling back to the name
// derived from the exit code.
func (o ToolOutcome) SignalName() string {
	if o.Signal != "" {
		return o.Signal
	}

	if o.ExitCode > SignalExitBase {
		sig := syscall.Signal(o.ExitCode - SignalExitBase)
		if name, ok := fatalSignals[sig]; ok {
			return name
		}

		return sig.String()
	}

	return ""
}
