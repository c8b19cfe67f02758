// Package controller provides the output side of the harness: plain line
// output and a live terminal view.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "parity.dev/pkg/parity/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	// ModeBrowse prints listings and exits.
	ModeBrowse StartMode = iota
	// ModeRun shows live progress while cases execute.
	ModeRun
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode      StartMode
	interrupt func()
}

// WithBrowseMode sets the UI to listing mode.
func WithBrowseMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeBrowse
	}
}

// WithRunMode sets the UI to test execution mode.
func WithRunMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeRun
	}
}

// WithInterrupt registers the function called when the user aborts the run
// from inside the UI (e.g. ctrl+c while the terminal is in raw mode).
func WithInterrupt(interrupt func()) StartOption {
	return func(c *StartConfig) {
		c.interrupt = interrupt
	}
}

func newStartConfig(options []StartOption) StartConfig {
	cfg := StartConfig{mode: ModeBrowse}
	for _, opt := range options {
		opt(&cfg)
	}

	return cfg
}

// RunInfo describes a run about to start.
type RunInfo struct {
	Cases    int
	MaxScore int
	Parallel int
	Query    string
}

// UI defines how the harness reports progress and results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish
	DisplayMessage(ctx context.Context, message string)
	DisplayRunInfo(ctx context.Context, info RunInfo)
	DisplayStartingCase(ctx context.Context, index int, c m.Case)
	DisplayCompletedCase(ctx context.Context, index int, c m.Case, v m.Verdict)
	DisplayReport(ctx context.Context, table m.ResultTable, summary m.ScoreSummary, partition m.Partition) error
	DisplayCatalog(ctx context.Context, catalog m.Catalog) error
	DisplayHistory(ctx context.Context, runs []m.RunRecord) error
	DisplayRunResults(ctx context.Context, runID string, results []m.CaseRecord) error
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewUI picks the live view for terminals and plain output otherwise.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}
