package controller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	m "parity.dev/pkg/parity/internal/model"
)

// maxFailureLines bounds how many recent failures the live view keeps.
const maxFailureLines = 8

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	passStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// TUI implements UI using Bubble Tea for a live progress display while a run
// executes. Listings are printed directly.
type TUI struct {
	output io.Writer

	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the live view in run mode.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := newStartConfig(options)
	if cfg.mode != ModeRun {
		return nil
	}

	model := newProgressModel(cfg.interrupt)

	if f, ok := t.output.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil {
			model.width = width
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.program = tea.NewProgram(model, tea.WithOutput(t.output))
	t.done = make(chan struct{})

	go func(program *tea.Program, done chan struct{}) {
		defer close(done)

		if _, err := program.Run(); err != nil {
			slog.Error("Live view failed", "error", err)
		}
	}(t.program, t.done)

	return nil
}

// Close stops the live view if it is still running.
func (t *TUI) Close(_ context.Context) {
	program, done := t.running()
	if program == nil {
		return
	}

	program.Quit()
	<-done

	t.mu.Lock()
	t.program = nil
	t.mu.Unlock()
}

// Wait blocks until the live view has rendered the report and exited.
func (t *TUI) Wait(ctx context.Context) {
	_, done := t.running()
	if done == nil {
		return
	}

	select {
	case <-done:
	case <-ctx.Done():
	}
}

func (t *TUI) running() (*tea.Program, chan struct{}) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.program, t.done
}

// live returns the program while its event loop still runs. After a second
// ctrl+c the loop has exited and messages sent to it are dropped.
func (t *TUI) live() *tea.Program {
	program, done := t.running()
	if program == nil {
		return nil
	}

	select {
	case <-done:
		return nil
	default:
		return program
	}
}

// send delivers msg to the live view; it reports false when no view runs.
func (t *TUI) send(msg tea.Msg) bool {
	program := t.live()
	if program == nil {
		return false
	}

	program.Send(msg)

	return true
}

// DisplayMessage prints a line above the live view, or directly.
func (t *TUI) DisplayMessage(_ context.Context, message string) {
	if program := t.live(); program != nil {
		program.Println(message)
		return
	}

	_, _ = fmt.Fprintln(t.output, message)
}

// DisplayRunInfo sets the header of the live view.
func (t *TUI) DisplayRunInfo(_ context.Context, info RunInfo) {
	t.send(runInfoMsg(info))
}

// DisplayStartingCase adds a spinner line for the case.
func (t *TUI) DisplayStartingCase(_ context.Context, index int, c m.Case) {
	t.send(caseStartedMsg{index: index, c: c, at: time.Now()})
}

// DisplayCompletedCase updates counters and the recent failure list.
func (t *TUI) DisplayCompletedCase(_ context.Context, index int, c m.Case, v m.Verdict) {
	t.send(caseCompletedMsg{index: index, c: c, verdict: v})
}

// DisplayReport replaces the live view with the final table.
func (t *TUI) DisplayReport(_ context.Context, table m.ResultTable, summary m.ScoreSummary, partition m.Partition) error {
	report := renderReport(table, summary, partition)
	if t.send(reportMsg(report)) {
		return nil
	}

	_, err := fmt.Fprint(t.output, report)

	return err
}

// DisplayCatalog prints the cases of a catalog.
func (t *TUI) DisplayCatalog(_ context.Context, catalog m.Catalog) error {
	_, err := fmt.Fprint(t.output, renderCatalog(catalog))
	return err
}

// DisplayHistory prints recorded runs.
func (t *TUI) DisplayHistory(_ context.Context, runs []m.RunRecord) error {
	_, err := fmt.Fprint(t.output, renderHistory(runs))
	return err
}

// DisplayRunResults prints the per-case rows of one recorded run.
func (t *TUI) DisplayRunResults(_ context.Context, runID string, results []m.CaseRecord) error {
	_, err := fmt.Fprint(t.output, renderRunResults(runID, results))
	return err
}

type (
	runInfoMsg     RunInfo
	reportMsg      string
	caseStartedMsg struct {
		index int
		c     m.Case
		at    time.Time
	}
	caseCompletedMsg struct {
		index   int
		c       m.Case
		verdict m.Verdict
	}
)

type runningCase struct {
	name    string
	started time.Time
}

type failureLine struct {
	name   string
	reason string
}

// progressModel is the Bubble Tea model of the live view.
type progressModel struct {
	spinner     spinner.Model
	info        RunInfo
	running     map[int]runningCase
	failures    []failureLine
	completed   int
	passed      int
	width       int
	report      string
	interrupted bool
	interrupt   func()
	now         func() time.Time
}

func newProgressModel(interrupt func()) progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return progressModel{
		spinner:   s,
		running:   map[int]runningCase{},
		interrupt: interrupt,
		now:       time.Now,
	}
}

func (pm progressModel) Init() tea.Cmd {
	return pm.spinner.Tick
}

func (pm progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		pm.width = msg.Width
		return pm, nil

	case tea.KeyMsg:
		return pm.handleKeyPress(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		pm.spinner, cmd = pm.spinner.Update(msg)

		return pm, cmd

	case runInfoMsg:
		pm.info = RunInfo(msg)
		return pm, nil

	case caseStartedMsg:
		pm.running = cloneRunning(pm.running)
		pm.running[msg.index] = runningCase{name: msg.c.Name, started: msg.at}

		return pm, nil

	case caseCompletedMsg:
		return pm.complete(msg), nil

	case reportMsg:
		pm.report = string(msg)
		return pm, tea.Quit
	}

	return pm, nil
}

func (pm progressModel) complete(msg caseCompletedMsg) progressModel {
	pm.running = cloneRunning(pm.running)
	delete(pm.running, msg.index)

	pm.completed++

	if msg.verdict.Passed {
		pm.passed++
		return pm
	}

	failures := append([]failureLine{}, pm.failures...)
	failures = append(failures, failureLine{name: msg.c.Name, reason: msg.verdict.Reason})

	if len(failures) > maxFailureLines {
		failures = failures[len(failures)-maxFailureLines:]
	}

	pm.failures = failures

	return pm
}

// handleKeyPress forwards the first ctrl+c to the run; a second one leaves
// the view immediately.
//
//nolint:exhaustive // only ctrl+c is handled
func (pm progressModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if pm.interrupted || pm.interrupt == nil {
			return pm, tea.Quit
		}

		pm.interrupted = true
		pm.interrupt()

		return pm, nil
	default:
		return pm, nil
	}
}

func (pm progressModel) View() string {
	if pm.report != "" {
		return "\n" + pm.report
	}

	var b strings.Builder

	failed := pm.completed - pm.passed

	b.WriteString(titleStyle.Render("parity"))
	fmt.Fprintf(&b, "  %d/%d done  ", pm.completed, pm.info.Cases)
	b.WriteString(passStyle.Render(fmt.Sprintf("%d passed", pm.passed)))
	b.WriteString("  ")
	b.WriteString(failStyle.Render(fmt.Sprintf("%d failed", failed)))

	if pm.info.Query != "" {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  matching %q", pm.info.Query)))
	}

	b.WriteString("\n\n")

	for _, index := range sortedKeys(pm.running) {
		rc := pm.running[index]
		elapsed := pm.now().Sub(rc.started).Round(100 * time.Millisecond)
		fmt.Fprintf(&b, "%s %s %s\n", pm.spinner.View(), rc.name, dimStyle.Render(elapsed.String()))
	}

	if len(pm.failures) > 0 {
		b.WriteString("\n")

		for _, f := range pm.failures {
			fmt.Fprintf(&b, "%s %s: %s\n", failStyle.Render("FAIL"), f.name, f.reason)
		}
	}

	if pm.interrupted {
		b.WriteString(dimStyle.Render("\ninterrupting... press ctrl+c again to quit\n"))
	}

	if pm.width > 0 {
		return lipgloss.NewStyle().MaxWidth(pm.width).Render(b.String())
	}

	return b.String()
}

func cloneRunning(in map[int]runningCase) map[int]runningCase {
	out := make(map[int]runningCase, len(in)+1)
	for k, v := range in {
		out[k] = v
	}

	return out
}

func sortedKeys(in map[int]runningCase) []int {
	keys := make([]int, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}

	sort.Ints(keys)

	return keys
}
