package controller

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	m "parity.dev/pkg/parity/internal/model"
)

var (
	passLabel  = color.New(color.FgGreen, color.Bold).SprintFunc()
	failLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
	reasonText = color.New(color.FgYellow).SprintFunc()
	totalText  = color.New(color.Bold).SprintFunc()
)

func newTable(buf *bytes.Buffer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(buf)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	return table
}

func scoreCell(score, weight int) string {
	return fmt.Sprintf("%3d of %3d", score, weight)
}

func verdictLabel(passed bool) string {
	if passed {
		return passLabel("PASS")
	}

	return failLabel("FAIL")
}

// renderReport renders the per-case table followed by the total line.
// Defective cases are marked as such in the reason column.
func renderReport(table m.ResultTable, summary m.ScoreSummary, partition m.Partition) string {
	var buf bytes.Buffer

	tw := newTable(&buf, []string{"Case", "Description", "Score", "Result", "Reason"})
	tw.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
	})

	for _, entry := range table.Entries() {
		reason := ""
		if !entry.Verdict.Passed {
			reason = reasonText(entry.Verdict.Reason)
			if partition.IsDefective(entry.Case.Name) {
				reason += " [defective]"
			}
		}

		tw.Append([]string{
			entry.Case.Name,
			entry.Case.Description,
			scoreCell(entry.Score(), entry.Case.Weight),
			verdictLabel(entry.Verdict.Passed),
			reason,
		})
	}

	tw.Render()

	fmt.Fprintf(&buf, "\nPassed: %d  Failed: %d", summary.Passed, summary.Failed)

	if defective := len(partition.Defective); defective > 0 {
		fmt.Fprintf(&buf, "  (defective: %d)", defective)
	}

	fmt.Fprintf(&buf, "\n%s\n", totalText(fmt.Sprintf("Total: %d of %d", summary.Total, summary.Max)))

	return buf.String()
}

func renderCatalog(catalog m.Catalog) string {
	var buf bytes.Buffer

	tw := newTable(&buf, []string{"Case", "Weight", "Description", "Source"})

	for _, c := range catalog.Cases() {
		source := "built-in"
		if !c.BuiltIn {
			source = "additional"
		}

		tw.Append([]string{c.Name, strconv.Itoa(c.Weight), c.Description, source})
	}

	tw.SetFooter([]string{fmt.Sprintf("%d cases", catalog.Len()), strconv.Itoa(catalog.MaxScore()), "", ""})
	tw.Render()

	return buf.String()
}

func renderHistory(runs []m.RunRecord) string {
	if len(runs) == 0 {
		return "No runs recorded\n"
	}

	var buf bytes.Buffer

	tw := newTable(&buf, []string{"Run", "Started", "Duration", "User", "Query", "Passed", "Score"})

	for _, run := range runs {
		query := "(full)"
		if run.Partial() {
			query = run.Query
		}

		tw.Append([]string{
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String(),
			run.User,
			query,
			fmt.Sprintf("%d/%d", run.Passed, run.Cases),
			fmt.Sprintf("%d of %d", run.Total, run.Max),
		})
	}

	tw.Render()

	return buf.String()
}

func renderRunResults(runID string, results []m.CaseRecord) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Run %s\n\n", runID)

	tw := newTable(&buf, []string{"Case", "Weight", "Result", "Reason"})

	for _, rec := range results {
		reason := rec.Reason
		if !rec.Passed && reason != "" {
			reason = reasonText(reason)
		}

		tw.Append([]string{rec.Name, strconv.Itoa(rec.Weight), verdictLabel(rec.Passed), reason})
	}

	tw.Render()

	return buf.String()
}
