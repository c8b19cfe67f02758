package model

import (
	"errors"
	"fmt"
)

// ReasonNotRun is the reason of a verdict whose pipeline produced no stages.
const ReasonNotRun = "pipeline did not run"

// Verdict is the final pass/fail outcome for one case.
type Verdict struct {
	CaseName string
	Passed   bool
	// Reason is empty iff Passed.
	Reason string
	Fault  Fault
	Stages []StageResult
}

// NewVerdict derives a verdict from the ordered stage results of a case.
// The case passes only when every stage passed and the last one is Compare.
func NewVerdict(caseName string, stages []StageResult) Verdict {
	owned := make([]StageResult, len(stages))
	copy(owned, stages)

	v := Verdict{CaseName: caseName, Stages: owned}

	if len(owned) == 0 {
		v.Reason = ReasonNotRun
		v.Fault = FaultHarness

		return v
	}

	if st, failed := v.FailedStage(); failed {
		v.Reason = st.Reason
		v.Fault = st.Fault

		if v.Reason == "" {
			v.Reason = fmt.Sprintf("%s stage failed", st.Stage)
		}

		return v
	}

	if owned[len(owned)-1].Stage != StageCompare {
		v.Reason = fmt.Sprintf("pipeline stopped after %s", owned[len(owned)-1].Stage)
		v.Fault = FaultHarness

		return v
	}

	v.Passed = true

	return v
}

// FailedStage returns the terminal failing stage, if any.
func (v Verdict) FailedStage() (StageResult, bool) {
	for _, st := range v.Stages {
		if !st.Passed {
			return st, true
		}
	}

	return StageResult{}, false
}

// Entry pairs a case with its verdict.
type Entry struct {
	Case    Case
	Verdict Verdict
}

// Score is the weight earned by the entry.
func (e Entry) Score() int {
	if e.Verdict.Passed {
		return e.Case.Weight
	}

	return 0
}

// ErrMisalignedResults is returned when verdicts do not line up with their cases.
var ErrMisalignedResults = errors.New("results are not aligned with the catalog")

// ResultTable holds one verdict per scheduled case, index-aligned with the catalog.
type ResultTable struct {
	entries []Entry
}

// NewResultTable pairs catalog[i] with verdicts[i].
func NewResultTable(catalog Catalog, verdicts []Verdict) (ResultTable, error) {
	if catalog.Len() != len(verdicts) {
		return ResultTable{}, fmt.Errorf("%w: %d cases, %d verdicts", ErrMisalignedResults, catalog.Len(), len(verdicts))
	}

	entries := make([]Entry, len(verdicts))

	for i, v := range verdicts {
		c := catalog.At(i)
		if v.CaseName != c.Name {
			return ResultTable{}, fmt.Errorf("%w: slot %d holds %q, expected %q", ErrMisalignedResults, i, v.CaseName, c.Name)
		}

		entries[i] = Entry{Case: c, Verdict: v}
	}

	return ResultTable{entries: entries}, nil
}

// Len returns the number of entries.
func (t ResultTable) Len() int {
	return len(t.entries)
}

// At returns entry i, which corresponds to catalog case i.
func (t ResultTable) At(i int) Entry {
	return t.entries[i]
}

// Entries returns a copy of all entries in catalog order.
func (t ResultTable) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)

	return out
}

// ScoreSummary aggregates a result table.
type ScoreSummary struct {
	Total  int
	Max    int
	Passed int
	Failed int
}

// Partition splits results by who is to blame.
type Partition struct {
	Passed            []Entry
	CandidateFailures []Entry
	// Defective holds cases whose reference side or the harness failed.
	Defective []Entry
}

// IsDefective reports whether the entry was put in the Defective bucket.
func (p Partition) IsDefective(name string) bool {
	for _, e := range p.Defective {
		if e.Case.Name == name {
			return true
		}
	}

	return false
}
