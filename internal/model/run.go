package model

import "time"

// RunRecord is one entry of the local run ledger.
type RunRecord struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	User       string
	// Query is the filter pattern; empty for full runs.
	Query  string
	Total  int
	Max    int
	Cases  int
	Passed int
}

// Partial reports whether the run used a filter.
func (r RunRecord) Partial() bool {
	return r.Query != ""
}

// CaseRecord is the ledger row of one case of a run.
type CaseRecord struct {
	Position int
	Name     string
	Weight   int
	Passed   bool
	Reason   string
	Fault    string
}
