package domain

import (
	m "parity.dev/pkg/parity/internal/model"
)

// Score aggregates a result table. Max covers every scheduled case, including
// defective ones.
func Score(table m.ResultTable) m.ScoreSummary {
	var summary m.ScoreSummary

	for _, entry := range table.Entries() {
		summary.Max += entry.Case.Weight
		summary.Total += entry.Score()

		if entry.Verdict.Passed {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}

	return summary
}

// PartitionResults sorts every entry into exactly one bucket, keeping
// catalog order within each.
func PartitionResults(table m.ResultTable) m.Partition {
	var p m.Partition

	for _, entry := range table.Entries() {
		switch {
		case entry.Verdict.Passed:
			p.Passed = append(p.Passed, entry)
		case entry.Verdict.Fault == m.FaultCandidate:
			p.CandidateFailures = append(p.CandidateFailures, entry)
		default:
			p.Defective = append(p.Defective, entry)
		}
	}

	return p
}
