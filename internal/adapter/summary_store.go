package adapter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	m "parity.dev/pkg/parity/internal/model"
)

// SummaryStore persists the machine-parseable score summary of a full run.
type SummaryStore interface {
	SaveSummary(path m.Path, table m.ResultTable, summary m.ScoreSummary) error
}

// FileSummaryStore writes summaries atomically while holding "<path>.lock".
type FileSummaryStore struct{}

// NewSummaryStore returns a FileSummaryStore.
func NewSummaryStore() *FileSummaryStore {
	return &FileSummaryStore{}
}

// SaveSummary implements SummaryStore. Only built-in cases get a line; the
// total covers every scheduled case.
func (s *FileSummaryStore) SaveSummary(path m.Path, table m.ResultTable, summary m.ScoreSummary) error {
	target := string(path)

	lock := flock.New(target + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s.lock: %w", target, err)
	}

	defer func() { _ = lock.Unlock() }()

	return atomicWrite(target, FormatSummary(table, summary))
}

// FormatSummary renders the summary file contents.
func FormatSummary(table m.ResultTable, summary m.ScoreSummary) []byte {
	var buf bytes.Buffer

	for _, entry := range table.Entries() {
		if !entry.Case.BuiltIn {
			continue
		}

		fmt.Fprintf(&buf, "%-15s: %-36s: %-3d of %-3d\n",
			entry.Case.Name, entry.Case.Description, entry.Score(), entry.Case.Weight)
	}

	fmt.Fprintf(&buf, "%30sTotal:  %d of %d\n", "", summary.Total, summary.Max)

	return buf.Bytes()
}

// atomicWrite replaces path through a temp file in the same directory so
// readers never observe a partial summary.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	tmpPath := tmp.Name()
	committed := false

	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	committed = true

	return nil
}
