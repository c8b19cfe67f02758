package adapter

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "parity.dev/pkg/parity/internal/model"
)

func TestSQLiteHistoryStore_RecordAndList(t *testing.T) {
	ctx := context.Background()

	store, err := OpenHistoryStore(ctx, m.Path(filepath.Join(t.TempDir(), "ledger", "history.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	table, summary := summaryFixture(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := m.RunRecord{
		ID: "run-1", StartedAt: base, FinishedAt: base.Add(time.Second), User: "alice",
		Total: summary.Total, Max: summary.Max, Cases: table.Len(), Passed: summary.Passed,
	}
	second := first
	second.ID = "run-2"
	second.Query = "fact"
	second.StartedAt = base.Add(time.Minute + 500*time.Millisecond)
	second.FinishedAt = second.StartedAt.Add(time.Second)

	require.NoError(t, store.Record(ctx, first, table))
	require.NoError(t, store.Record(ctx, second, table))

	runs, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0])
	assert.Equal(t, first, runs[1])
	assert.True(t, runs[0].Partial())

	limited, err := store.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "run-2", limited[0].ID)

	results, err := store.Results(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, []m.CaseRecord{
		{Position: 0, Name: "test1", Weight: 1, Passed: true, Fault: "none"},
		{Position: 1, Name: "fact", Weight: 3, Reason: "stdout did not match", Fault: "candidate"},
		{Position: 2, Name: "fib", Weight: 0, Passed: true, Fault: "none"},
	}, results)

	_, err = store.Results(ctx, "nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestSQLiteHistoryStore_DuplicateRunRollsBack(t *testing.T) {
	ctx := context.Background()

	store, err := OpenHistoryStore(ctx, MemoryHistory)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	table, _ := summaryFixture(t)
	run := m.RunRecord{ID: "same", StartedAt: time.Now(), FinishedAt: time.Now()}

	require.NoError(t, store.Record(ctx, run, table))
	assert.Error(t, store.Record(ctx, run, table))

	results, err := store.Results(ctx, "same")
	require.NoError(t, err)
	assert.Len(t, results, table.Len())
}
