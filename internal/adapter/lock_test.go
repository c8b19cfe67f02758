package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "parity.dev/pkg/parity/internal/model"
)

func TestFileRunLocker_Exclusive(t *testing.T) {
	dir := m.Path(t.TempDir())
	locker := NewRunLocker()

	release, err := locker.Acquire(dir)
	require.NoError(t, err)

	_, err = locker.Acquire(dir)
	assert.ErrorIs(t, err, ErrRunLocked)

	require.NoError(t, release())

	again, err := locker.Acquire(dir)
	require.NoError(t, err)
	require.NoError(t, again())
}

func TestFileRunLocker_MissingDir(t *testing.T) {
	_, err := NewRunLocker().Acquire(m.Path(t.TempDir() + "/missing"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrRunLocked)
}
