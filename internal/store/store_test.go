package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csv-analyst/backend/internal/models"
	"github.com/csv-analyst/backend/internal/testutil"
)

func newTestStore(t *testing.T) *DiskStore {
	t.Helper()
	s, err := NewDiskStore(t.TempDir(), testutil.QuietLogger())
	require.NoError(t, err)
	return s
}

func TestPutGetRoundtrip(t *testing.T) {
	s := newTestStore(t)
	table := testutil.PassengerTable()

	id, err := s.Put(table)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, table.Rows(), got.Rows())
	assert.Equal(t, table.ColumnNames(), got.ColumnNames())
}

func TestGetUnknownSession(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get("does-not-exist")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestGetReloadsFromDiskAfterRestart(t *testing.T) {
	dir := t.TempDir()
	log := testutil.QuietLogger()

	s1, err := NewDiskStore(dir, log)
	require.NoError(t, err)
	id, err := s1.Put(testutil.PassengerTable())
	require.NoError(t, err)

	// A fresh store over the same directory serves the old session
	s2, err := NewDiskStore(dir, log)
	require.NoError(t, err)
	got, err := s2.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Rows())

	col, ok := got.Column("Sex")
	require.True(t, ok)
	assert.Equal(t, models.KindCategorical, col.Kind)
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	id, err := s.Put(testutil.PassengerTable())
	require.NoError(t, err)

	require.NoError(t, s.Delete(id))
	_, err = s.Get(id)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)

	require.NoError(t, s.Delete(id))
	require.NoError(t, s.Delete("never-existed"))
}

func TestDeleteRemovesSnapshot(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDiskStore(dir, testutil.QuietLogger())
	require.NoError(t, err)

	id, err := s.Put(testutil.PassengerTable())
	require.NoError(t, err)
	snapshot := filepath.Join(dir, "session_"+id+".msgpack")
	_, err = os.Stat(snapshot)
	require.NoError(t, err)

	require.NoError(t, s.Delete(id))
	_, err = os.Stat(snapshot)
	assert.True(t, os.IsNotExist(err))
}

func TestCleanupOlderThan(t *testing.T) {
	s := newTestStore(t)

	oldID, err := s.Put(testutil.PassengerTable())
	require.NoError(t, err)
	s.mu.Lock()
	s.touched[oldID] = time.Now().Add(-2 * time.Hour)
	s.mu.Unlock()

	freshID, err := s.Put(testutil.PassengerTable())
	require.NoError(t, err)

	removed := s.CleanupOlderThan(time.Hour)
	assert.Equal(t, 1, removed)

	_, err = s.Get(oldID)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
	_, err = s.Get(freshID)
	assert.NoError(t, err)
}
