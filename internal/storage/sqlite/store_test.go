package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tjfontaine/mrr-go/internal/storage"
)

func TestSQLiteStore_RecordAndList(t *testing.T) {
	store, err := New("file:calls1?mode=memory&cache=shared")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	records := []*storage.CallRecord{
		{ID: "a", Command: "whoami", Method: "GET", Path: "/whoami", Status: 200, Outcome: storage.OutcomeOK, Duration: 120 * time.Millisecond, CreatedAt: base},
		{ID: "b", Command: "rig get", Method: "GET", Path: "/rig/1", Status: 404, Outcome: storage.OutcomeAPIError, CreatedAt: base.Add(time.Second)},
		{ID: "c", Command: "pricing", Method: "GET", Path: "/pricing", Outcome: storage.OutcomeTransportError, CreatedAt: base.Add(2 * time.Second)},
	}
	for _, rec := range records {
		require.NoError(t, store.Record(ctx, rec))
	}

	got, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, "a", got[2].ID)

	assert.Equal(t, storage.OutcomeAPIError, got[1].Outcome)
	assert.Equal(t, 404, got[1].Status)
	assert.Equal(t, 120*time.Millisecond, got[2].Duration)
	assert.True(t, base.Equal(got[2].CreatedAt))

	limited, err := store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestSQLiteStore_DuplicateID(t *testing.T) {
	store, err := New("file:calls2?mode=memory&cache=shared")
	require.NoError(t, err)
	defer store.Close()

	rec := &storage.CallRecord{ID: "dup", Command: "whoami", Method: "GET", Path: "/whoami", Outcome: storage.OutcomeOK}
	require.NoError(t, store.Record(context.Background(), rec))
	assert.Error(t, store.Record(context.Background(), rec))
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	store, err := New(path)
	require.NoError(t, err)
	require.NoError(t, store.Record(context.Background(), &storage.CallRecord{
		ID: "x", Command: "call", Method: "PUT", Path: "/rig", Status: 200, Outcome: storage.OutcomeOK,
	}))
	require.NoError(t, store.Close())

	store, err = New(path)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "PUT", got[0].Method)
	assert.False(t, got[0].CreatedAt.IsZero())
}
