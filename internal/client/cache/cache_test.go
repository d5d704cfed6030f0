package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/dmitrijs2005/werkstatt/internal/logging"
	"github.com/dmitrijs2005/werkstatt/internal/store"
	"github.com/stretchr/testify/require"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func seed(t *testing.T, m *store.Memory) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, m.Insert(ctx, store.CollectionJobs, store.Row{
		"id": "j1", "title": "Service", "status": "open", "created_at": "2026-01-01T08:00:00Z",
	}))
	require.NoError(t, m.Insert(ctx, store.CollectionJobs, store.Row{
		"id": "j2", "title": "Brakes", "status": "done", "created_at": "2026-01-02T08:00:00Z", "closed_at": "2026-01-03T08:00:00Z",
	}))
	require.NoError(t, m.Insert(ctx, store.CollectionEntries, store.Row{
		"id": "e1", "job_id": "j1", "worker": "Marco", "task": "Ölwechsel", "start_ts": "2026-01-01T09:00:00Z", "end_ts": nil,
	}))
	require.NoError(t, m.Insert(ctx, store.CollectionSignatures, store.Row{
		"job_id": "j2", "signer_name": "Anna", "signature_data": "data:image/jpeg;base64,xx", "signed_at": "2026-01-03T08:00:00Z",
	}))
	require.NoError(t, m.Insert(ctx, store.CollectionItems, store.Row{
		"id": "i1", "job_id": "j1", "item_type": "arbeit", "description": "Ölwechsel", "qty": 1.0, "unit_price": 120.0, "created_at": "2026-01-01T09:00:00Z",
	}))
	require.NoError(t, m.Insert(ctx, store.CollectionPhotos, store.Row{
		"id": "p1", "job_id": "j1", "path": "j1/general-1.jpg", "kind": "general",
	}))
}

func TestReloadAll_PopulatesSnapshotAndStats(t *testing.T) {
	m := store.NewMemory()
	seed(t, m)
	c := New(m, testLogger())

	require.NoError(t, c.ReloadAll(context.Background()))

	require.Len(t, c.Jobs(), 2)
	st := c.Stats()
	require.Equal(t, 2, st.TotalJobs)
	require.Equal(t, 1, st.OpenJobs)
	require.Equal(t, 1, st.DoneJobs)
	require.Equal(t, 1, st.RunningEntries)

	entries := c.EntriesOf("j1")
	require.Len(t, entries, 1)
	require.True(t, entries[0].Running())

	_, ok := c.SignatureOf("j2")
	require.True(t, ok)
	_, ok = c.SignatureOf("j1")
	require.False(t, ok)

	require.Len(t, c.ItemsOf("j1"), 1)
	require.Len(t, c.PhotosOf("j1"), 1)
}

func TestReloadAll_MandatoryFailurePropagatesAndKeepsOldSnapshot(t *testing.T) {
	m := store.NewMemory()
	seed(t, m)
	c := New(m, testLogger())
	require.NoError(t, c.ReloadAll(context.Background()))

	boom := errors.New("boom")
	m.Fail = map[string]error{store.CollectionEntries: boom}

	err := c.ReloadAll(context.Background())
	require.ErrorIs(t, err, boom)

	// Old snapshot still visible.
	require.Len(t, c.Jobs(), 2)
	require.Len(t, c.EntriesOf("j1"), 1)
}

func TestReloadAll_OptionalFailureDegradesToEmpty(t *testing.T) {
	m := store.NewMemory()
	seed(t, m)
	c := New(m, testLogger())

	m.Fail = map[string]error{
		store.CollectionItems:  errors.New("relation does not exist"),
		store.CollectionPhotos: errors.New("relation does not exist"),
	}

	require.NoError(t, c.ReloadAll(context.Background()))
	require.Len(t, c.Jobs(), 2)
	require.Empty(t, c.ItemsOf("j1"))
	require.Empty(t, c.PhotosOf("j1"))
}

func TestSubscribe_NotifiedAfterReload(t *testing.T) {
	m := store.NewMemory()
	seed(t, m)
	c := New(m, testLogger())

	var calls int
	c.Subscribe(func() { calls++ })

	require.NoError(t, c.ReloadAll(context.Background()))
	require.NoError(t, c.ReloadAll(context.Background()))
	require.Equal(t, 2, calls)
}

func TestRunningEntryOf(t *testing.T) {
	m := store.NewMemory()
	seed(t, m)
	c := New(m, testLogger())
	require.NoError(t, c.ReloadAll(context.Background()))

	e, ok := c.RunningEntryOf("j1")
	require.True(t, ok)
	require.Equal(t, "e1", e.ID)

	_, ok = c.RunningEntryOf("j2")
	require.False(t, ok)
}
