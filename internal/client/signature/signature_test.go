package signature

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/dmitrijs2005/werkstatt/internal/client/cache"
	"github.com/dmitrijs2005/werkstatt/internal/common"
	"github.com/dmitrijs2005/werkstatt/internal/logging"
	"github.com/dmitrijs2005/werkstatt/internal/store"
	"github.com/stretchr/testify/require"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func setup(t *testing.T) (*Service, *store.Memory, *cache.Cache) {
	t.Helper()
	m := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Insert(ctx, store.CollectionJobs, store.Row{
		"id": "j1", "title": "Service", "status": "open", "created_at": "2026-01-01T08:00:00Z",
	}))
	require.NoError(t, m.Insert(ctx, store.CollectionJobs, store.Row{
		"id": "j2", "title": "Done job", "status": "done", "created_at": "2026-01-01T08:00:00Z", "closed_at": "2026-01-02T08:00:00Z",
	}))
	c := cache.New(m, testLogger())
	require.NoError(t, c.ReloadAll(ctx))
	return NewService(m, c, NewPad()), m, c
}

func scribble(p *Pad) {
	p.StrokeStart(50, 50)
	p.StrokeMove(200, 120)
	p.StrokeMove(340, 60)
	p.StrokeEnd()
}

func TestPad_BlankHasNoInk(t *testing.T) {
	p := NewPad()
	require.False(t, p.HasInk())
}

func TestPad_StrokeLeavesInk(t *testing.T) {
	p := NewPad()
	scribble(p)
	require.True(t, p.HasInk())

	p.Clear()
	require.False(t, p.HasInk())
}

func TestPad_MoveWithoutStartIsIgnored(t *testing.T) {
	p := NewPad()
	p.StrokeMove(100, 100)
	require.False(t, p.HasInk())
}

func TestPad_DisplayScaleMapsOntoSurface(t *testing.T) {
	p := NewPad()
	// Displayed at half size: a stroke near the displayed bottom-right
	// corner must land on the surface, not be clipped away.
	p.SetDisplaySize(300, 200)
	p.StrokeStart(290, 190)
	p.StrokeMove(295, 195)
	p.StrokeEnd()
	require.True(t, p.HasInk())
}

func TestPad_EncodeDataURL(t *testing.T) {
	p := NewPad()
	scribble(p)

	data, err := p.EncodeDataURL()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(data, "data:image/jpeg;base64,"))
	require.Greater(t, len(data), len("data:image/jpeg;base64,"))
}

func TestSave_UpsertsSingleRecord(t *testing.T) {
	svc, m, c := setup(t)
	ctx := context.Background()

	scribble(svc.Pad())
	require.NoError(t, svc.Save(ctx, "j1", "Max Mustermann"))
	require.Equal(t, 1, m.Count(store.CollectionSignatures))

	sig, ok := c.SignatureOf("j1")
	require.True(t, ok)
	require.Equal(t, "Max Mustermann", sig.SignerName)
	require.True(t, strings.HasPrefix(sig.Data, "data:image/jpeg;base64,"))

	// Pad is cleared after a successful save.
	require.False(t, svc.Pad().HasInk())

	// Re-signing replaces the record instead of adding a second one.
	scribble(svc.Pad())
	require.NoError(t, svc.Save(ctx, "j1", "Erika Musterfrau"))
	require.Equal(t, 1, m.Count(store.CollectionSignatures))
	sig, _ = c.SignatureOf("j1")
	require.Equal(t, "Erika Musterfrau", sig.SignerName)
}

func TestSave_RejectsEmptyNameAndBlankPad(t *testing.T) {
	svc, m, _ := setup(t)
	ctx := context.Background()

	scribble(svc.Pad())
	require.ErrorIs(t, svc.Save(ctx, "j1", ""), common.ErrValidation)

	svc.Pad().Clear()
	require.ErrorIs(t, svc.Save(ctx, "j1", "Max"), common.ErrNoInk)

	require.Equal(t, 0, m.Count(store.CollectionSignatures))
}

func TestSave_RejectsUnknownJob(t *testing.T) {
	svc, _, _ := setup(t)
	scribble(svc.Pad())
	require.ErrorIs(t, svc.Save(context.Background(), "nope", "Max"), common.ErrNotFound)
}

func TestSave_ClosedJobSignsOnceOnly(t *testing.T) {
	svc, _, c := setup(t)
	ctx := context.Background()

	// A closed job without a signature can still be signed.
	scribble(svc.Pad())
	require.NoError(t, svc.Save(ctx, "j2", "Max"))
	_, ok := c.SignatureOf("j2")
	require.True(t, ok)

	// Once closed and signed, re-signing is rejected.
	scribble(svc.Pad())
	require.ErrorIs(t, svc.Save(ctx, "j2", "Erika"), common.ErrJobClosed)
}
