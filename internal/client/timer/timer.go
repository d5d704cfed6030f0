// Package timer tracks work sessions on jobs. It enforces the at-most-one
// running entry invariant per job with a client-side pre-check against the
// cache; under true concurrent multi-client access two clients could both
// pass the check, since the store carries no uniqueness constraint for it.
package timer

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/dmitrijs2005/werkstatt/internal/client/cache"
	"github.com/dmitrijs2005/werkstatt/internal/client/models"
	"github.com/dmitrijs2005/werkstatt/internal/common"
	"github.com/dmitrijs2005/werkstatt/internal/store"
	"github.com/google/uuid"
)

// Engine starts and stops time entries against the remote store.
type Engine struct {
	store store.Store
	cache *cache.Cache

	// now is a test seam.
	now func() time.Time
}

// NewEngine returns an engine bound to the given store and cache.
func NewEngine(s store.Store, c *cache.Cache) *Engine {
	return &Engine{store: s, cache: c, now: time.Now}
}

// Start creates a running entry for the job. It is rejected with
// common.ErrTimerRunning, without any store write, if the cache already
// shows a running entry for that job.
func (e *Engine) Start(ctx context.Context, jobID, worker, task string) error {
	job, ok := e.cache.Job(jobID)
	if !ok {
		return fmt.Errorf("%w: job %s", common.ErrNotFound, jobID)
	}
	if job.Done() {
		return common.ErrJobClosed
	}
	if worker == "" {
		return fmt.Errorf("%w: worker required", common.ErrValidation)
	}
	if _, running := e.cache.RunningEntryOf(jobID); running {
		return common.ErrTimerRunning
	}

	entry := models.TimeEntry{
		ID:     uuid.NewString(),
		JobID:  jobID,
		Worker: worker,
		Task:   task,
		Start:  e.now().UTC(),
	}
	if err := e.store.Insert(ctx, store.CollectionEntries, entry.Row()); err != nil {
		return fmt.Errorf("failed to start timer: %w", err)
	}
	return e.cache.ReloadAll(ctx)
}

// Stop terminates the job's running entry. It silently returns if no entry
// is running.
func (e *Engine) Stop(ctx context.Context, jobID string) error {
	entry, running := e.cache.RunningEntryOf(jobID)
	if !running {
		return nil
	}
	patch := store.Row{"end_ts": e.now().UTC().Format(time.RFC3339)}
	if err := e.store.Update(ctx, store.CollectionEntries, patch, store.Filter{"id": entry.ID}); err != nil {
		return fmt.Errorf("failed to stop timer: %w", err)
	}
	return e.cache.ReloadAll(ctx)
}

// Minutes computes the rounded duration of a closed interval in minutes,
// clamped at zero so clock skew never yields a negative duration.
func Minutes(start, end time.Time) int {
	m := int(math.Round(end.Sub(start).Minutes()))
	if m < 0 {
		return 0
	}
	return m
}

// EntryMinutes computes an entry's duration; running entries are measured
// against now.
func EntryMinutes(e models.TimeEntry, now time.Time) int {
	end := now
	if e.End != nil {
		end = *e.End
	}
	return Minutes(e.Start, end)
}

// TotalMinutes sums the durations of all entries.
func TotalMinutes(entries []models.TimeEntry, now time.Time) int {
	var total int
	for _, e := range entries {
		total += EntryMinutes(e, now)
	}
	return total
}

// WorkerTotals groups total minutes by worker.
func WorkerTotals(entries []models.TimeEntry, now time.Time) map[string]int {
	totals := make(map[string]int)
	for _, e := range entries {
		totals[e.Worker] += EntryMinutes(e, now)
	}
	return totals
}

// FormatDuration renders minutes as "45min" or "1h 30min".
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dmin", minutes)
	}
	return fmt.Sprintf("%dh %dmin", minutes/60, minutes%60)
}

// FormatClock renders minutes as a zero-padded hh:mm counter, as shown in
// the running-timer banner.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
