// Package cache keeps the in-memory mirror of all remote collections. The
// snapshot is never patched in place: every successful mutation elsewhere in
// the client ends with ReloadAll, which re-fetches everything and swaps the
// snapshot atomically.
package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/werkstatt/internal/client/models"
	"github.com/dmitrijs2005/werkstatt/internal/logging"
	"github.com/dmitrijs2005/werkstatt/internal/store"
)

// Stats are the aggregate counters recomputed on every reload.
type Stats struct {
	TotalJobs      int
	OpenJobs       int
	DoneJobs       int
	RunningEntries int
}

// snapshot is one consistent view of all collections.
type snapshot struct {
	jobs       []models.Job
	entries    []models.TimeEntry
	signatures []models.Signature
	items      []models.Item
	photos     []models.Photo
	stats      Stats
}

// Cache mirrors the remote store. Jobs, entries and signatures are
// mandatory: if any of them fails to load, the reload fails and the old
// snapshot stays visible. Items and photos are optional: a failing backing
// collection degrades to an empty set so the client works against a
// partially provisioned store.
type Cache struct {
	store store.Store
	log   logging.Logger

	mu   sync.RWMutex
	snap snapshot

	subMu sync.Mutex
	subs  []func()
}

// New returns an empty cache backed by the given store.
func New(s store.Store, log logging.Logger) *Cache {
	return &Cache{store: s, log: log}
}

// Subscribe registers fn to run after every successful reload.
func (c *Cache) Subscribe(fn func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	c.subs = append(c.subs, fn)
}

type fetchResult struct {
	rows []store.Row
	err  error
}

// ReloadAll fetches every collection in parallel and replaces the snapshot.
// The old data stays visible until the new snapshot is fully assembled.
func (c *Cache) ReloadAll(ctx context.Context) error {
	collections := []string{
		store.CollectionJobs,
		store.CollectionEntries,
		store.CollectionSignatures,
		store.CollectionItems,
		store.CollectionPhotos,
	}

	results := make(map[string]fetchResult, len(collections))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, col := range collections {
		wg.Add(1)
		go func(col string) {
			defer wg.Done()
			rows, err := c.store.Select(ctx, col)
			mu.Lock()
			results[col] = fetchResult{rows: rows, err: err}
			mu.Unlock()
		}(col)
	}
	wg.Wait()

	// Mandatory collections fail the whole reload.
	for _, col := range []string{store.CollectionJobs, store.CollectionEntries, store.CollectionSignatures} {
		if err := results[col].err; err != nil {
			return fmt.Errorf("failed to load %s: %w", col, err)
		}
	}

	var next snapshot
	for _, rec := range results[store.CollectionJobs].rows {
		next.jobs = append(next.jobs, models.JobFromRow(rec))
	}
	for _, rec := range results[store.CollectionEntries].rows {
		next.entries = append(next.entries, models.TimeEntryFromRow(rec))
	}
	for _, rec := range results[store.CollectionSignatures].rows {
		next.signatures = append(next.signatures, models.SignatureFromRow(rec))
	}

	// Optional collections degrade to empty sets.
	if res := results[store.CollectionItems]; res.err != nil {
		c.log.Debug(ctx, "items collection unavailable, degrading to empty", "error", res.err)
	} else {
		for _, rec := range res.rows {
			next.items = append(next.items, models.ItemFromRow(rec))
		}
	}
	if res := results[store.CollectionPhotos]; res.err != nil {
		c.log.Debug(ctx, "photos collection unavailable, degrading to empty", "error", res.err)
	} else {
		for _, rec := range res.rows {
			next.photos = append(next.photos, models.PhotoFromRow(rec))
		}
	}

	next.stats = computeStats(next)

	c.mu.Lock()
	c.snap = next
	c.mu.Unlock()

	c.notify()
	return nil
}

func computeStats(s snapshot) Stats {
	st := Stats{TotalJobs: len(s.jobs)}
	for _, j := range s.jobs {
		if j.Done() {
			st.DoneJobs++
		} else {
			st.OpenJobs++
		}
	}
	for _, e := range s.entries {
		if e.Running() {
			st.RunningEntries++
		}
	}
	return st
}

func (c *Cache) notify() {
	c.subMu.Lock()
	subs := make([]func(), len(c.subs))
	copy(subs, c.subs)
	c.subMu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// Jobs returns all jobs in the current snapshot.
func (c *Cache) Jobs() []models.Job {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Job, len(c.snap.jobs))
	copy(out, c.snap.jobs)
	return out
}

// Job returns the job with the given id, if present.
func (c *Cache) Job(id string) (models.Job, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, j := range c.snap.jobs {
		if j.ID == id {
			return j, true
		}
	}
	return models.Job{}, false
}

// EntriesOf returns all time entries of a job.
func (c *Cache) EntriesOf(jobID string) []models.TimeEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []models.TimeEntry
	for _, e := range c.snap.entries {
		if e.JobID == jobID {
			out = append(out, e)
		}
	}
	return out
}

// RunningEntryOf returns the job's running entry, if any.
func (c *Cache) RunningEntryOf(jobID string) (models.TimeEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, e := range c.snap.entries {
		if e.JobID == jobID && e.Running() {
			return e, true
		}
	}
	return models.TimeEntry{}, false
}

// SignatureOf returns the job's signature, if any.
func (c *Cache) SignatureOf(jobID string) (models.Signature, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range c.snap.signatures {
		if s.JobID == jobID {
			return s, true
		}
	}
	return models.Signature{}, false
}

// ItemsOf returns all billable items of a job.
func (c *Cache) ItemsOf(jobID string) []models.Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []models.Item
	for _, i := range c.snap.items {
		if i.JobID == jobID {
			out = append(out, i)
		}
	}
	return out
}

// PhotosOf returns all photos of a job.
func (c *Cache) PhotosOf(jobID string) []models.Photo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []models.Photo
	for _, p := range c.snap.photos {
		if p.JobID == jobID {
			out = append(out, p)
		}
	}
	return out
}

// Stats returns the counters computed at the last reload.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.stats
}
