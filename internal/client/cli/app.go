package cli

import (
	"bufio"
	"context"
	"errors"
	"os"
	"time"

	"github.com/dmitrijs2005/werkstatt/internal/client/cache"
	"github.com/dmitrijs2005/werkstatt/internal/client/config"
	"github.com/dmitrijs2005/werkstatt/internal/client/jobs"
	"github.com/dmitrijs2005/werkstatt/internal/client/router"
	"github.com/dmitrijs2005/werkstatt/internal/client/signature"
	"github.com/dmitrijs2005/werkstatt/internal/client/timer"
	"github.com/dmitrijs2005/werkstatt/internal/logging"
	"github.com/dmitrijs2005/werkstatt/internal/objstore"
	"github.com/dmitrijs2005/werkstatt/internal/store"
)

// App wires the werkstatt client: store, photo storage, cache, router,
// timer engine and the interactive command handlers.
type App struct {
	config *config.Config
	log    logging.Logger

	store  store.Store
	photos objstore.ObjectStorage
	cache  *cache.Cache
	router *router.Router

	engine    *timer.Engine
	refresher *timer.Refresher
	jobs      *jobs.Service
	signature *signature.Service

	reader *bufio.Reader

	// list-view state: the status filter, the search term, and the jobs
	// shown by the last list render so "open <n>" can address them.
	statusFilter string
	search       string
	listing      []string
}

// NewApp connects to the backends and assembles the client. The service key
// is only inspected: an expired key is reported and startup continues, the
// store itself decides whether to accept requests.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if c.ServiceKey != "" {
		if err := store.InspectServiceKey(c.ServiceKey, time.Now()); err != nil {
			if errors.Is(err, store.ErrKeyExpired) {
				log.Warn(ctx, "service key is expired, requests will likely be rejected")
			} else {
				return nil, err
			}
		}
	}

	st, _, err := store.Open(ctx, c.DatabaseDSN)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	photos, err := objstore.NewS3Storage(ctx, objstore.S3Config{
		BaseEndpoint: c.S3BaseEndpoint,
		Region:       c.S3Region,
		Bucket:       c.S3Bucket,
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
	})
	if err != nil {
		return nil, err
	}

	return newApp(c, log, st, photos), nil
}

// newApp assembles the client over already-constructed backends. Split out
// so tests can inject in-memory implementations.
func newApp(c *config.Config, log logging.Logger, st store.Store, photos objstore.ObjectStorage) *App {
	a := &App{
		config:    c,
		log:       log,
		store:     st,
		photos:    photos,
		reader:    bufio.NewReader(os.Stdin),
		refresher: timer.NewRefresher(),
	}
	a.cache = cache.New(st, log)
	a.router = router.New(
		func(id string) bool { _, ok := a.cache.Job(id); return ok },
		a.onViewChange,
	)
	a.engine = timer.NewEngine(st, a.cache)
	a.jobs = jobs.NewService(st, photos, a.cache, a.engine, log, c.RequireOdometer)
	a.signature = signature.NewService(st, a.cache, signature.NewPad())

	// After every reload the current path may address a job that no longer
	// exists; re-deriving the view snaps back to the list.
	a.cache.Subscribe(func() { a.onViewChange(a.router.Current()) })
	return a
}

// onViewChange keeps the elapsed-time refresher bound to the visible view:
// it runs only while a detail view with a running entry is shown.
func (a *App) onViewChange(v router.View) {
	if v.Kind == router.ViewDetail {
		if _, running := a.cache.RunningEntryOf(v.JobID); running {
			jobID := v.JobID
			a.refresher.Start(a.config.TickInterval, func() { a.tick(jobID) })
			return
		}
	}
	a.refresher.Stop()
}

// tick prints the running elapsed counter for the job shown in the detail
// view.
func (a *App) tick(jobID string) {
	entry, running := a.cache.RunningEntryOf(jobID)
	if !running {
		return
	}
	printlnFn("⏱ " + timer.FormatClock(timer.EntryMinutes(entry, time.Now())))
}

// Run loads the full data set and enters the REPL. It blocks until the user
// exits.
func (a *App) Run(ctx context.Context) error {
	if err := a.cache.ReloadAll(ctx); err != nil {
		return err
	}
	printlnFn(a.config.AppTitle + " (type 'help' for commands)")
	_ = a.List(ctx)

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.router.Path, scanner)
	a.refresher.Stop()
	return nil
}
