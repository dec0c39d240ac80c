// Package coord loads the dataset in the background and publishes it.
package coord

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Drominaman/cybertrend-dashboard/internal/fetch"
	"github.com/Drominaman/cybertrend-dashboard/internal/loadlog"
	"github.com/Drominaman/cybertrend-dashboard/internal/logging"
	"github.com/Drominaman/cybertrend-dashboard/internal/trend"
	"github.com/Drominaman/cybertrend-dashboard/internal/ui"
)

// DefaultInterval is the time between refreshes.
const DefaultInterval = 5 * time.Hour

// DefaultFetchTimeout is the timeout for each individual source fetch.
const DefaultFetchTimeout = 30 * time.Second

// maxConcurrentFetches limits parallel fetch operations.
const maxConcurrentFetches = 4

var (
	// ErrNoRecords is returned when a load yields no usable rows.
	ErrNoRecords = errors.New("no valid data rows could be parsed from the sources")

	// ErrSuperseded is returned by a load that finished after a newer one
	// was already published. Its dataset is discarded.
	ErrSuperseded = errors.New("load superseded by a newer dataset")

	// ErrNoSources is returned when the coordinator has nothing to load.
	ErrNoSources = errors.New("no sources configured")
)

// fetcher interface for dependency injection (testing).
type fetcher interface {
	Fetch(ctx context.Context, src fetch.Source) (fetch.Result, error)
}

// Options tune a Coordinator. Zero values select the defaults.
type Options struct {
	Interval     time.Duration
	FetchTimeout time.Duration
	Logger       *log.Logger
	Now          func() time.Time
	History      *loadlog.History // nil keeps an in-memory history only
}

// published pairs a dataset with the generation of the load that built it.
type published struct {
	generation uint64
	dataset    *trend.Dataset
}

// Coordinator owns the current dataset. Readers call Current and never
// block; loads replace the dataset wholesale.
// Uses context cancellation as the ONLY stop mechanism.
type Coordinator struct {
	fetcher      fetcher
	sources      []fetch.Source // IMMUTABLE: set at construction, never modified
	interval     time.Duration
	fetchTimeout time.Duration
	logger       *log.Logger
	now          func() time.Time
	history      *loadlog.History

	current     atomic.Pointer[published]
	generations atomic.Uint64
	group       singleflight.Group
	wg          sync.WaitGroup
}

// NewCoordinator creates a Coordinator with the real fetcher.
func NewCoordinator(f *fetch.Fetcher, sources []fetch.Source, opts Options) *Coordinator {
	return NewCoordinatorWithFetcher(f, sources, opts)
}

// NewCoordinatorWithFetcher allows injecting a custom fetcher (for testing).
func NewCoordinatorWithFetcher(f fetcher, sources []fetch.Source, opts Options) *Coordinator {
	sourcesCopy := make([]fetch.Source, len(sources))
	copy(sourcesCopy, sources)

	c := &Coordinator{
		fetcher:      f,
		sources:      sourcesCopy,
		interval:     opts.Interval,
		fetchTimeout: opts.FetchTimeout,
		logger:       opts.Logger,
		now:          opts.Now,
		history:      opts.History,
	}
	if c.interval <= 0 {
		c.interval = DefaultInterval
	}
	if c.fetchTimeout <= 0 {
		c.fetchTimeout = DefaultFetchTimeout
	}
	if c.logger == nil {
		c.logger = logging.WithPrefix("coord")
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.history == nil {
		c.history = loadlog.NewHistory(loadlog.DefaultRingSize, nil)
	}
	return c
}

// Current returns the published dataset, or nil before the first load.
func (c *Coordinator) Current() *trend.Dataset {
	if p := c.current.Load(); p != nil {
		return p.dataset
	}
	return nil
}

// Start begins background loading. Call with a cancellable context.
// Loads immediately, then every interval. program may be nil.
func (c *Coordinator) Start(ctx context.Context, program *tea.Program) {
	var notify func(tea.Msg)
	if program != nil {
		notify = program.Send
	}
	c.StartNotify(ctx, notify)
}

// StartNotify is Start with an arbitrary message sink. notify may be nil.
func (c *Coordinator) StartNotify(ctx context.Context, notify func(tea.Msg)) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		c.refreshAndNotify(ctx, notify)

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.refreshAndNotify(ctx, notify)
			}
		}
	}()
}

// Wait blocks until the background goroutine exits.
// Call after canceling the context passed to Start.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// RefreshCmd returns a tea.Cmd that runs one refresh and reports it.
func (c *Coordinator) RefreshCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		return c.resultMsg(c.Refresh(ctx))
	}
}

// Refresh loads every source and publishes the result. Concurrent calls
// share the in-flight load.
func (c *Coordinator) Refresh(ctx context.Context) (*trend.Dataset, error) {
	v, err, shared := c.group.Do("load", func() (interface{}, error) {
		return c.load(ctx)
	})
	if shared {
		c.logger.Debug("refresh joined in-flight load")
	}
	if err != nil {
		return nil, err
	}
	return v.(*trend.Dataset), nil
}

func (c *Coordinator) refreshAndNotify(ctx context.Context, notify func(tea.Msg)) {
	if ctx.Err() != nil {
		return
	}
	msg := c.resultMsg(c.Refresh(ctx))
	// Send completion message (handle nil notify gracefully for testing)
	if msg != nil && notify != nil {
		notify(msg)
	}
}

func (c *Coordinator) resultMsg(ds *trend.Dataset, err error) tea.Msg {
	switch {
	case errors.Is(err, ErrSuperseded):
		return nil
	case err != nil:
		return ui.LoadFailed{Err: err}
	default:
		return ui.DatasetLoaded{Dataset: ds}
	}
}

// load runs one load attempt and records its outcome in the history.
func (c *Coordinator) load(ctx context.Context) (*trend.Dataset, error) {
	started := c.now()
	ds, rows, err := c.loadOnce(ctx)

	entry := loadlog.Entry{
		Time:    started,
		Outcome: loadlog.OutcomeLoaded,
		Rows:    rows,
		Sources: c.sourceNames(),
		Dur:     c.now().Sub(started),
	}
	switch {
	case errors.Is(err, ErrSuperseded):
		entry.Outcome = loadlog.OutcomeSuperseded
	case err != nil:
		entry.Outcome = loadlog.OutcomeFailed
		entry.Err = err.Error()
	default:
		entry.LoadID = ds.LoadID.String()
		entry.Records = ds.Len()
	}
	c.history.Record(entry)
	return ds, err
}

// loadOnce fetches all sources in parallel, normalizes the concatenated rows
// in source order and publishes the dataset. Any source error fails the load.
func (c *Coordinator) loadOnce(ctx context.Context) (*trend.Dataset, int, error) {
	if len(c.sources) == 0 {
		return nil, 0, ErrNoSources
	}

	generation := c.generations.Add(1)
	started := c.now()

	results := make([]fetch.Result, len(c.sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for i, src := range c.sources {
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(gctx, c.fetchTimeout)
			defer cancel()

			res, err := c.fetcher.Fetch(fetchCtx, src)
			if err != nil {
				c.logger.Warn("fetch failed", "source", src.Name, "err", err)
				return err
			}
			c.logger.Debug("fetched", "source", src.Name, "rows", len(res.Rows))
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	var rows []trend.RawRow
	var columns []string
	seen := make(map[string]bool)
	for _, res := range results {
		rows = append(rows, res.Rows...)
		for _, col := range res.Columns {
			if !seen[col] {
				seen[col] = true
				columns = append(columns, col)
			}
		}
	}

	records := trend.NormalizeRows(rows, columns)
	if len(records) == 0 {
		return nil, len(rows), ErrNoRecords
	}

	names := c.sourceNames()
	ds := trend.NewDataset(records, names, columns, c.now())
	if err := c.publish(generation, ds); err != nil {
		c.logger.Debug("discarding load", "generation", generation, "err", err)
		return nil, len(rows), err
	}

	c.logger.Info("dataset loaded",
		"records", len(records),
		"rows", len(rows),
		"sources", len(names),
		"load_id", ds.LoadID,
		"elapsed", c.now().Sub(started))
	return ds, len(rows), nil
}

func (c *Coordinator) sourceNames() []string {
	names := make([]string, len(c.sources))
	for i, src := range c.sources {
		names[i] = src.Name
	}
	return names
}

// History returns the recorded load attempts, oldest first.
func (c *Coordinator) History() []loadlog.Entry {
	return c.history.Entries()
}

// publish swaps ds in unless a load that started later is already visible.
func (c *Coordinator) publish(generation uint64, ds *trend.Dataset) error {
	next := &published{generation: generation, dataset: ds}
	for {
		old := c.current.Load()
		if old != nil && old.generation > generation {
			return ErrSuperseded
		}
		if c.current.CompareAndSwap(old, next) {
			return nil
		}
	}
}
