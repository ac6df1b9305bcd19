// Package crawl coordinates a single-domain crawl: it hands URLs from the
// frontier to a fixed pool of workers, fetches and scans each page, admits
// newly discovered in-domain links, and persists progress after every page.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/spider"
)

// Crawler crawls the domain of a project's seed URL.
type Crawler struct {
	Fetcher     spider.Fetcher
	Extractor   spider.LinkExtractor
	Store       spider.FrontierStore
	RateLimiter spider.DomainLimiter
	Concurrency int
	RetryDelays []time.Duration
}

// Result holds the outcome of a crawl run.
// Visited and Queued describe the persisted state after the run; the
// other counters cover this run only.
type Result struct {
	Visited     int
	Queued      int
	Fetched     int
	Failed      int
	Admitted    int
	Bytes       int
	Interrupted bool
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type     ProgressType
	Worker   int
	URL      string
	Attempt  int
	Admitted int
	Queued   int
	Visited  int
	Error    error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	// ProgressStarted is sent once with the restored queue and visited sizes.
	ProgressStarted ProgressType = iota
	// ProgressVisited is sent after a fetched page was persisted. Error
	// carries a link extraction diagnostic, if any.
	ProgressVisited
	// ProgressFailed is sent after a URL whose fetch failed was persisted.
	ProgressFailed
	// ProgressRetrying is sent before a fetch is retried.
	ProgressRetrying
	// ProgressFinished is sent once when the workers have stopped.
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
// Calls are serialized.
type ProgressFunc func(event ProgressEvent)

// runStats accumulates per-run counters across workers.
type runStats struct {
	fetched  atomic.Int64
	failed   atomic.Int64
	admitted atomic.Int64
	bytes    atomic.Int64
}

// Run crawls project until the frontier drains, the context is canceled,
// or persisting progress fails.
//
// Storage is bootstrapped first: on the first run the queue is seeded
// with the project's seed URL, later runs resume from the stored state.
// Canceling ctx stops handing out URLs; pages already being fetched are
// finished and persisted, and the result is marked Interrupted.
// Configuration problems return EINVALID before any page is fetched.
func (c *Crawler) Run(ctx context.Context, project *spider.Project, progress ProgressFunc) (*Result, error) {
	if err := project.Validate(); err != nil {
		return nil, err
	}
	if c.Concurrency <= 0 {
		return nil, spider.Errorf(spider.EINVALID, "worker count must be positive, got %d", c.Concurrency)
	}
	domain, err := NewDomain(project.SeedURL)
	if err != nil {
		return nil, err
	}

	snap, err := c.Store.Bootstrap(ctx, project.SeedURL)
	if err != nil {
		return nil, fmt.Errorf("bootstrap frontier: %w", err)
	}
	frontier := NewFrontier(domain, c.Store, snap)

	report := serialize(progress)
	report(ProgressEvent{
		Type:    ProgressStarted,
		Queued:  frontier.Len(),
		Visited: frontier.VisitedLen(),
	})

	stop := context.AfterFunc(ctx, frontier.Stop)
	defer stop()

	var stats runStats
	walkErr := c.walk(ctx, frontier, report, &stats)

	result := &Result{
		Visited:     frontier.VisitedLen(),
		Queued:      frontier.Len(),
		Fetched:     int(stats.fetched.Load()),
		Failed:      int(stats.failed.Load()),
		Admitted:    int(stats.admitted.Load()),
		Bytes:       int(stats.bytes.Load()),
		Interrupted: ctx.Err() != nil && frontier.Len() > 0,
	}

	report(ProgressEvent{
		Type:    ProgressFinished,
		Queued:  result.Queued,
		Visited: result.Visited,
		Error:   walkErr,
	})

	if walkErr != nil {
		return result, walkErr
	}
	return result, nil
}

// processPage fetches url, scans it for links and records the outcome in
// the frontier. Fetch and extraction failures are absorbed: the URL is
// still marked visited with no links. Only a persistence failure is
// returned.
func (c *Crawler) processPage(ctx context.Context, frontier *Frontier, worker int, url string, report ProgressFunc, stats *runStats) error {
	if frontier.Visited(url) {
		frontier.Release(url)
		return nil
	}

	outcome := c.fetch(ctx, worker, url, report)
	if outcome.Err != nil && ctx.Err() != nil && errors.Is(outcome.Err, context.Canceled) {
		// Stopped between attempts; leave the URL queued for the next run.
		frontier.Release(url)
		return nil
	}

	var links []string
	var diag error
	if outcome.OK() {
		links, diag = c.Extractor.ExtractLinks(outcome.Body, url)
	}

	admitted, err := frontier.Complete(context.WithoutCancel(ctx), url, links)
	if err != nil {
		return err
	}

	stats.admitted.Add(int64(admitted))
	event := ProgressEvent{
		Worker:   worker,
		URL:      url,
		Attempt:  outcome.Attempts,
		Admitted: admitted,
		Queued:   frontier.Len(),
		Visited:  frontier.VisitedLen(),
	}
	if outcome.OK() {
		stats.fetched.Add(1)
		stats.bytes.Add(int64(len(outcome.Body)))
		event.Type = ProgressVisited
		event.Error = diag
	} else {
		stats.failed.Add(1)
		event.Type = ProgressFailed
		event.Error = outcome.Err
	}
	report(event)
	return nil
}

// fetch retrieves url with retries. Each attempt runs on a context that
// ignores cancellation so a stop request lets it finish; backoff waits and
// rate limiting still observe ctx.
func (c *Crawler) fetch(ctx context.Context, worker int, url string, report ProgressFunc) spider.FetchOutcome {
	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	detached := context.WithoutCancel(ctx)
	fetchFn := func(ctx context.Context, url string) (string, error) {
		if c.RateLimiter != nil {
			if err := c.RateLimiter.Wait(ctx, HostOf(url)); err != nil {
				return "", err
			}
		}
		return c.Fetcher.Fetch(detached, url)
	}
	onRetry := func(url string, attempt int, err error) {
		report(ProgressEvent{
			Type:    ProgressRetrying,
			Worker:  worker,
			URL:     url,
			Attempt: attempt,
			Error:   err,
		})
	}

	return FetchWithRetryDelays(ctx, url, fetchFn, onRetry, delays)
}

// serialize wraps fn so concurrent workers never call it at the same time.
func serialize(fn ProgressFunc) ProgressFunc {
	if fn == nil {
		return func(ProgressEvent) {}
	}
	var mu sync.Mutex
	return func(event ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		fn(event)
	}
}
