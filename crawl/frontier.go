package crawl

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/fwojciec/spider"
	"github.com/fwojciec/spider/bloom"
)

// Frontier holds the crawl state shared by all workers: URLs waiting to
// be fetched, URLs handed to a worker, and URLs already visited.
// One mutex guards all of it, and every completed URL is persisted to the
// store before the lock is released, so snapshots are written in
// completion order. A URL is never in the queue and visited at once.
//
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu   sync.Mutex
	cond *sync.Cond

	domain Domain
	store  spider.FrontierStore
	seen   *bloom.Filter

	queued  map[string]struct{} // waiting or in flight
	pending []string            // FIFO of waiting URLs; may hold stale entries
	claimed map[string]struct{} // in flight
	visited map[string]struct{}

	stopped bool
	err     error
}

// NewFrontier creates a frontier restricted to domain, restores it from
// snap and persists every completion to store. Queue entries that were
// already crawled are dropped.
func NewFrontier(domain Domain, store spider.FrontierStore, snap *spider.Snapshot) *Frontier {
	if snap == nil {
		snap = &spider.Snapshot{}
	}
	f := &Frontier{
		domain:  domain,
		store:   store,
		seen:    bloom.NewFilter(uint(max(2*(len(snap.Queue)+len(snap.Crawled)), bloom.DefaultCapacity)), 0),
		queued:  make(map[string]struct{}, len(snap.Queue)),
		claimed: make(map[string]struct{}),
		visited: make(map[string]struct{}, len(snap.Crawled)),
	}
	f.cond = sync.NewCond(&f.mu)

	for _, u := range snap.Crawled {
		f.visited[u] = struct{}{}
	}
	f.seen.AddAll(snap.Crawled)
	for _, u := range snap.Queue {
		if _, ok := f.visited[u]; ok {
			continue
		}
		if _, ok := f.queued[u]; ok {
			continue
		}
		f.queued[u] = struct{}{}
		f.pending = append(f.pending, u)
	}
	f.seen.AddAll(f.pending)
	return f
}

// Next blocks until a URL is available and hands it to the caller, who
// must report it back through Complete. It returns false once the
// frontier has drained (nothing waiting and nothing in flight), after
// Stop, or after a persistence failure.
func (f *Frontier) Next() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for {
		if f.stopped || f.err != nil {
			return "", false
		}
		for len(f.pending) > 0 {
			u := f.pending[0]
			f.pending[0] = ""
			f.pending = f.pending[1:]
			if _, ok := f.queued[u]; !ok {
				continue
			}
			if _, ok := f.claimed[u]; ok {
				continue
			}
			f.claimed[u] = struct{}{}
			return u, true
		}
		if len(f.claimed) == 0 {
			return "", false
		}
		f.cond.Wait()
	}
}

// Complete records that url was processed and discovered links.
// Links inside the domain that are neither queued nor visited join the
// queue; url moves from the queue to the visited set. The new state is
// saved before Complete returns. Completing a visited URL is a no-op.
//
// A save failure is fatal: the error is returned here and from Err, and
// Next stops handing out URLs.
func (f *Frontier) Complete(ctx context.Context, url string, links []string) (admitted int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	defer f.cond.Broadcast()

	delete(f.claimed, url)
	if f.err != nil {
		return 0, f.err
	}
	if _, ok := f.visited[url]; ok {
		return 0, nil
	}

	for _, link := range links {
		if f.admit(link) {
			admitted++
		}
	}
	delete(f.queued, url)
	f.visited[url] = struct{}{}
	f.seen.Add(url)

	if err := f.store.Save(ctx, f.snapshotLocked()); err != nil {
		f.err = fmt.Errorf("persist frontier: %w", err)
		return admitted, f.err
	}
	return admitted, nil
}

// admit queues link if it is new and inside the domain.
func (f *Frontier) admit(link string) bool {
	if f.seen.MayContain(link) {
		if _, ok := f.queued[link]; ok {
			return false
		}
		if _, ok := f.visited[link]; ok {
			return false
		}
	}
	if !f.domain.Admits(link) {
		return false
	}
	f.queued[link] = struct{}{}
	f.pending = append(f.pending, link)
	f.seen.Add(link)
	return true
}

// Stop makes Next return false. URLs already handed out can still be
// completed and persisted.
func (f *Frontier) Stop() {
	f.mu.Lock()
	f.stopped = true
	f.mu.Unlock()
	f.cond.Broadcast()
}

// Err returns the persistence failure that halted the frontier, if any.
func (f *Frontier) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Visited reports whether url has been processed.
func (f *Frontier) Visited(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.visited[url]
	return ok
}

// Len returns the number of URLs waiting or in flight.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queued)
}

// VisitedLen returns the number of visited URLs.
func (f *Frontier) VisitedLen() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visited)
}

// Snapshot returns a sorted copy of the current state.
func (f *Frontier) Snapshot() *spider.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *Frontier) snapshotLocked() *spider.Snapshot {
	return &spider.Snapshot{
		Queue:   sortedKeys(f.queued),
		Crawled: sortedKeys(f.visited),
	}
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Release returns an unfinished URL to the queue without visiting it.
// After Stop the URL stays queued for the next run instead.
func (f *Frontier) Release(url string) {
	f.mu.Lock()
	delete(f.claimed, url)
	if _, ok := f.queued[url]; ok && !f.stopped {
		f.pending = append(f.pending, url)
	}
	f.mu.Unlock()
	f.cond.Broadcast()
}
