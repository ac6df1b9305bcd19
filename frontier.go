package spider

import "context"

// Snapshot is the durable state of a crawl.
// Queue holds URLs known but not yet fetched, Crawled holds URLs already
// fetched. The two sets are disjoint.
type Snapshot struct {
	Queue   []string `json:"queue"`
	Crawled []string `json:"crawled"`
}

// FrontierStore persists crawl snapshots for a single project.
type FrontierStore interface {
	// Bootstrap creates the backing storage when it is absent and returns
	// the persisted snapshot. The queue is seeded with seedURL only when
	// no queue record existed before the call.
	Bootstrap(ctx context.Context, seedURL string) (*Snapshot, error)

	// Load returns the persisted snapshot.
	// Returns ENOTFOUND if the storage was never bootstrapped.
	Load(ctx context.Context) (*Snapshot, error)

	// Save atomically replaces the persisted snapshot.
	// A reader never observes a partially written snapshot.
	Save(ctx context.Context, snap *Snapshot) error
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
