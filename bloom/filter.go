// Package bloom provides a probabilistic pre-check for URL set membership.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Sizing used when the caller has no better estimate.
const (
	DefaultCapacity          = 100_000
	DefaultFalsePositiveRate = 0.001
)

// Filter remembers URLs approximately. MayContain never returns false for
// a URL that was added, so a negative answer lets callers skip an exact
// lookup. Positive answers must be confirmed against an exact set.
// It is safe for concurrent use.
type Filter struct {
	mu sync.RWMutex
	f  *bloom.BloomFilter
}

// NewFilter creates a filter sized for n URLs at the given false positive rate.
// A zero n or rate falls back to the package defaults.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = DefaultCapacity
	}
	if fpRate <= 0 || fpRate >= 1 {
		fpRate = DefaultFalsePositiveRate
	}
	return &Filter{f: bloom.NewWithEstimates(n, fpRate)}
}

// Add records url.
func (f *Filter) Add(url string) {
	f.mu.Lock()
	f.f.AddString(url)
	f.mu.Unlock()
}

// AddAll records every URL in urls.
func (f *Filter) AddAll(urls []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range urls {
		f.f.AddString(u)
	}
}

// MayContain reports whether url might have been added.
func (f *Filter) MayContain(url string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.f.TestString(url)
}

// EstimatedCount returns the approximate number of URLs added.
func (f *Filter) EstimatedCount() uint {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return uint(f.f.ApproximatedSize())
}
