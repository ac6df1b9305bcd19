package crawl_test

import (
	"context"
	"slices"
	"sync"

	"github.com/fwojciec/spider"
	"github.com/fwojciec/spider/mock"
)

// memStore keeps a snapshot in memory behind a mock.FrontierStore.
type memStore struct {
	mu       sync.Mutex
	snap     *spider.Snapshot
	saves    int
	overlaps int
	failAt   int // fail the n-th save when > 0
}

func newMemStore() *memStore {
	return &memStore{}
}

func (m *memStore) store() *mock.FrontierStore {
	return &mock.FrontierStore{
		BootstrapFn: func(_ context.Context, seedURL string) (*spider.Snapshot, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			if m.snap == nil {
				m.snap = &spider.Snapshot{Queue: []string{seedURL}}
			}
			return cloneSnapshot(m.snap), nil
		},
		LoadFn: func(_ context.Context) (*spider.Snapshot, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			if m.snap == nil {
				return nil, spider.Errorf(spider.ENOTFOUND, "no snapshot")
			}
			return cloneSnapshot(m.snap), nil
		},
		SaveFn: func(_ context.Context, snap *spider.Snapshot) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.saves++
			if m.failAt > 0 && m.saves >= m.failAt {
				return spider.Errorf(spider.EINTERNAL, "disk full")
			}
			for _, u := range snap.Queue {
				if _, found := slices.BinarySearch(snap.Crawled, u); found {
					m.overlaps++
				}
			}
			m.snap = cloneSnapshot(snap)
			return nil
		},
	}
}

func (m *memStore) snapshot() *spider.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap == nil {
		return &spider.Snapshot{}
	}
	return cloneSnapshot(m.snap)
}

func (m *memStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *memStore) overlapCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.overlaps
}

func cloneSnapshot(s *spider.Snapshot) *spider.Snapshot {
	return &spider.Snapshot{
		Queue:   slices.Clone(s.Queue),
		Crawled: slices.Clone(s.Crawled),
	}
}
