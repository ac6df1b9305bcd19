package mock

import (
	"context"

	"github.com/fwojciec/spider"
)

var _ spider.FrontierStore = (*FrontierStore)(nil)

// FrontierStore is a mock implementation of spider.FrontierStore.
type FrontierStore struct {
	BootstrapFn func(ctx context.Context, seedURL string) (*spider.Snapshot, error)
	LoadFn      func(ctx context.Context) (*spider.Snapshot, error)
	SaveFn      func(ctx context.Context, snap *spider.Snapshot) error
}

func (s *FrontierStore) Bootstrap(ctx context.Context, seedURL string) (*spider.Snapshot, error) {
	return s.BootstrapFn(ctx, seedURL)
}

func (s *FrontierStore) Load(ctx context.Context) (*spider.Snapshot, error) {
	return s.LoadFn(ctx)
}

func (s *FrontierStore) Save(ctx context.Context, snap *spider.Snapshot) error {
	return s.SaveFn(ctx, snap)
}

var _ spider.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of spider.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
