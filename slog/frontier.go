package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/spider"
)

// Ensure LoggingFrontierStore implements spider.FrontierStore.
var _ spider.FrontierStore = (*LoggingFrontierStore)(nil)

// LoggingFrontierStore wraps a FrontierStore with logging.
type LoggingFrontierStore struct {
	next   spider.FrontierStore
	logger *slog.Logger
}

// NewLoggingFrontierStore creates a new LoggingFrontierStore.
func NewLoggingFrontierStore(next spider.FrontierStore, logger *slog.Logger) *LoggingFrontierStore {
	return &LoggingFrontierStore{next: next, logger: logger}
}

// Bootstrap delegates to the wrapped store and logs the restored sizes.
func (s *LoggingFrontierStore) Bootstrap(ctx context.Context, seedURL string) (snap *spider.Snapshot, err error) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelError
		}
		queued, crawled := sizes(snap)
		s.logger.Log(ctx, level, "bootstrap frontier",
			"seed", seedURL,
			"queued", queued,
			"crawled", crawled,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Bootstrap(ctx, seedURL)
}

// Load delegates to the wrapped store.
func (s *LoggingFrontierStore) Load(ctx context.Context) (snap *spider.Snapshot, err error) {
	defer func(begin time.Time) {
		queued, crawled := sizes(snap)
		s.logger.Log(ctx, levelFor(err, slog.LevelError), "load frontier",
			"queued", queued,
			"crawled", crawled,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Load(ctx)
}

// Save delegates to the wrapped store. Failures are logged at error
// level since they end the crawl.
func (s *LoggingFrontierStore) Save(ctx context.Context, snap *spider.Snapshot) (err error) {
	defer func(begin time.Time) {
		queued, crawled := sizes(snap)
		s.logger.Log(ctx, levelFor(err, slog.LevelError), "save frontier",
			"queued", queued,
			"crawled", crawled,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Save(ctx, snap)
}

func sizes(snap *spider.Snapshot) (queued, crawled int) {
	if snap == nil {
		return 0, 0
	}
	return len(snap.Queue), len(snap.Crawled)
}
