// Package slog decorates spider services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/spider"
)

// Ensure LoggingFetcher implements spider.Fetcher.
var _ spider.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging. Successful fetches are
// logged at debug level, failures at warn level.
type LoggingFetcher struct {
	next   spider.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next spider.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the request.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Log(ctx, levelFor(err, slog.LevelWarn), "fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// Ensure LoggingLinkExtractor implements spider.LinkExtractor.
var _ spider.LinkExtractor = (*LoggingLinkExtractor)(nil)

// LoggingLinkExtractor wraps a LinkExtractor and logs parse diagnostics.
type LoggingLinkExtractor struct {
	next   spider.LinkExtractor
	logger *slog.Logger
}

// NewLoggingLinkExtractor creates a new LoggingLinkExtractor.
func NewLoggingLinkExtractor(next spider.LinkExtractor, logger *slog.Logger) *LoggingLinkExtractor {
	return &LoggingLinkExtractor{next: next, logger: logger}
}

// ExtractLinks delegates to the wrapped extractor and logs the result.
func (e *LoggingLinkExtractor) ExtractLinks(html string, baseURL string) (links []string, err error) {
	defer func(begin time.Time) {
		e.logger.Log(context.Background(), levelFor(err, slog.LevelWarn), "extract links",
			"url", baseURL,
			"count", len(links),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.ExtractLinks(html, baseURL)
}

// levelFor returns debug for nil errors and failLevel otherwise.
func levelFor(err error, failLevel slog.Level) slog.Level {
	if err != nil {
		return failLevel
	}
	return slog.LevelDebug
}
