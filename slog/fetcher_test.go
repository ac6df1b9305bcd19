package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/spider"
	"github.com/fwojciec/spider/mock"
	spiderslog "github.com/fwojciec/spider/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDebugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<html>content</html>", nil
			},
		}

		fetcher := spiderslog.NewLoggingFetcher(inner, newDebugLogger(&buf))
		html, err := fetcher.Fetch(context.Background(), "https://example.com/docs")

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", html)
		output := buf.String()
		assert.Contains(t, output, "level=DEBUG")
		assert.Contains(t, output, "msg=fetch")
		assert.Contains(t, output, "url=https://example.com/docs")
		assert.Contains(t, output, "bytes=20")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure at warn level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", errors.New("network error")
			},
		}

		fetcher := spiderslog.NewLoggingFetcher(inner, logger)
		_, err := fetcher.Fetch(context.Background(), "https://example.com/docs")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, "err=\"network error\"")
	})

	t.Run("stays quiet at info level on success", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<html></html>", nil
			},
		}

		_, err := spiderslog.NewLoggingFetcher(inner, logger).Fetch(context.Background(), "https://example.com/")
		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})
}

func TestLoggingFetcher_Close(t *testing.T) {
	t.Parallel()

	t.Run("delegates to inner fetcher", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		closeCalled := false
		inner := &mock.Fetcher{
			CloseFn: func() error {
				closeCalled = true
				return nil
			},
		}

		err := spiderslog.NewLoggingFetcher(inner, newDebugLogger(&buf)).Close()

		require.NoError(t, err)
		assert.True(t, closeCalled)
	})
}

func TestLoggingLinkExtractor_ExtractLinks(t *testing.T) {
	t.Parallel()

	t.Run("logs link count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.LinkExtractor{
			ExtractLinksFn: func(html, baseURL string) ([]string, error) {
				return []string{"https://example.com/a", "https://example.com/b"}, nil
			},
		}

		links, err := spiderslog.NewLoggingLinkExtractor(inner, newDebugLogger(&buf)).ExtractLinks("<html>", "https://example.com/")

		require.NoError(t, err)
		assert.Len(t, links, 2)
		output := buf.String()
		assert.Contains(t, output, "msg=\"extract links\"")
		assert.Contains(t, output, "count=2")
	})

	t.Run("logs parse diagnostics and passes partial links through", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.LinkExtractor{
			ExtractLinksFn: func(html, baseURL string) ([]string, error) {
				return []string{"https://example.com/a"}, spider.Errorf(spider.EINVALID, "failed to parse HTML")
			},
		}

		links, err := spiderslog.NewLoggingLinkExtractor(inner, logger).ExtractLinks("<html>", "https://example.com/")

		require.Error(t, err)
		assert.Equal(t, []string{"https://example.com/a"}, links)
		output := buf.String()
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, "url=https://example.com/")
		assert.Contains(t, output, "failed to parse HTML")
	})
}
