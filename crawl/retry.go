package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/spider"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// RetryFunc is called before each retry with the attempt about to be made
// and the error that caused it.
type RetryFunc func(url string, attempt int, err error)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetry fetches url with the default backoff delays.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, onRetry RetryFunc) spider.FetchOutcome {
	return FetchWithRetryDelays(ctx, url, fetch, onRetry, DefaultRetryDelays())
}

// FetchWithRetryDelays fetches url, retrying transient failures once per
// entry in delays. Errors that cannot improve on retry (see spider.Retryable)
// end the attempts immediately. Cancellation of ctx during a backoff ends
// the attempts with ctx.Err().
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, onRetry RetryFunc, delays []time.Duration) spider.FetchOutcome {
	maxAttempts := len(delays) + 1

	outcome := spider.FetchOutcome{URL: url}
	for attempt := 0; attempt < maxAttempts; attempt++ {
		outcome.Attempts = attempt + 1
		html, err := fetch(ctx, url)
		if err == nil {
			outcome.Body = html
			outcome.Err = nil
			return outcome
		}
		outcome.Err = err

		if attempt >= maxAttempts-1 || !spider.Retryable(err) {
			break
		}

		if ctx.Err() != nil {
			outcome.Err = ctx.Err()
			return outcome
		}

		if onRetry != nil {
			onRetry(url, attempt+2, err)
		}

		timer := time.NewTimer(delays[attempt])
		select {
		case <-ctx.Done():
			timer.Stop()
			outcome.Err = ctx.Err()
			return outcome
		case <-timer.C:
		}
	}

	return outcome
}
