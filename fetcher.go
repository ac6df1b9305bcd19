package spider

import "context"

// Fetcher retrieves HTML documents from URLs.
type Fetcher interface {
	// Fetch performs a GET request and returns the document body.
	// Non-HTML responses, HTTP error statuses and network failures are
	// reported as errors; the error code tells whether a retry can help.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}

// FetchOutcome is the result of fetching one URL after all attempts.
// A failed outcome carries no body; crawling treats it as a page with no links.
type FetchOutcome struct {
	URL      string
	Body     string
	Err      error
	Attempts int
}

// OK reports whether the fetch produced a body.
func (o FetchOutcome) OK() bool {
	return o.Err == nil
}

// Retryable reports whether another attempt may succeed.
// Only transient failures (EUNAVAILABLE) and errors without an
// application code are retried.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	switch ErrorCode(err) {
	case EUNSUPPORTED, ENOTFOUND, EINVALID:
		return false
	}
	return true
}
