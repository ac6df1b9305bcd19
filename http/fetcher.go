// Package http provides an HTTP-based implementation of spider.Fetcher.
package http

import (
	"compress/gzip"
	"context"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/fwojciec/spider"
	"golang.org/x/net/html/charset"
)

// Defaults for Fetcher options.
const (
	DefaultFetchTimeout = 10 * time.Second
	DefaultMaxBodyBytes = 5 << 20
	DefaultUserAgent    = "spider/1.0 (+https://github.com/fwojciec/spider)"
)

// Ensure Fetcher implements spider.Fetcher at compile time.
var _ spider.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML documents with plain HTTP GET requests.
// Only text/html and application/xhtml+xml responses are accepted; the
// body is decompressed (br, gzip) and converted to UTF-8.
type Fetcher struct {
	client       *http.Client
	timeout      time.Duration
	userAgent    string
	maxBodyBytes int64
	transport    http.RoundTripper
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for a whole request, body included.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodyBytes caps how much of a response body is read. Longer
// bodies are truncated; link extraction works on the prefix.
func WithMaxBodyBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodyBytes = n
	}
}

// WithTransport replaces the HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(f *Fetcher) {
		f.transport = rt
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:      DefaultFetchTimeout,
		userAgent:    DefaultUserAgent,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout:   f.timeout,
		Transport: f.transport,
	}

	return f
}

// Fetch retrieves the HTML document at url.
//
// Errors are coded so callers can decide whether to retry: EUNSUPPORTED
// for non-HTML content, ENOTFOUND for 404 and 410, EINVALID for other
// client errors and malformed URLs, EUNAVAILABLE for server errors, 429,
// timeouts and network failures.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", spider.Errorf(spider.EINVALID, "invalid request for %s: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.1")
	req.Header.Set("Accept-Encoding", "br, gzip")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", spider.Errorf(spider.EUNAVAILABLE, "request %s: %v", url, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode, url); err != nil {
		return "", err
	}

	contentType := resp.Header.Get("Content-Type")
	if !isHTML(contentType) {
		return "", spider.Errorf(spider.EUNSUPPORTED, "unsupported content type %q for %s", contentType, url)
	}

	body, err := decodeBody(resp)
	if err != nil {
		return "", err
	}
	defer body.Close()

	utf8Body, err := charset.NewReader(io.LimitReader(body, f.maxBodyBytes), contentType)
	if err != nil {
		return "", spider.Errorf(spider.EUNSUPPORTED, "unsupported charset in %q for %s", contentType, url)
	}

	html, err := io.ReadAll(utf8Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", spider.Errorf(spider.EUNAVAILABLE, "read body of %s: %v", url, err)
	}

	return string(html), nil
}

// Close releases resources. For HTTP fetcher this only drops idle
// connections.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}

func checkStatus(code int, url string) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound || code == http.StatusGone:
		return spider.Errorf(spider.ENOTFOUND, "HTTP %d for %s", code, url)
	case code == http.StatusTooManyRequests || code == http.StatusRequestTimeout || code >= 500:
		return spider.Errorf(spider.EUNAVAILABLE, "HTTP %d for %s", code, url)
	default:
		return spider.Errorf(spider.EINVALID, "HTTP %d for %s", code, url)
	}
}

// isHTML reports whether a Content-Type header names an HTML document.
// A missing header is treated as HTML.
func isHTML(contentType string) bool {
	if strings.TrimSpace(contentType) == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// decodeBody undoes the Content-Encoding of a response.
func decodeBody(resp *http.Response) (io.ReadCloser, error) {
	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
	switch encoding {
	case "", "identity":
		return io.NopCloser(resp.Body), nil
	case "br":
		return io.NopCloser(brotli.NewReader(resp.Body)), nil
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, spider.Errorf(spider.EUNAVAILABLE, "corrupt gzip body: %v", err)
		}
		return zr, nil
	default:
		return nil, spider.Errorf(spider.EUNSUPPORTED, "unsupported content encoding %q", encoding)
	}
}
