package crawl

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// walk runs Concurrency workers over the frontier and waits for all of
// them. A worker exits when Next reports the frontier drained or stopped,
// or when ctx is done, in which case the URL it just took stays queued.
// The first persistence failure halts the frontier, which releases the
// remaining workers, and is returned.
func (c *Crawler) walk(ctx context.Context, frontier *Frontier, report ProgressFunc, stats *runStats) error {
	var g errgroup.Group
	for i := range c.Concurrency {
		worker := i + 1
		g.Go(func() error {
			for {
				url, ok := frontier.Next()
				if !ok {
					return nil
				}
				if ctx.Err() != nil {
					frontier.Release(url)
					return nil
				}
				if err := c.processPage(ctx, frontier, worker, url, report, stats); err != nil {
					return err
				}
			}
		})
	}
	return g.Wait()
}
