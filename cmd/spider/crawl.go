package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fwojciec/spider"
	"github.com/fwojciec/spider/crawl"
	"github.com/fwojciec/spider/fs"
)

// validate checks flag values before any service is touched.
func (c *CrawlCmd) validate() error {
	if err := spider.ValidateSeedURL(c.SeedURL); err != nil {
		return err
	}
	if c.Workers <= 0 {
		return spider.Errorf(spider.EINVALID, "--workers must be positive, got %d", c.Workers)
	}
	if c.Retries < 0 {
		return spider.Errorf(spider.EINVALID, "--retries must not be negative, got %d", c.Retries)
	}
	if c.RPS < 0 {
		return spider.Errorf(spider.EINVALID, "--rps must not be negative, got %g", c.RPS)
	}
	return nil
}

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	if err := c.validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", spider.ErrorMessage(err))
		return err
	}
	if deps.Crawler == nil {
		return spider.Errorf(spider.EINTERNAL, "crawler not configured")
	}

	project, err := c.project(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", spider.ErrorMessage(err))
		return err
	}

	run := &spider.Run{ProjectID: project.ID, Workers: c.Workers}
	if err := deps.Runs.CreateRun(deps.Ctx, run); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", spider.ErrorMessage(err))
		return err
	}

	logger := deps.Logger.With("project", project.Name, "run", run.ID)
	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			logger.Info("crawl started", "seed", project.SeedURL, "workers", c.Workers,
				"queued", event.Queued, "visited", event.Visited)
		case crawl.ProgressVisited:
			logger.Info("visited", "worker", event.Worker, "url", event.URL,
				"admitted", event.Admitted, "queued", event.Queued, "visited", event.Visited)
		case crawl.ProgressFailed:
			logger.Warn("fetch failed", "worker", event.Worker, "url", event.URL,
				"attempts", event.Attempt, "queued", event.Queued, "visited", event.Visited, "err", event.Error)
		case crawl.ProgressRetrying:
			logger.Info("retrying", "worker", event.Worker, "url", event.URL,
				"attempt", event.Attempt, "err", event.Error)
		case crawl.ProgressFinished:
			logger.Info("crawl stopped", "queued", event.Queued, "visited", event.Visited)
		}
	}

	result, crawlErr := deps.Crawler.Run(deps.Ctx, project, progress)

	// Record the outcome even when the crawl was interrupted by a signal.
	ctx := context.WithoutCancel(deps.Ctx)
	upd := spider.RunUpdate{Status: spider.RunSucceeded}
	if result != nil {
		upd.Visited = result.Visited
		upd.Queued = result.Queued
		upd.Fetched = result.Fetched
		upd.Failed = result.Failed
		upd.Admitted = result.Admitted
		if result.Interrupted {
			upd.Status = spider.RunInterrupted
		}
	}
	if crawlErr != nil {
		upd.Status = spider.RunFailed
		upd.Error = crawlErr.Error()
	}
	if snap, err := deps.Crawler.Store.Load(ctx); err == nil {
		upd.Digest = crawl.Digest(snap.Crawled)
	}
	if _, err := deps.Runs.FinishRun(ctx, run.ID, upd); err != nil {
		logger.Error("failed to record run", "err", err)
	}

	if crawlErr != nil {
		fmt.Fprintf(deps.Stderr, "error crawling: %v\n", crawlErr)
		return crawlErr
	}

	fmt.Fprintf(deps.Stdout, "%s  %s\n", project.Name, crawl.FormatResult(result))
	if upd.Digest != "" {
		fmt.Fprintf(deps.Stdout, "  crawled digest %s\n", upd.Digest)
	}
	return nil
}

// project finds the named project or registers it. A changed seed URL or
// root directory is written back to the registry.
func (c *CrawlCmd) project(deps *Dependencies) (*spider.Project, error) {
	dir, err := filepath.Abs(fs.ProjectDir(c.Root, c.Name))
	if err != nil {
		return nil, fmt.Errorf("resolve project directory: %w", err)
	}

	existing, err := deps.Projects.FindProjects(deps.Ctx, spider.ProjectFilter{Name: &c.Name, Limit: 1})
	if err != nil {
		return nil, err
	}

	if len(existing) == 0 {
		project := &spider.Project{Name: c.Name, SeedURL: c.SeedURL, Dir: dir}
		if err := deps.Projects.CreateProject(deps.Ctx, project); err != nil {
			return nil, err
		}
		deps.Logger.Info("registered project", "project", project.Name, "id", project.ID, "dir", dir)
		return project, nil
	}

	project := existing[0]
	if project.SeedURL == c.SeedURL && project.Dir == dir {
		return project, nil
	}
	return deps.Projects.UpdateProject(deps.Ctx, project.ID, spider.ProjectUpdate{
		SeedURL: &c.SeedURL,
		Dir:     &dir,
	})
}
