package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/spider"
	"github.com/fwojciec/spider/crawl"
	"github.com/fwojciec/spider/fs"
)

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	dir := fs.ProjectDir(c.Root, c.Name)
	snap, err := fs.NewFrontierStore(dir).Load(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", spider.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s  %s\n", c.Name, dir)
	fmt.Fprintf(deps.Stdout, "  queued   %d\n", len(snap.Queue))
	fmt.Fprintf(deps.Stdout, "  crawled  %d\n", len(snap.Crawled))
	fmt.Fprintf(deps.Stdout, "  digest   %s\n", crawl.Digest(snap.Crawled))

	run, err := c.latestRun(deps, dir)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", spider.ErrorMessage(err))
		return err
	}
	if run != nil {
		fmt.Fprintf(deps.Stdout, "  last run %s\n", formatRun(run))
	}
	return nil
}

// latestRun returns the most recent run recorded for the project in dir,
// or nil if the registry knows none.
func (c *StatusCmd) latestRun(deps *Dependencies, dir string) (*spider.Run, error) {
	projects, err := deps.Projects.FindProjects(deps.Ctx, spider.ProjectFilter{Name: &c.Name, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, nil
	}
	if abs, err := filepath.Abs(dir); err == nil && projects[0].Dir != abs {
		return nil, nil
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, spider.RunFilter{ProjectID: &projects[0].ID, Limit: 1})
	if err != nil || len(runs) == 0 {
		return nil, err
	}
	return runs[0], nil
}
