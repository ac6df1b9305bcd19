package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/spider"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	projects, err := deps.Projects.FindProjects(deps.Ctx, spider.ProjectFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", spider.ErrorMessage(err))
		return err
	}

	if len(projects) == 0 {
		fmt.Fprintln(deps.Stdout, "No projects found. Use 'spider crawl' to create one.")
		return nil
	}

	for _, p := range projects {
		runs, err := deps.Runs.FindRuns(deps.Ctx, spider.RunFilter{ProjectID: &p.ID, Limit: 1})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", spider.ErrorMessage(err))
			return err
		}

		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", p.Name, p.SeedURL, p.Dir)
		if len(runs) > 0 {
			fmt.Fprintf(deps.Stdout, "  last run %s\n", formatRun(runs[0]))
		} else {
			fmt.Fprintln(deps.Stdout, "  never run")
		}
	}

	return nil
}

// formatRun renders a one-line summary of a recorded run.
func formatRun(r *spider.Run) string {
	s := fmt.Sprintf("%s %s: %d visited, %d queued",
		r.StartedAt.Local().Format(time.DateTime), r.Status, r.Visited, r.Queued)
	if r.Error != "" {
		s += fmt.Sprintf(" (%s)", r.Error)
	}
	return s
}
