package spider

import (
	"context"
	"time"
)

// Run statuses.
const (
	RunRunning     = "running"
	RunSucceeded   = "succeeded"
	RunInterrupted = "interrupted"
	RunFailed      = "failed"
)

// Run records one invocation of a crawl against a project.
type Run struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"projectId"`
	Status     string    `json:"status"`
	Workers    int       `json:"workers"`
	Visited    int       `json:"visited"`
	Queued     int       `json:"queued"`
	Fetched    int       `json:"fetched"`
	Failed     int       `json:"failed"`
	Admitted   int       `json:"admitted"`
	Digest     string    `json:"digest"`
	Error      string    `json:"error"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.ProjectID == "" {
		return Errorf(EINVALID, "run project ID required")
	}
	if r.Workers <= 0 {
		return Errorf(EINVALID, "run workers must be positive, got %d", r.Workers)
	}
	return nil
}

// RunService records crawl runs.
type RunService interface {
	// CreateRun records the start of a run. The run is marked RunRunning.
	CreateRun(ctx context.Context, run *Run) error

	// FinishRun stores the final counters and status of a run.
	// Returns ENOTFOUND if the run does not exist.
	FinishRun(ctx context.Context, id string, upd RunUpdate) (*Run, error)

	// FindRuns retrieves runs matching the filter, most recent first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	ProjectID *string `json:"projectId"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RunUpdate holds the final state of a run.
type RunUpdate struct {
	Status   string `json:"status"`
	Visited  int    `json:"visited"`
	Queued   int    `json:"queued"`
	Fetched  int    `json:"fetched"`
	Failed   int    `json:"failed"`
	Admitted int    `json:"admitted"`
	Digest   string `json:"digest"`
	Error    string `json:"error"`
}
