package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/spider"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ spider.RunService = (*RunService)(nil)

// RunService implements spider.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

const runColumns = "id, project_id, status, workers, visited, queued, fetched, failed, admitted, digest, error, started_at, finished_at"

// CreateRun records the start of a run with a generated ID.
func (s *RunService) CreateRun(ctx context.Context, run *spider.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	run.Status = spider.RunRunning
	run.StartedAt = time.Now().UTC().Truncate(time.Second)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, project_id, status, workers, visited, queued, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.ProjectID, run.Status, run.Workers, run.Visited, run.Queued,
		run.StartedAt.Format(time.RFC3339))
	if err != nil && strings.Contains(err.Error(), "FOREIGN KEY") {
		return spider.Errorf(spider.ENOTFOUND, "project not found")
	}

	return err
}

// FinishRun stores the final state of a run.
func (s *RunService) FinishRun(ctx context.Context, id string, upd spider.RunUpdate) (*spider.Run, error) {
	switch upd.Status {
	case spider.RunSucceeded, spider.RunInterrupted, spider.RunFailed:
	default:
		return nil, spider.Errorf(spider.EINVALID, "invalid final run status %q", upd.Status)
	}

	finishedAt := time.Now().UTC().Truncate(time.Second)
	result, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET status = ?, visited = ?, queued = ?, fetched = ?, failed = ?, admitted = ?,
			digest = ?, error = ?, finished_at = ?
		WHERE id = ?
	`, upd.Status, upd.Visited, upd.Queued, upd.Fetched, upd.Failed, upd.Admitted,
		upd.Digest, upd.Error, finishedAt.Format(time.RFC3339), id)
	if err != nil {
		return nil, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, spider.Errorf(spider.ENOTFOUND, "run not found")
	}

	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, spider.Errorf(spider.ENOTFOUND, "run not found")
	}
	return run, err
}

// FindRuns retrieves runs matching the filter, most recent first.
func (s *RunService) FindRuns(ctx context.Context, filter spider.RunFilter) ([]*spider.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + runColumns + " FROM runs WHERE 1=1")

	if filter.ProjectID != nil {
		query.WriteString(" AND project_id = ?")
		args = append(args, *filter.ProjectID)
	}

	query.WriteString(" ORDER BY started_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*spider.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func scanRun(row scanner) (*spider.Run, error) {
	var run spider.Run
	var startedAt, finishedAt string

	if err := row.Scan(&run.ID, &run.ProjectID, &run.Status, &run.Workers,
		&run.Visited, &run.Queued, &run.Fetched, &run.Failed, &run.Admitted,
		&run.Digest, &run.Error, &startedAt, &finishedAt); err != nil {
		return nil, err
	}

	var err error
	if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if finishedAt != "" {
		if run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
			return nil, err
		}
	}

	return &run, nil
}
