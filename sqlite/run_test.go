package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/spider"
	"github.com/fwojciec/spider/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunService_CreateRun(t *testing.T) {
	t.Parallel()

	t.Run("records a running run", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		project := createProject(t, sqlite.NewProjectService(db), "docs")
		svc := sqlite.NewRunService(db)

		run := &spider.Run{ProjectID: project.ID, Workers: 4, Visited: 10, Queued: 5}
		require.NoError(t, svc.CreateRun(context.Background(), run))

		assert.NotEmpty(t, run.ID)
		assert.Equal(t, spider.RunRunning, run.Status)
		assert.False(t, run.StartedAt.IsZero())

		runs, err := svc.FindRuns(context.Background(), spider.RunFilter{ProjectID: &project.ID})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, 4, runs[0].Workers)
		assert.Equal(t, 10, runs[0].Visited)
		assert.True(t, runs[0].FinishedAt.IsZero())
	})

	t.Run("returns EINVALID without workers", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))

		err := svc.CreateRun(context.Background(), &spider.Run{ProjectID: "p"})
		assert.Equal(t, spider.EINVALID, spider.ErrorCode(err))
	})

	t.Run("returns ENOTFOUND for unknown project", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))

		err := svc.CreateRun(context.Background(), &spider.Run{ProjectID: "missing", Workers: 1})
		assert.Equal(t, spider.ENOTFOUND, spider.ErrorCode(err))
	})
}

func TestRunService_FinishRun(t *testing.T) {
	t.Parallel()

	t.Run("stores final counters", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		project := createProject(t, sqlite.NewProjectService(db), "docs")
		svc := sqlite.NewRunService(db)

		run := &spider.Run{ProjectID: project.ID, Workers: 2}
		require.NoError(t, svc.CreateRun(context.Background(), run))

		finished, err := svc.FinishRun(context.Background(), run.ID, spider.RunUpdate{
			Status:   spider.RunInterrupted,
			Visited:  7,
			Queued:   3,
			Fetched:  6,
			Failed:   1,
			Admitted: 9,
			Digest:   "00000000deadbeef",
			Error:    "interrupted",
		})
		require.NoError(t, err)

		assert.Equal(t, spider.RunInterrupted, finished.Status)
		assert.Equal(t, 7, finished.Visited)
		assert.Equal(t, 3, finished.Queued)
		assert.Equal(t, 6, finished.Fetched)
		assert.Equal(t, 1, finished.Failed)
		assert.Equal(t, 9, finished.Admitted)
		assert.Equal(t, "00000000deadbeef", finished.Digest)
		assert.Equal(t, "interrupted", finished.Error)
		assert.False(t, finished.FinishedAt.IsZero())
	})

	t.Run("rejects a non-final status", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))

		_, err := svc.FinishRun(context.Background(), "any", spider.RunUpdate{Status: spider.RunRunning})
		assert.Equal(t, spider.EINVALID, spider.ErrorCode(err))
	})

	t.Run("returns ENOTFOUND for unknown run", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))

		_, err := svc.FinishRun(context.Background(), "missing", spider.RunUpdate{Status: spider.RunSucceeded})
		assert.Equal(t, spider.ENOTFOUND, spider.ErrorCode(err))
	})
}

func TestRunService_FindRuns(t *testing.T) {
	t.Parallel()

	t.Run("filters by project and orders newest first", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		projects := sqlite.NewProjectService(db)
		alpha := createProject(t, projects, "alpha")
		beta := createProject(t, projects, "beta")
		svc := sqlite.NewRunService(db)

		first := &spider.Run{ProjectID: alpha.ID, Workers: 1}
		second := &spider.Run{ProjectID: alpha.ID, Workers: 2}
		require.NoError(t, svc.CreateRun(context.Background(), first))
		require.NoError(t, svc.CreateRun(context.Background(), second))
		require.NoError(t, svc.CreateRun(context.Background(), &spider.Run{ProjectID: beta.ID, Workers: 3}))

		runs, err := svc.FindRuns(context.Background(), spider.RunFilter{ProjectID: &alpha.ID})
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, second.ID, runs[0].ID)
		assert.Equal(t, first.ID, runs[1].ID)
	})

	t.Run("respects limit", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		project := createProject(t, sqlite.NewProjectService(db), "docs")
		svc := sqlite.NewRunService(db)
		for i := 0; i < 3; i++ {
			require.NoError(t, svc.CreateRun(context.Background(), &spider.Run{ProjectID: project.ID, Workers: 1}))
		}

		runs, err := svc.FindRuns(context.Background(), spider.RunFilter{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, runs, 2)
	})
}
