package sqlite_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/fwojciec/spider"
	"github.com/fwojciec/spider/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createProject(t *testing.T, svc *sqlite.ProjectService, name string) *spider.Project {
	t.Helper()
	project := &spider.Project{
		Name:    name,
		SeedURL: "https://example.com/docs",
		Dir:     "/data/" + name,
	}
	require.NoError(t, svc.CreateProject(context.Background(), project))
	return project
}

func TestProjectService_CreateProject(t *testing.T) {
	t.Parallel()

	t.Run("creates project with generated ID and timestamps", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProjectService(setupTestDB(t))

		project := createProject(t, svc, "docs")

		assert.NotEmpty(t, project.ID, "ID should be generated")
		assert.False(t, project.CreatedAt.IsZero(), "CreatedAt should be set")
		assert.False(t, project.UpdatedAt.IsZero(), "UpdatedAt should be set")
	})

	t.Run("returns EINVALID for invalid project", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProjectService(setupTestDB(t))

		err := svc.CreateProject(context.Background(), &spider.Project{Name: "docs", SeedURL: "ftp://example.com"})
		require.Error(t, err)
		assert.Equal(t, spider.EINVALID, spider.ErrorCode(err))
	})

	t.Run("returns ECONFLICT for duplicate name", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProjectService(setupTestDB(t))
		createProject(t, svc, "docs")

		err := svc.CreateProject(context.Background(), &spider.Project{Name: "docs", SeedURL: "https://other.com/"})
		require.Error(t, err)
		assert.Equal(t, spider.ECONFLICT, spider.ErrorCode(err))
	})
}

func TestProjectService_FindProjectByID(t *testing.T) {
	t.Parallel()

	t.Run("returns project when found", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProjectService(setupTestDB(t))
		project := createProject(t, svc, "docs")

		found, err := svc.FindProjectByID(context.Background(), project.ID)
		require.NoError(t, err)
		assert.Equal(t, project.ID, found.ID)
		assert.Equal(t, project.Name, found.Name)
		assert.Equal(t, project.SeedURL, found.SeedURL)
		assert.Equal(t, project.Dir, found.Dir)
		assert.True(t, project.CreatedAt.Equal(found.CreatedAt))
	})

	t.Run("returns ENOTFOUND when not found", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProjectService(setupTestDB(t))

		_, err := svc.FindProjectByID(context.Background(), "nonexistent-id")
		require.Error(t, err)
		assert.Equal(t, spider.ENOTFOUND, spider.ErrorCode(err))
	})
}

func TestProjectService_FindProjects(t *testing.T) {
	t.Parallel()

	t.Run("returns all projects with empty filter", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProjectService(setupTestDB(t))
		for i := 0; i < 3; i++ {
			createProject(t, svc, fmt.Sprintf("project-%d", i))
		}

		projects, err := svc.FindProjects(context.Background(), spider.ProjectFilter{})
		require.NoError(t, err)
		assert.Len(t, projects, 3)
	})

	t.Run("filters by name", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProjectService(setupTestDB(t))
		createProject(t, svc, "alpha")
		createProject(t, svc, "beta")

		name := "alpha"
		projects, err := svc.FindProjects(context.Background(), spider.ProjectFilter{Name: &name})
		require.NoError(t, err)
		require.Len(t, projects, 1)
		assert.Equal(t, "alpha", projects[0].Name)
	})

	t.Run("filters by ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProjectService(setupTestDB(t))
		createProject(t, svc, "alpha")
		beta := createProject(t, svc, "beta")

		projects, err := svc.FindProjects(context.Background(), spider.ProjectFilter{ID: &beta.ID})
		require.NoError(t, err)
		require.Len(t, projects, 1)
		assert.Equal(t, "beta", projects[0].Name)
	})

	t.Run("respects limit and offset", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProjectService(setupTestDB(t))
		for i := 0; i < 5; i++ {
			createProject(t, svc, fmt.Sprintf("project-%d", i))
		}

		projects, err := svc.FindProjects(context.Background(), spider.ProjectFilter{Limit: 2, Offset: 1})
		require.NoError(t, err)
		assert.Len(t, projects, 2)
	})
}

func TestProjectService_UpdateProject(t *testing.T) {
	t.Parallel()

	t.Run("updates seed URL and directory", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProjectService(setupTestDB(t))
		project := createProject(t, svc, "docs")

		seed := "https://example.com/new-docs"
		dir := "/elsewhere"
		updated, err := svc.UpdateProject(context.Background(), project.ID, spider.ProjectUpdate{
			SeedURL: &seed,
			Dir:     &dir,
		})
		require.NoError(t, err)

		assert.Equal(t, seed, updated.SeedURL)
		assert.Equal(t, dir, updated.Dir)
		assert.False(t, updated.UpdatedAt.Before(project.UpdatedAt))

		found, err := svc.FindProjectByID(context.Background(), project.ID)
		require.NoError(t, err)
		assert.Equal(t, seed, found.SeedURL)
	})

	t.Run("rejects an invalid seed URL", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProjectService(setupTestDB(t))
		project := createProject(t, svc, "docs")

		seed := "not a url"
		_, err := svc.UpdateProject(context.Background(), project.ID, spider.ProjectUpdate{SeedURL: &seed})
		assert.Equal(t, spider.EINVALID, spider.ErrorCode(err))
	})

	t.Run("returns ENOTFOUND when not found", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewProjectService(setupTestDB(t))

		dir := "/tmp"
		_, err := svc.UpdateProject(context.Background(), "nonexistent-id", spider.ProjectUpdate{Dir: &dir})
		require.Error(t, err)
		assert.Equal(t, spider.ENOTFOUND, spider.ErrorCode(err))
	})
}
