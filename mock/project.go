package mock

import (
	"context"

	"github.com/fwojciec/spider"
)

var _ spider.ProjectService = (*ProjectService)(nil)

// ProjectService is a mock implementation of spider.ProjectService.
type ProjectService struct {
	CreateProjectFn   func(ctx context.Context, project *spider.Project) error
	FindProjectByIDFn func(ctx context.Context, id string) (*spider.Project, error)
	FindProjectsFn    func(ctx context.Context, filter spider.ProjectFilter) ([]*spider.Project, error)
	UpdateProjectFn   func(ctx context.Context, id string, upd spider.ProjectUpdate) (*spider.Project, error)
}

func (s *ProjectService) CreateProject(ctx context.Context, project *spider.Project) error {
	return s.CreateProjectFn(ctx, project)
}

func (s *ProjectService) FindProjectByID(ctx context.Context, id string) (*spider.Project, error) {
	return s.FindProjectByIDFn(ctx, id)
}

func (s *ProjectService) FindProjects(ctx context.Context, filter spider.ProjectFilter) ([]*spider.Project, error) {
	return s.FindProjectsFn(ctx, filter)
}

func (s *ProjectService) UpdateProject(ctx context.Context, id string, upd spider.ProjectUpdate) (*spider.Project, error) {
	return s.UpdateProjectFn(ctx, id, upd)
}

var _ spider.RunService = (*RunService)(nil)

// RunService is a mock implementation of spider.RunService.
type RunService struct {
	CreateRunFn func(ctx context.Context, run *spider.Run) error
	FinishRunFn func(ctx context.Context, id string, upd spider.RunUpdate) (*spider.Run, error)
	FindRunsFn  func(ctx context.Context, filter spider.RunFilter) ([]*spider.Run, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *spider.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FinishRun(ctx context.Context, id string, upd spider.RunUpdate) (*spider.Run, error) {
	return s.FinishRunFn(ctx, id, upd)
}

func (s *RunService) FindRuns(ctx context.Context, filter spider.RunFilter) ([]*spider.Run, error) {
	return s.FindRunsFn(ctx, filter)
}
