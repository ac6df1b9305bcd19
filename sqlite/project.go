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
var _ spider.ProjectService = (*ProjectService)(nil)

// ProjectService implements spider.ProjectService using SQLite.
type ProjectService struct {
	db *DB
}

// NewProjectService creates a new ProjectService.
func NewProjectService(db *DB) *ProjectService {
	return &ProjectService{db: db}
}

const projectColumns = "id, name, seed_url, dir, created_at, updated_at"

// CreateProject creates a new project with a generated ID.
// Returns ECONFLICT if the name is taken.
func (s *ProjectService) CreateProject(ctx context.Context, project *spider.Project) error {
	if err := project.Validate(); err != nil {
		return err
	}

	existing, err := s.FindProjects(ctx, spider.ProjectFilter{Name: &project.Name, Limit: 1})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return spider.Errorf(spider.ECONFLICT, "project %q already exists", project.Name)
	}

	project.ID = uuid.New().String()
	now := time.Now().UTC().Truncate(time.Second)
	project.CreatedAt = now
	project.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO projects (`+projectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
	`, project.ID, project.Name, project.SeedURL, project.Dir,
		project.CreatedAt.Format(time.RFC3339), project.UpdatedAt.Format(time.RFC3339))

	return err
}

// FindProjectByID retrieves a project by ID.
func (s *ProjectService) FindProjectByID(ctx context.Context, id string) (*spider.Project, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+projectColumns+" FROM projects WHERE id = ?", id)
	project, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, spider.Errorf(spider.ENOTFOUND, "project not found")
	}
	return project, err
}

// FindProjects retrieves projects matching the filter, newest first.
func (s *ProjectService) FindProjects(ctx context.Context, filter spider.ProjectFilter) ([]*spider.Project, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + projectColumns + " FROM projects WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}

	query.WriteString(" ORDER BY created_at DESC, name")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*spider.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}

	return projects, rows.Err()
}

// UpdateProject updates the seed URL or directory of a project.
func (s *ProjectService) UpdateProject(ctx context.Context, id string, upd spider.ProjectUpdate) (*spider.Project, error) {
	project, err := s.FindProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.SeedURL != nil {
		project.SeedURL = *upd.SeedURL
	}
	if upd.Dir != nil {
		project.Dir = *upd.Dir
	}

	if err := project.Validate(); err != nil {
		return nil, err
	}

	project.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	_, err = s.db.ExecContext(ctx, `
		UPDATE projects
		SET seed_url = ?, dir = ?, updated_at = ?
		WHERE id = ?
	`, project.SeedURL, project.Dir, project.UpdatedAt.Format(time.RFC3339), id)
	if err != nil {
		return nil, err
	}

	return project, nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*spider.Project, error) {
	var project spider.Project
	var createdAt, updatedAt string

	if err := row.Scan(&project.ID, &project.Name, &project.SeedURL, &project.Dir, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if project.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if project.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &project, nil
}
