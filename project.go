package spider

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// Project is a named crawl whose progress lives in its own directory.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SeedURL   string    `json:"seedUrl"`
	Dir       string    `json:"dir"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate returns an error if the project contains invalid fields.
func (p *Project) Validate() error {
	if p.Name == "" {
		return Errorf(EINVALID, "project name required")
	}
	if p.Name == "." || p.Name == ".." || strings.ContainsAny(p.Name, `/\`) {
		return Errorf(EINVALID, "project name %q must be a single path element", p.Name)
	}
	return ValidateSeedURL(p.SeedURL)
}

// ValidateSeedURL returns EINVALID unless rawURL is an absolute http or
// https URL with a host.
func ValidateSeedURL(rawURL string) error {
	if rawURL == "" {
		return Errorf(EINVALID, "seed URL required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Errorf(EINVALID, "invalid seed URL %q: %v", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Errorf(EINVALID, "seed URL %q must use http or https", rawURL)
	}
	if u.Hostname() == "" {
		return Errorf(EINVALID, "seed URL %q has no host", rawURL)
	}
	return nil
}

// ProjectService represents a service for managing projects.
type ProjectService interface {
	// CreateProject creates a new project.
	// Returns ECONFLICT if a project with the same name exists.
	CreateProject(ctx context.Context, project *Project) error

	// FindProjectByID retrieves a project by ID.
	// Returns ENOTFOUND if project does not exist.
	FindProjectByID(ctx context.Context, id string) (*Project, error)

	// FindProjects retrieves projects matching the filter.
	FindProjects(ctx context.Context, filter ProjectFilter) ([]*Project, error)

	// UpdateProject updates an existing project.
	// Returns ENOTFOUND if project does not exist.
	UpdateProject(ctx context.Context, id string, upd ProjectUpdate) (*Project, error)
}

// ProjectFilter represents a filter for FindProjects.
type ProjectFilter struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ProjectUpdate represents fields that can be updated on a project.
type ProjectUpdate struct {
	SeedURL *string `json:"seedUrl"`
	Dir     *string `json:"dir"`
}
