package api

import (
	"context"

	"reelflow/internal/projects"
)

// ProjectReader abstracts project persistence interactions needed for API queries.
type ProjectReader interface {
	Get(ctx context.Context, projectID string) (*projects.Project, error)
	List(ctx context.Context, statuses ...projects.Status) ([]*projects.Project, error)
	Stats(ctx context.Context) (projects.Stats, error)
}

// ProjectService exposes read-only project operations returning API DTOs.
type ProjectService struct {
	reader ProjectReader
}

// NewProjectService constructs a ProjectService around the provided reader.
func NewProjectService(reader ProjectReader) *ProjectService {
	if reader == nil {
		return nil
	}
	return &ProjectService{reader: reader}
}

// List returns projects filtered by status.
func (s *ProjectService) List(ctx context.Context, statuses ...projects.Status) ([]Project, error) {
	if s == nil || s.reader == nil {
		return nil, nil
	}
	items, err := s.reader.List(ctx, statuses...)
	if err != nil {
		return nil, err
	}
	return FromProjects(items), nil
}

// Describe fetches a single project.
func (s *ProjectService) Describe(ctx context.Context, projectID string) (*Project, error) {
	if s == nil || s.reader == nil {
		return nil, nil
	}
	project, err := s.reader.Get(ctx, projectID)
	if err != nil || project == nil {
		return nil, err
	}
	dto := FromProject(project)
	return &dto, nil
}

// Stats returns project summary counts.
func (s *ProjectService) Stats(ctx context.Context) (ProjectStats, error) {
	if s == nil || s.reader == nil {
		return ProjectStats{}, nil
	}
	stats, err := s.reader.Stats(ctx)
	if err != nil {
		return ProjectStats{}, err
	}
	return FromStats(stats), nil
}
