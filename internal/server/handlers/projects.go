// Package handlers provides HTTP request handlers for the REST API.
//
// Each handler type wraps the content coordinator, validates inputs,
// and returns standardized responses; business logic lives in the
// storage packages.
package handlers

import (
	"context"
	"time"

	"github.com/maruel/ksid"
	"github.com/zarouz/scriptforge/internal/server/dto"
	"github.com/zarouz/scriptforge/internal/storage/catalog"
	"github.com/zarouz/scriptforge/internal/storage/content"
)

// ProjectHandler handles project-related HTTP requests.
type ProjectHandler struct {
	svc *content.Service
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(svc *content.Service) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

func projectResponse(p *catalog.Project) dto.ProjectResponse {
	return dto.ProjectResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.Created.AsTime().Format(time.RFC3339),
	}
}

// ListProjects returns all projects, newest first.
func (h *ProjectHandler) ListProjects(ctx context.Context, _ dto.ListProjectsRequest) (*dto.ProjectListResponse, error) {
	projects := h.svc.ListProjects(ctx)
	out := make(dto.ProjectListResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, projectResponse(p))
	}
	return &out, nil
}

// CreateProject creates a new project with its repository.
func (h *ProjectHandler) CreateProject(ctx context.Context, req dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	p, err := h.svc.CreateProject(ctx, req.Name, req.Description)
	if err != nil {
		return nil, mapError(err, "Failed to create or save project")
	}
	out := projectResponse(p)
	return &out, nil
}

// DeleteProject deletes a project, its scripts, and its repository directory.
func (h *ProjectHandler) DeleteProject(ctx context.Context, req dto.DeleteProjectRequest) (*dto.AckResponse, error) {
	id, err := ksid.Parse(req.ID)
	if err != nil {
		return nil, dto.NotFound("project")
	}
	if err := h.svc.DeleteProject(ctx, id); err != nil {
		return nil, mapError(err, "Failed to delete project")
	}
	return &dto.AckResponse{Status: "success", Message: "Project deleted successfully."}, nil
}
