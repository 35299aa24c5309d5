// Handles script file endpoints: create, read, update, delete, and
// read-at-revision.

package handlers

import (
	"context"
	"fmt"

	"github.com/maruel/ksid"
	"github.com/zarouz/scriptforge/internal/server/dto"
	"github.com/zarouz/scriptforge/internal/storage/content"
)

// ScriptHandler handles script-related HTTP requests.
type ScriptHandler struct {
	svc *content.Service
}

// NewScriptHandler creates a new script handler.
func NewScriptHandler(svc *content.Service) *ScriptHandler {
	return &ScriptHandler{svc: svc}
}

// ListScripts returns all script records a project references.
func (h *ScriptHandler) ListScripts(ctx context.Context, req dto.ListScriptsRequest) (*dto.ScriptListResponse, error) {
	projectID, err := ksid.Parse(req.ProjectID)
	if err != nil {
		return nil, dto.NotFound("project")
	}
	files, err := h.svc.ListScripts(ctx, projectID)
	if err != nil {
		return nil, mapError(err, "Failed to list scripts")
	}
	out := make(dto.ScriptListResponse, 0, len(files))
	for _, f := range files {
		out = append(out, dto.ScriptResponse{
			ID:       f.ID.String(),
			Title:    f.Title,
			FilePath: f.FilePath,
		})
	}
	return &out, nil
}

// CreateScript creates a new script file within a project.
func (h *ScriptHandler) CreateScript(ctx context.Context, req dto.CreateScriptRequest) (*dto.ScriptResponse, error) {
	projectID, err := ksid.Parse(req.ProjectID)
	if err != nil {
		return nil, dto.NotFound("project")
	}
	f, err := h.svc.CreateScript(ctx, projectID, req.Title)
	if err != nil {
		return nil, mapError(err, "Failed to create script file on disk")
	}
	return &dto.ScriptResponse{
		ID:        f.ID.String(),
		Title:     f.Title,
		FilePath:  f.FilePath,
		ProjectID: req.ProjectID,
	}, nil
}

// GetScript reads and returns the current content of a script file.
func (h *ScriptHandler) GetScript(ctx context.Context, req dto.GetScriptRequest) (*dto.ScriptContentResponse, error) {
	id, err := ksid.Parse(req.ID)
	if err != nil {
		return nil, dto.NotFound("script")
	}
	f, body, err := h.svc.ReadScript(ctx, id)
	if err != nil {
		return nil, mapError(err, "Could not read file")
	}
	return &dto.ScriptContentResponse{
		ID:      f.ID.String(),
		Title:   f.Title,
		Content: body,
	}, nil
}

// UpdateScript overwrites the script file with new content.
func (h *ScriptHandler) UpdateScript(ctx context.Context, req dto.UpdateScriptRequest) (*dto.AckResponse, error) {
	id, err := ksid.Parse(req.ID)
	if err != nil {
		return nil, dto.NotFound("script")
	}
	f, err := h.svc.UpdateScript(ctx, id, *req.Content)
	if err != nil {
		return nil, mapError(err, "Could not write to file")
	}
	return &dto.AckResponse{Status: "success", Message: fmt.Sprintf("File %s saved.", f.FilePath)}, nil
}

// DeleteScript deletes a script file and its record.
func (h *ScriptHandler) DeleteScript(ctx context.Context, req dto.DeleteScriptRequest) (*dto.AckResponse, error) {
	id, err := ksid.Parse(req.ID)
	if err != nil {
		return nil, dto.NotFound("script")
	}
	if err := h.svc.DeleteScript(ctx, id); err != nil {
		return nil, mapError(err, "Failed to delete file on disk")
	}
	return &dto.AckResponse{Status: "success", Message: "Script deleted successfully."}, nil
}

// GetScriptAtCommit returns a script's content as of a given revision.
func (h *ScriptHandler) GetScriptAtCommit(ctx context.Context, req dto.GetScriptAtCommitRequest) (*dto.ScriptContentResponse, error) {
	id, err := ksid.Parse(req.ID)
	if err != nil {
		return nil, dto.NotFound("script")
	}
	f, body, err := h.svc.ScriptAtCommit(ctx, id, req.SHA)
	if err != nil {
		return nil, mapError(err, "Could not read file at revision")
	}
	return &dto.ScriptContentResponse{
		ID:      f.ID.String(),
		Title:   f.Title,
		Content: body,
	}, nil
}
