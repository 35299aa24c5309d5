// Handles version-control endpoints: status, stage, commit, history.

package handlers

import (
	"context"

	"github.com/maruel/ksid"
	"github.com/zarouz/scriptforge/internal/server/dto"
	"github.com/zarouz/scriptforge/internal/storage/content"
	"github.com/zarouz/scriptforge/internal/storage/gitvc"
)

// defaultHistoryLimit caps history responses when no limit is supplied.
const defaultHistoryLimit = 50

// VersionControlHandler handles repository-level HTTP requests.
type VersionControlHandler struct {
	svc *content.Service
}

// NewVersionControlHandler creates a new version control handler.
func NewVersionControlHandler(svc *content.Service) *VersionControlHandler {
	return &VersionControlHandler{svc: svc}
}

func commitEntry(c *gitvc.Commit) dto.CommitEntry {
	return dto.CommitEntry{
		SHA:     c.SHA,
		Message: c.Message,
		Author:  c.Author,
		Date:    c.Date,
	}
}

// RepoStatus returns the repository status for a project. A project
// whose repository is missing or uninitialized reports internal, the
// orphaned state being recoverable by re-creating the directory.
func (h *VersionControlHandler) RepoStatus(ctx context.Context, req dto.RepoStatusRequest) (*dto.RepoStatusResponse, error) {
	projectID, err := ksid.Parse(req.ProjectID)
	if err != nil {
		return nil, dto.NotFound("project")
	}
	st, err := h.svc.RepoStatus(ctx, projectID)
	if err != nil {
		return nil, mapError(err, "Failed to read repository status")
	}
	if st == nil {
		return nil, dto.Internal("Repository not found or initialized.")
	}
	return &dto.RepoStatusResponse{
		IsDirty:   st.IsDirty,
		Untracked: st.Untracked,
		Modified:  st.Modified,
		Staged:    st.Staged,
	}, nil
}

// StageFiles stages the named files in the project's repository.
func (h *VersionControlHandler) StageFiles(ctx context.Context, req dto.StageFilesRequest) (*dto.StageFilesResponse, error) {
	projectID, err := ksid.Parse(req.ProjectID)
	if err != nil {
		return nil, dto.NotFound("project")
	}
	if err := h.svc.StageFiles(ctx, projectID, req.Files); err != nil {
		return nil, mapError(err, "Failed to stage files")
	}
	return &dto.StageFilesResponse{Status: "success", StagedFiles: req.Files}, nil
}

// Commit commits staged changes. When nothing is staged the response is
// a distinct "no_changes" acknowledgement, not an error.
func (h *VersionControlHandler) Commit(ctx context.Context, req dto.CommitRequest) (*dto.CommitResponse, error) {
	projectID, err := ksid.Parse(req.ProjectID)
	if err != nil {
		return nil, dto.NotFound("project")
	}
	c, err := h.svc.CommitProject(ctx, projectID, req.Message)
	if err != nil {
		return nil, mapError(err, "Failed to commit")
	}
	if c == nil {
		return &dto.CommitResponse{Status: "no_changes", Message: "No staged changes to commit."}, nil
	}
	entry := commitEntry(c)
	return &dto.CommitResponse{Status: "success", Commit: &entry}, nil
}

// History returns the project's commit history, newest first.
func (h *VersionControlHandler) History(ctx context.Context, req dto.HistoryRequest) (*dto.HistoryResponse, error) {
	projectID, err := ksid.Parse(req.ProjectID)
	if err != nil {
		return nil, dto.NotFound("project")
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	commits, err := h.svc.ProjectHistory(ctx, projectID, limit)
	if err != nil {
		return nil, mapError(err, "Failed to read history")
	}
	out := make(dto.HistoryResponse, 0, len(commits))
	for _, c := range commits {
		out = append(out, commitEntry(c))
	}
	return &out, nil
}
