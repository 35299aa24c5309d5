package dto

// --- Projects ---

// ListProjectsRequest is a request to list all projects.
type ListProjectsRequest struct{}

// Validate is a no-op for ListProjectsRequest.
func (r *ListProjectsRequest) Validate() error {
	return nil
}

// CreateProjectRequest is a request to create a project.
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate validates the create project request fields.
func (r *CreateProjectRequest) Validate() error {
	if r.Name == "" {
		return MissingField("name")
	}
	return nil
}

// DeleteProjectRequest is a request to delete a project.
type DeleteProjectRequest struct {
	ID string `path:"id"`
}

// Validate validates the delete project request fields.
func (r *DeleteProjectRequest) Validate() error {
	if r.ID == "" {
		return MissingField("id")
	}
	return nil
}

// --- Scripts ---

// ListScriptsRequest is a request to list a project's scripts.
type ListScriptsRequest struct {
	ProjectID string `path:"id"`
}

// Validate validates the list scripts request fields.
func (r *ListScriptsRequest) Validate() error {
	if r.ProjectID == "" {
		return MissingField("id")
	}
	return nil
}

// CreateScriptRequest is a request to create a script in a project.
type CreateScriptRequest struct {
	ProjectID string `path:"id"`
	Title     string `json:"title"`
}

// Validate validates the create script request fields.
func (r *CreateScriptRequest) Validate() error {
	if r.ProjectID == "" {
		return MissingField("id")
	}
	if r.Title == "" {
		return MissingField("title")
	}
	return nil
}

// GetScriptRequest is a request to read a script's content.
type GetScriptRequest struct {
	ID string `path:"id"`
}

// Validate validates the get script request fields.
func (r *GetScriptRequest) Validate() error {
	if r.ID == "" {
		return MissingField("id")
	}
	return nil
}

// UpdateScriptRequest is a request to overwrite a script's content.
// Content is a pointer so a request without the key is rejected while an
// explicit empty string is accepted.
type UpdateScriptRequest struct {
	ID      string  `path:"id"`
	Content *string `json:"content"`
}

// Validate validates the update script request fields.
func (r *UpdateScriptRequest) Validate() error {
	if r.ID == "" {
		return MissingField("id")
	}
	if r.Content == nil {
		return MissingField("content")
	}
	return nil
}

// DeleteScriptRequest is a request to delete a script.
type DeleteScriptRequest struct {
	ID string `path:"id"`
}

// Validate validates the delete script request fields.
func (r *DeleteScriptRequest) Validate() error {
	if r.ID == "" {
		return MissingField("id")
	}
	return nil
}

// GetScriptAtCommitRequest is a request to read a script's content at a revision.
type GetScriptAtCommitRequest struct {
	ID  string `path:"id"`
	SHA string `path:"sha"`
}

// Validate validates the request fields.
func (r *GetScriptAtCommitRequest) Validate() error {
	if r.ID == "" {
		return MissingField("id")
	}
	if r.SHA == "" {
		return MissingField("sha")
	}
	return nil
}

// --- Version control ---

// RepoStatusRequest is a request for a project's repository status.
type RepoStatusRequest struct {
	ProjectID string `path:"id"`
}

// Validate validates the repo status request fields.
func (r *RepoStatusRequest) Validate() error {
	if r.ProjectID == "" {
		return MissingField("id")
	}
	return nil
}

// StageFilesRequest is a request to stage files in a project's repository.
type StageFilesRequest struct {
	ProjectID string   `path:"id"`
	Files     []string `json:"files"`
}

// Validate validates the stage files request fields.
func (r *StageFilesRequest) Validate() error {
	if r.ProjectID == "" {
		return MissingField("id")
	}
	if len(r.Files) == 0 {
		return BadRequest("A list of files to stage is required.")
	}
	return nil
}

// CommitRequest is a request to commit staged changes.
type CommitRequest struct {
	ProjectID string `path:"id"`
	Message   string `json:"message"`
}

// Validate validates the commit request fields.
func (r *CommitRequest) Validate() error {
	if r.ProjectID == "" {
		return MissingField("id")
	}
	if r.Message == "" {
		return MissingField("message")
	}
	return nil
}

// HistoryRequest is a request for a project's commit history.
type HistoryRequest struct {
	ProjectID string `path:"id"`
	Limit     int    `query:"limit"`
}

// Validate validates the history request fields.
func (r *HistoryRequest) Validate() error {
	if r.ProjectID == "" {
		return MissingField("id")
	}
	if r.Limit < 0 {
		return BadRequest("limit must be non-negative")
	}
	return nil
}

// --- Preview ---

// PreviewRequest is a request to render fountain text to HTML.
// FountainText is a pointer so a request without the key is rejected.
type PreviewRequest struct {
	FountainText *string `json:"fountain_text"`
}

// Validate validates the preview request fields.
func (r *PreviewRequest) Validate() error {
	if r.FountainText == nil {
		return MissingField("fountain_text")
	}
	return nil
}

// --- Health ---

// HealthRequest is a request for the health endpoint.
type HealthRequest struct{}

// Validate is a no-op for HealthRequest.
func (r *HealthRequest) Validate() error {
	return nil
}
