package dto

// ProjectResponse describes one project.
type ProjectResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// ProjectListResponse is a sequence of projects, newest first.
type ProjectListResponse []ProjectResponse

// ScriptResponse describes one script record.
type ScriptResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	FilePath  string `json:"file_path"`
	ProjectID string `json:"project_id,omitempty"`
}

// ScriptListResponse is a sequence of scripts, newest first.
type ScriptListResponse []ScriptResponse

// ScriptContentResponse carries a script's current content.
type ScriptContentResponse struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// AckResponse acknowledges a mutating operation.
type AckResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// RepoStatusResponse describes a repository's working tree and index.
type RepoStatusResponse struct {
	IsDirty   bool     `json:"is_dirty"`
	Untracked []string `json:"untracked_files"`
	Modified  []string `json:"modified_files"`
	Staged    []string `json:"staged_files"`
}

// StageFilesResponse acknowledges staged files.
type StageFilesResponse struct {
	Status      string   `json:"status"`
	StagedFiles []string `json:"staged_files"`
}

// CommitEntry describes one commit.
type CommitEntry struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
	Author  string `json:"author"`
	Date    string `json:"date"`
}

// CommitResponse reports the outcome of a commit request. Status is
// "success" with Commit set when a new commit was created, or
// "no_changes" with a message when there was nothing to commit.
type CommitResponse struct {
	Status  string       `json:"status"`
	Commit  *CommitEntry `json:"commit,omitempty"`
	Message string       `json:"message,omitempty"`
}

// HistoryResponse is a sequence of commits, newest first.
type HistoryResponse []CommitEntry

// PreviewResponse carries rendered HTML for a preview request.
type PreviewResponse struct {
	HTML string `json:"html"`
}

// HealthResponse reports service health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
