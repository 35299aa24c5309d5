package catalog

import "errors"

// Shared error values for catalog services. ErrNameTaken and ErrPathTaken
// signal uniqueness conflicts so callers can map them to conflict responses.
var (
	ErrProjectNotFound = errors.New("project not found")
	ErrScriptNotFound  = errors.New("script not found")
	ErrNameTaken       = errors.New("project name already exists")
	ErrPathTaken       = errors.New("repository path already exists")

	errNameRequired  = errors.New("name is required")
	errTitleRequired = errors.New("title is required")
	errPathRequired  = errors.New("file path is required")
)
