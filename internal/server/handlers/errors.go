// Maps coordinator and catalog errors onto API error responses.

package handlers

import (
	"errors"

	"github.com/zarouz/scriptforge/internal/server/dto"
	"github.com/zarouz/scriptforge/internal/storage/catalog"
	"github.com/zarouz/scriptforge/internal/storage/content"
)

// mapError translates storage-layer errors into the API taxonomy:
// invalid input, not found, conflict, or internal. fallback describes
// the operation for unrecognized (genuinely internal) failures.
func mapError(err error, fallback string) error {
	switch {
	case errors.Is(err, catalog.ErrProjectNotFound):
		return dto.NotFound("project")
	case errors.Is(err, catalog.ErrScriptNotFound):
		return dto.NotFound("script")
	case errors.Is(err, catalog.ErrNameTaken):
		return dto.Conflict("A project with this name already exists.")
	case errors.Is(err, content.ErrScriptExists):
		return dto.Conflict(err.Error())
	case errors.Is(err, content.ErrFileMissing):
		return dto.FileNotFound("Script file not found on disk.")
	case errors.Is(err, content.ErrNoRepository):
		return dto.Internal("Repository not found or initialized.")
	case errors.Is(err, content.ErrEmptyFileList):
		return dto.BadRequest("A list of files to stage is required.")
	}
	return dto.InternalWithError(fallback, err)
}
