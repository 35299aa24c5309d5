// Manages script file records: tracked text documents inside a project.

package catalog

import (
	"context"

	"github.com/maruel/ksid"
	"github.com/zarouz/scriptforge/internal/jsonldb"
	"github.com/zarouz/scriptforge/internal/storage"
)

// ScriptFile is a single tracked text document.
//
// FilePath is relative to the owning project's repository root and is
// immutable after creation, as is the title; only the file's content
// changes over its lifetime.
type ScriptFile struct {
	ID       ksid.ID      `json:"id"`
	Title    string       `json:"title"`
	FilePath string       `json:"file_path"`
	Created  storage.Time `json:"created"`
}

// Clone returns a copy of the ScriptFile.
func (f *ScriptFile) Clone() *ScriptFile {
	c := *f
	return &c
}

// GetID returns the ScriptFile's ID.
func (f *ScriptFile) GetID() ksid.ID {
	return f.ID
}

// ScriptFileService handles script file record management.
type ScriptFileService struct {
	table *jsonldb.Table[*ScriptFile]
}

// NewScriptFileService creates a new script file service backed by tablePath.
func NewScriptFileService(tablePath string) (*ScriptFileService, error) {
	table, err := jsonldb.NewTable[*ScriptFile](tablePath)
	if err != nil {
		return nil, err
	}
	return &ScriptFileService{table: table}, nil
}

// Create persists a new script file record.
func (s *ScriptFileService) Create(_ context.Context, title, filePath string) (*ScriptFile, error) {
	if title == "" {
		return nil, errTitleRequired
	}
	if filePath == "" {
		return nil, errPathRequired
	}
	f := &ScriptFile{
		ID:       ksid.NewID(),
		Title:    title,
		FilePath: filePath,
		Created:  storage.Now(),
	}
	if err := s.table.Append(f); err != nil {
		return nil, err
	}
	return f, nil
}

// Get retrieves a script file by ID.
func (s *ScriptFileService) Get(id ksid.ID) (*ScriptFile, error) {
	f := s.table.Get(id)
	if f == nil {
		return nil, ErrScriptNotFound
	}
	return f, nil
}

// Delete removes a script file record.
func (s *ScriptFileService) Delete(id ksid.ID) error {
	ok, err := s.table.Delete(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrScriptNotFound
	}
	return nil
}
