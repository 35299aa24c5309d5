// Manages project records: named workspaces that own script files and a
// repository directory.

// Package catalog persists project and script file metadata in JSONL
// tables. It is the system's record of what exists; the working tree and
// the version-control object store are reconciled against it by the
// content package.
package catalog

import (
	"context"
	"slices"
	"sort"

	"github.com/maruel/ksid"
	"github.com/zarouz/scriptforge/internal/jsonldb"
	"github.com/zarouz/scriptforge/internal/storage"
)

// Project is a version-controlled workspace.
//
// RepoPath denotes a directory that, once the project is successfully
// created, contains an initialized repository. A record whose directory
// is missing is orphaned: repository operations on it degrade to
// absent results instead of failing.
type Project struct {
	ID          ksid.ID      `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	RepoPath    string       `json:"repo_path"`
	ScriptFiles []ksid.ID    `json:"script_files"`
	Created     storage.Time `json:"created"`
}

// Clone returns a deep copy of the Project.
func (p *Project) Clone() *Project {
	c := *p
	c.ScriptFiles = slices.Clone(p.ScriptFiles)
	return &c
}

// GetID returns the Project's ID.
func (p *Project) GetID() ksid.ID {
	return p.ID
}

// References reports whether the project references the given script.
func (p *Project) References(scriptID ksid.ID) bool {
	return slices.Contains(p.ScriptFiles, scriptID)
}

// ProjectService handles project record management.
type ProjectService struct {
	table *jsonldb.Table[*Project]
}

// NewProjectService creates a new project service backed by tablePath.
func NewProjectService(tablePath string) (*ProjectService, error) {
	table, err := jsonldb.NewTable[*Project](tablePath)
	if err != nil {
		return nil, err
	}
	return &ProjectService{table: table}, nil
}

// Create persists a new project record. Name must be unique among
// existing projects, and repoPath unique across the table.
func (s *ProjectService) Create(_ context.Context, name, description, repoPath string) (*Project, error) {
	if name == "" {
		return nil, errNameRequired
	}
	if repoPath == "" {
		return nil, errPathRequired
	}
	for p := range s.table.All() {
		if p.Name == name {
			return nil, ErrNameTaken
		}
		if p.RepoPath == repoPath {
			return nil, ErrPathTaken
		}
	}
	p := &Project{
		ID:          ksid.NewID(),
		Name:        name,
		Description: description,
		RepoPath:    repoPath,
		ScriptFiles: []ksid.ID{},
		Created:     storage.Now(),
	}
	if err := s.table.Append(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get retrieves a project by ID.
func (s *ProjectService) Get(id ksid.ID) (*Project, error) {
	p := s.table.Get(id)
	if p == nil {
		return nil, ErrProjectNotFound
	}
	return p, nil
}

// List returns all projects, newest first.
func (s *ProjectService) List() []*Project {
	var projects []*Project
	for p := range s.table.All() {
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].ID > projects[j].ID
	})
	return projects
}

// Modify atomically modifies a project record.
func (s *ProjectService) Modify(id ksid.ID, fn func(p *Project) error) (*Project, error) {
	p, err := s.table.Modify(id, fn)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProjectNotFound
	}
	return p, nil
}

// Delete removes a project record.
func (s *ProjectService) Delete(id ksid.ID) error {
	ok, err := s.table.Delete(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrProjectNotFound
	}
	return nil
}

// FindByScript returns the project referencing the given script file,
// or ErrProjectNotFound if no project references it. A script with no
// owning project is unreachable garbage; callers treat that as absent
// rather than failing.
func (s *ProjectService) FindByScript(scriptID ksid.ID) (*Project, error) {
	for p := range s.table.All() {
		if p.References(scriptID) {
			return p, nil
		}
	}
	return nil, ErrProjectNotFound
}
