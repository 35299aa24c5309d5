// Package content coordinates the project and script lifecycle across
// three sources of truth: catalog metadata, the on-disk working tree,
// and the per-project version-control repository.
//
// Every mutating sequence touches two independently failing resources
// (filesystem and object store) that cannot be updated atomically. The
// fixed operation orders here guarantee that a failure partway leaves
// the system either fully rolled back or in the documented
// "orphaned-but-consistent-metadata" state, never with a record
// pointing at corrupted repository data.
//
// The service assumes a single writer per repository across processes.
// Within this process an advisory per-project mutex serializes mutating
// sequences; operations on different projects proceed in parallel since
// each binds a disjoint directory tree.
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/maruel/ksid"
	"github.com/zarouz/scriptforge/internal/storage/catalog"
	"github.com/zarouz/scriptforge/internal/storage/gitvc"
)

// Coordinator-level error values. ErrScriptExists is a path uniqueness
// conflict; ErrFileMissing distinguishes absent-on-disk from an absent
// record; ErrNoRepository reports a project whose repository directory
// is gone or was never initialized.
var (
	ErrScriptExists  = errors.New("a script with this file name already exists")
	ErrFileMissing   = errors.New("script file not found on disk")
	ErrNoRepository  = errors.New("repository not found or initialized")
	ErrEmptyFileList = errors.New("a list of files to stage is required")
)

// Service orchestrates project and script lifecycle operations.
type Service struct {
	projects *catalog.ProjectService
	scripts  *catalog.ScriptFileService
	rootDir  string
	author   gitvc.Author

	locks sync.Map // ksid.ID -> *sync.Mutex
}

// NewService creates the coordinator. Project repositories live under
// dataDir/projects, metadata tables under dataDir/db.
func NewService(dataDir string, author gitvc.Author) (*Service, error) {
	rootDir := filepath.Join(dataDir, "projects")
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create projects directory: %w", err)
	}
	dbDir := filepath.Join(dataDir, "db")
	projects, err := catalog.NewProjectService(filepath.Join(dbDir, "projects.jsonl"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize project table: %w", err)
	}
	scripts, err := catalog.NewScriptFileService(filepath.Join(dbDir, "scripts.jsonl"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize script table: %w", err)
	}
	return &Service{
		projects: projects,
		scripts:  scripts,
		rootDir:  rootDir,
		author:   author,
	}, nil
}

// lock returns the advisory mutex for a project.
func (s *Service) lock(id ksid.ID) *sync.Mutex {
	m, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return m.(*sync.Mutex)
}

// repo binds a fresh adapter to the project's repository directory.
// State is re-read from disk on every call; nothing is cached.
func (s *Service) repo(p *catalog.Project) *gitvc.Repo {
	return gitvc.Open(p.RepoPath, s.author)
}

// --- Projects ---

// ListProjects returns all project records, newest first.
func (s *Service) ListProjects(_ context.Context) []*catalog.Project {
	return s.projects.List()
}

// GetProject retrieves a project record.
func (s *Service) GetProject(_ context.Context, id ksid.ID) (*catalog.Project, error) {
	return s.projects.Get(id)
}

// CreateProject allocates a fresh directory, initializes a repository in
// it, then persists the project record. If persistence fails for any
// reason, including a name conflict, the directory created in this
// attempt is removed so no orphaned directories survive.
func (s *Service) CreateProject(ctx context.Context, name, description string) (*catalog.Project, error) {
	repoPath := filepath.Join(s.rootDir, uuid.NewString())
	if err := os.Mkdir(repoPath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create project directory: %w", err)
	}
	repo := gitvc.Open(repoPath, s.author)
	if _, err := repo.Init(); err != nil {
		_ = os.RemoveAll(repoPath)
		return nil, err
	}
	p, err := s.projects.Create(ctx, name, description, repoPath)
	if err != nil {
		_ = os.RemoveAll(repoPath)
		return nil, err
	}
	return p, nil
}

// DeleteProject removes the repository directory, then every referenced
// script record, then the project record. Directory removal failure is
// logged and does not stop metadata cleanup: the worst outcome of an
// interruption is a record pointing at a missing directory, which reads
// already treat as an orphaned (absent-repository) state.
func (s *Service) DeleteProject(ctx context.Context, id ksid.ID) error {
	p, err := s.projects.Get(id)
	if err != nil {
		return err
	}
	mu := s.lock(id)
	mu.Lock()
	defer mu.Unlock()

	if p.RepoPath != "" {
		if err := os.RemoveAll(p.RepoPath); err != nil {
			slog.ErrorContext(ctx, "Failed to delete project directory", "path", p.RepoPath, "err", err)
		}
	}
	for _, scriptID := range p.ScriptFiles {
		if err := s.scripts.Delete(scriptID); err != nil && !errors.Is(err, catalog.ErrScriptNotFound) {
			return err
		}
	}
	return s.projects.Delete(id)
}

// --- Scripts ---

// ListScripts returns the script records a project references,
// newest first.
func (s *Service) ListScripts(_ context.Context, projectID ksid.ID) ([]*catalog.ScriptFile, error) {
	p, err := s.projects.Get(projectID)
	if err != nil {
		return nil, err
	}
	files := make([]*catalog.ScriptFile, 0, len(p.ScriptFiles))
	for _, id := range p.ScriptFiles {
		f, err := s.scripts.Get(id)
		if err != nil {
			// Dangling reference; skip rather than fail the listing.
			continue
		}
		files = append(files, f)
	}
	slices.SortFunc(files, func(a, b *catalog.ScriptFile) int {
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})
	return files, nil
}

// CreateScript derives a slug-based file name from the title, writes the
// templated initial document to disk, and only then persists the record
// and appends its reference to the project. A failed write leaves no
// record behind; a failed record leaves no file behind.
func (s *Service) CreateScript(ctx context.Context, projectID ksid.ID, title string) (*catalog.ScriptFile, error) {
	p, err := s.projects.Get(projectID)
	if err != nil {
		return nil, err
	}
	mu := s.lock(projectID)
	mu.Lock()
	defer mu.Unlock()

	fileName := ScriptFileName(title)
	fullPath := filepath.Join(p.RepoPath, fileName)
	if _, err := os.Stat(fullPath); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrScriptExists, fileName)
	}
	if err := os.WriteFile(fullPath, []byte(InitialScriptContent(title)), 0o644); err != nil {
		return nil, fmt.Errorf("failed to create script file on disk: %w", err)
	}

	f, err := s.scripts.Create(ctx, title, fileName)
	if err != nil {
		_ = os.Remove(fullPath)
		return nil, err
	}
	if _, err := s.projects.Modify(projectID, func(p *catalog.Project) error {
		p.ScriptFiles = append(p.ScriptFiles, f.ID)
		return nil
	}); err != nil {
		_ = s.scripts.Delete(f.ID)
		_ = os.Remove(fullPath)
		return nil, err
	}
	return f, nil
}

// resolveScript returns the record, its owning project, and the absolute
// path of the file. A script with no owning project is unreachable and
// reported as not found.
func (s *Service) resolveScript(scriptID ksid.ID) (*catalog.ScriptFile, *catalog.Project, string, error) {
	f, err := s.scripts.Get(scriptID)
	if err != nil {
		return nil, nil, "", err
	}
	p, err := s.projects.FindByScript(scriptID)
	if err != nil {
		return f, nil, "", catalog.ErrScriptNotFound
	}
	return f, p, filepath.Join(p.RepoPath, f.FilePath), nil
}

// ReadScript returns the script record and its current on-disk content
// verbatim. A missing file is reported as ErrFileMissing, distinct from
// a missing record.
func (s *Service) ReadScript(_ context.Context, scriptID ksid.ID) (*catalog.ScriptFile, string, error) {
	f, _, fullPath, err := s.resolveScript(scriptID)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return f, "", ErrFileMissing
		}
		return f, "", fmt.Errorf("could not read file: %w", err)
	}
	return f, string(data), nil
}

// UpdateScript overwrites the file's full content. No merging and no
// diffing happen here: the version-control layer exposes the resulting
// change through Status.
func (s *Service) UpdateScript(_ context.Context, scriptID ksid.ID, body string) (*catalog.ScriptFile, error) {
	f, p, fullPath, err := s.resolveScript(scriptID)
	if err != nil {
		return nil, err
	}
	mu := s.lock(p.ID)
	mu.Lock()
	defer mu.Unlock()

	if err := os.WriteFile(fullPath, []byte(body), 0o644); err != nil {
		return nil, fmt.Errorf("could not write to file: %w", err)
	}
	return f, nil
}

// DeleteScript removes the file from disk, pulls the reference from the
// owning project, then deletes the record. A disk removal failure aborts
// with the record intact so the inconsistency stays visible and
// retryable.
func (s *Service) DeleteScript(_ context.Context, scriptID ksid.ID) error {
	f, err := s.scripts.Get(scriptID)
	if err != nil {
		return err
	}
	p, err := s.projects.FindByScript(scriptID)
	if err == nil {
		mu := s.lock(p.ID)
		mu.Lock()
		defer mu.Unlock()

		fullPath := filepath.Join(p.RepoPath, f.FilePath)
		if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete file on disk: %w", err)
		}
		if _, err := s.projects.Modify(p.ID, func(p *catalog.Project) error {
			p.ScriptFiles = slices.DeleteFunc(p.ScriptFiles, func(id ksid.ID) bool { return id == scriptID })
			return nil
		}); err != nil {
			return err
		}
	}
	return s.scripts.Delete(scriptID)
}

// --- Version control ---

// RepoStatus returns the repository status for a project, or nil when
// the repository is unbound (missing or never initialized).
func (s *Service) RepoStatus(_ context.Context, projectID ksid.ID) (*gitvc.Status, error) {
	p, err := s.projects.Get(projectID)
	if err != nil {
		return nil, err
	}
	return s.repo(p).Status()
}

// StageFiles adds the named relative paths to the project's index.
func (s *Service) StageFiles(_ context.Context, projectID ksid.ID, paths []string) error {
	if len(paths) == 0 {
		return ErrEmptyFileList
	}
	p, err := s.projects.Get(projectID)
	if err != nil {
		return err
	}
	mu := s.lock(projectID)
	mu.Lock()
	defer mu.Unlock()

	ok, err := s.repo(p).Stage(paths)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoRepository
	}
	return nil
}

// CommitProject commits the project's staged changes. A nil commit with
// a nil error means there was nothing to commit; that is ordinary
// control flow, not a fault.
func (s *Service) CommitProject(_ context.Context, projectID ksid.ID, message string) (*gitvc.Commit, error) {
	p, err := s.projects.Get(projectID)
	if err != nil {
		return nil, err
	}
	mu := s.lock(projectID)
	mu.Lock()
	defer mu.Unlock()

	return s.repo(p).Commit(message)
}

// ProjectHistory returns up to limit commits for a project, newest first.
func (s *Service) ProjectHistory(_ context.Context, projectID ksid.ID, limit int) ([]*gitvc.Commit, error) {
	p, err := s.projects.Get(projectID)
	if err != nil {
		return nil, err
	}
	return s.repo(p).History(limit)
}

// ScriptAtCommit returns a script's content as of the given revision.
func (s *Service) ScriptAtCommit(_ context.Context, scriptID ksid.ID, revision string) (*catalog.ScriptFile, string, error) {
	f, p, _, err := s.resolveScript(scriptID)
	if err != nil {
		return nil, "", err
	}
	body, ok := s.repo(p).FileAtCommit(f.FilePath, revision)
	if !ok {
		return f, "", ErrFileMissing
	}
	return f, body, nil
}
