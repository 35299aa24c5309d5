// Package gitvc adapts version-control operations for a single project
// repository onto go-git, normalizing engine objects and failure modes
// into plain result types.
//
// A Repo never caches engine state across calls: every operation
// re-opens the on-disk repository, so concurrent processes and
// out-of-band edits are always observed.
package gitvc

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Status describes the working tree and index of a repository.
type Status struct {
	IsDirty   bool     `json:"is_dirty"`
	Untracked []string `json:"untracked_files"`
	Modified  []string `json:"modified_files"`
	Staged    []string `json:"staged_files"`
}

// Commit describes one commit reachable from the repository's current branch.
type Commit struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
	Author  string `json:"author"`
	Date    string `json:"date"` // RFC 3339 instant of the author timestamp.
}

// Author identifies who made a change for commits created by the server.
type Author struct {
	Name  string
	Email string
}

// Repo binds version-control operations to a repository root directory.
//
// Opening a directory that holds no repository is not an error: reads
// degrade to absent or empty results and writes report not-available,
// which lets callers represent "project exists but repository missing"
// without a distinct error type.
type Repo struct {
	dir    string
	author Author
}

// Open binds a Repo to dir. It never fails; use Bound to check whether
// an initialized repository is present.
func Open(dir string, author Author) *Repo {
	if author.Name == "" {
		author.Name = "scriptforge"
	}
	if author.Email == "" {
		author.Email = "scriptforge@localhost"
	}
	return &Repo{dir: dir, author: author}
}

// open re-reads the on-disk repository. Returns nil when none exists.
func (r *Repo) open() *gogit.Repository {
	repo, err := gogit.PlainOpen(r.dir)
	if err != nil {
		return nil
	}
	return repo
}

// Bound reports whether an initialized repository exists at the bound directory.
func (r *Repo) Bound() bool {
	return r.open() != nil
}

// Init creates an empty repository at the bound directory if none exists.
// Returns false without error when a repository is already present, so a
// second call is an observable no-op.
func (r *Repo) Init() (bool, error) {
	if r.open() != nil {
		return false, nil
	}
	if _, err := gogit.PlainInit(r.dir, false); err != nil {
		return false, fmt.Errorf("failed to initialize repository in %s: %w", r.dir, err)
	}
	return true, nil
}

// Status returns the working tree status, or nil if no repository is bound.
//
// Staged files are computed from the index even when the repository has
// no commits yet: go-git diffs the index against the empty tree in that
// case, so a fresh repository with staged files reports them instead of
// failing on a missing branch head.
func (r *Repo) Status() (*Status, error) {
	repo := r.open()
	if repo == nil {
		return nil, nil
	}
	w, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}
	st, err := w.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to compute status: %w", err)
	}

	out := &Status{
		IsDirty:   !st.IsClean(),
		Untracked: []string{},
		Modified:  []string{},
		Staged:    []string{},
	}
	for path, fs := range st {
		if fs.Worktree == gogit.Untracked {
			out.Untracked = append(out.Untracked, path)
			continue
		}
		if fs.Worktree == gogit.Modified || fs.Worktree == gogit.Deleted {
			out.Modified = append(out.Modified, path)
		}
		if fs.Staging != gogit.Unmodified && fs.Staging != gogit.Untracked {
			out.Staged = append(out.Staged, path)
		}
	}
	// Map iteration order is random; keep responses stable.
	sort.Strings(out.Untracked)
	sort.Strings(out.Modified)
	sort.Strings(out.Staged)
	return out, nil
}

// Stage adds the named paths (relative to the repository root) to the
// index. Already-staged paths are a no-op success. Returns false when no
// repository is bound.
func (r *Repo) Stage(paths []string) (bool, error) {
	repo := r.open()
	if repo == nil {
		return false, nil
	}
	w, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("failed to get worktree: %w", err)
	}
	for _, p := range paths {
		if _, err := w.Add(p); err != nil {
			return false, fmt.Errorf("failed to stage %s: %w", p, err)
		}
	}
	return true, nil
}

// Commit creates a commit from the current index with the configured
// author identity and message verbatim. It never creates an empty
// commit: when the index has no difference from the branch head (or is
// empty in a repository with no commits) it returns (nil, nil), which
// callers report as "nothing to commit". The same nil result is
// returned when no repository is bound.
func (r *Repo) Commit(message string) (*Commit, error) {
	repo := r.open()
	if repo == nil {
		return nil, nil
	}
	w, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}
	st, err := w.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to compute status: %w", err)
	}
	staged := false
	for _, fs := range st {
		if fs.Staging != gogit.Unmodified && fs.Staging != gogit.Untracked {
			staged = true
			break
		}
	}
	if !staged {
		return nil, nil
	}

	sig := &object.Signature{
		Name:  r.author.Name,
		Email: r.author.Email,
		When:  time.Now(),
	}
	hash, err := w.Commit(message, &gogit.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	c, err := repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("failed to read new commit: %w", err)
	}
	return describe(c), nil
}

// History returns up to limit commits reachable from the current branch
// head, newest first. A repository with no commits, or no repository at
// all, yields an empty slice.
func (r *Repo) History(limit int) ([]*Commit, error) {
	if limit <= 0 {
		limit = 50
	}
	repo := r.open()
	if repo == nil {
		return []*Commit{}, nil
	}
	iter, err := repo.Log(&gogit.LogOptions{})
	if err != nil {
		// No branch head yet; nothing to report.
		return []*Commit{}, nil
	}
	defer iter.Close()

	commits := []*Commit{}
	for range limit {
		c, err := iter.Next()
		if err != nil {
			break
		}
		commits = append(commits, describe(c))
	}
	return commits, nil
}

// FileAtCommit returns the decoded content of path as it existed in the
// tree of the commit identified by revision. The second return is false
// when the repository is unbound, the revision does not resolve, or the
// path is absent from that tree.
func (r *Repo) FileAtCommit(path, revision string) (string, bool) {
	repo := r.open()
	if repo == nil {
		return "", false
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return "", false
	}
	c, err := repo.CommitObject(*hash)
	if err != nil {
		return "", false
	}
	f, err := c.File(path)
	if err != nil {
		return "", false
	}
	reader, err := f.Reader()
	if err != nil {
		return "", false
	}
	data, err := io.ReadAll(reader)
	_ = reader.Close()
	if err != nil {
		return "", false
	}
	return string(data), true
}

func describe(c *object.Commit) *Commit {
	return &Commit{
		SHA:     c.Hash.String(),
		Message: strings.TrimSpace(c.Message),
		Author:  c.Author.Name,
		Date:    c.Author.When.UTC().Format(time.RFC3339),
	}
}
