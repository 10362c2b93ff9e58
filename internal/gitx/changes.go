// Package gitx is the change-detection collaborator: it asks the
// version-control system which files changed so the gate can run against
// exactly that set. Everything else about the VCS stays external.
package gitx

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/go-git/go-git/v5"
)

// ErrNotRepository indicates the directory is not a git repository.
var ErrNotRepository = errors.New("not a git repository")

// ChangedFiles returns the paths with uncommitted changes (staged,
// unstaged or untracked) in the repository at dir, sorted for
// reproducible gate runs. Paths are relative to the repository root.
func ChangedFiles(dir string) ([]string, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, dir)
		}
		return nil, fmt.Errorf("opening repository %s: %w", dir, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("resolving worktree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("computing worktree status: %w", err)
	}

	var files []string
	for path, st := range status {
		if st.Staging == git.Unmodified && st.Worktree == git.Unmodified {
			continue
		}
		// Deleted files are no longer candidates for content hooks.
		if st.Staging == git.Deleted || st.Worktree == git.Deleted {
			continue
		}
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}

// AllFiles returns every file under dir except the .git metadata tree,
// sorted, with paths relative to dir. Used for full-tree gate runs where
// the changed-file subset is not wanted.
func AllFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == git.GitDirName {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}
