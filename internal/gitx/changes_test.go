package gitx

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return dir, repo
}

func commitAll(t *testing.T, repo *git.Repository) {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(".")
	require.NoError(t, err)
	_, err = wt.Commit("checkpoint", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
}

func TestChangedFiles_NotARepo(t *testing.T) {
	_, err := ChangedFiles(t.TempDir())
	assert.ErrorIs(t, err, ErrNotRepository)
}

func TestChangedFiles_UntrackedAndModified(t *testing.T) {
	dir, repo := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("x = 1\n"), 0o644))
	commitAll(t, repo)

	// One modified, one untracked, one untouched.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("x = 2\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.py"), []byte("y = 1\n"), 0o644))

	files, err := ChangedFiles(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.py", "b.py"}, files, "sorted and limited to changed paths")
}

func TestChangedFiles_CleanTree(t *testing.T) {
	dir, repo := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("x = 1\n"), 0o644))
	commitAll(t, repo)

	files, err := ChangedFiles(dir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestChangedFiles_DeletedExcluded(t *testing.T) {
	dir, repo := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("x = 1\n"), 0o644))
	commitAll(t, repo)

	require.NoError(t, os.Remove(filepath.Join(dir, "a.py")))

	files, err := ChangedFiles(dir)
	require.NoError(t, err)
	assert.Empty(t, files, "deleted files are not candidates for content hooks")
}

func TestAllFiles_SkipsGitDir(t *testing.T) {
	dir, _ := initRepo(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pkg", "b.go"), []byte("package pkg\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("package main\n"), 0o644))

	files, err := AllFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "pkg/b.go"}, files)
}
