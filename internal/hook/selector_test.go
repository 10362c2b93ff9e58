package hook

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSet_DedupAndOrder(t *testing.T) {
	fs := NewFileSet([]string{"b.py", "a.py", "b.py", "", "c.py"})

	assert.Equal(t, []string{"b.py", "a.py", "c.py"}, fs.Paths())
	assert.Equal(t, 3, fs.Len())
}

func TestSelect_TypePredicate(t *testing.T) {
	reg := NewCategoryRegistry(nil)
	d := &Descriptor{Name: "fmt", Source: LocalSource{Entry: "./fmt"}, Types: []string{"text"}, PassFiles: true}

	sel := Select(d, reg, NewFileSet([]string{"a.txt", "b.bin"}))

	assert.False(t, sel.WholeRepo)
	assert.Equal(t, []string{"a.txt"}, sel.Files)
}

func TestSelect_ExcludePattern(t *testing.T) {
	reg := NewCategoryRegistry(nil)
	d := &Descriptor{
		Name:      "lint",
		Source:    LocalSource{Entry: "./lint"},
		Types:     []string{"python"},
		Exclude:   regexp.MustCompile(`^vendor/`),
		PassFiles: true,
	}

	sel := Select(d, reg, NewFileSet([]string{"src/a.py", "vendor/b.py", "src/c.py"}))

	assert.Equal(t, []string{"src/a.py", "src/c.py"}, sel.Files)
}

func TestSelect_NoMatchIsEmpty(t *testing.T) {
	reg := NewCategoryRegistry(nil)
	d := &Descriptor{Name: "lint", Source: LocalSource{Entry: "./lint"}, Types: []string{"go"}, PassFiles: true}

	sel := Select(d, reg, NewFileSet([]string{"a.py", "b.md"}))

	require.True(t, sel.Empty())
}

func TestSelect_WholeRepoSentinel(t *testing.T) {
	reg := NewCategoryRegistry(nil)
	d := &Descriptor{Name: "audit", Source: LocalSource{Entry: "./audit"}, Types: []string{"text"}, PassFiles: false}

	sel := Select(d, reg, NewFileSet([]string{"a.txt", "b.bin"}))

	assert.True(t, sel.WholeRepo)
	assert.Equal(t, []string{"a.txt", "b.bin"}, sel.Files,
		"the candidate set is carried so mutation detection has a scope")
	assert.False(t, sel.Empty(), "whole-repo selections always dispatch")

	// Independent of FileSet contents, including an empty set.
	sel = Select(d, reg, NewFileSet(nil))
	assert.True(t, sel.WholeRepo)
	assert.False(t, sel.Empty())
}
