package hook

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// CategoryRegistry maps named file categories to the extensions that
// belong to them. Hook predicates reference categories by name; the
// registry is how "python" or "text" becomes a concrete match.
type CategoryRegistry struct {
	categories map[string][]string
}

// builtinCategories cover the file types hooks commonly filter on. The
// "text" category is the union of every builtin source-text extension.
var builtinCategories = map[string][]string{
	"python":   {".py", ".pyi"},
	"go":       {".go"},
	"shell":    {".sh", ".bash"},
	"yaml":     {".yaml", ".yml"},
	"json":     {".json"},
	"markdown": {".md", ".markdown"},
	"toml":     {".toml"},
	"proto":    {".proto"},
}

// NewCategoryRegistry builds a registry from the builtins plus optional
// user-defined categories. A user category may override a builtin.
func NewCategoryRegistry(extra map[string][]string) *CategoryRegistry {
	cats := make(map[string][]string, len(builtinCategories)+len(extra)+1)
	text := []string{".txt", ".rst", ".cfg", ".ini"}
	for name, exts := range builtinCategories {
		cats[name] = exts
		text = append(text, exts...)
	}
	sort.Strings(text)
	cats["text"] = text

	for name, exts := range extra {
		normalized := make([]string, len(exts))
		for i, e := range exts {
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			normalized[i] = strings.ToLower(e)
		}
		cats[name] = normalized
	}

	return &CategoryRegistry{categories: cats}
}

// Known reports whether the category name is defined.
func (r *CategoryRegistry) Known(name string) bool {
	_, ok := r.categories[name]
	return ok
}

// Matches reports whether path belongs to any of the named categories.
func (r *CategoryRegistry) Matches(path string, names []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, name := range names {
		for _, catExt := range r.categories[name] {
			if ext == catExt {
				return true
			}
		}
	}
	return false
}

// Check validates that every name is a known category.
func (r *CategoryRegistry) Check(names []string) error {
	for _, name := range names {
		if !r.Known(name) {
			return fmt.Errorf("unknown file category %q", name)
		}
	}
	return nil
}
