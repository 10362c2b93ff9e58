package hook

// FileSet is the ordered, deduplicated set of candidate file paths for one
// gate run. It is computed once from the change-detection collaborator and
// read-only thereafter; the gate runner receives it as an explicit argument
// rather than reading ambient state.
type FileSet struct {
	paths []string
	index map[string]bool
}

// NewFileSet builds a FileSet preserving first-seen order and dropping
// duplicates.
func NewFileSet(paths []string) *FileSet {
	fs := &FileSet{
		index: make(map[string]bool, len(paths)),
	}
	for _, p := range paths {
		if p == "" || fs.index[p] {
			continue
		}
		fs.index[p] = true
		fs.paths = append(fs.paths, p)
	}
	return fs
}

// Paths returns the candidate paths in order. Callers must not modify the
// returned slice.
func (fs *FileSet) Paths() []string {
	return fs.paths
}

// Len returns the number of candidate paths.
func (fs *FileSet) Len() int {
	return len(fs.paths)
}
