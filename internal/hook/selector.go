package hook

// Selection is the resolved file subset for one hook. WholeRepo marks
// hooks declared pass_filenames=false: they run once with no path
// arguments, regardless of the candidate set. Files still carries the
// candidates for such hooks so mutation detection has a scope to watch.
type Selection struct {
	Files     []string
	WholeRepo bool
}

// Empty reports whether the selection would give a filename-passing hook
// nothing to do.
func (s Selection) Empty() bool {
	return !s.WholeRepo && len(s.Files) == 0
}

// Select computes the subset of candidates a hook must run against: a
// path is included iff its category matches the hook's predicate and the
// exclude pattern does not match it. Order follows the candidate order.
func Select(d *Descriptor, registry *CategoryRegistry, candidates *FileSet) Selection {
	if !d.PassFiles {
		return Selection{Files: candidates.Paths(), WholeRepo: true}
	}

	var files []string
	for _, path := range candidates.Paths() {
		if !registry.Matches(path, d.Types) {
			continue
		}
		if d.Exclude != nil && d.Exclude.MatchString(path) {
			continue
		}
		files = append(files, path)
	}
	return Selection{Files: files}
}
