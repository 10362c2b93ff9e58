package hook

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// snapshot records file contents before a mutating hook runs so the
// executor can detect changes afterwards without depending on the VCS.
type snapshot struct {
	workdir string
	files   []string
	before  map[string]fileState
}

type fileState struct {
	exists  bool
	sum     [sha256.Size]byte
	content string
}

// takeSnapshot hashes and retains the current contents of the selected
// files. A missing file records as absent, not an error; hooks may create
// files they were pointed at.
func takeSnapshot(workdir string, files []string) (*snapshot, error) {
	snap := &snapshot{
		workdir: workdir,
		files:   files,
		before:  make(map[string]fileState, len(files)),
	}
	for _, f := range files {
		content, err := os.ReadFile(filepath.Join(workdir, f))
		if err != nil {
			if os.IsNotExist(err) {
				snap.before[f] = fileState{}
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		snap.before[f] = fileState{
			exists:  true,
			sum:     sha256.Sum256(content),
			content: string(content),
		}
	}
	return snap, nil
}

// diff re-reads the snapshotted files and returns a unified diff of every
// change, or empty string when nothing changed.
func (s *snapshot) diff() (string, error) {
	var out string
	for _, f := range s.files {
		prev := s.before[f]

		content, err := os.ReadFile(filepath.Join(s.workdir, f))
		if err != nil {
			if os.IsNotExist(err) {
				if !prev.exists {
					continue
				}
				out += fmt.Sprintf("--- %s\n+++ /dev/null (deleted)\n", f)
				continue
			}
			return "", fmt.Errorf("re-reading %s: %w", f, err)
		}

		if prev.exists && prev.sum == sha256.Sum256(content) {
			continue
		}

		edits := myers.ComputeEdits(span.URIFromPath(f), prev.content, string(content))
		out += fmt.Sprint(gotextdiff.ToUnified(f, f, prev.content, edits))
	}
	return out, nil
}
