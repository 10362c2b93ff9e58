// Package artifact retains designated job outputs for later retrieval,
// independent of job success or failure.
package artifact

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/gatehouse/internal/logging"
)

// Collector copies declared paths into a per-job namespace under the
// store root. Namespaces are append-only and keyed by job label, so
// concurrent jobs never write to the same one.
type Collector struct {
	root string
	log  *logging.Logger
}

// NewCollector creates a collector rooted at dir.
func NewCollector(dir string, log *logging.Logger) *Collector {
	if log == nil {
		log = logging.NewNop()
	}
	return &Collector{root: dir, log: log}
}

// Collect stores each declared path (relative to workdir) under
// <root>/<label>/. A declared path that does not exist at collection time
// is logged and skipped: a tool that produced no output under a directory
// it was told to watch is not an orchestrator error. Returns the stored
// paths relative to the job namespace.
func (c *Collector) Collect(ctx context.Context, label, workdir string, declared []string) ([]string, error) {
	if len(declared) == 0 {
		return nil, nil
	}

	dest := filepath.Join(c.root, label)
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifact namespace %s: %w", dest, err)
	}

	var stored []string
	for _, decl := range declared {
		src := filepath.Join(workdir, decl)
		info, err := os.Stat(src)
		if err != nil {
			if os.IsNotExist(err) {
				c.log.Warn(ctx, "declared artifact path missing, skipping",
					zap.String("job.label", label),
					zap.String("path", decl))
				continue
			}
			return stored, fmt.Errorf("stat %s: %w", src, err)
		}

		if info.IsDir() {
			copied, err := c.copyTree(src, filepath.Join(dest, decl))
			if err != nil {
				return stored, err
			}
			for _, p := range copied {
				stored = append(stored, filepath.Join(decl, p))
			}
		} else {
			if err := copyFile(src, filepath.Join(dest, decl)); err != nil {
				return stored, err
			}
			stored = append(stored, decl)
		}
	}

	c.log.Info(ctx, "artifacts collected",
		zap.String("job.label", label),
		zap.Int("files", len(stored)))
	return stored, nil
}

// Root returns the store root directory.
func (c *Collector) Root() string {
	return c.root
}

// copyTree copies a directory recursively, returning copied file paths
// relative to src.
func (c *Collector) copyTree(src, dest string) ([]string, error) {
	var copied []string
	err := filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			return os.MkdirAll(filepath.Join(dest, rel), 0o755)
		}
		if err := copyFile(path, filepath.Join(dest, rel)); err != nil {
			return err
		}
		copied = append(copied, rel)
		return nil
	})
	if err != nil {
		return copied, fmt.Errorf("copying artifact tree %s: %w", src, err)
	}
	return copied, nil
}

func copyFile(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening artifact %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating artifact copy %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying artifact %s: %w", src, err)
	}
	return nil
}
