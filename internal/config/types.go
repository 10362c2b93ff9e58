// Package config provides configuration loading for gatehouse.
//
// A single YAML document declares the hook catalog (the local gate) and the
// workflow (variant axes, steps, artifact retention). Environment variables
// prefixed GATEHOUSE_ override file values. Malformed entries fail the load
// with the entry index and field name so misconfiguration is caught before
// anything executes.
package config

import (
	"fmt"
	"time"
)

// Duration wraps time.Duration with text unmarshalling for koanf/YAML.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	if parsed < 0 {
		return fmt.Errorf("duration cannot be negative: %s", text)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration().String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config is the root configuration document.
type Config struct {
	Logging    LoggingConfig       `koanf:"logging"`
	Categories map[string][]string `koanf:"categories"`
	Hooks      []HookConfig        `koanf:"hooks"`
	Workflow   WorkflowConfig      `koanf:"workflow"`
}

// LoggingConfig mirrors internal/logging.Config fields that are
// configurable from the file.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// HookConfig declares one hook. A hook is either remote (repo + rev) or
// local (entry); exactly one of the two forms must be used.
type HookConfig struct {
	Name         string   `koanf:"name"`
	Repo         string   `koanf:"repo"`
	Rev          string   `koanf:"rev"`
	Entry        string   `koanf:"entry"`
	Types        []string `koanf:"types"`
	Exclude      string   `koanf:"exclude"`
	Args         []string `koanf:"args"`
	PassFiles    *bool    `koanf:"pass_filenames"`
	MutatesFiles bool     `koanf:"mutates_files"`
}

// WorkflowConfig declares the workflow: trigger events, variant axes and
// the job template applied to every variant combination.
type WorkflowConfig struct {
	Triggers       []string     `koanf:"triggers"`
	Concurrency    int          `koanf:"concurrency"`
	RunTimeout     Duration     `koanf:"run_timeout"`
	AlwaysFailures string       `koanf:"always_failures"`
	ArtifactDir    string       `koanf:"artifact_dir"`
	Axes           []AxisConfig `koanf:"axes"`
	Steps          []StepConfig `koanf:"steps"`
}

// AxisConfig is one named variant axis.
type AxisConfig struct {
	Name   string   `koanf:"name"`
	Values []string `koanf:"values"`
}

// StepConfig is one ordered unit of work in the job template.
type StepConfig struct {
	Name      string            `koanf:"name"`
	Command   []string          `koanf:"command"`
	Timeout   Duration          `koanf:"timeout"`
	Condition string            `koanf:"condition"`
	Artifact  string            `koanf:"artifact"`
	Env       map[string]string `koanf:"env"`
	Workdir   string            `koanf:"workdir"`
}

// Validate checks structural correctness of the whole document. Entry-level
// errors carry the section, index and field so the failing line is easy to
// find.
func (c *Config) Validate() error {
	for i, h := range c.Hooks {
		if err := h.validate(); err != nil {
			return fmt.Errorf("hooks[%d]: %w", i, err)
		}
	}
	if err := c.Workflow.validate(); err != nil {
		return fmt.Errorf("workflow: %w", err)
	}
	return nil
}

func (h *HookConfig) validate() error {
	if h.Name == "" {
		return fmt.Errorf("field name: required")
	}
	remote := h.Repo != "" || h.Rev != ""
	local := h.Entry != ""
	switch {
	case remote && local:
		return fmt.Errorf("field entry: cannot combine local entry with repo/rev")
	case remote && h.Repo == "":
		return fmt.Errorf("field repo: required when rev is set")
	case remote && h.Rev == "":
		return fmt.Errorf("field rev: required when repo is set")
	case !remote && !local:
		return fmt.Errorf("field repo: either repo+rev or entry is required")
	}
	if len(h.Types) == 0 {
		return fmt.Errorf("field types: at least one file category is required")
	}
	return nil
}

func (w *WorkflowConfig) validate() error {
	if w.Concurrency < 0 {
		return fmt.Errorf("field concurrency: cannot be negative")
	}
	switch w.AlwaysFailures {
	case "", "warn", "fail":
	default:
		return fmt.Errorf("field always_failures: %q (expected warn or fail)", w.AlwaysFailures)
	}
	seen := make(map[string]bool, len(w.Axes))
	for i, a := range w.Axes {
		if a.Name == "" {
			return fmt.Errorf("axes[%d]: field name: required", i)
		}
		if seen[a.Name] {
			return fmt.Errorf("axes[%d]: field name: duplicate axis %q", i, a.Name)
		}
		seen[a.Name] = true
	}
	for i, s := range w.Steps {
		if s.Name == "" {
			return fmt.Errorf("steps[%d]: field name: required", i)
		}
		if len(s.Command) == 0 {
			return fmt.Errorf("steps[%d]: field command: required", i)
		}
		switch s.Condition {
		case "", "normal", "always", "on-failure":
		default:
			return fmt.Errorf("steps[%d]: field condition: %q (expected normal, always or on-failure)", i, s.Condition)
		}
	}
	return nil
}
