package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	// envPrefix scopes environment overrides to gatehouse.
	envPrefix = "GATEHOUSE_"

	maxConfigFileSize = 1024 * 1024 // 1MB
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = ".gatehouse.yaml"

// Load reads configuration from a YAML file, then overrides with
// GATEHOUSE_* environment variables.
//
// Precedence (highest to lowest):
//  1. Environment variables (GATEHOUSE_WORKFLOW_CONCURRENCY, ...)
//  2. YAML config file
//  3. Hardcoded defaults
//
// Environment variables map to config keys by stripping the prefix,
// lowercasing and splitting on the first underscore:
//
//	GATEHOUSE_LOGGING_LEVEL       -> logging.level
//	GATEHOUSE_WORKFLOW_CONCURRENCY -> workflow.concurrency
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultPath
	}

	f, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(content)
}

// Parse loads configuration from raw YAML bytes plus environment
// overrides. Split out from Load so tests and embedded callers can feed
// documents without touching the filesystem.
func Parse(content []byte) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		// GATEHOUSE_WORKFLOW_CONCURRENCY -> workflow.concurrency
		// Split on the first underscore only: section.field_name.
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}

	if cfg.Workflow.Concurrency == 0 {
		cfg.Workflow.Concurrency = 2
	}
	if cfg.Workflow.AlwaysFailures == "" {
		cfg.Workflow.AlwaysFailures = "warn"
	}
	if cfg.Workflow.ArtifactDir == "" {
		cfg.Workflow.ArtifactDir = ".gatehouse/artifacts"
	}

	for i := range cfg.Workflow.Steps {
		if cfg.Workflow.Steps[i].Condition == "" {
			cfg.Workflow.Steps[i].Condition = "normal"
		}
		if cfg.Workflow.Steps[i].Timeout == 0 {
			cfg.Workflow.Steps[i].Timeout = Duration(30 * time.Minute)
		}
	}
}
