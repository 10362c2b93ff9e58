package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "trace level", mutate: func(c *Config) { c.Level = "trace" }},
		{name: "bad level", mutate: func(c *Config) { c.Level = "loud" }, wantErr: true},
		{name: "bad format", mutate: func(c *Config) { c.Format = "xml" }, wantErr: true},
		{name: "bad stacktrace level", mutate: func(c *Config) { c.Stacktrace.Level = "nope" }, wantErr: true},
		{name: "negative caller skip", mutate: func(c *Config) { c.Caller.Skip = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewLogger_InvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "xml"

	_, err := NewLogger(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLogger_ContextCorrelation(t *testing.T) {
	log := NewTestLogger()

	ctx := WithRunID(context.Background(), "run-42")
	ctx = WithJobLabel(ctx, "3.10")
	log.Info(ctx, "step started", StepField("install"))

	entries := log.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "run-42", fields["run.id"])
	assert.Equal(t, "3.10", fields["job.label"])
	assert.Equal(t, "install", fields["step.name"])
}

func TestLogger_TraceGatedByLevel(t *testing.T) {
	log := NewTestLogger()

	log.Trace(context.Background(), "selector decision")
	log.AssertLogged(t, TraceLevel, "selector decision")
}

func TestLevelFromString(t *testing.T) {
	l, err := LevelFromString("trace")
	require.NoError(t, err)
	assert.Equal(t, TraceLevel, l)

	l, err = LevelFromString("warn")
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, l)

	_, err = LevelFromString("shout")
	assert.Error(t, err)
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	// Must not panic and must accept fields.
	log.Info(context.Background(), "ignored", HookField("black"))
	assert.NotNil(t, log.Underlying())
}
