package logging

import (
	"context"

	"go.uber.org/zap"
)

// Context key types
type runIDCtxKey struct{}
type jobLabelCtxKey struct{}

// WithRunID attaches a run ID to the context. Every entry logged with this
// context carries the ID.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDCtxKey{}, runID)
}

// RunIDFromContext returns the run ID, or empty string.
func RunIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(runIDCtxKey{}).(string); ok {
		return v
	}
	return ""
}

// WithJobLabel attaches a job label to the context.
func WithJobLabel(ctx context.Context, label string) context.Context {
	return context.WithValue(ctx, jobLabelCtxKey{}, label)
}

// JobLabelFromContext returns the job label, or empty string.
func JobLabelFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(jobLabelCtxKey{}).(string); ok {
		return v
	}
	return ""
}

// ContextFields extracts correlation data from context.
func ContextFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 2)

	if runID := RunIDFromContext(ctx); runID != "" {
		fields = append(fields, zap.String("run.id", runID))
	}
	if label := JobLabelFromContext(ctx); label != "" {
		fields = append(fields, zap.String("job.label", label))
	}

	return fields
}

// Field helpers for the entities logged throughout a run.

// HookField names the hook a log entry belongs to.
func HookField(hookID string) zap.Field {
	return zap.String("hook.id", hookID)
}

// StepField names the step a log entry belongs to.
func StepField(name string) zap.Field {
	return zap.String("step.name", name)
}
