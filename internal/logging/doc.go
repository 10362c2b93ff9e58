// Package logging wraps Zap with gatehouse-specific configuration and
// context correlation.
//
// Hook runs, jobs and steps log through named child loggers so a single
// run can be filtered by run ID, hook ID or job label. Correlation data
// travels in the context and is injected into every entry:
//
//	ctx = logging.WithRunID(ctx, runID)
//	log.Info(ctx, "hook dispatched", logging.HookField(hookID))
//
// Tests use NewTestLogger, which records entries through zap's observer
// core instead of writing anywhere.
package logging
