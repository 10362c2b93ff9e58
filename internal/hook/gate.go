package hook

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/gatehouse/internal/logging"
)

// GateStatus is the aggregate verdict of one gate run.
type GateStatus string

const (
	GatePassed    GateStatus = "passed"
	GateFailed    GateStatus = "failed"
	GateCancelled GateStatus = "cancelled"
)

// GateReport aggregates all hook runs for one invocation. Write-once:
// produced after every dispatched hook has a recorded terminal state.
type GateReport struct {
	RunID      string        `json:"run_id"`
	Status     GateStatus    `json:"status"`
	Runs       []Run         `json:"runs"`
	FailingIDs []string      `json:"failing_ids,omitempty"`
	// FirstFailure is the index into Runs of the first failing hook, or -1.
	// Meaningful for stop-on-failure gates, where everything after it is
	// not-run.
	FirstFailure int           `json:"first_failure"`
	Skipped      int           `json:"skipped"`
	Duration     time.Duration `json:"duration"`
}

// Passed reports whether the gate passed.
func (r *GateReport) Passed() bool {
	return r.Status == GatePassed
}

// GateRunner sequences all configured hooks for one checkout.
//
// Hooks execute strictly in declared order, sequentially: order is part of
// the gate's contract (fixers are deliberately ordered before verifiers)
// and mutating hooks share the working tree.
type GateRunner struct {
	store    *Store
	executor *Executor
	log      *logging.Logger
}

// NewGateRunner creates a gate runner over the given catalog.
func NewGateRunner(store *Store, executor *Executor, log *logging.Logger) *GateRunner {
	if log == nil {
		log = logging.NewNop()
	}
	return &GateRunner{store: store, executor: executor, log: log}
}

// RunAll executes every hook against the candidate files and aggregates
// the verdict.
//
// With stopOnFailure, execution halts at the first failing hook and every
// remaining hook is recorded not-run. Otherwise all hooks execute and
// failures accumulate. The gate passes iff every dispatched (non-skipped)
// hook passed; cancellation makes the gate non-passing without counting
// as failure.
func (g *GateRunner) RunAll(ctx context.Context, candidates *FileSet, stopOnFailure bool) *GateReport {
	start := time.Now()

	report := &GateReport{
		RunID:        uuid.New().String(),
		FirstFailure: -1,
	}
	ctx = logging.WithRunID(ctx, report.RunID)

	g.log.Info(ctx, "gate started",
		zap.Int("hooks", len(g.store.Descriptors())),
		zap.Int("candidates", candidates.Len()),
		zap.Bool("stop_on_failure", stopOnFailure))

	halted := false
	cancelled := false
	for _, d := range g.store.Descriptors() {
		if halted || cancelled {
			report.Runs = append(report.Runs, Run{HookID: d.ID(), Status: StatusNotRun})
			continue
		}
		if ctx.Err() != nil {
			cancelled = true
			report.Runs = append(report.Runs, Run{HookID: d.ID(), Status: StatusCancelled})
			continue
		}

		sel := Select(d, g.store.Registry(), candidates)
		run := g.executor.Execute(ctx, d, sel)
		report.Runs = append(report.Runs, run)

		switch run.Status {
		case StatusSkipped:
			report.Skipped++
		case StatusCancelled:
			cancelled = true
		case StatusFailed:
			report.FailingIDs = append(report.FailingIDs, run.HookID)
			if report.FirstFailure == -1 {
				report.FirstFailure = len(report.Runs) - 1
			}
			if stopOnFailure {
				halted = true
			}
		}
	}

	switch {
	case cancelled:
		report.Status = GateCancelled
	case len(report.FailingIDs) > 0:
		report.Status = GateFailed
	default:
		report.Status = GatePassed
	}
	report.Duration = time.Since(start)

	g.log.Info(ctx, "gate finished",
		zap.String("status", string(report.Status)),
		zap.Int("failed", len(report.FailingIDs)),
		zap.Int("skipped", report.Skipped),
		zap.Duration("duration", report.Duration))

	return report
}

// RunOne executes a single hook by ID against the candidate files, for
// targeted re-runs after a gate failure. The returned report carries
// exactly that one run; an unknown ID is a configuration error.
func (g *GateRunner) RunOne(ctx context.Context, id string, candidates *FileSet) (*GateReport, error) {
	d := g.store.Lookup(id)
	if d == nil {
		return nil, fmt.Errorf("unknown hook %q", id)
	}

	start := time.Now()
	report := &GateReport{
		RunID:        uuid.New().String(),
		FirstFailure: -1,
	}
	ctx = logging.WithRunID(ctx, report.RunID)

	run := g.executor.Execute(ctx, d, Select(d, g.store.Registry(), candidates))
	report.Runs = append(report.Runs, run)

	switch run.Status {
	case StatusSkipped:
		report.Skipped++
		report.Status = GatePassed
	case StatusCancelled:
		report.Status = GateCancelled
	case StatusFailed:
		report.FailingIDs = []string{run.HookID}
		report.FirstFailure = 0
		report.Status = GateFailed
	default:
		report.Status = GatePassed
	}
	report.Duration = time.Since(start)

	g.log.Info(ctx, "gate finished",
		zap.String("status", string(report.Status)),
		logging.HookField(id),
		zap.Duration("duration", report.Duration))

	return report, nil
}
