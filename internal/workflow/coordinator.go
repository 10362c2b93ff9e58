// Package workflow coordinates the expanded job instances: it dispatches
// them through a bounded worker pool, collects per-job verdicts and
// artifacts, and computes the overall workflow result.
package workflow

import (
	"context"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/gatehouse/internal/artifact"
	"github.com/fyrsmithlabs/gatehouse/internal/job"
	"github.com/fyrsmithlabs/gatehouse/internal/logging"
)

// Status is the aggregate verdict of one workflow run.
type Status string

const (
	StatusPassed    Status = "passed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// JobReport is the recorded outcome of one job instance.
type JobReport struct {
	Label     string        `json:"label"`
	State     job.State     `json:"state"`
	Runs      []job.StepRun `json:"runs"`
	Artifacts []string      `json:"artifacts,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// Report aggregates all job instances for one workflow run. Write-once:
// produced after every job has a recorded terminal state.
type Report struct {
	RunID    string        `json:"run_id"`
	Status   Status        `json:"status"`
	Jobs     []JobReport   `json:"jobs"`
	Duration time.Duration `json:"duration"`
}

// Passed reports whether the workflow passed.
func (r *Report) Passed() bool {
	return r.Status == StatusPassed
}

// Coordinator runs job instances concurrently, bounded by a concurrency
// limit that protects shared external resources (network, package
// caches). Job outcomes flow back through pool futures; jobs share no
// mutable state with each other.
type Coordinator struct {
	jobs        *job.Runner
	collector   *artifact.Collector
	log         *logging.Logger
	concurrency int
}

// NewCoordinator creates a coordinator. concurrency <= 0 means one job at
// a time.
func NewCoordinator(jobs *job.Runner, collector *artifact.Collector, log *logging.Logger, concurrency int) *Coordinator {
	if concurrency <= 0 {
		concurrency = 1
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Coordinator{jobs: jobs, collector: collector, log: log, concurrency: concurrency}
}

// Run dispatches every instance and aggregates the workflow verdict.
//
// The workflow fails iff any job's terminal state is failed; cancellation
// makes it non-passing without counting as failure. Artifacts are
// collected from every job unconditionally, including failed ones:
// failure must not suppress diagnostic evidence. Report ordering follows
// the instance order regardless of completion order.
func (c *Coordinator) Run(ctx context.Context, instances []*job.Instance) *Report {
	start := time.Now()

	report := &Report{RunID: uuid.New().String()}
	ctx = logging.WithRunID(ctx, report.RunID)

	c.log.Info(ctx, "workflow started",
		zap.Int("jobs", len(instances)),
		zap.Int("concurrency", c.concurrency))

	// A plain group rather than a context-bound one: cancellation must not
	// drop queued jobs from the report. Each job observes the context
	// itself and records a cancelled terminal state.
	pool := pond.NewResultPool[JobReport](c.concurrency)
	group := pool.NewGroup()
	for _, inst := range instances {
		inst := inst
		group.SubmitErr(func() (JobReport, error) {
			return c.runJob(ctx, inst), nil
		})
	}

	results, err := group.Wait()
	if err != nil {
		c.log.Error(ctx, "job group failed", zap.Error(err))
	}
	pool.StopAndWait()

	failed := false
	cancelled := false
	for _, jr := range results {
		report.Jobs = append(report.Jobs, jr)
		switch jr.State {
		case job.StateFailed:
			failed = true
		case job.StateCancelled:
			cancelled = true
		}
	}

	switch {
	case failed:
		report.Status = StatusFailed
	case cancelled:
		report.Status = StatusCancelled
	default:
		report.Status = StatusPassed
	}
	report.Duration = time.Since(start)

	c.log.Info(ctx, "workflow finished",
		zap.String("status", string(report.Status)),
		zap.Duration("duration", report.Duration))

	return report
}

// runJob executes one instance and collects its artifacts. Collection is
// an always-run step: it happens for failed and cancelled jobs too.
func (c *Coordinator) runJob(ctx context.Context, inst *job.Instance) JobReport {
	jobStart := time.Now()
	c.jobs.Run(ctx, inst)

	jr := JobReport{
		Label:    inst.Label,
		State:    inst.State,
		Runs:     inst.Runs,
		Duration: time.Since(jobStart),
	}

	if c.collector != nil {
		stored, err := c.collector.Collect(ctx, inst.Label, inst.Workdir, inst.ArtifactPaths())
		if err != nil {
			c.log.Error(ctx, "artifact collection failed",
				zap.String("job.label", inst.Label),
				zap.Error(err))
		}
		jr.Artifacts = stored
	}
	return jr
}
