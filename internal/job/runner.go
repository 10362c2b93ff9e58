package job

import (
	"context"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/gatehouse/internal/command"
	"github.com/fyrsmithlabs/gatehouse/internal/logging"
)

// AlwaysFailurePolicy decides how a failing always-condition step affects
// the job verdict.
type AlwaysFailurePolicy string

const (
	// AlwaysWarn records the failure but leaves a succeeded job
	// succeeded. Default: always steps exist for cleanup and reporting,
	// not gating.
	AlwaysWarn AlwaysFailurePolicy = "warn"
	// AlwaysFail flips the job to failed on an always-step failure.
	AlwaysFail AlwaysFailurePolicy = "fail"
)

// Runner executes one job instance: steps strictly in declared order, each
// bounded by its own timeout, with run-conditions evaluated against the
// accumulated job state.
type Runner struct {
	runner command.Runner
	clock  clockwork.Clock
	log    *logging.Logger
	policy AlwaysFailurePolicy
}

// RunnerConfig configures a job runner.
type RunnerConfig struct {
	// Commands dispatches step invocations. Required.
	Commands command.Runner
	// Clock drives step timeouts. Defaults to the real clock; tests
	// inject a fake.
	Clock clockwork.Clock
	// Logger for step lifecycle events. Defaults to a nop logger.
	Logger *logging.Logger
	// AlwaysFailures resolves how always-step failures count. Defaults
	// to AlwaysWarn.
	AlwaysFailures AlwaysFailurePolicy
}

// NewRunner creates a job runner.
func NewRunner(cfg RunnerConfig) *Runner {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	log := cfg.Logger
	if log == nil {
		log = logging.NewNop()
	}
	policy := cfg.AlwaysFailures
	if policy == "" {
		policy = AlwaysWarn
	}
	return &Runner{runner: cfg.Commands, clock: clock, log: log, policy: policy}
}

// Run executes the instance to a terminal state. Every step gets a
// recorded StepRun before the job verdict is computed.
//
// Verdict rules: the job succeeds iff every executed normal and
// on-failure step succeeded. A timed-out step is a failure with its own
// sub-status and halts subsequent normal steps; always steps still run.
// Cancellation terminates the current step, skips the rest and records
// the job cancelled, distinct from failed.
func (r *Runner) Run(ctx context.Context, inst *Instance) {
	ctx = logging.WithJobLabel(ctx, inst.Label)
	inst.State = StateRunning
	r.log.Info(ctx, "job started", zap.Int("steps", len(inst.Steps)))

	failed := false
	alwaysFailed := false
	cancelled := false

	for i := range inst.Steps {
		step := &inst.Steps[i]

		if cancelled {
			inst.Runs = append(inst.Runs, StepRun{Name: step.Name, Status: StepSkipped})
			continue
		}

		switch step.Condition {
		case CondAlways:
			// Runs regardless of prior failures.
		case CondOnFailure:
			if !failed {
				inst.Runs = append(inst.Runs, StepRun{Name: step.Name, Status: StepSkipped})
				continue
			}
		default:
			if failed {
				inst.Runs = append(inst.Runs, StepRun{Name: step.Name, Status: StepSkipped})
				continue
			}
		}

		run := r.runStep(ctx, inst, *step)
		inst.Runs = append(inst.Runs, run)

		switch {
		case run.Status == StepCancelled:
			cancelled = true
		case run.Status.Failure():
			if step.Condition == CondAlways {
				alwaysFailed = true
			} else {
				failed = true
			}
		}
	}

	switch {
	case cancelled:
		inst.State = StateCancelled
	case failed:
		inst.State = StateFailed
	case alwaysFailed && r.policy == AlwaysFail:
		inst.State = StateFailed
	default:
		inst.State = StateSucceeded
	}

	r.log.Info(ctx, "job finished", zap.String("state", string(inst.State)))
}

// runStep invokes one step bounded by its timeout. The invocation is the
// sole suspension point; cancellation and timeout both terminate it and
// are distinguished in the recorded status.
func (r *Runner) runStep(ctx context.Context, inst *Instance, step Step) StepRun {
	stepCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	workdir := step.Workdir
	if workdir == "" {
		workdir = inst.Workdir
	}

	env := make(map[string]string, len(step.Env)+len(inst.Variants))
	for axis, value := range inst.Variants {
		env["GATEHOUSE_"+strings.ToUpper(axis)] = value
	}
	for k, v := range step.Env {
		env[k] = v
	}

	r.log.Debug(ctx, "step started", logging.StepField(step.Name))

	start := r.clock.Now()
	done := make(chan command.Result, 1)
	go func() {
		done <- r.runner.Run(stepCtx, command.Invocation{
			Argv: step.Command,
			Dir:  workdir,
			Env:  env,
		})
	}()

	var timeout <-chan time.Time
	if step.Timeout > 0 {
		timeout = r.clock.After(step.Timeout)
	}

	var res command.Result
	status := StepSucceeded
	timedOut := false

	select {
	case res = <-done:
		switch {
		case ctx.Err() != nil:
			status = StepCancelled
		case !res.Exited():
			status = StepFailed
		case res.ExitCode != 0:
			status = StepFailed
		}
	case <-timeout:
		cancel()
		res = <-done
		status = StepTimedOut
		timedOut = true
	case <-ctx.Done():
		cancel()
		res = <-done
		status = StepCancelled
	}

	run := StepRun{
		Name:     step.Name,
		Status:   status,
		ExitCode: res.ExitCode,
		Output:   string(res.Output),
		Duration: r.clock.Since(start),
		TimedOut: timedOut,
	}
	if res.Err != nil && status == StepFailed {
		run.Output = run.Output + "\n" + res.Err.Error()
	}

	r.log.Info(ctx, "step finished",
		logging.StepField(step.Name),
		zap.String("status", string(status)),
		zap.Int("exit_code", run.ExitCode),
		zap.Duration("duration", run.Duration))

	return run
}
