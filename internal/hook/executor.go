package hook

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/gatehouse/internal/command"
	"github.com/fyrsmithlabs/gatehouse/internal/logging"
)

// RunStatus is the terminal state of one hook run.
type RunStatus string

const (
	// StatusPassed: the hook ran and exited zero without mutating files.
	StatusPassed RunStatus = "passed"
	// StatusFailed: nonzero exit, spawn failure, or silent mutation.
	StatusFailed RunStatus = "failed"
	// StatusSkipped: the resolved file subset was empty; never invoked.
	StatusSkipped RunStatus = "skipped"
	// StatusNotRun: a stop-on-failure gate halted before this hook.
	StatusNotRun RunStatus = "not-run"
	// StatusCancelled: the run was interrupted by cancellation.
	StatusCancelled RunStatus = "cancelled"
)

// Terminal reports whether the status counts as dispatched work with a
// recorded outcome (as opposed to skipped or never reached).
func (s RunStatus) Terminal() bool {
	return s == StatusPassed || s == StatusFailed || s == StatusCancelled
}

// Run is the immutable execution record of one hook.
type Run struct {
	HookID   string        `json:"hook_id"`
	Status   RunStatus     `json:"status"`
	Files    []string      `json:"files,omitempty"`
	Output   string        `json:"output,omitempty"`
	ExitCode int           `json:"exit_code"`
	Duration time.Duration `json:"duration"`
	// Mutated marks a mutates_files hook that changed bytes on disk.
	// Diff carries the unified diff of those changes.
	Mutated bool   `json:"mutated,omitempty"`
	Diff    string `json:"diff,omitempty"`
}

// Executor invokes one hook against its selected files.
//
// When the hook declares mutates_files, the executor snapshots the
// selected files before the call and re-checks them after. A run that
// changed bytes fails even on exit zero, and the working tree is left
// modified for the caller to inspect or commit. Callers re-run the gate to
// confirm convergence.
type Executor struct {
	runner  command.Runner
	log     *logging.Logger
	workdir string
}

// NewExecutor creates an executor dispatching through the given runner.
// workdir is where hook processes run; empty means the process working
// directory.
func NewExecutor(runner command.Runner, log *logging.Logger, workdir string) *Executor {
	if log == nil {
		log = logging.NewNop()
	}
	return &Executor{runner: runner, log: log, workdir: workdir}
}

// Execute runs the hook and records its outcome. An empty selection for a
// filename-passing hook is recorded as skipped without invoking anything.
func (e *Executor) Execute(ctx context.Context, d *Descriptor, sel Selection) Run {
	if sel.Empty() {
		e.log.Debug(ctx, "hook skipped: no matching files", logging.HookField(d.ID()))
		return Run{HookID: d.ID(), Status: StatusSkipped}
	}

	argv := append([]string{}, d.Source.Argv()...)
	argv = append(argv, d.Args...)
	if !sel.WholeRepo {
		argv = append(argv, sel.Files...)
	}

	var snap *snapshot
	if d.MutatesFiles {
		var err error
		snap, err = takeSnapshot(e.workdir, sel.Files)
		if err != nil {
			e.log.Error(ctx, "hook snapshot failed", logging.HookField(d.ID()), zap.Error(err))
			return Run{
				HookID: d.ID(),
				Status: StatusFailed,
				Output: "snapshot before mutating hook: " + err.Error(),
				Files:  sel.Files,
			}
		}
	}

	e.log.Debug(ctx, "hook dispatched",
		logging.HookField(d.ID()),
		zap.Int("files", len(sel.Files)),
		zap.Bool("whole_repo", sel.WholeRepo))

	res := e.runner.Run(ctx, command.Invocation{Argv: argv, Dir: e.workdir})

	run := Run{
		HookID:   d.ID(),
		Files:    sel.Files,
		Output:   string(res.Output),
		ExitCode: res.ExitCode,
		Duration: res.Duration,
	}

	switch {
	case ctx.Err() != nil:
		run.Status = StatusCancelled
	case !res.Exited():
		run.Status = StatusFailed
		if res.Err != nil {
			run.Output = appendLine(run.Output, res.Err.Error())
		}
	case res.ExitCode != 0:
		run.Status = StatusFailed
	default:
		run.Status = StatusPassed
	}

	// Second pass for mutating hooks: a zero exit with changed bytes is a
	// failure, never a silent pass.
	if snap != nil && run.Status == StatusPassed {
		diff, err := snap.diff()
		if err != nil {
			run.Status = StatusFailed
			run.Output = appendLine(run.Output, "post-run mutation check: "+err.Error())
		} else if diff != "" {
			run.Status = StatusFailed
			run.Mutated = true
			run.Diff = diff
			run.Output = appendLine(run.Output, "files were modified by this hook")
		}
	}

	e.log.Info(ctx, "hook finished",
		logging.HookField(d.ID()),
		zap.String("status", string(run.Status)),
		zap.Int("exit_code", run.ExitCode),
		zap.Duration("duration", run.Duration))

	return run
}

func appendLine(out, line string) string {
	if out == "" {
		return line
	}
	if out[len(out)-1] != '\n' {
		out += "\n"
	}
	return out + line
}
