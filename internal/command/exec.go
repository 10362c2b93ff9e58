package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"time"
)

// ExecRunner runs invocations as subprocesses via os/exec.
type ExecRunner struct{}

// NewExecRunner creates a subprocess-backed runner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the invocation and waits for it to finish. Cancelling the
// context kills the subprocess; the partial output captured up to that
// point is preserved in the result.
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) Result {
	start := time.Now()

	if len(inv.Argv) == 0 {
		return Result{ExitCode: -1, Err: ErrEmptyArgv}
	}

	cmd := exec.CommandContext(ctx, inv.Argv[0], inv.Argv[1:]...)
	cmd.Dir = inv.Dir
	cmd.Env = mergedEnv(inv.Env)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	res := Result{
		Output:   out.Bytes(),
		Duration: time.Since(start),
	}

	switch {
	case err == nil:
		res.ExitCode = 0
	case ctx.Err() != nil:
		// Killed by cancellation; the exec error is secondary.
		res.ExitCode = -1
		res.Err = ctx.Err()
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = -1
			res.Err = fmt.Errorf("spawning %q: %w", inv.Argv[0], err)
		}
	}

	return res
}

// mergedEnv applies the overlay on top of the inherited environment.
// Overlay keys are emitted in sorted order so invocations are reproducible.
func mergedEnv(overlay map[string]string) []string {
	if len(overlay) == 0 {
		return os.Environ()
	}

	env := os.Environ()
	keys := make([]string, 0, len(overlay))
	for k := range overlay {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+overlay[k])
	}
	return env
}
