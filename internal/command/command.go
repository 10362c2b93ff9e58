// Package command defines the invocation contract between the orchestrator
// and external tools. Every hook and workflow step is dispatched through a
// Runner as a single opaque call: working directory, argument list,
// environment overlay in, combined output and exit status out. The
// orchestrator never interprets tool output.
package command

import (
	"context"
	"errors"
	"time"
)

// ErrEmptyArgv indicates an invocation with no command to run.
var ErrEmptyArgv = errors.New("command: argv must not be empty")

// Invocation describes one external tool call.
type Invocation struct {
	// Argv is the command and its arguments. Argv[0] is the executable.
	// Shell-string execution is not supported.
	Argv []string

	// Dir is the working directory. Empty means the process working
	// directory.
	Dir string

	// Env is an overlay applied on top of the inherited environment.
	Env map[string]string
}

// Result captures the outcome of one invocation.
type Result struct {
	// ExitCode is the tool's exit status. Negative when the tool never
	// produced one (spawn failure, termination).
	ExitCode int

	// Output is the combined stdout and stderr.
	Output []byte

	// Duration is wall-clock time from start to completion.
	Duration time.Duration

	// Err is set when the invocation could not run or was terminated:
	// spawn failures, context cancellation. A nonzero exit from a tool
	// that ran to completion is not an Err.
	Err error
}

// Exited reports whether the tool ran and returned an exit status.
func (r Result) Exited() bool {
	return r.Err == nil
}

// Runner executes invocations. Implementations must honor context
// cancellation by terminating the underlying call and returning with
// Result.Err set to the context error.
type Runner interface {
	Run(ctx context.Context, inv Invocation) Result
}
