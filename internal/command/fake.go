package command

import (
	"context"
	"sync"
	"time"
)

// FakeRunner is a scripted Runner for tests. Each invocation is resolved
// through Handler; when Handler is nil every invocation succeeds with no
// output. All invocations are recorded in order.
type FakeRunner struct {
	// Handler determines the result for an invocation.
	Handler func(inv Invocation) Result

	// BlockOn names argv[0] values whose invocations block until the
	// context is cancelled. Used to exercise timeout and cancellation
	// paths without real subprocesses.
	BlockOn map[string]bool

	mu    sync.Mutex
	calls []Invocation
}

// Run resolves the invocation through the script.
func (f *FakeRunner) Run(ctx context.Context, inv Invocation) Result {
	f.mu.Lock()
	f.calls = append(f.calls, inv)
	f.mu.Unlock()

	if len(inv.Argv) == 0 {
		return Result{ExitCode: -1, Err: ErrEmptyArgv}
	}

	if f.BlockOn[inv.Argv[0]] {
		<-ctx.Done()
		return Result{ExitCode: -1, Err: ctx.Err(), Duration: time.Millisecond}
	}

	if f.Handler != nil {
		return f.Handler(inv)
	}
	return Result{ExitCode: 0, Duration: time.Millisecond}
}

// Calls returns the recorded invocations in dispatch order.
func (f *FakeRunner) Calls() []Invocation {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Invocation, len(f.calls))
	copy(out, f.calls)
	return out
}
