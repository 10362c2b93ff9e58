package command

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner_Success(t *testing.T) {
	skipOnWindows(t)
	r := NewExecRunner()

	res := r.Run(context.Background(), Invocation{Argv: []string{"sh", "-c", "echo hello"}})

	require.True(t, res.Exited())
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, string(res.Output), "hello")
}

func TestExecRunner_NonzeroExit(t *testing.T) {
	skipOnWindows(t)
	r := NewExecRunner()

	res := r.Run(context.Background(), Invocation{Argv: []string{"sh", "-c", "echo boom >&2; exit 3"}})

	require.True(t, res.Exited())
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, string(res.Output), "boom", "stderr must be captured in combined output")
}

func TestExecRunner_EmptyArgv(t *testing.T) {
	r := NewExecRunner()

	res := r.Run(context.Background(), Invocation{})

	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, ErrEmptyArgv)
	assert.False(t, res.Exited())
}

func TestExecRunner_SpawnFailure(t *testing.T) {
	r := NewExecRunner()

	res := r.Run(context.Background(), Invocation{Argv: []string{"gatehouse-no-such-binary"}})

	require.Error(t, res.Err)
	assert.Equal(t, -1, res.ExitCode)
}

func TestExecRunner_Cancellation(t *testing.T) {
	skipOnWindows(t)
	r := NewExecRunner()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	res := r.Run(ctx, Invocation{Argv: []string{"sleep", "30"}})

	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.False(t, res.Exited())
}

func TestExecRunner_EnvOverlayAndDir(t *testing.T) {
	skipOnWindows(t)
	r := NewExecRunner()
	dir := t.TempDir()

	res := r.Run(context.Background(), Invocation{
		Argv: []string{"sh", "-c", "echo $GATEHOUSE_VARIANT; pwd"},
		Dir:  dir,
		Env:  map[string]string{"GATEHOUSE_VARIANT": "3.10"},
	})

	require.True(t, res.Exited())
	assert.Contains(t, string(res.Output), "3.10")
	assert.Contains(t, string(res.Output), dir)
}

func TestFakeRunner_RecordsCalls(t *testing.T) {
	f := &FakeRunner{}

	res := f.Run(context.Background(), Invocation{Argv: []string{"lint", "a.py"}})

	require.True(t, res.Exited())
	require.Len(t, f.Calls(), 1)
	assert.Equal(t, []string{"lint", "a.py"}, f.Calls()[0].Argv)
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}
