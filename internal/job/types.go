// Package job models one fully configured execution path through the
// workflow: an ordered list of steps run sequentially for a single variant
// combination, with per-step timeouts and run-conditions.
package job

import (
	"time"

	"github.com/fyrsmithlabs/gatehouse/internal/config"
)

// RunCondition decides whether a step executes given the job state so far.
type RunCondition string

const (
	// CondNormal steps are skipped once any prior step in the job failed.
	CondNormal RunCondition = "normal"
	// CondAlways steps execute regardless of prior failures. Their own
	// failures are cleanup/reporting problems, not gating problems.
	CondAlways RunCondition = "always"
	// CondOnFailure steps execute only if a prior step failed.
	CondOnFailure RunCondition = "on-failure"
)

// Step is one ordered unit of work within a job. The command is opaque to
// the orchestrator: invoked, awaited, judged by exit status only.
type Step struct {
	Name      string
	Command   []string
	Timeout   time.Duration
	Condition RunCondition
	// Artifact is an optional path (relative to the job workdir) retained
	// after the job regardless of its outcome.
	Artifact string
	Env      map[string]string
	Workdir  string
}

// StepStatus is the terminal state of one step run.
type StepStatus string

const (
	StepSucceeded StepStatus = "succeeded"
	StepFailed    StepStatus = "failed"
	// StepTimedOut is a distinct failure sub-kind: the step exceeded its
	// bound and was forcibly terminated.
	StepTimedOut  StepStatus = "timed-out"
	StepSkipped   StepStatus = "skipped"
	StepCancelled StepStatus = "cancelled"
)

// Failure reports whether the status counts as a step failure.
// Cancellation is deliberately not a failure.
func (s StepStatus) Failure() bool {
	return s == StepFailed || s == StepTimedOut
}

// StepRun is the immutable execution record of one step.
type StepRun struct {
	Name     string        `json:"name"`
	Status   StepStatus    `json:"status"`
	ExitCode int           `json:"exit_code"`
	Output   string        `json:"output,omitempty"`
	Duration time.Duration `json:"duration"`
	// TimedOut is redundant with Status but kept explicit so downstream
	// tooling can count timeouts without string comparison.
	TimedOut bool `json:"timed_out,omitempty"`
}

// State is a job's execution state.
type State string

const (
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
	StateSkipped   State = "skipped"
	StateCancelled State = "cancelled"
)

// Instance is one element of the matrix cross-product: a labelled job with
// its own copy of the step list and a mutable execution state. Instances
// are independent of each other; only the run that owns an instance
// mutates it.
type Instance struct {
	Label string
	// Variants maps axis name to the value chosen for this instance.
	Variants map[string]string
	Steps    []Step
	State    State
	Runs     []StepRun
	// Workdir is the checkout the steps run in.
	Workdir string
}

// StepsFromConfig converts configured steps into the runtime model.
func StepsFromConfig(steps []config.StepConfig) []Step {
	out := make([]Step, len(steps))
	for i, s := range steps {
		cond := RunCondition(s.Condition)
		if cond == "" {
			cond = CondNormal
		}
		out[i] = Step{
			Name:      s.Name,
			Command:   s.Command,
			Timeout:   s.Timeout.Duration(),
			Condition: cond,
			Artifact:  s.Artifact,
			Env:       s.Env,
			Workdir:   s.Workdir,
		}
	}
	return out
}

// ArtifactPaths lists the artifact declarations across the instance's
// steps, in step order.
func (j *Instance) ArtifactPaths() []string {
	var paths []string
	for _, s := range j.Steps {
		if s.Artifact != "" {
			paths = append(paths, s.Artifact)
		}
	}
	return paths
}
