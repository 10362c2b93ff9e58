// Package report renders gate and workflow reports in two forms: a
// machine-readable JSON document for downstream tooling and a human
// summary (pass/fail counts, first failure, per-job status table).
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/fyrsmithlabs/gatehouse/internal/hook"
	"github.com/fyrsmithlabs/gatehouse/internal/job"
	"github.com/fyrsmithlabs/gatehouse/internal/workflow"
)

// WriteGateJSON renders the gate report as indented JSON.
func WriteGateJSON(w io.Writer, r *hook.GateReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteGateSummary renders the human gate summary: one line per hook plus
// counts and the first failure.
func WriteGateSummary(w io.Writer, r *hook.GateReport) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetHeader([]string{"Hook", "Status", "Files", "Duration"})

	passed, failed := 0, 0
	for _, run := range r.Runs {
		switch run.Status {
		case hook.StatusPassed:
			passed++
		case hook.StatusFailed:
			failed++
		}
		table.Append([]string{
			run.HookID,
			string(run.Status),
			fmt.Sprintf("%d", len(run.Files)),
			formatDuration(run.Duration),
		})
	}
	table.Render()

	fmt.Fprintf(w, "\ngate %s: %d passed, %d failed, %d skipped (%s)\n",
		r.Status, passed, failed, r.Skipped, formatDuration(r.Duration))
	if r.FirstFailure >= 0 {
		fmt.Fprintf(w, "first failure: %s\n", r.Runs[r.FirstFailure].HookID)
	}
	for _, run := range r.Runs {
		if run.Status != hook.StatusFailed {
			continue
		}
		fmt.Fprintf(w, "\n--- %s\n%s", run.HookID, run.Output)
		if run.Diff != "" {
			fmt.Fprint(w, run.Diff)
		}
	}
}

// WriteWorkflowJSON renders the workflow report as indented JSON.
func WriteWorkflowJSON(w io.Writer, r *workflow.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteWorkflowSummary renders the per-job status table and overall
// verdict.
func WriteWorkflowSummary(w io.Writer, r *workflow.Report) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetHeader([]string{"Job", "State", "Steps", "Artifacts", "Duration"})

	failed := 0
	for _, jr := range r.Jobs {
		if jr.State == job.StateFailed {
			failed++
		}
		table.Append([]string{
			jr.Label,
			string(jr.State),
			stepSummary(jr.Runs),
			fmt.Sprintf("%d", len(jr.Artifacts)),
			formatDuration(jr.Duration),
		})
	}
	table.Render()

	fmt.Fprintf(w, "\nworkflow %s: %d/%d jobs failed (%s)\n",
		r.Status, failed, len(r.Jobs), formatDuration(r.Duration))

	for _, jr := range r.Jobs {
		for _, run := range jr.Runs {
			if !run.Status.Failure() {
				continue
			}
			fmt.Fprintf(w, "\n--- %s / %s (%s)\n%s", jr.Label, run.Name, run.Status, run.Output)
		}
	}
}

// stepSummary compresses a job's step runs into "3 ok, 1 timed-out" form.
func stepSummary(runs []job.StepRun) string {
	counts := map[job.StepStatus]int{}
	for _, run := range runs {
		counts[run.Status]++
	}

	out := ""
	for _, status := range []job.StepStatus{
		job.StepSucceeded, job.StepFailed, job.StepTimedOut, job.StepSkipped, job.StepCancelled,
	} {
		if counts[status] == 0 {
			continue
		}
		if out != "" {
			out += ", "
		}
		label := string(status)
		if status == job.StepSucceeded {
			label = "ok"
		}
		out += fmt.Sprintf("%d %s", counts[status], label)
	}
	return out
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
