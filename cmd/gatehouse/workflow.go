package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/gatehouse/internal/artifact"
	"github.com/fyrsmithlabs/gatehouse/internal/command"
	"github.com/fyrsmithlabs/gatehouse/internal/job"
	"github.com/fyrsmithlabs/gatehouse/internal/matrix"
	"github.com/fyrsmithlabs/gatehouse/internal/report"
	"github.com/fyrsmithlabs/gatehouse/internal/workflow"
)

var (
	workflowEvent string
	workflowDir   string
	workflowJSON  bool
)

var workflowCmd = &cobra.Command{
	Use:   "workflow",
	Short: "Expand the job template across all variant axes and run it",
	Long: `Expand the configured job template across the cross-product of all
variant axes and run every resulting job instance.

Jobs run concurrently up to the configured limit; steps within a job run
strictly in order. Declared artifacts are collected for every job,
passing or failing.

Examples:
  # Run the workflow
  gatehouse workflow

  # Run only if the push event is among the configured triggers
  gatehouse workflow --event push

  # Emit the run report as JSON
  gatehouse workflow --json`,
	RunE: runWorkflow,
}

func init() {
	workflowCmd.Flags().StringVar(&workflowEvent, "event", "", "triggering event; the run is skipped unless it matches a configured trigger")
	workflowCmd.Flags().StringVar(&workflowDir, "dir", ".", "working directory for job steps")
	workflowCmd.Flags().BoolVar(&workflowJSON, "json", false, "emit the run report as JSON")
}

func runWorkflow(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	wf := cfg.Workflow
	if workflowEvent != "" && len(wf.Triggers) > 0 && !slices.Contains(wf.Triggers, workflowEvent) {
		fmt.Fprintf(os.Stderr, "event %q does not match any configured trigger; nothing to run\n", workflowEvent)
		return nil
	}

	instances, err := matrix.Expand(matrix.AxesFromConfig(wf.Axes), matrix.Template{
		Steps:   job.StepsFromConfig(wf.Steps),
		Workdir: workflowDir,
	})
	if err != nil {
		return err
	}

	runner := job.NewRunner(job.RunnerConfig{
		Commands:       command.NewExecRunner(),
		Logger:         log,
		AlwaysFailures: job.AlwaysFailurePolicy(wf.AlwaysFailures),
	})

	artifactDir := wf.ArtifactDir
	if !filepath.IsAbs(artifactDir) {
		artifactDir = filepath.Join(workflowDir, artifactDir)
	}
	collector := artifact.NewCollector(artifactDir, log)

	coord := workflow.NewCoordinator(runner, collector, log, wf.Concurrency)

	ctx, cancel := signalContext()
	defer cancel()
	if d := wf.RunTimeout.Duration(); d > 0 {
		var timeoutCancel context.CancelFunc
		ctx, timeoutCancel = context.WithTimeout(ctx, d)
		defer timeoutCancel()
	}

	rep := coord.Run(ctx, instances)

	if workflowJSON {
		if err := report.WriteWorkflowJSON(os.Stdout, rep); err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
	} else {
		report.WriteWorkflowSummary(os.Stdout, rep)
	}

	if rep.Status != workflow.StatusPassed {
		log.Info(ctx, "workflow verdict", zap.String("status", string(rep.Status)))
		return errRunFailed
	}
	return nil
}
