package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/gatehouse/internal/command"
	"github.com/fyrsmithlabs/gatehouse/internal/gitx"
	"github.com/fyrsmithlabs/gatehouse/internal/hook"
	"github.com/fyrsmithlabs/gatehouse/internal/report"
)

var (
	gateFiles         []string
	gateAllFiles      bool
	gateStopOnFailure bool
	gateDir           string
	gateJSON          bool
	gateHook          string
)

var gateCmd = &cobra.Command{
	Use:   "gate",
	Short: "Run the configured hooks against changed files",
	Long: `Run every configured hook against the candidate file set and report
a single pass/fail verdict.

The candidate set defaults to the files with uncommitted changes in the
working tree. Override it with --files, or gate the whole tree with
--all-files. Hooks whose file selection comes up empty are skipped, not
run.

Examples:
  # Gate the uncommitted changes
  gatehouse gate

  # Gate specific files, halting at the first failure
  gatehouse gate --stop-on-failure --files a.go --files b.go

  # Gate everything and emit the report as JSON
  gatehouse gate --all-files --json

  # Re-run a single failing hook by its reported ID
  gatehouse gate --hook "local#fmt"`,
	RunE: runGate,
}

func init() {
	gateCmd.Flags().StringArrayVar(&gateFiles, "files", nil, "explicit candidate files (repeatable); overrides change detection")
	gateCmd.Flags().BoolVar(&gateAllFiles, "all-files", false, "gate every file in the tree instead of the changed subset")
	gateCmd.Flags().BoolVar(&gateStopOnFailure, "stop-on-failure", false, "halt at the first failing hook; later hooks are recorded not-run")
	gateCmd.Flags().StringVar(&gateDir, "dir", ".", "repository root to gate")
	gateCmd.Flags().BoolVar(&gateJSON, "json", false, "emit the gate report as JSON")
	gateCmd.Flags().StringVar(&gateHook, "hook", "", "run only the hook with this ID (as reported, e.g. \"local#fmt\")")
}

func runGate(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	files, err := candidateFiles()
	if err != nil {
		return err
	}

	registry := hook.NewCategoryRegistry(cfg.Categories)
	store, err := hook.NewStore(cfg.Hooks, registry)
	if err != nil {
		return err
	}

	executor := hook.NewExecutor(command.NewExecRunner(), log, gateDir)
	gate := hook.NewGateRunner(store, executor, log)

	ctx, cancel := signalContext()
	defer cancel()

	candidates := hook.NewFileSet(files)
	var rep *hook.GateReport
	if gateHook != "" {
		rep, err = gate.RunOne(ctx, gateHook, candidates)
		if err != nil {
			return err
		}
	} else {
		rep = gate.RunAll(ctx, candidates, gateStopOnFailure)
	}

	if gateJSON {
		if err := report.WriteGateJSON(os.Stdout, rep); err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
	} else {
		report.WriteGateSummary(os.Stdout, rep)
	}

	if !rep.Passed() {
		log.Info(ctx, "gate verdict", zap.String("status", string(rep.Status)))
		return errRunFailed
	}
	return nil
}

// candidateFiles resolves the gate's file set: explicit --files wins,
// then --all-files, then the uncommitted changes in --dir.
func candidateFiles() ([]string, error) {
	if len(gateFiles) > 0 {
		return gateFiles, nil
	}
	if gateAllFiles {
		return gitx.AllFiles(gateDir)
	}
	return gitx.ChangedFiles(gateDir)
}
