// Package hook implements the local gate: a catalog of externally defined
// checks (hooks), file selection per hook, subprocess execution with
// mutation detection, and the ordered gate run that aggregates everything
// into a single pass/fail report.
//
// Hooks are opaque tools. The orchestrator only knows their invocation
// contract and exit status; it never interprets their output, with one
// exception: a hook declared mutates_files has its selected files hashed
// before and after the run, and a zero exit with changed bytes is still a
// failure (a fix that was applied silently must force a re-run).
package hook
