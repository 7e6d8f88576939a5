package cmd

import (
	"fmt"

	"github.com/huangsam/gradepoint/internal/contract"
	"github.com/spf13/cobra"
)

// cacheCmd focused on model cache management.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the evaluation model cache",
	Long: `Manage the cache of evaluation models.

Models are built once per syllabus and reused. Clearing the cache rebuilds them,
which reloads constants and the selected model package from the database.

Subcommands:
  clear  - Drop cached models and reload the scoped one`,
}

// cacheClearCmd drops every cached model.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop cached models and reload constants",
	Long: `Drop every cached evaluation model. With a scope flag, the model serving that
scope is rebuilt right away so changed constants or package selections are
checked before the next evaluation.

Examples:
  gradepoint cache clear --syllabus 1`,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		e, err := openEngine(rootCtx)
		if err != nil {
			contract.LogFatal("Error opening evaluation engine", err)
		}
		if cfg.Scope.SyllabusID == 0 && cfg.Scope.ProjectID == 0 && cfg.Scope.GroupID == 0 {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cached models\n", e.ClearCache())
			return
		}

		// Build once so the clear covers a real cache entry, then rebuild
		if _, err := e.ModelFor(rootCtx, cfg.Scope); err != nil {
			contract.LogFatal("Error loading evaluation model", err)
		}
		n := e.ClearCache()
		m, err := e.ModelFor(rootCtx, cfg.Scope)
		if err != nil {
			contract.LogFatal("Error reloading evaluation model", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cached models, reloaded syllabus %d with the %s model\n", n, m.SyllabusID(), m.Type())
	},
}
