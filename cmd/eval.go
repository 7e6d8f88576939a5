package cmd

import (
	"strings"

	"github.com/huangsam/gradepoint/core"
	"github.com/huangsam/gradepoint/core/model"
	"github.com/huangsam/gradepoint/internal/contract"
	"github.com/huangsam/gradepoint/internal/outwriter"
	"github.com/huangsam/gradepoint/schema"
	"github.com/spf13/cobra"
)

// writer renders every command result.
var writer = outwriter.NewOutWriter()

// scopedModel opens the engine and returns the model serving the --syllabus,
// --project or --group flags.
func scopedModel() *model.Model {
	e, err := openEngine(rootCtx)
	if err != nil {
		contract.LogFatal("Error opening evaluation engine", err)
	}
	m, err := e.ModelFor(rootCtx, cfg.Scope)
	if err != nil {
		contract.LogFatal("Error loading evaluation model", err)
	}
	return m
}

// varsCmd lists the variables of a model.
var varsCmd = &cobra.Command{
	Use:   "vars",
	Short: "List the evaluation variables of a syllabus",
	Long: `List the variables of the evaluation model serving a syllabus, project or group.

Use --area and --cluster to keep only the variables that can be evaluated in
that area or with that cluster.

Examples:
  # Every variable of syllabus 1
  gradepoint vars --syllabus 1

  # Variables that rate a single student per milestone
  gradepoint vars --project 100 --area user --cluster milestone`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		m := scopedModel()
		vars := core.DescribeVariables(m, cfg.AreaFilter, cfg.ClusterFilter)
		if err := writer.WriteVariables(vars, cfg); err != nil {
			contract.LogFatal("Error writing variables", err)
		}
	},
}

// constsCmd lists the constants of a model.
var constsCmd = &cobra.Command{
	Use:   "consts",
	Short: "List and change the evaluation constants of a syllabus",
	Long: `List the constants of the evaluation model serving a syllabus, project or group,
with their effective values. Subcommands read, change and reset single constants.

Examples:
  gradepoint consts --syllabus 1
  gradepoint consts set peer_weight 0.6 --syllabus 1
  gradepoint consts reset peer_weight --syllabus 1`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		m := scopedModel()
		if err := writer.WriteConstants(core.DescribeConstants(m), cfg); err != nil {
			contract.LogFatal("Error writing constants", err)
		}
	},
}

var constsGetCmd = &cobra.Command{
	Use:     "get <alias>",
	Short:   "Show one constant",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		m := scopedModel()
		alias := strings.TrimSpace(args[0])
		for _, info := range core.DescribeConstants(m) {
			if info.Alias == alias {
				if err := writer.WriteConstants([]schema.ConstantInfo{info}, cfg); err != nil {
					contract.LogFatal("Error writing constant", err)
				}
				return
			}
		}
		_, err := m.Const(alias)
		contract.LogFatal("Error reading constant", err)
	},
}

var constsSetCmd = &cobra.Command{
	Use:     "set <alias> <value>",
	Short:   "Validate and save a new value for one constant",
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		m := scopedModel()
		info, err := core.SetConstant(m, strings.TrimSpace(args[0]), args[1])
		if err != nil {
			contract.LogFatal("Error setting constant", err)
		}
		logger.Info().Int64("syllabus", m.SyllabusID()).Str("alias", info.Alias).Interface("value", info.Value).Msg("Saved constant")
		if err := writer.WriteConstants([]schema.ConstantInfo{info}, cfg); err != nil {
			contract.LogFatal("Error writing constant", err)
		}
	},
}

var constsResetCmd = &cobra.Command{
	Use:     "reset <alias>",
	Short:   "Restore the default value of one constant",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		m := scopedModel()
		info, err := core.ResetConstant(m, strings.TrimSpace(args[0]))
		if err != nil {
			contract.LogFatal("Error resetting constant", err)
		}
		logger.Info().Int64("syllabus", m.SyllabusID()).Str("alias", info.Alias).Msg("Reset constant")
		if err := writer.WriteConstants([]schema.ConstantInfo{info}, cfg); err != nil {
			contract.LogFatal("Error writing constant", err)
		}
	},
}

// getCmd evaluates one variable.
var getCmd = &cobra.Command{
	Use:   "get <alias>",
	Short: "Evaluate one variable over a scope",
	Long: `Evaluate one variable for a user, project, group or syllabus.

The most specific scope flag selects the area. Data that has not been
submitted yet is reported with a pending status instead of failing.

Examples:
  gradepoint get final_rating --project 100 --user alice
  gradepoint get team_milestone_grade --project 100 --user alice --milestone m2
  gradepoint get valid_tickets --group 10`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		m := scopedModel()
		value, err := core.Evaluate(rootCtx, m, strings.TrimSpace(args[0]), cfg.Scope)
		if err != nil {
			contract.LogFatal("Error evaluating variable", err)
		}
		if err := writer.WriteValue(value, cfg); err != nil {
			contract.LogFatal("Error writing value", err)
		}
	},
}

// reportCmd rates every developer of a project.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Rate every developer of a project",
	Long: `Compute the individual, project and final rating of every developer of a
project. Members are rated concurrently (see --workers).

Examples:
  gradepoint report --project 100
  gradepoint report --project 100 --output parquet --output-file ratings.parquet`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.Scope.ProjectID == 0 {
			contract.LogFatal("Error building report", schema.MissedQueryArguments("--project is required"))
		}
		m := scopedModel()
		report, err := core.BuildReport(rootCtx, m, cfg.Scope.ProjectID, cfg.Workers)
		if err != nil {
			contract.LogFatal("Error building report", err)
		}
		if err := writer.WriteReport(report, cfg); err != nil {
			contract.LogFatal("Error writing report", err)
		}
	},
}
