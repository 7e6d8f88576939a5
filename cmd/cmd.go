// Package cmd defines the command-line interface for gradepoint.
package cmd

import (
	"github.com/huangsam/gradepoint/internal/contract"
	"github.com/huangsam/gradepoint/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(varsCmd)
	rootCmd.AddCommand(constsCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the consts subcommands to the parent consts command
	constsCmd.AddCommand(constsGetCmd)
	constsCmd.AddCommand(constsSetCmd)
	constsCmd.AddCommand(constsResetCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("backend", string(schema.SQLiteBackend), "Database backend: sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string (SQLite path, user:pass@tcp(host:port)/dbname, or host=... dbname=...)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Bool("debug", false, "Log every variable evaluation and return raw evaluator errors; evaluator panics are not recovered")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: trace or debug or info or warn or error")
	rootCmd.PersistentFlags().String("log-file", "", "Also write logs to this rotating file")
	rootCmd.PersistentFlags().String("metrics-addr", "", "Serve Prometheus metrics on this host:port")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")

	// Scope flags are shared by vars, consts, get, report and cache
	rootCmd.PersistentFlags().Int64("syllabus", 0, "Syllabus ID")
	rootCmd.PersistentFlags().Int64("project", 0, "Project ID")
	rootCmd.PersistentFlags().String("user", "", "Username (needs --project, --group or --syllabus)")
	rootCmd.PersistentFlags().Int64("group", 0, "Student group ID")
	rootCmd.PersistentFlags().String("milestone", "", "Milestone name for milestone clustered variables")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of varsCmd to Viper
	varsCmd.Flags().String("area", "", "Only variables supporting this area: user or project or group or syllabus")
	varsCmd.Flags().String("cluster", "", "Only variables supporting this cluster: none or milestone")
	if err := viper.BindPFlags(varsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding vars flags", err)
	}

	// Bind all flags of migrateCmd to Viper
	migrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(migrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding migrate flags", err)
	}
}
