package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/gradepoint/internal/contract"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// migrateCmd runs the database schema migrations.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the evaluation database schema",
	Long: `Apply the schema migrations of the evaluation database.

By default, migrates to the latest version. Use --target-version to migrate
to a specific version, or 0 to roll back every migration.

Examples:
  # Migrate the default SQLite database to the latest version
  gradepoint migrate

  # Migrate a PostgreSQL database
  gradepoint migrate --backend postgresql --db-connect "host=localhost dbname=grades user=postgres"

  # Roll back all migrations
  gradepoint migrate --target-version 0`,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		s, err := openStore(rootCtx)
		if err != nil {
			contract.LogFatal("Error opening database", err)
		}
		target := viper.GetInt("target-version")
		if err := s.Migrate(target, logger); err != nil {
			contract.LogFatal("Error migrating database", err)
		}
		if target < 0 {
			cmd.Printf("Migrated %s database to the latest version\n", s.Backend())
		} else {
			cmd.Printf("Migrated %s database to version %d\n", s.Backend(), target)
		}
	},
}

// seedCmd loads fixture data into the evaluation database.
var seedCmd = &cobra.Command{
	Use:   "seed <fixtures.yaml>",
	Short: "Load syllabi, projects and evaluation data from a YAML file",
	Long: `Insert the syllabi, groups, projects, milestones, tickets, peer evaluations and
expert forms described by a YAML fixture file. The schema must be migrated first.

Examples:
  gradepoint migrate && gradepoint seed course.yaml`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		s, err := openStore(rootCtx)
		if err != nil {
			contract.LogFatal("Error opening database", err)
		}
		f, err := os.Open(args[0])
		if err != nil {
			contract.LogFatal("Error opening fixtures", err)
		}
		defer func() { _ = f.Close() }()
		if err := s.LoadFixtures(rootCtx, f); err != nil {
			contract.LogFatal("Error seeding database", fmt.Errorf("%s: %w", args[0], err))
		}
		cmd.Printf("Seeded %s database from %s\n", s.Backend(), args[0])
	},
}
