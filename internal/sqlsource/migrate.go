package sqlsource

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/huangsam/gradepoint/schema"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate runs the schema migrations of the evaluation database.
// - If targetVersion < 0, it migrates to the latest version.
// - If targetVersion == 0, it rolls back all migrations (to initial state).
// - If targetVersion > 0, it migrates to the specified version.
//
// The migrator borrows the store's connection and never closes it.
func (s *Store) Migrate(targetVersion int, log zerolog.Logger) error {
	var (
		driver database.Driver
		err    error
	)
	switch s.backend {
	case schema.SQLiteBackend:
		driver, err = sqlite.WithInstance(s.db.DB, &sqlite.Config{})
	case schema.MySQLBackend:
		driver, err = mysql.WithInstance(s.db.DB, &mysql.Config{})
	case schema.PostgreSQLBackend:
		driver, err = postgres.WithInstance(s.db.DB, &postgres.Config{MultiStatementEnabled: true})
	default:
		return fmt.Errorf("unsupported backend: %s", s.backend)
	}
	if err != nil {
		return fmt.Errorf("failed to create %s migrate driver: %w", s.backend, err)
	}

	// Get the migrations subdirectory
	migrationFS, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to access migrations directory: %w", err)
	}
	sourceDriver, err := iofs.New(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "gradepoint", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", currentVersion)
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
	case targetVersion == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(targetVersion))
	}
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info().Uint("version", currentVersion).Msg("No migration needed")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to migrate to version %d: %w", targetVersion, err)
	}

	newVersion, _, verr := m.Version()
	if errors.Is(verr, migrate.ErrNilVersion) {
		newVersion = 0
	}
	log.Info().Uint("from", currentVersion).Uint("to", newVersion).Msg("Migrated evaluation database")
	return nil
}
