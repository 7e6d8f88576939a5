// Package sqlsource implements the evaluation collaborators on top of a SQL database.
package sqlsource

import (
	"context"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/huangsam/gradepoint/internal/contract"
	"github.com/huangsam/gradepoint/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // SQLite driver
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know about.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Store holds the database connection shared by every query source.
type Store struct {
	db      *sqlx.DB
	backend schema.DatabaseBackend
}

var (
	_ contract.SourceFactory  = &Store{} // Compile-time check
	_ contract.ConfigProvider = &Store{} // Compile-time check
)

// driverName returns the database/sql driver registered for backend.
func driverName(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported backend: %s. Must be sqlite, mysql or postgresql", backend)
	}
}

// Open connects to the evaluation database.
func Open(ctx context.Context, backend schema.DatabaseBackend, connStr string) (*Store, error) {
	driver, err := driverName(backend)
	if err != nil {
		return nil, err
	}

	switch backend {
	case schema.SQLiteBackend:
		if connStr == "" {
			connStr = contract.GetDBFilePath()
		}
	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		cfg, err := gomysql.ParseDSN(connStr)
		if err != nil {
			return nil, fmt.Errorf("invalid MySQL connection string: %w", err)
		}
		// Migration files hold several statements each.
		cfg.MultiStatements = true
		connStr = cfg.FormatDSN()
	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=mysecretpassword dbname=postgres
	}

	db, err := sqlx.Open(driver, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	return &Store{db: db, backend: backend}, nil
}

// Backend returns the database backend.
func (s *Store) Backend() schema.DatabaseBackend { return s.backend }

// DB returns the underlying connection.
func (s *Store) DB() *sqlx.DB { return s.db }

// Close closes the connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ForModel implements contract.SourceFactory.
func (s *Store) ForModel(enums schema.EnumMap) contract.SourceAccessor {
	return &accessor{store: s, enums: enums}
}

// accessor hands out fresh query sources over one store.
type accessor struct {
	store *Store
	enums schema.EnumMap
}

var _ contract.SourceAccessor = &accessor{} // Compile-time check

func (a *accessor) Tickets() contract.TicketQuerySource {
	return newTicketQuery(a.store, a.enums)
}

func (a *accessor) Milestones() contract.MilestoneQuerySource {
	return &milestoneQuery{scoped: scoped{store: a.store}}
}

func (a *accessor) TeamEval() contract.TeamEvalQuerySource {
	return &teamEvalQuery{scoped: scoped{store: a.store}}
}

func (a *accessor) ProjectForm() contract.ProjectFormQuerySource {
	return &projectFormQuery{scoped: scoped{store: a.store}}
}

func (a *accessor) UserInfo() contract.UserInfoSource {
	return &userInfo{scoped: scoped{store: a.store}}
}
