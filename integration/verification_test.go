//go:build basic

// Package integration contains integration tests for gradepoint.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// The database tag adds MySQL and PostgreSQL runs through testcontainers.
package integration

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/huangsam/gradepoint/core"
	"github.com/huangsam/gradepoint/internal/sqlsource"
	"github.com/huangsam/gradepoint/schema"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGradepointWithSQLite runs the CLI against a SQLite file.
func TestGradepointWithSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "grades.db")
	exerciseBackend(t, schema.SQLiteBackend, dbPath)
}

// TestReportVerification checks the CLI report against the engine run in-process
// on the same database.
func TestReportVerification(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "grades.db")
	for _, args := range [][]string{{"migrate"}, {"seed", courseFixtures}} {
		_, err := runGradepoint(t, schema.SQLiteBackend, dbPath, args...)
		require.NoError(t, err)
	}

	out, err := runGradepoint(t, schema.SQLiteBackend, dbPath, "report", "--project", "100", "--output", "json", "--workers", "3")
	require.NoError(t, err)
	var cliReport schema.Report
	require.NoError(t, json.Unmarshal([]byte(out), &cliReport))

	ctx := context.Background()
	store, err := sqlsource.Open(ctx, schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	eng, err := core.NewEngine(store, zerolog.Nop(), false)
	require.NoError(t, err)
	defer func() { _ = eng.Close() }()

	m, err := eng.ModelFor(ctx, schema.Scope{}.Project(100))
	require.NoError(t, err)
	want, err := core.BuildReport(ctx, m, 100, 1)
	require.NoError(t, err)

	require.Len(t, cliReport.Ratings, len(want.Ratings))
	for i, r := range want.Ratings {
		got := cliReport.Ratings[i]
		t.Run(r.Username+"/"+r.Alias, func(t *testing.T) {
			assert.Equal(t, r.Username, got.Username)
			assert.Equal(t, r.Alias, got.Alias)
			assert.Equal(t, r.Status, got.Status)
			assert.InDelta(t, r.Value, got.Value, 1e-9)
		})
	}
}
