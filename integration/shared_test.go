//go:build basic || database

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/huangsam/gradepoint/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// courseFixtures is the course every integration test seeds.
const courseFixtures = "core/defaultmodel/testdata/course.yaml"

var (
	// sharedBinaryPath holds the path to a shared gradepoint binary built once for all tests.
	sharedBinaryPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getGradepointBinary returns the path to the gradepoint binary, building it once if needed.
func getGradepointBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "gradepoint-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binPath := filepath.Join(tempDir, "gradepoint")
		buildCmd := exec.Command("go", "build", "-o", binPath, "./cmd/gradepoint")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build gradepoint: %v\n%s", err, out))
		}

		sharedBinaryPath = binPath
	})

	return sharedBinaryPath
}

// runGradepoint runs the CLI from the project root against the given database
// and returns its stdout.
func runGradepoint(t *testing.T, backend schema.DatabaseBackend, connStr string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getGradepointBinary(), args...)
	cmd.Dir = "../" // Run from project root
	cmd.Env = append(os.Environ(),
		"GRADEPOINT_BACKEND="+string(backend),
		"GRADEPOINT_DB_CONNECT="+connStr,
		"GRADEPOINT_COLOR=no",
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), stdout.String(), stderr.String())
		return stdout.String(), err
	}
	return stdout.String(), nil
}

// exerciseBackend runs the full command flow on one database: migrate, seed,
// report, evaluate, change a constant and roll the schema back.
func exerciseBackend(t *testing.T, backend schema.DatabaseBackend, connStr string) {
	t.Helper()
	run := func(args ...string) string {
		t.Helper()
		out, err := runGradepoint(t, backend, connStr, args...)
		require.NoError(t, err)
		return out
	}

	run("migrate")
	run("seed", courseFixtures)

	var report schema.Report
	require.NoError(t, json.Unmarshal([]byte(run("report", "--project", "100", "--output", "json")), &report))
	assert.Equal(t, int64(100), report.ProjectID)
	assert.Equal(t, int64(1), report.SyllabusID)
	require.Len(t, report.Ratings, 6)
	for _, r := range report.Ratings {
		assert.Equal(t, schema.StatusOK, r.Status, "%s/%s: %s", r.Username, r.Alias, r.Message)
	}

	var value schema.VariableValue
	out := run("get", "team_milestone_grade", "--project", "100", "--user", "alice", "--milestone", "m2", "--output", "json")
	require.NoError(t, json.Unmarshal([]byte(out), &value))
	assert.Equal(t, schema.StatusPending, value.Status)

	var consts []schema.ConstantInfo
	require.NoError(t, json.Unmarshal([]byte(run("consts", "set", "peer_weight", "0.6", "--syllabus", "1", "--output", "json")), &consts))
	require.Len(t, consts, 1)
	assert.Equal(t, 0.6, consts[0].Value)

	// The saved constant is read back by a fresh process
	require.NoError(t, json.Unmarshal([]byte(run("consts", "get", "peer_weight", "--project", "100", "--output", "json")), &consts))
	require.Len(t, consts, 1)
	assert.Equal(t, 0.6, consts[0].Value)

	assert.Contains(t, run("cache", "clear", "--syllabus", "1"), "reloaded syllabus 1")
	run("migrate", "--target-version", "0")
}
