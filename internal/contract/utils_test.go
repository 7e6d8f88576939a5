package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/gradepoint/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{
			name:     "smallest value possible",
			input:    0.0,
			expected: PoorValue,
		},
		{
			name:     "just before satisfactory",
			input:    0.499,
			expected: PoorValue,
		},
		{
			name:     "exactly satisfactory",
			input:    0.5,
			expected: SatisfactoryValue,
		},
		{
			name:     "just before good",
			input:    0.699,
			expected: SatisfactoryValue,
		},
		{
			name:     "exactly good",
			input:    0.7,
			expected: GoodValue,
		},
		{
			name:     "just before excellent",
			input:    0.849,
			expected: GoodValue,
		},
		{
			name:     "exactly excellent",
			input:    0.85,
			expected: ExcellentValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainLabel(tt.input))
		})
	}
}

func TestGetColorLabel(t *testing.T) {
	tests := []struct {
		name   string
		rating float64
		label  string
	}{
		{"poor", 0.3, PoorValue},
		{"satisfactory", 0.55, SatisfactoryValue},
		{"good", 0.75, GoodValue},
		{"excellent", 0.9, ExcellentValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetColorLabel(tt.rating)
			// Should contain the plain label
			assert.Contains(t, result, tt.label)
		})
	}
}

func TestGetStatusLabel(t *testing.T) {
	tests := []struct {
		name    string
		status  schema.RatingStatus
		rating  float64
		colored bool
		want    string
	}{
		{"ok plain", schema.StatusOK, 0.9, false, ExcellentValue},
		{"ok colored", schema.StatusOK, 0.3, true, PoorValue},
		{"pending plain", schema.StatusPending, 0, false, "pending"},
		{"pending colored", schema.StatusPending, 0, true, "pending"},
		{"n/a colored", schema.StatusNA, 0, true, "n/a"},
		{"error colored", schema.StatusError, 0, true, "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetStatusLabel(tt.status, tt.rating, tt.colored)
			if tt.colored {
				assert.Contains(t, got, tt.want)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "test_output.txt")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		// Verify file was created
		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestGetDBFilePath(t *testing.T) {
	path := GetDBFilePath()

	// Should not be empty
	assert.NotEmpty(t, path)

	// Should contain the database name
	assert.Contains(t, path, ".gradepoint.db")

	// Should be in home directory
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, homeDir), "path %s should start with home dir %s", path, homeDir)
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		width    int
		expected string
	}{
		{"fits", "final", 10, "final"},
		{"exact", "final", 5, "final"},
		{"truncated", "individual_rating", 10, "individ..."},
		{"width too small", "individual_rating", 3, "individual_rating"},
		{"multibyte", "évaluation", 6, "éva..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateText(tt.text, tt.width))
		})
	}
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{"yes", true, false},
		{"TRUE", true, false},
		{"1", true, false},
		{"no", false, false},
		{"False", false, false},
		{"0", false, false},
		{"maybe", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
