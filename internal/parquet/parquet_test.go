package parquet

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/gradepoint/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *schema.Report {
	return &schema.Report{
		ProjectID:  100,
		SyllabusID: 1,
		Model:      "default",
		Ratings: []schema.Rating{
			{ProjectID: 100, Username: "alice", Alias: "individual_rating", Label: "Individual rating", Value: 0.73, Status: schema.StatusOK},
			{ProjectID: 100, Username: "alice", Alias: "final_rating", Label: "Final rating", Status: schema.StatusPending, Message: "peer evaluation is not complete"},
			{ProjectID: 100, Username: "bob", Alias: "final_rating", Label: "Final rating", Value: 0, Status: schema.StatusOK},
		},
	}
}

func TestRatingRowStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	s := parquet.SchemaOf(new(RatingRow))
	require.NotNil(t, s)

	expectedColumns := []string{
		"project_id",
		"syllabus_id",
		"model",
		"username",
		"alias",
		"label",
		"value",
		"status",
		"message",
		"reported_at",
	}
	for _, colName := range expectedColumns {
		col, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestRowsFromReport(t *testing.T) {
	at := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	rows := RowsFromReport(sampleReport(), at)
	require.Len(t, rows, 3)

	assert.Equal(t, int64(1), rows[0].SyllabusID)
	assert.Equal(t, "default", rows[0].Model)
	require.NotNil(t, rows[0].Value)
	assert.Equal(t, 0.73, *rows[0].Value)
	assert.Nil(t, rows[0].Message)
	assert.Equal(t, at, rows[0].ReportedAt)

	// Pending ratings carry no value but keep their message
	assert.Nil(t, rows[1].Value)
	require.NotNil(t, rows[1].Message)
	assert.Equal(t, "pending", rows[1].Status)

	// A computed zero is still a value
	require.NotNil(t, rows[2].Value)
	assert.Equal(t, 0.0, *rows[2].Value)
}

func TestWriteRatingsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "ratings.parquet")
	at := time.Now().UTC()
	data := RowsFromReport(sampleReport(), at)

	require.NoError(t, WriteRatingsParquet(data, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	readData, err := ReadRatingsParquet(outputPath)
	require.NoError(t, err)
	require.Len(t, readData, len(data))

	for i := range data {
		assert.Equal(t, data[i].Username, readData[i].Username)
		assert.Equal(t, data[i].Alias, readData[i].Alias)
		assert.Equal(t, data[i].Status, readData[i].Status)
		assert.WithinDuration(t, data[i].ReportedAt, readData[i].ReportedAt, time.Microsecond)
		if data[i].Value == nil {
			assert.Nil(t, readData[i].Value)
		} else {
			require.NotNil(t, readData[i].Value)
			assert.Equal(t, *data[i].Value, *readData[i].Value)
		}
		if data[i].Message == nil {
			assert.Nil(t, readData[i].Message)
		} else {
			require.NotNil(t, readData[i].Message)
			assert.Equal(t, *data[i].Message, *readData[i].Message)
		}
	}
}

func TestWriteRatingsParquet_EmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteRatingsParquet([]RatingRow{}, outputPath))

	rows, err := ReadRatingsParquet(outputPath)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestWriteRatingsParquet_InvalidPath(t *testing.T) {
	err := WriteRatingsParquet(nil, filepath.Join(t.TempDir(), "missing", "dir", "ratings.parquet"))
	assert.Error(t, err)
}

func TestReadRatingsParquet_Missing(t *testing.T) {
	_, err := ReadRatingsParquet(filepath.Join(t.TempDir(), "nope.parquet"))
	assert.Error(t, err)
}
