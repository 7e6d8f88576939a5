// Package parquet exports rating reports to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/gradepoint/schema"
	"github.com/parquet-go/parquet-go"
)

// RatingRow is one evaluated rating of a report.
type RatingRow struct {
	// ProjectID is the evaluated project
	ProjectID int64 `parquet:"project_id,snappy"`

	// SyllabusID is the syllabus whose model computed the rating
	SyllabusID int64 `parquet:"syllabus_id,snappy"`

	// Model is the evaluation model type
	Model string `parquet:"model,snappy,dict"`

	// Username is the rated team member
	Username string `parquet:"username,snappy,dict"`

	// Alias is the variable holding the rating
	Alias string `parquet:"alias,snappy,dict"`

	// Label is the human readable name of the rating
	Label string `parquet:"label,snappy,dict"`

	// Value is the rating (nullable, only set when Status is ok)
	Value *float64 `parquet:"value,optional,snappy"`

	// Status is the evaluation outcome: ok, pending, n/a or error
	Status string `parquet:"status,snappy,dict"`

	// Message explains a rating that could not be computed (nullable)
	Message *string `parquet:"message,optional,snappy"`

	// ReportedAt is when the report was built (stored as TIMESTAMP with nanosecond precision)
	ReportedAt time.Time `parquet:"reported_at,snappy"`
}

// RowsFromReport flattens a report into Parquet rows stamped with at.
func RowsFromReport(report *schema.Report, at time.Time) []RatingRow {
	rows := make([]RatingRow, 0, len(report.Ratings))
	for _, r := range report.Ratings {
		row := RatingRow{
			ProjectID:  r.ProjectID,
			SyllabusID: report.SyllabusID,
			Model:      report.Model,
			Username:   r.Username,
			Alias:      r.Alias,
			Label:      r.Label,
			Status:     string(r.Status),
			ReportedAt: at,
		}
		if r.Status == schema.StatusOK {
			value := r.Value
			row.Value = &value
		}
		if r.Message != "" {
			msg := r.Message
			row.Message = &msg
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteRatingsParquet writes a slice of RatingRow structs to a Parquet file.
func WriteRatingsParquet(data []RatingRow, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the RatingRow struct tags
	writer := parquet.NewGenericWriter[RatingRow](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}

// ReadRatingsParquet reads back every row of a rating file.
func ReadRatingsParquet(inputPath string) ([]RatingRow, error) {
	rows, err := parquet.ReadFile[RatingRow](inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file %s: %w", inputPath, err)
	}
	return rows, nil
}
