// Package outwriter renders reports, listings and values as tables, CSV, JSON or Parquet.
package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/huangsam/gradepoint/internal/contract"
	"github.com/huangsam/gradepoint/internal/parquet"
	"github.com/huangsam/gradepoint/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the commands.
type OutWriter struct {
	now func() time.Time
}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{now: time.Now}
}

// WriteReport prints a rating report using the configured output format.
func (ow *OutWriter) WriteReport(report *schema.Report, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.ParquetOut:
		rows := parquet.RowsFromReport(report, ow.now())
		if err := parquet.WriteRatingsParquet(rows, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		return nil
	case schema.JSONOut:
		return writeOutput(cfg.OutputFile, schema.JSONOut, func(w io.Writer) error {
			return writeJSON(w, report)
		})
	case schema.CSVOut:
		return writeOutput(cfg.OutputFile, schema.CSVOut, func(w io.Writer) error {
			return writeReportCSV(w, report, cfg)
		})
	default:
		return writeOutput(cfg.OutputFile, schema.TextOut, func(w io.Writer) error {
			return writeReportTable(w, report, cfg)
		})
	}
}

// WriteVariables prints variable descriptions using the configured output format.
func (ow *OutWriter) WriteVariables(vars []schema.VariableInfo, cfg *contract.Config) error {
	return writeListing(cfg, vars, writeVariablesCSV, writeVariablesTable)
}

// WriteConstants prints constant descriptions using the configured output format.
func (ow *OutWriter) WriteConstants(consts []schema.ConstantInfo, cfg *contract.Config) error {
	return writeListing(cfg, consts, writeConstantsCSV, writeConstantsTable)
}

// WriteValue prints one evaluated variable using the configured output format.
func (ow *OutWriter) WriteValue(value schema.VariableValue, cfg *contract.Config) error {
	return writeListing(cfg, value, writeValueCSV, writeValueTable)
}

// writeListing dispatches data that has no Parquet layout.
func writeListing[T any](
	cfg *contract.Config,
	data T,
	csvFn func(io.Writer, T, *contract.Config) error,
	tableFn func(io.Writer, T, *contract.Config) error,
) error {
	switch cfg.Output {
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is only available for reports")
	case schema.JSONOut:
		return writeOutput(cfg.OutputFile, schema.JSONOut, func(w io.Writer) error {
			return writeJSON(w, data)
		})
	case schema.CSVOut:
		return writeOutput(cfg.OutputFile, schema.CSVOut, func(w io.Writer) error {
			return csvFn(w, data, cfg)
		})
	default:
		return writeOutput(cfg.OutputFile, schema.TextOut, func(w io.Writer) error {
			return tableFn(w, data, cfg)
		})
	}
}
