package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/gradepoint/internal/contract"
	"github.com/huangsam/gradepoint/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// writeOutput runs write against path, or stdout when path is empty.
// Files are closed before the mode and destination are announced on stderr.
func writeOutput(path string, mode schema.OutputMode, write func(io.Writer) error) error {
	file, err := contract.SelectOutputFile(path)
	if err != nil {
		return fmt.Errorf("open output %q: %w", path, err)
	}
	if file == os.Stdout {
		return write(file)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close output %q: %w", path, err)
	}
	_, _ = fmt.Fprintf(os.Stderr, "Wrote %s to %s\n", mode, path)
	return nil
}

// writeJSON encodes data with two-space indentation.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSV writes header followed by records and flushes.
func writeCSV(w io.Writer, header []string, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write CSV records: %w", err)
	}
	return nil
}

// writeTable renders rows under headers with the minimal right-aligned look used everywhere.
func writeTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// valueFormatter prints evaluated values with a fixed float precision.
type valueFormatter struct {
	precision int
}

func newValueFormatter(cfg *contract.Config) valueFormatter {
	return valueFormatter{precision: cfg.Precision}
}

func (f valueFormatter) float(v float64) string {
	return fmt.Sprintf("%.*f", f.precision, v)
}

// value prints floats with the configured precision and anything else as is.
func (f valueFormatter) value(v any) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case float64:
		return f.float(val)
	case float32:
		return f.float(float64(val))
	default:
		return fmt.Sprint(val)
	}
}

// rated prints v only for successful ratings. Anything else becomes missing.
func (f valueFormatter) rated(status schema.RatingStatus, v any, missing string) string {
	if status != schema.StatusOK {
		return missing
	}
	return f.value(v)
}
