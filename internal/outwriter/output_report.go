package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/gradepoint/internal/contract"
	"github.com/huangsam/gradepoint/schema"
)

// writeReportTable renders one row per member rating.
func writeReportTable(w io.Writer, report *schema.Report, cfg *contract.Config) error {
	f := newValueFormatter(cfg)
	msgWidth := GetMaxTableTextWidth(cfg, 60)

	rows := make([][]string, 0, len(report.Ratings))
	for _, r := range report.Ratings {
		rows = append(rows, []string{
			r.Username,
			r.Label,
			f.rated(r.Status, r.Value, "-"),
			contract.GetStatusLabel(r.Status, r.Value, cfg.UseColors),
			contract.TruncateText(r.Message, msgWidth),
		})
	}

	if _, err := fmt.Fprintf(w, "Project %d, syllabus %d (%s model)\n",
		report.ProjectID, report.SyllabusID, report.Model); err != nil {
		return err
	}
	if err := writeTable(w, []string{"Member", "Rating", "Value", "Label", "Message"}, rows); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Rated %d members in %s\n", countMembers(report), report.Took)
	return err
}

// writeReportCSV writes one record per member rating.
func writeReportCSV(w io.Writer, report *schema.Report, cfg *contract.Config) error {
	f := newValueFormatter(cfg)
	records := make([][]string, 0, len(report.Ratings))
	for _, r := range report.Ratings {
		records = append(records, []string{
			strconv.FormatInt(r.ProjectID, 10),
			r.Username,
			r.Alias,
			r.Label,
			f.rated(r.Status, r.Value, ""),
			string(r.Status),
			r.Message,
		})
	}
	header := []string{"project_id", "username", "alias", "label", "value", "status", "message"}
	return writeCSV(w, header, records)
}

func countMembers(report *schema.Report) int {
	seen := make(map[string]struct{})
	for _, r := range report.Ratings {
		seen[r.Username] = struct{}{}
	}
	return len(seen)
}
