package cmd

import (
	"runtime"
	"strings"

	"github.com/huangsam/gradepoint/core"
	"github.com/spf13/cobra"
)

// versionCmd shows the verbose version for diagnostic purposes.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gradepoint.",
	Long: `Display build details and the evaluation model packages compiled in.

Include this output when reporting a grading discrepancy: ratings depend on
both the binary and the package a syllabus selects.`,
	Run: func(cmd *cobra.Command, _ []string) {
		models := "unavailable"
		if reg, err := core.NewRegistry(); err == nil {
			models = strings.Join(reg.ModelTypes(), ", ")
		}
		cmd.Printf("gradepoint CLI\n")
		cmd.Printf("  Version: %s\n", version)
		cmd.Printf("  Commit:  %s\n", commit)
		cmd.Printf("  Built:   %s\n", date)
		cmd.Printf("  Runtime: %s\n", runtime.Version())
		cmd.Printf("  Models:  %s\n", models)
	},
}
