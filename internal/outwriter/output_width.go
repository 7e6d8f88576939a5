package outwriter

import (
	"os"

	"github.com/huangsam/gradepoint/internal/contract"
	"golang.org/x/term"
)

// terminalWidth returns the width override, the detected terminal width,
// or a conservative default.
func terminalWidth(cfg *contract.Config) int {
	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		// Fallback to conservative default for narrow terminals and CI
		return 80
	}
	return detectedWidth
}

// GetMaxTableTextWidth calculates the room left for the free-text column of a
// table (messages, descriptions) once fixedWidth is reserved for the others.
func GetMaxTableTextWidth(cfg *contract.Config, fixedWidth int) int {
	// Reserve generous space for table borders, separators, and padding
	available := terminalWidth(cfg) - fixedWidth - 20
	if available < 15 {
		// Minimum reasonable text width
		return 15
	}
	if available > 70 {
		// Maximum text width to prevent overly wide rows
		return 70
	}
	return available
}
