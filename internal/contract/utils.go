package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/gradepoint/schema"
)

// Rating label constants.
const (
	ExcellentValue    = "Excellent"    // Excellent rating
	GoodValue         = "Good"         // Good rating
	SatisfactoryValue = "Satisfactory" // Satisfactory rating
	PoorValue         = "Poor"         // Poor rating
)

// Color variables for console output.
var (
	ExcellentColor    = color.New(color.FgGreen, color.Bold) // ExcellentColor marks top ratings.
	GoodColor         = color.New(color.FgCyan)              // GoodColor marks solid ratings.
	SatisfactoryColor = color.New(color.FgYellow)            // SatisfactoryColor marks passing ratings, not bold.
	PoorColor         = color.New(color.FgRed, color.Bold)   // PoorColor represents standard danger.
	PendingColor      = color.New(color.FgMagenta)           // PendingColor marks ratings waiting for data.
	MutedColor        = color.New(color.Faint)               // MutedColor marks ratings that do not apply.
)

// GetPlainLabel returns a plain text label for a rating in [0, 1].
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(rating float64) string {
	switch {
	case rating >= 0.85:
		return ExcellentValue
	case rating >= 0.7:
		return GoodValue
	case rating >= 0.5:
		return SatisfactoryValue
	default:
		return PoorValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(rating float64) string {
	text := GetPlainLabel(rating)

	switch text {
	case ExcellentValue:
		return ExcellentColor.Sprint(text)
	case GoodValue:
		return GoodColor.Sprint(text)
	case SatisfactoryValue:
		return SatisfactoryColor.Sprint(text)
	default: // "Poor"
		return PoorColor.Sprint(text)
	}
}

// GetStatusLabel returns the label of a rating: its grade when it was computed,
// otherwise the status itself.
func GetStatusLabel(status schema.RatingStatus, rating float64, colored bool) string {
	if status == schema.StatusOK {
		if colored {
			return GetColorLabel(rating)
		}
		return GetPlainLabel(rating)
	}
	if !colored {
		return string(status)
	}
	switch status {
	case schema.StatusPending:
		return PendingColor.Sprint(status)
	case schema.StatusError:
		return PoorColor.Sprint(status)
	default:
		return MutedColor.Sprint(status)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path and format type. It falls back to os.Stdout on error.
// This function replaces both selectCSVOutputFile and selectJSONOutputFile.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetDBFilePath returns the path to the default SQLite evaluation database.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".gradepoint.db"
	}
	return filepath.Join(homeDir, ".gradepoint.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so the "..." suffix leaves room for content.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
