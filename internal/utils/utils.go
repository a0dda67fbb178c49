package utils

import (
	"os"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	infoColor    = color.New(color.FgCyan)
	warningColor = color.New(color.FgYellow)
)

// PrintSuccess prints a success message
func PrintSuccess(msg string, args ...interface{}) {
	successColor.Printf("✓ "+msg+"\n", args...)
}

// PrintError prints an error message to stderr
func PrintError(msg string, args ...interface{}) {
	errorColor.Fprintf(color.Error, "✗ "+msg+"\n", args...)
}

// PrintInfo prints an info message
func PrintInfo(msg string, args ...interface{}) {
	infoColor.Printf("ℹ "+msg+"\n", args...)
}

// PrintWarning prints a warning message
func PrintWarning(msg string, args ...interface{}) {
	warningColor.Printf("⚠ "+msg+"\n", args...)
}

// FileExists reports whether path can be stat'ed. Any stat error, not only
// a missing file, yields false.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
