// Package logging provides colored, leveled log output for the selfevo CLI.
//
// All output functions write a prefixed, color-coded line to stderr so that
// stdout stays free for command results. Debug output is suppressed unless
// verbose mode is enabled via SetVerbose(true).
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

var (
	mu sync.Mutex
	// verbose controls whether Debug() produces output.
	verbose bool
	// output overrides os.Stderr when set.
	output io.Writer
)

// Color printers for each log level.
var (
	infoPrefix    = color.New(color.FgBlue).SprintFunc()
	successPrefix = color.New(color.FgGreen).SprintFunc()
	warnPrefix    = color.New(color.FgYellow).SprintFunc()
	errorPrefix   = color.New(color.FgRed).SprintFunc()
	sectionPrefix = color.New(color.FgCyan).SprintFunc()
	debugPrefix   = color.New(color.FgBlue).SprintFunc()
	unknownPrefix = color.New(color.FgMagenta).SprintFunc()
)

// SetVerbose enables or disables Debug output.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// SetOutput redirects log output. A nil writer restores stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func writeLine(line string) {
	mu.Lock()
	defer mu.Unlock()
	w := output
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintln(w, line)
}

// Info prints an informational message in blue.
func Info(msg string) {
	writeLine(infoPrefix("[INFO]") + " " + msg)
}

// Success prints a success message in green.
func Success(msg string) {
	writeLine(successPrefix("[SUCCESS]") + " " + msg)
}

// Warn prints a warning message in yellow.
func Warn(msg string) {
	writeLine(warnPrefix("[WARN]") + " " + msg)
}

// Error prints an error message in red.
func Error(msg string) {
	writeLine(errorPrefix("[ERROR]") + " " + msg)
}

// Section prints a section header in cyan, surrounded by separator lines.
func Section(msg string) {
	sep := sectionPrefix("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	writeLine(sep)
	writeLine(sectionPrefix("[STAGE]") + " " + msg)
	writeLine(sep)
}

// Debug prints a debug message in blue, only when verbose mode is enabled.
func Debug(msg string) {
	mu.Lock()
	v := verbose
	mu.Unlock()
	if !v {
		return
	}
	writeLine(debugPrefix("[DEBUG]") + " " + msg)
}

// Debugf is Debug with formatting. Arguments are not evaluated into a string
// unless verbose mode is on.
func Debugf(format string, args ...interface{}) {
	mu.Lock()
	v := verbose
	mu.Unlock()
	if !v {
		return
	}
	writeLine(debugPrefix("[DEBUG]") + " " + fmt.Sprintf(format, args...))
}

// Verdict prints a stage verdict message colored by its status:
// success, partial, failed or anything else.
func Verdict(status, msg string) {
	var prefix string
	switch status {
	case "success":
		prefix = successPrefix("[VERDICT]")
	case "partial":
		prefix = warnPrefix("[VERDICT]")
	case "failed":
		prefix = errorPrefix("[VERDICT]")
	default:
		prefix = unknownPrefix("[VERDICT]")
	}
	writeLine(prefix + " " + msg)
}
