// Package logging provides colored, leveled log output for the llm-planner CLI.
//
// All output functions write a prefixed, color-coded line. Debug and Step
// output is suppressed unless verbose mode is enabled via SetVerbose(true).
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

var (
	mu      sync.Mutex
	verbose bool
	out     io.Writer = os.Stdout
	errOut  io.Writer = os.Stderr
)

// Color printers for each log level.
var (
	infoPrefix    = color.New(color.FgBlue).SprintFunc()
	successPrefix = color.New(color.FgGreen).SprintFunc()
	warnPrefix    = color.New(color.FgYellow).SprintFunc()
	errorPrefix   = color.New(color.FgRed).SprintFunc()
	phasePrefix   = color.New(color.FgCyan).SprintFunc()
	debugPrefix   = color.New(color.FgBlue).SprintFunc()
	stepPrefix    = color.New(color.FgMagenta).SprintFunc()
)

// SetVerbose enables or disables Debug and Step output.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// Verbose reports whether verbose output is enabled.
func Verbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verbose
}

// SetOutput redirects regular and error output. Nil writers restore the
// process defaults.
func SetOutput(stdout, stderr io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	out = stdout
	errOut = stderr
}

func writeLine(w func() io.Writer, line string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(w(), line)
}

func stdout() io.Writer { return out }
func stderr() io.Writer { return errOut }

// Info prints an informational message in blue.
func Info(msg string) {
	writeLine(stdout, infoPrefix("[INFO]")+" "+msg)
}

// Success prints a success message in green.
func Success(msg string) {
	writeLine(stdout, successPrefix("[SUCCESS]")+" "+msg)
}

// Warn prints a warning message in yellow.
func Warn(msg string) {
	writeLine(stdout, warnPrefix("[WARN]")+" "+msg)
}

// Error prints an error message to the error stream in red.
func Error(msg string) {
	writeLine(stderr, errorPrefix("[ERROR]")+" "+msg)
}

// Phase prints a phase header in cyan, surrounded by separator lines.
func Phase(msg string) {
	sep := phasePrefix("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(out, sep)
	fmt.Fprintln(out, phasePrefix("[PHASE]")+" "+msg)
	fmt.Fprintln(out, sep)
}

// Debug prints a debug message, only when verbose mode is enabled.
func Debug(msg string) {
	if !Verbose() {
		return
	}
	writeLine(stdout, debugPrefix("[DEBUG]")+" "+msg)
}

// Step prints a multi-line search trace block, one indented line per plan
// step. Suppressed unless verbose.
func Step(label string, body string) {
	if !Verbose() {
		return
	}
	var b strings.Builder
	b.WriteString(stepPrefix("[STEP]") + " " + label)
	for _, line := range strings.Split(strings.TrimRight(body, "\n"), "\n") {
		if line == "" {
			continue
		}
		b.WriteString("\n    " + line)
	}
	writeLine(stdout, b.String())
}

// FormatDuration converts a duration in seconds to a human-readable string.
//
// Examples:
//
//	FormatDuration(0)    => "0s"
//	FormatDuration(45)   => "45s"
//	FormatDuration(90)   => "1m 30s"
//	FormatDuration(3661) => "1h 1m 1s"
func FormatDuration(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	if seconds < 3600 {
		return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
	}
	return fmt.Sprintf("%dh %dm %ds", seconds/3600, (seconds%3600)/60, seconds%60)
}
