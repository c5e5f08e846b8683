// Package ui prints user-facing status lines to stderr.
//
// Four classes of line, visually distinct: step banners for pipeline
// stages, success and warning markers, and fatal error output. Colors
// come from fatih/color, which already handles NO_COLOR and non-TTY
// output. Diagnostic logging is internal/log's job, not this package's.
package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

var (
	mu    sync.Mutex
	out   io.Writer = os.Stderr
	quiet bool
)

var (
	stepColor    = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow, color.Bold)
	failColor    = color.New(color.FgRed, color.Bold)
)

// SetOutput redirects status lines, primarily for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// SetQuiet suppresses step, info and success lines. Warnings and
// failures always print.
func SetQuiet(q bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = q
}

// DisableColor turns off all coloring, for --no-color.
func DisableColor() {
	color.NoColor = true
}

// Step announces a pipeline stage, e.g. "==> building canny (release)".
func Step(format string, a ...any) {
	mu.Lock()
	defer mu.Unlock()
	if quiet {
		return
	}
	fmt.Fprintf(out, "%s %s\n", stepColor.Sprint("==>"), fmt.Sprintf(format, a...))
}

// Info prints a plain informational line.
func Info(format string, a ...any) {
	mu.Lock()
	defer mu.Unlock()
	if quiet {
		return
	}
	fmt.Fprintf(out, "%s\n", fmt.Sprintf(format, a...))
}

// Success prints a green check line for a completed operation.
func Success(format string, a ...any) {
	mu.Lock()
	defer mu.Unlock()
	if quiet {
		return
	}
	fmt.Fprintf(out, "%s %s\n", successColor.Sprint("✓"), fmt.Sprintf(format, a...))
}

// Warn prints a warning line. Warnings never change the exit code.
func Warn(format string, a ...any) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, "%s %s\n", warnColor.Sprint("warning:"), fmt.Sprintf(format, a...))
}

// Fail prints a fatal error line. The caller decides the exit code.
func Fail(format string, a ...any) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, "%s %s\n", failColor.Sprint("error:"), fmt.Sprintf(format, a...))
}
