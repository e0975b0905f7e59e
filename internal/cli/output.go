package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	failMark = color.New(color.FgRed).Sprint("✗")
)

// success prints a ✓ progress line to stderr
func success(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", okMark, fmt.Sprintf(format, a...))
}

// failure prints a ✗ progress line to stderr
func failure(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", failMark, fmt.Sprintf(format, a...))
}

// progress prints a ⚙️ progress line to stderr
func progress(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "⚙️  %s\n", fmt.Sprintf(format, a...))
}
