package utils

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// NarrowWidth is the width below which the folder sidebar is hidden
const NarrowWidth = 100

// DetectTerminalWidth tries to get the terminal width, falling back to a default if necessary.
func DetectTerminalWidth(fallback int) int {
	fd := os.Stdout.Fd()
	if isatty.IsTerminal(fd) {
		w, _, err := term.GetSize(int(fd))
		if err == nil && w >= 40 {
			return w
		}
	}
	return fallback
}

// IsInteractive reports whether stdin and stdout are both terminals
func IsInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

// IsTerminalWriter reports whether w is a terminal file
func IsTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// MaxNameLen calculates the max length for the "Name" column given terminal width and other column widths.
func MaxNameLen(termWidth, idCol, valueCol, borders int) int {
	maxNameLen := termWidth - (idCol + valueCol + borders)
	if maxNameLen < 10 {
		maxNameLen = 10
	}
	return maxNameLen
}
