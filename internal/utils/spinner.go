package utils

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// SpinnerUtil provides methods to show progress indicators. On a non-terminal
// writer it stays silent apart from the final message.
type SpinnerUtil struct {
	s      *spinner.Spinner
	out    io.Writer
	active bool
}

func NewSpinnerWithWriter(w io.Writer) *SpinnerUtil {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	return &SpinnerUtil{s: s, out: w, active: IsTerminalWriter(w)}
}

// Start begins the spinner with the given message
func (s *SpinnerUtil) Start(message string) {
	if !s.active {
		return
	}
	s.s.Suffix = " " + message
	s.s.Start()
}

// Stop stops the spinner
func (s *SpinnerUtil) Stop() {
	if !s.active {
		return
	}
	s.s.Stop()
}

// Success stops the spinner and displays a success message
func (s *SpinnerUtil) Success(message string) {
	s.finish("✓ " + message + "\n")
}

// Error stops the spinner and displays an error message
func (s *SpinnerUtil) Error(message string) {
	s.finish("✗ " + message + "\n")
}

func (s *SpinnerUtil) finish(msg string) {
	if !s.active || !s.s.Active() {
		io.WriteString(s.out, msg)
		return
	}
	s.s.FinalMSG = msg
	s.s.Stop()
}
