package utils

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal returns true if stdin is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsOutputTerminal returns true if f is a terminal. Commands pass os.Stdout
// and only page their output when it is.
func IsOutputTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}
