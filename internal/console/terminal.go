// Package console is the keyboard surface of a running looper: single
// keystrokes on a raw terminal, or one command per line on a plain reader,
// mapped to session commands, plus a one-line status display.
package console

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// Terminal handles raw terminal mode on stdin.
type Terminal struct {
	in       *os.File
	oldState *term.State
	isRaw    bool
}

// NewTerminal creates a Terminal over stdin.
func NewTerminal() *Terminal {
	return &Terminal{in: os.Stdin}
}

// IsTerminal reports whether stdin is a terminal that can enter raw mode.
func (t *Terminal) IsTerminal() bool {
	return term.IsTerminal(int(t.in.Fd()))
}

// EnterRaw puts the terminal into raw mode.
// Returns an error if already in raw mode or if the operation fails.
func (t *Terminal) EnterRaw() error {
	if t.isRaw {
		return fmt.Errorf("terminal already in raw mode")
	}

	fd := int(t.in.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}

	t.oldState = oldState
	t.isRaw = true
	return nil
}

// ExitRaw restores the terminal to its original state.
// Safe to call even if not in raw mode.
func (t *Terminal) ExitRaw() error {
	if !t.isRaw || t.oldState == nil {
		return nil
	}

	if err := term.Restore(int(t.in.Fd()), t.oldState); err != nil {
		return fmt.Errorf("failed to restore terminal: %w", err)
	}

	t.isRaw = false
	t.oldState = nil
	return nil
}

// Read reads up to len(p) bytes from the terminal input.
func (t *Terminal) Read(p []byte) (n int, err error) {
	return t.in.Read(p)
}

// ANSI escape sequences
const (
	Reset = "\033[0m"

	FgRed         = "\033[31m"
	FgGreen       = "\033[32m"
	FgBrightBlack = "\033[90m"
)
