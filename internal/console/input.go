package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Key represents a keyboard input.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyEnter
	KeyCtrlC
	KeyCtrlD
	KeyRune // Regular character
)

// KeyEvent represents a key press event.
type KeyEvent struct {
	Key  Key
	Rune rune // Only valid when Key == KeyRune
}

// KeyReader reads keyboard input from a raw terminal.
type KeyReader struct {
	reader *bufio.Reader
}

// NewKeyReader creates a KeyReader from the given io.Reader.
// The reader should be a raw terminal input (e.g., os.Stdin after term.MakeRaw).
func NewKeyReader(r io.Reader) *KeyReader {
	return &KeyReader{
		reader: bufio.NewReaderSize(r, 64),
	}
}

// ReadKey reads a single key event from the input.
// This method blocks until a key is pressed.
func (k *KeyReader) ReadKey() (KeyEvent, error) {
	b, err := k.reader.ReadByte()
	if err != nil {
		return KeyEvent{}, err
	}

	switch b {
	case 0x03: // Ctrl+C
		return KeyEvent{Key: KeyCtrlC}, nil
	case 0x04: // Ctrl+D
		return KeyEvent{Key: KeyCtrlD}, nil
	case 0x0D, 0x0A:
		return KeyEvent{Key: KeyEnter}, nil
	case 0x1B:
		k.discardSequence()
		return KeyEvent{Key: KeyEscape}, nil
	}
	if b >= 0x20 && b < 0x7F {
		return KeyEvent{Key: KeyRune, Rune: rune(b)}, nil
	}
	if b >= 0xC0 {
		// multi-byte rune; no command uses one
		if err := k.reader.UnreadByte(); err == nil {
			_, _, _ = k.reader.ReadRune()
		}
	}
	return KeyEvent{Key: KeyUnknown}, nil
}

// discardSequence drops the rest of a CSI or SS3 sequence (arrow keys and
// the like) if the terminal has already delivered it.
func (k *KeyReader) discardSequence() {
	if k.reader.Buffered() == 0 {
		return
	}
	b, _ := k.reader.ReadByte()
	if b != '[' && b != 'O' {
		_ = k.reader.UnreadByte()
		return
	}
	for k.reader.Buffered() > 0 {
		next, _ := k.reader.ReadByte()
		if next >= 0x40 && next <= 0x7E {
			return
		}
	}
}

// Command is a session command entered at the console.
type Command int

const (
	CommandNone Command = iota
	CommandRecord
	CommandOverdub
	CommandUndo
	CommandRedo
	CommandStatus
	CommandQuit
)

var commandNames = map[Command]string{
	CommandNone:    "none",
	CommandRecord:  "record",
	CommandOverdub: "overdub",
	CommandUndo:    "undo",
	CommandRedo:    "redo",
	CommandStatus:  "status",
	CommandQuit:    "quit",
}

// String returns the command's line name.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// ParseKey maps a keystroke to a command.
func ParseKey(ev KeyEvent) Command {
	switch ev.Key {
	case KeyCtrlC, KeyCtrlD:
		return CommandQuit
	case KeyRune:
		switch ev.Rune {
		case 'r', 'R':
			return CommandRecord
		case 'o', 'O':
			return CommandOverdub
		case 'u', 'U':
			return CommandUndo
		case 'y', 'Y':
			return CommandRedo
		case 's', 'S':
			return CommandStatus
		case 'q', 'Q':
			return CommandQuit
		}
	}
	return CommandNone
}

// ParseLine maps a command line to a command. Either the full name or the
// key letter is accepted; a blank line is CommandNone.
func ParseLine(line string) (Command, error) {
	word := strings.ToLower(strings.TrimSpace(line))
	if word == "" {
		return CommandNone, nil
	}
	if len(word) == 1 {
		if c := ParseKey(KeyEvent{Key: KeyRune, Rune: rune(word[0])}); c != CommandNone {
			return c, nil
		}
	}
	for c, name := range commandNames {
		if c != CommandNone && name == word {
			return c, nil
		}
	}
	if word == "exit" {
		return CommandQuit, nil
	}
	return CommandNone, fmt.Errorf("unknown command %q", strings.TrimSpace(line))
}
