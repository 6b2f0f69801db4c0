package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/heuermh/osc-looper/internal/logging"
	"github.com/heuermh/osc-looper/internal/looper"
)

// Session is the part of *looper.Session the console drives.
type Session interface {
	Record()
	Overdub()
	Undo()
	Redo()
	Snapshot() []looper.LoopInfo
}

// Options configures a Console.
type Options struct {
	Raw    bool // output goes to a raw terminal: end lines with "\r\n"
	Color  bool
	Logger *logging.Logger
}

// Console executes commands against a session and prints their outcome.
type Console struct {
	session Session
	out     io.Writer
	newline string
	color   bool
	log     *logging.Logger
}

// New creates a Console writing to out.
func New(session Session, out io.Writer, opts Options) *Console {
	c := &Console{
		session: session,
		out:     out,
		newline: "\n",
		color:   opts.Color,
		log:     opts.Logger,
	}
	if opts.Raw {
		c.newline = "\r\n"
	}
	if c.log == nil {
		c.log = logging.Default()
	}
	return c
}

// Execute runs one command and reports whether it was CommandQuit.
func (c *Console) Execute(cmd Command) (quit bool) {
	switch cmd {
	case CommandRecord:
		c.session.Record()
	case CommandOverdub:
		c.session.Overdub()
	case CommandUndo:
		c.session.Undo()
	case CommandRedo:
		c.session.Redo()
	case CommandStatus:
		for _, line := range Report(c.session.Snapshot()) {
			c.println(line)
		}
		return false
	case CommandQuit:
		return true
	default:
		return false
	}
	c.log.Debug("command", "command", cmd)
	c.println(StatusLine(c.session.Snapshot(), c.color))
	return false
}

// Help prints the key bindings.
func (c *Console) Help() {
	c.println("r record  o overdub  u undo  y redo  s status  q quit")
}

// RunKeys executes keystrokes until quit or end of input.
func (c *Console) RunKeys(keys *KeyReader) error {
	for {
		ev, err := keys.ReadKey()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read key: %w", err)
		}
		if c.Execute(ParseKey(ev)) {
			return nil
		}
	}
}

// RunLines executes one command per line until quit or end of input.
// Unknown commands are reported and skipped.
func (c *Console) RunLines(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		cmd, err := ParseLine(scanner.Text())
		if err != nil {
			c.println(err.Error())
			continue
		}
		if c.Execute(cmd) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read commands: %w", err)
	}
	return nil
}

func (c *Console) println(s string) {
	fmt.Fprint(c.out, s+c.newline)
}
