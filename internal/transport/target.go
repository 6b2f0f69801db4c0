// Package transport turns a send-target configuration into a looper.Sink.
//
// A Target names where played events go: the transport's default
// destination, exactly one named destination, or a list of them. The mode is
// fixed when the sink is built and never changes for the life of a session.
package transport

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects how a Target resolves destinations.
type Mode int

const (
	// ModeDefault sends to the transport's default destination.
	ModeDefault Mode = iota
	// ModeSingle sends to one named destination.
	ModeSingle
	// ModeList sends every event to each of several named destinations.
	ModeList
)

var modeNames = map[Mode]string{
	ModeDefault: "default",
	ModeSingle:  "single",
	ModeList:    "list",
}

// String returns the configuration name of the mode.
func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts a configuration name to a Mode.
func ParseMode(s string) (Mode, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	if want == "" {
		return ModeDefault, nil
	}
	for m, name := range modeNames {
		if name == want {
			return m, nil
		}
	}
	return ModeDefault, fmt.Errorf("unknown target mode %q (want default, single or list)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so modes can be read
// from YAML and environment variables.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ErrNoDestinations is returned when a resolver has nothing to send to.
var ErrNoDestinations = errors.New("transport: no destinations available")

// ValidationError reports an inconsistent Target.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// Target is the send-target configuration of a session.
type Target struct {
	Mode  Mode
	Names []string
}

// Validate checks that the number of names matches the mode.
func (t Target) Validate() error {
	switch t.Mode {
	case ModeDefault:
		if len(t.Names) != 0 {
			return ValidationError{Field: "outputs", Message: "must be empty for target default"}
		}
	case ModeSingle:
		if len(t.Names) != 1 {
			return ValidationError{Field: "outputs", Message: fmt.Sprintf("target single needs exactly one output, got %d", len(t.Names))}
		}
	case ModeList:
		if len(t.Names) == 0 {
			return ValidationError{Field: "outputs", Message: "target list needs at least one output"}
		}
	default:
		return ValidationError{Field: "target", Message: fmt.Sprintf("unknown mode %d", int(t.Mode))}
	}
	for i, name := range t.Names {
		if strings.TrimSpace(name) == "" {
			return ValidationError{Field: fmt.Sprintf("outputs[%d]", i), Message: "must not be empty"}
		}
	}
	return nil
}

// String describes the target for logs.
func (t Target) String() string {
	if t.Mode == ModeDefault {
		return t.Mode.String()
	}
	return t.Mode.String() + ":" + strings.Join(t.Names, ",")
}
