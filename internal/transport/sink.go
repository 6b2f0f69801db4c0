package transport

import (
	"errors"
	"fmt"
	"sync"

	"github.com/heuermh/osc-looper/internal/looper"
)

// Destination is one place events can be sent, such as a MIDI output port.
type Destination interface {
	Send(e looper.Event) error
	String() string
}

// Resolver finds destinations for a Target.
type Resolver interface {
	// Default returns the transport's default destination.
	Default() (Destination, error)
	// Lookup returns the destination with the given name.
	Lookup(name string) (Destination, error)
}

// Sink delivers each event to every destination of its Target.
type Sink struct {
	target       Target
	destinations []Destination
}

var _ looper.Sink = (*Sink)(nil)

// NewSink validates t and resolves its destinations.
func NewSink(t Target, r Resolver) (*Sink, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, errors.New("transport: resolver must not be nil")
	}

	var dests []Destination
	if t.Mode == ModeDefault {
		d, err := r.Default()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve default destination: %w", err)
		}
		dests = append(dests, d)
	} else {
		for _, name := range t.Names {
			d, err := r.Lookup(name)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve destination %q: %w", name, err)
			}
			dests = append(dests, d)
		}
	}
	return &Sink{target: t, destinations: dests}, nil
}

// Target returns the configuration the sink was built from.
func (s *Sink) Target() Target {
	return s.target
}

// Destinations returns the resolved destinations in target order.
func (s *Sink) Destinations() []Destination {
	out := make([]Destination, len(s.destinations))
	copy(out, s.destinations)
	return out
}

// Send delivers e to every destination. A failing destination does not stop
// delivery to the rest; the returned error joins every failure.
func (s *Sink) Send(e looper.Event) error {
	var errs []error
	for _, d := range s.destinations {
		if err := d.Send(e); err != nil {
			errs = append(errs, fmt.Errorf("send to %s: %w", d, err))
		}
	}
	return errors.Join(errs...)
}

type serialized struct {
	mu   sync.Mutex
	sink looper.Sink
}

// Serialize wraps sink so that at most one Send runs at a time, for
// transports that are not safe for concurrent use.
func Serialize(sink looper.Sink) looper.Sink {
	if _, ok := sink.(*serialized); ok {
		return sink
	}
	return &serialized{sink: sink}
}

func (s *serialized) Send(e looper.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sink.Send(e)
}
