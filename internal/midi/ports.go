// Package midi connects a looper session to MIDI ports: an input port whose
// messages are recorded into loops, and output ports that played loops send
// to. Messages are passed through untouched.
package midi

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"gitlab.com/gomidi/midi/v2/drivers"

	"github.com/heuermh/osc-looper/internal/transport"
)

// ErrNotCompiled is returned by NewDriver in builds without cgo.
var ErrNotCompiled = errors.New("midi: built without cgo, no MIDI driver available")

// Ports gives access to the ports of one driver and implements
// transport.Resolver over its outputs. Output ports are opened on first
// lookup and closed by Close.
type Ports struct {
	driver drivers.Driver

	mu     sync.Mutex
	opened map[string]*Output
}

var _ transport.Resolver = (*Ports)(nil)

// NewPorts wraps an open driver.
func NewPorts(driver drivers.Driver) *Ports {
	return &Ports{driver: driver, opened: make(map[string]*Output)}
}

// InputNames lists the names of all input ports.
func (p *Ports) InputNames() ([]string, error) {
	ins, err := p.driver.Ins()
	if err != nil {
		return nil, fmt.Errorf("failed to list MIDI inputs: %w", err)
	}
	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}
	return names, nil
}

// OutputNames lists the names of all output ports.
func (p *Ports) OutputNames() ([]string, error) {
	outs, err := p.driver.Outs()
	if err != nil {
		return nil, fmt.Errorf("failed to list MIDI outputs: %w", err)
	}
	names := make([]string, len(outs))
	for i, out := range outs {
		names[i] = out.String()
	}
	return names, nil
}

// FindInput returns the first input port whose name starts with prefix. An
// empty prefix matches the first port.
func (p *Ports) FindInput(prefix string) (drivers.In, error) {
	ins, err := p.driver.Ins()
	if err != nil {
		return nil, fmt.Errorf("failed to list MIDI inputs: %w", err)
	}
	if in, ok := matchPort(ins, prefix); ok {
		return in, nil
	}
	if prefix == "" {
		return nil, errors.New("no MIDI input ports")
	}
	return nil, fmt.Errorf("no MIDI input port starting with %q", prefix)
}

// Default returns the first output port.
func (p *Ports) Default() (transport.Destination, error) {
	return p.Lookup("")
}

// Lookup returns the output port with exactly this name, or else the first
// one whose name starts with it.
func (p *Ports) Lookup(name string) (transport.Destination, error) {
	outs, err := p.driver.Outs()
	if err != nil {
		return nil, fmt.Errorf("failed to list MIDI outputs: %w", err)
	}
	out, ok := matchPort(outs, name)
	if !ok {
		if len(outs) == 0 {
			return nil, transport.ErrNoDestinations
		}
		return nil, fmt.Errorf("no MIDI output port matching %q", name)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if o, ok := p.opened[out.String()]; ok {
		return o, nil
	}
	o, err := openOutput(out)
	if err != nil {
		return nil, err
	}
	p.opened[out.String()] = o
	return o, nil
}

// Close closes every output opened through Lookup, then the driver.
func (p *Ports) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var errs []error
	for name, o := range p.opened {
		if err := o.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(p.opened, name)
	}
	if err := p.driver.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close MIDI driver: %w", err))
	}
	return errors.Join(errs...)
}

// matchPort prefers an exact name match over a prefix match.
func matchPort[P drivers.Port](ports []P, name string) (P, bool) {
	for _, port := range ports {
		if port.String() == name {
			return port, true
		}
	}
	for _, port := range ports {
		if strings.HasPrefix(port.String(), name) {
			return port, true
		}
	}
	var zero P
	return zero, false
}
