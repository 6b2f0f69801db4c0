package midi

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"github.com/heuermh/osc-looper/internal/looper"
)

// Output is an open MIDI output port usable as a transport.Destination.
// Driver ports are not safe for concurrent sends; wrap the sink built from
// Outputs with transport.Serialize.
type Output struct {
	port drivers.Out
	send func(midi.Message) error
}

func openOutput(port drivers.Out) (*Output, error) {
	send, err := midi.SendTo(port)
	if err != nil {
		return nil, fmt.Errorf("failed to open MIDI output %q: %w", port.String(), err)
	}
	return &Output{port: port, send: send}, nil
}

// Send writes e to the port. e must be a midi.Message or a []byte.
func (o *Output) Send(e looper.Event) error {
	switch msg := e.(type) {
	case midi.Message:
		return o.send(msg)
	case []byte:
		return o.send(midi.Message(msg))
	default:
		return fmt.Errorf("cannot send %T as MIDI", e)
	}
}

// String returns the port name.
func (o *Output) String() string {
	return o.port.String()
}

// Close closes the port.
func (o *Output) Close() error {
	if !o.port.IsOpen() {
		return nil
	}
	if err := o.port.Close(); err != nil {
		return fmt.Errorf("failed to close MIDI output %q: %w", o.port.String(), err)
	}
	return nil
}
