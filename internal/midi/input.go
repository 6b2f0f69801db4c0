package midi

import (
	"fmt"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"github.com/heuermh/osc-looper/internal/logging"
	"github.com/heuermh/osc-looper/internal/looper"
)

// Recorder receives timestamped events. *looper.Session implements it.
type Recorder interface {
	Incoming(e looper.Event, now time.Duration)
	Now() time.Duration
}

// ListenOptions controls which messages are forwarded.
type ListenOptions struct {
	SysEx  bool // also forward system exclusive messages
	Logger *logging.Logger
}

// Listen forwards every message arriving on in to rec, timestamped with
// rec's clock. The returned function stops listening.
func Listen(in drivers.In, rec Recorder, opts ListenOptions) (stop func(), err error) {
	log := opts.Logger
	if log == nil {
		log = logging.Default()
	}
	log = log.With("input", in.String())
	onError := midi.HandleError(func(err error) {
		log.Warn("MIDI input error", "error", err)
	})
	if opts.SysEx {
		stop, err = midi.ListenTo(in, handler(rec), onError, midi.UseSysEx())
	} else {
		stop, err = midi.ListenTo(in, handler(rec), onError)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to listen on MIDI input %q: %w", in.String(), err)
	}
	return stop, nil
}

// handler timestamps on arrival: the driver's own timestamps count from when
// the port was opened, not from the session clock's epoch.
func handler(rec Recorder) func(msg midi.Message, timestampms int32) {
	return func(msg midi.Message, _ int32) {
		now := rec.Now()
		if len(msg) == 0 {
			return
		}
		// the driver may reuse its buffer
		owned := make(midi.Message, len(msg))
		copy(owned, msg)
		rec.Incoming(owned, now)
	}
}
