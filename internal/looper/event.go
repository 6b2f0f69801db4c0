package looper

import "time"

// Event is an opaque payload produced by the host transport.
type Event = any

// TimedEvent is one recorded entry of a loop. Delay is the time elapsed since
// the previous entry, or since recording started for the first one.
type TimedEvent struct {
	Delay time.Duration
	Event Event
}

// Stream is the ordered list of entries recorded for a loop. Order is playback
// order.
type Stream []TimedEvent

// Length returns the duration of one playback cycle.
func (s Stream) Length() time.Duration {
	var total time.Duration
	for _, te := range s {
		total += te.Delay
	}
	return total
}

// recorder appends events to a stream with the delay since the last one.
// It has a single writer; the owning Loop guards it with its mutex.
type recorder struct {
	last   time.Duration
	events Stream
}

func newRecorder(start time.Duration) *recorder {
	return &recorder{last: start}
}

func (r *recorder) record(e Event, now time.Duration) {
	delay := now - r.last
	if delay < 0 {
		// timestamps from a host that is not quite monotonic
		delay = 0
	} else {
		r.last = now
	}
	r.events = append(r.events, TimedEvent{Delay: delay, Event: e})
}

// freeze returns the recorded stream. The recorder must not be used after.
func (r *recorder) freeze() Stream {
	s := r.events
	r.events = nil
	return s[:len(s):len(s)]
}
