package looper

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heuermh/osc-looper/internal/logging"
)

// State is the lifecycle state of a Loop.
type State int

const (
	StateRecording State = iota // capturing incoming events
	StatePlaying                // replaying its stream
	StateSuspended              // removed by undo, stream retained
)

// String returns a human-readable name of the state.
func (s State) String() string {
	switch s {
	case StateRecording:
		return "recording"
	case StatePlaying:
		return "playing"
	case StateSuspended:
		return "suspended"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// TransitionError describes a Loop transition attempted from a state that
// does not allow it. Loops panic with a *TransitionError; the Session never
// triggers one.
type TransitionError struct {
	LoopID string
	Op     string
	State  State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("loop %s: %s not allowed while %s", e.LoopID, e.Op, e.State)
}

// LoopOptions holds the collaborators a Loop plays through.
type LoopOptions struct {
	Sink   Sink
	Clock  Clock
	Logger *logging.Logger
}

// Loop is one recorded layer. It starts out recording and, once recording
// finishes, replays its stream until removed.
type Loop struct {
	id    string
	sink  Sink
	clock Clock
	log   *logging.Logger

	mu     sync.Mutex
	state  State
	rec    *recorder
	stream Stream
	player *player
	stats  playStats
}

// NewLoop creates a Loop in the recording state. Recording starts at the
// clock's current time. A nil Clock or Logger falls back to the defaults.
func NewLoop(opts LoopOptions) *Loop {
	clock := opts.Clock
	if clock == nil {
		clock = NewClock()
	}
	log := opts.Logger
	if log == nil {
		log = logging.Default()
	}
	id := uuid.NewString()
	return &Loop{
		id:    id,
		sink:  opts.Sink,
		clock: clock,
		log:   log.With("loop", id[:8]),
		state: StateRecording,
		rec:   newRecorder(clock.Now()),
	}
}

// ID returns the loop's unique identifier.
func (l *Loop) ID() string {
	return l.id
}

// State returns the current lifecycle state.
func (l *Loop) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Stream returns the recorded entries. While recording it is a copy of what
// has been captured so far.
func (l *Loop) Stream() Stream {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.rec != nil {
		s := make(Stream, len(l.rec.events))
		copy(s, l.rec.events)
		return s
	}
	return l.stream
}

// Record appends an event received at now. It reports false, and records
// nothing, if the loop is no longer recording.
func (l *Loop) Record(e Event, now time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateRecording {
		return false
	}
	l.rec.record(e, now)
	return true
}

// FinishRecording freezes the stream and starts playing it.
func (l *Loop) FinishRecording() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mustBe("finish recording", StateRecording)
	l.freeze()
	l.play()
	l.log.Info("recording finished", "events", len(l.stream), "length", l.stream.Length())
}

// BeginPlaying restarts playback of a suspended loop from the first event.
func (l *Loop) BeginPlaying() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mustBe("begin playing", StateSuspended)
	l.play()
	l.log.Info("playback started")
}

// Remove suspends the loop. A playing loop's scheduler is stopped and Remove
// returns only once no further sends can happen. A recording loop keeps
// whatever it captured.
func (l *Loop) Remove() {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch l.state {
	case StatePlaying:
		l.player.stop()
		l.player = nil
	case StateRecording:
		l.freeze()
	default:
		l.mustBe("remove", StatePlaying)
	}
	l.state = StateSuspended
	l.log.Info("loop suspended")
}

// Info returns a point-in-time description of the loop.
func (l *Loop) Info() LoopInfo {
	l.mu.Lock()
	defer l.mu.Unlock()
	stream := l.stream
	if l.rec != nil {
		stream = l.rec.events
	}
	return LoopInfo{
		ID:     l.id,
		State:  l.state,
		Events: len(stream),
		Length: stream.Length(),
		Sent:   l.stats.sent.Load(),
		Failed: l.stats.failed.Load(),
		Cycles: l.stats.cycles.Load(),
	}
}

func (l *Loop) mustBe(op string, want State) {
	if l.state != want {
		panic(&TransitionError{LoopID: l.id, Op: op, State: l.state})
	}
}

// freeze and play expect l.mu to be held.

func (l *Loop) freeze() {
	l.stream = l.rec.freeze()
	l.rec = nil
}

func (l *Loop) play() {
	l.player = startPlayer(l.stream, l.sink, l.clock, l.log, &l.stats)
	l.state = StatePlaying
}

// LoopInfo is a snapshot of one loop.
type LoopInfo struct {
	ID     string
	State  State
	Events int
	Length time.Duration
	Sent   uint64
	Failed uint64
	Cycles uint64
	Undone bool // true if the loop sits on the undo stack
}
