package looper

import (
	"errors"
	"sync"
	"time"

	"github.com/heuermh/osc-looper/internal/logging"
)

// ErrNilSink is returned by NewSession when no Sink is supplied.
var ErrNilSink = errors.New("looper: sink must not be nil")

// SessionOptions configures a Session. Only Sink is required.
type SessionOptions struct {
	Sink   Sink
	Clock  Clock           // defaults to NewClock()
	Logger *logging.Logger // defaults to logging.Default()
}

// Session is the looper's command surface. All methods are safe to call from
// any goroutine; they are serialized with respect to each other and none of
// them fail: a command that does not apply to the current state is a no-op.
type Session struct {
	sink  Sink
	clock Clock
	log   *logging.Logger

	mu     sync.Mutex
	active []*Loop // top is the last element
	undone []*Loop
	closed bool
}

// NewSession creates an empty Session that plays loops through opts.Sink.
func NewSession(opts SessionOptions) (*Session, error) {
	if opts.Sink == nil {
		return nil, ErrNilSink
	}
	s := &Session{
		sink:  opts.Sink,
		clock: opts.Clock,
		log:   opts.Logger,
	}
	if s.clock == nil {
		s.clock = NewClock()
	}
	if s.log == nil {
		s.log = logging.Default()
	}
	return s, nil
}

// Now returns the current time on the Session's clock. Hosts that have no
// clock of their own timestamp incoming events with it.
func (s *Session) Now() time.Duration {
	return s.clock.Now()
}

// Record starts a new loop, or, if the top loop is recording, finishes it so
// that it starts playing.
func (s *Session) Record() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if top := s.top(); top != nil && top.State() == StateRecording {
		top.FinishRecording()
		return
	}
	s.push()
}

// Overdub finishes the top loop if it is recording, or restarts the top loop's
// cycle from its first event if it is playing, and then starts recording a new
// loop on top.
func (s *Session) Overdub() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if top := s.top(); top != nil {
		switch top.State() {
		case StateRecording:
			top.FinishRecording()
		case StatePlaying:
			top.Remove()
			top.BeginPlaying()
		}
	}
	s.push()
}

// Undo stops the top loop and moves it to the undo stack. It does nothing if
// there are no loops or the top loop is recording.
func (s *Session) Undo() {
	s.mu.Lock()
	defer s.mu.Unlock()
	top := s.top()
	if s.closed || top == nil || top.State() != StatePlaying {
		s.log.Debug("undo ignored", "loops", len(s.active))
		return
	}
	s.active = s.active[:len(s.active)-1]
	top.Remove()
	s.undone = append(s.undone, top)
}

// Redo restores the most recently undone loop and plays it from the start.
// It does nothing if the undo stack is empty or the top loop is recording.
// Loops recorded since the undo do not invalidate the undo stack.
func (s *Session) Redo() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || len(s.undone) == 0 {
		s.log.Debug("redo ignored", "undone", len(s.undone))
		return
	}
	if top := s.top(); top != nil && top.State() == StateRecording {
		s.log.Debug("redo ignored while recording")
		return
	}
	last := s.undone[len(s.undone)-1]
	s.undone = s.undone[:len(s.undone)-1]
	last.BeginPlaying()
	s.active = append(s.active, last)
}

// Incoming hands an event received at now to the recording loop, if any.
// Events arriving while nothing records are dropped.
func (s *Session) Incoming(e Event, now time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if top := s.top(); top != nil {
		top.Record(e, now)
	}
}

// LoopCount returns the number of loops on the active stack.
func (s *Session) LoopCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

// UndoCount returns the number of loops on the undo stack.
func (s *Session) UndoCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undone)
}

// Snapshot describes every loop, active stack first, each stack top first.
func (s *Session) Snapshot() []LoopInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	infos := make([]LoopInfo, 0, len(s.active)+len(s.undone))
	for i := len(s.active) - 1; i >= 0; i-- {
		infos = append(infos, s.active[i].Info())
	}
	for i := len(s.undone) - 1; i >= 0; i-- {
		info := s.undone[i].Info()
		info.Undone = true
		infos = append(infos, info)
	}
	return infos
}

// Close stops every playing loop and ends any recording. The active loops
// move to the undo stack, top first, as if undone one by one. Commands issued
// afterwards are no-ops. Close is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	n := len(s.active)
	for len(s.active) > 0 {
		top := s.active[len(s.active)-1]
		s.active = s.active[:len(s.active)-1]
		top.Remove()
		s.undone = append(s.undone, top)
	}
	s.log.Info("session closed", "loops", n, "undone", len(s.undone))
}

func (s *Session) top() *Loop {
	if len(s.active) == 0 {
		return nil
	}
	return s.active[len(s.active)-1]
}

// push expects s.mu to be held.
func (s *Session) push() {
	l := NewLoop(LoopOptions{Sink: s.sink, Clock: s.clock, Logger: s.log})
	s.active = append(s.active, l)
	l.log.Info("recording started", "layer", len(s.active))
}
