package testutil

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// ErrInjected is the error returned by FailingSink.
var ErrInjected = errors.New("injected send failure")

// Sent is one event observed by a RecordingSink.
type Sent struct {
	Event any
	At    time.Time
}

// RecordingSink records every event it is asked to send. It is safe for
// concurrent use.
type RecordingSink struct {
	mu   sync.Mutex
	sent []Sent
}

// NewRecordingSink returns an empty RecordingSink.
func NewRecordingSink() *RecordingSink {
	return &RecordingSink{}
}

// Send records e.
func (s *RecordingSink) Send(e any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, Sent{Event: e, At: time.Now()})
	return nil
}

// Sent returns a copy of everything recorded so far.
func (s *RecordingSink) Sent() []Sent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Sent, len(s.sent))
	copy(out, s.sent)
	return out
}

// Events returns the recorded events in send order.
func (s *RecordingSink) Events() []any {
	sent := s.Sent()
	out := make([]any, len(sent))
	for i, x := range sent {
		out[i] = x.Event
	}
	return out
}

// Len returns the number of recorded sends.
func (s *RecordingSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

// Gaps returns the time between consecutive sends.
func (s *RecordingSink) Gaps() []time.Duration {
	sent := s.Sent()
	if len(sent) < 2 {
		return nil
	}
	gaps := make([]time.Duration, len(sent)-1)
	for i := 1; i < len(sent); i++ {
		gaps[i-1] = sent[i].At.Sub(sent[i-1].At)
	}
	return gaps
}

// Reset discards everything recorded so far.
func (s *RecordingSink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = nil
}

// FailingSink records events like RecordingSink but returns ErrInjected for
// every event for which Fail reports true. Failed sends are not recorded.
type FailingSink struct {
	RecordingSink
	Fail func(e any) bool
}

// Send records e unless Fail(e) is true.
func (s *FailingSink) Send(e any) error {
	if s.Fail != nil && s.Fail(e) {
		return ErrInjected
	}
	return s.RecordingSink.Send(e)
}

// WaitForSends blocks until sink has seen at least n sends, failing the test
// after timeout.
func WaitForSends(t *testing.T, sink interface{ Len() int }, n int, timeout time.Duration) {
	t.Helper()
	require.Eventually(t, func() bool { return sink.Len() >= n }, timeout, time.Millisecond,
		"expected at least %d sends, got %d", n, sink.Len())
}

// AssertQuiet fails the test if sink receives any send during d.
func AssertQuiet(t *testing.T, sink interface{ Len() int }, d time.Duration) {
	t.Helper()
	before := sink.Len()
	time.Sleep(d)
	require.Equal(t, before, sink.Len(), "expected no sends for %v", d)
}
