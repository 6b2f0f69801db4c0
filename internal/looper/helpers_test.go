package looper

import (
	"bytes"
	"log"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/heuermh/osc-looper/internal/logging"
	"github.com/heuermh/osc-looper/internal/testutil"
)

// quietLogger discards output so tests do not spam stderr.
func quietLogger() *logging.Logger {
	l := logging.New()
	l.SetOutput(log.New(&bytes.Buffer{}, "", 0))
	return l
}

// recordStream fills a fresh recording loop with events at the given delays
// relative to the recording start.
func recordStream(l *Loop, delays []time.Duration, events ...any) {
	at := l.rec.last
	for i, d := range delays {
		at += d
		l.Record(events[i], at)
	}
}

func requirePanicsWithTransition(t *testing.T, op string, state State, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected panic for %s", op)
		err, ok := r.(*TransitionError)
		require.True(t, ok, "panic value %T is not *TransitionError", r)
		require.Equal(t, op, err.Op)
		require.Equal(t, state, err.State)
	}()
	fn()
}

// stepClock only moves when told to.
type stepClock struct {
	now atomic.Int64
}

func (c *stepClock) Now() time.Duration { return time.Duration(c.now.Load()) }

func (c *stepClock) Advance(d time.Duration) { c.now.Add(int64(d)) }

// requireExited waits for p's goroutine to return.
func requireExited(t *testing.T, p *player) {
	t.Helper()
	ctx, cancel := testutil.ShortContext(t)
	defer cancel()
	select {
	case <-p.done:
	case <-ctx.Done():
		t.Fatal("player goroutine did not exit")
	}
}
