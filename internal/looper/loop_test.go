package looper

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heuermh/osc-looper/internal/testutil"
)

func newTestLoop(sink Sink) *Loop {
	return NewLoop(LoopOptions{Sink: sink, Logger: quietLogger()})
}

func TestLoop_StartsRecording(t *testing.T) {
	l := newTestLoop(testutil.NewRecordingSink())

	assert.Equal(t, StateRecording, l.State())
	assert.NotEmpty(t, l.ID())
	assert.True(t, l.Record("a", l.rec.last+time.Millisecond))
	assert.Len(t, l.Stream(), 1)
}

func TestLoop_FinishRecordingPlays(t *testing.T) {
	sink := testutil.NewRecordingSink()
	l := newTestLoop(sink)
	recordStream(l, []time.Duration{5 * time.Millisecond}, "a")

	l.FinishRecording()
	defer l.Remove()

	assert.Equal(t, StatePlaying, l.State())
	assert.False(t, l.Record("late", l.clock.Now()), "a playing loop must not record")
	assert.Len(t, l.Stream(), 1)
	testutil.WaitForSends(t, sink, 2, time.Second)
}

func TestLoop_CyclicReplayInOrder(t *testing.T) {
	sink := testutil.NewRecordingSink()
	l := newTestLoop(sink)
	ms := time.Millisecond
	recordStream(l, []time.Duration{3 * ms, 3 * ms, 3 * ms}, "a", "b", "c")

	l.FinishRecording()
	testutil.WaitForSends(t, sink, 9, 2*time.Second)
	l.Remove()

	events := sink.Events()
	for i := 0; i < 9; i++ {
		assert.Equal(t, []any{"a", "b", "c"}[i%3], events[i], "send %d", i)
	}
	assert.GreaterOrEqual(t, l.Info().Cycles, uint64(2))
}

func TestLoop_ReproducesRecordedGaps(t *testing.T) {
	sink := testutil.NewRecordingSink()
	l := newTestLoop(sink)
	ms := time.Millisecond
	recordStream(l, []time.Duration{20 * ms, 40 * ms}, "x", "y")

	l.FinishRecording()
	testutil.WaitForSends(t, sink, 5, 2*time.Second)
	l.Remove()

	gaps := sink.Gaps()
	require.GreaterOrEqual(t, len(gaps), 4)
	want := []time.Duration{40 * ms, 20 * ms, 40 * ms, 20 * ms}
	for i, w := range want {
		assert.InDelta(t, float64(w), float64(gaps[i]), float64(15*ms), "gap %d", i)
	}
}

func TestLoop_RemoveStopsSends(t *testing.T) {
	sink := testutil.NewRecordingSink()
	l := newTestLoop(sink)
	recordStream(l, []time.Duration{2 * time.Millisecond}, "a")

	l.FinishRecording()
	testutil.WaitForSends(t, sink, 3, time.Second)
	l.Remove()

	assert.Equal(t, StateSuspended, l.State())
	testutil.AssertQuiet(t, sink, 30*time.Millisecond)
}

func TestLoop_RemoveWaitsForInFlightSend(t *testing.T) {
	var entered, finished atomic.Bool
	started := make(chan struct{}, 1)
	sink := SinkFunc(func(e Event) error {
		entered.Store(true)
		select {
		case started <- struct{}{}:
		default:
		}
		time.Sleep(30 * time.Millisecond)
		finished.Store(true)
		return nil
	})
	l := newTestLoop(sink)
	recordStream(l, []time.Duration{time.Millisecond}, "a")
	l.FinishRecording()

	<-started
	l.Remove()
	assert.True(t, entered.Load())
	assert.True(t, finished.Load(), "Remove returned before the in-flight send completed")
}

func TestLoop_RemoveInterruptsWait(t *testing.T) {
	sink := testutil.NewRecordingSink()
	l := newTestLoop(sink)
	recordStream(l, []time.Duration{time.Hour}, "never")
	l.FinishRecording()
	p := l.player

	start := time.Now()
	l.Remove()
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	requireExited(t, p)
	assert.Zero(t, sink.Len())
}

func TestLoop_EmptyStream(t *testing.T) {
	sink := testutil.NewRecordingSink()
	l := newTestLoop(sink)
	l.FinishRecording()
	p := l.player

	testutil.AssertQuiet(t, sink, 20*time.Millisecond)
	l.Remove()

	requireExited(t, p)
}

func TestLoop_StalledSendKeepsSpacing(t *testing.T) {
	rec := testutil.NewRecordingSink()
	var stalled atomic.Bool
	sink := SinkFunc(func(e Event) error {
		if e == "a" && stalled.CompareAndSwap(false, true) {
			time.Sleep(200 * time.Millisecond)
		}
		return rec.Send(e)
	})
	l := newTestLoop(sink)
	ms := time.Millisecond
	recordStream(l, []time.Duration{10 * ms, 10 * ms, 10 * ms, 10 * ms}, "a", "b", "c", "d")
	l.FinishRecording()

	testutil.WaitForSends(t, rec, 4, 2*time.Second)
	l.Remove()

	sent := rec.Sent()
	require.GreaterOrEqual(t, len(sent), 4)
	assert.Equal(t, []any{"a", "b", "c", "d"}, rec.Events()[:4])
	// b goes out as soon as the stall ends; c and d keep their spacing
	assert.Less(t, sent[1].At.Sub(sent[0].At), 5*ms)
	assert.GreaterOrEqual(t, sent[2].At.Sub(sent[1].At), 5*ms)
	assert.GreaterOrEqual(t, sent[3].At.Sub(sent[2].At), 5*ms)
}

func TestLoop_SendFailureDoesNotStopPlayback(t *testing.T) {
	sink := &testutil.FailingSink{Fail: func(e any) bool { return e == "bad" }}
	l := newTestLoop(sink)
	ms := time.Millisecond
	recordStream(l, []time.Duration{2 * ms, 2 * ms}, "bad", "good")

	l.FinishRecording()
	testutil.WaitForSends(t, sink, 3, time.Second)
	l.Remove()

	info := l.Info()
	assert.GreaterOrEqual(t, info.Failed, uint64(3))
	assert.Equal(t, uint64(sink.Len()), info.Sent)
	for _, e := range sink.Events() {
		assert.Equal(t, "good", e)
	}
}

func TestLoop_BeginPlayingRestartsFromFirstEvent(t *testing.T) {
	sink := testutil.NewRecordingSink()
	l := newTestLoop(sink)
	ms := time.Millisecond
	recordStream(l, []time.Duration{2 * ms, 2 * ms, 2 * ms}, "a", "b", "c")

	l.FinishRecording()
	testutil.WaitForSends(t, sink, 2, time.Second)
	l.Remove()
	sink.Reset()

	l.BeginPlaying()
	testutil.WaitForSends(t, sink, 1, time.Second)
	l.Remove()
	assert.Equal(t, "a", sink.Events()[0])
}

func TestLoop_RemoveWhileRecordingKeepsStream(t *testing.T) {
	sink := testutil.NewRecordingSink()
	l := newTestLoop(sink)
	recordStream(l, []time.Duration{time.Millisecond}, "kept")

	l.Remove()
	assert.Equal(t, StateSuspended, l.State())
	assert.False(t, l.Record("dropped", l.clock.Now()))
	require.Len(t, l.Stream(), 1)

	l.BeginPlaying()
	testutil.WaitForSends(t, sink, 1, time.Second)
	l.Remove()
	assert.Equal(t, "kept", sink.Events()[0])
}

func TestLoop_InvalidTransitionsPanic(t *testing.T) {
	sink := testutil.NewRecordingSink()

	t.Run("finish twice", func(t *testing.T) {
		l := newTestLoop(sink)
		l.FinishRecording()
		defer l.Remove()
		requirePanicsWithTransition(t, "finish recording", StatePlaying, l.FinishRecording)
	})

	t.Run("begin playing while recording", func(t *testing.T) {
		l := newTestLoop(sink)
		requirePanicsWithTransition(t, "begin playing", StateRecording, l.BeginPlaying)
	})

	t.Run("begin playing while playing", func(t *testing.T) {
		l := newTestLoop(sink)
		l.FinishRecording()
		defer l.Remove()
		requirePanicsWithTransition(t, "begin playing", StatePlaying, l.BeginPlaying)
	})

	t.Run("remove while suspended", func(t *testing.T) {
		l := newTestLoop(sink)
		l.FinishRecording()
		l.Remove()
		requirePanicsWithTransition(t, "remove", StateSuspended, l.Remove)
	})
}

func TestTransitionError_Message(t *testing.T) {
	err := &TransitionError{LoopID: "abc", Op: "remove", State: StateSuspended}
	assert.Equal(t, "loop abc: remove not allowed while suspended", err.Error())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "recording", StateRecording.String())
	assert.Equal(t, "playing", StatePlaying.String())
	assert.Equal(t, "suspended", StateSuspended.String())
	assert.Equal(t, "State(7)", State(7).String())
}

func TestLoop_Info(t *testing.T) {
	l := newTestLoop(testutil.NewRecordingSink())
	recordStream(l, []time.Duration{time.Hour, 2 * time.Hour}, "a", "b")

	info := l.Info()
	assert.Equal(t, l.ID(), info.ID)
	assert.Equal(t, StateRecording, info.State)
	assert.Equal(t, 2, info.Events)
	assert.Equal(t, 3*time.Hour, info.Length)
	assert.False(t, info.Undone)
}
