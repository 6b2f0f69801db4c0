// Package testutil provides shared test helpers for the looper packages.
//
// # Sinks
//
// RecordingSink captures every event sent to it together with the wall clock
// time of the send, so tests can check both order and pacing:
//
//	sink := testutil.NewRecordingSink()
//	session, _ := looper.NewSession(looper.SessionOptions{Sink: sink})
//	// ... record and play ...
//	testutil.WaitForSends(t, sink, 6, time.Second)
//	gaps := sink.Gaps()
//
// FailingSink returns an error for selected events to exercise the transport
// failure path.
//
// # MIDI ports
//
// FakeDriver stands in for the rtmidi driver. Its FakeOut ports record what
// was sent and its FakeIn ports deliver injected messages to the listener.
//
// # Deadlines
//
// ContextWithTestDeadline and friends derive a context from the test's own
// deadline, keeping a buffer for cleanup.
package testutil
