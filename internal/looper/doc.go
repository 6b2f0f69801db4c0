// Package looper records timestamped control events into loops and replays
// them cyclically in real time.
//
// A Session owns two stacks of loops. The active stack holds the loop that is
// currently recording (always on top, at most one) and every loop that is
// playing underneath it. The undone stack holds loops removed by Undo, kept
// with their recorded events so Redo can bring them back.
//
// Each playing loop runs its own goroutine that waits out the recorded delay
// before every event and hands the event to the Session's Sink. Loops share no
// state with each other, so a slow sink call in one loop never delays another.
//
// Events are opaque: the package never looks inside them. The host decides
// what an event is (a MIDI message, an OSC packet) and supplies a Sink that
// knows how to send it.
package looper
