package looper

// Sink sends events on behalf of playing loops. Every playing loop calls
// Send from its own goroutine, so implementations must be safe for
// concurrent use. Hosts whose transport is not can wrap it with
// transport.Serialize.
type Sink interface {
	Send(e Event) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(e Event) error

// Send calls f(e).
func (f SinkFunc) Send(e Event) error {
	return f(e)
}
