package looper

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/heuermh/osc-looper/internal/logging"
)

// maxLag is how late an event may be before its player resyncs to the clock.
const maxLag = 50 * time.Millisecond

// playStats counts what a loop's players have done. Counters survive across
// players so that a redone loop keeps its history.
type playStats struct {
	sent   atomic.Uint64
	failed atomic.Uint64
	cycles atomic.Uint64
}

// player replays a stream forever on its own goroutine until stopped.
type player struct {
	stream Stream
	sink   Sink
	clock  Clock
	log    *logging.Logger
	stats  *playStats

	cancel context.CancelFunc
	done   chan struct{}

	// sendMu is held for the duration of every sink call. stop takes it
	// after cancelling, so once stop returns no send can start.
	sendMu sync.Mutex
}

func startPlayer(stream Stream, sink Sink, clock Clock, log *logging.Logger, stats *playStats) *player {
	ctx, cancel := context.WithCancel(context.Background())
	p := &player{
		stream: stream,
		sink:   sink,
		clock:  clock,
		log:    log,
		stats:  stats,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go p.run(ctx)
	return p
}

func (p *player) run(ctx context.Context) {
	defer close(p.done)

	if len(p.stream) == 0 {
		// nothing to send, ever
		<-ctx.Done()
		return
	}

	// Deadlines are absolute so that time spent in the sink does not
	// accumulate as drift. An event more than maxLag late (a stalled sink, a
	// suspended process) is sent at once and the rest of the stream keeps its
	// recorded spacing from there, instead of bursting.
	deadline := p.clock.Now()
	for {
		for _, te := range p.stream {
			deadline += te.Delay
			if lag := p.clock.Now() - deadline; lag > maxLag {
				deadline += lag
			}
			if !p.wait(ctx, deadline) {
				return
			}
			if !p.send(ctx, te.Event) {
				return
			}
		}
		p.stats.cycles.Add(1)
	}
}

// wait blocks until deadline or cancellation; it reports false on the latter.
func (p *player) wait(ctx context.Context, deadline time.Duration) bool {
	d := deadline - p.clock.Now()
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (p *player) send(ctx context.Context, e Event) bool {
	p.sendMu.Lock()
	defer p.sendMu.Unlock()
	if ctx.Err() != nil {
		return false
	}
	if err := p.sink.Send(e); err != nil {
		p.stats.failed.Add(1)
		p.log.Warn("send failed", "error", err)
		return true
	}
	p.stats.sent.Add(1)
	return true
}

// stop cancels playback. It returns as soon as any in-flight send has
// completed; the goroutine may still be unwinding, but it will not send again.
func (p *player) stop() {
	p.cancel()
	p.sendMu.Lock()
	p.sendMu.Unlock() //nolint:staticcheck // barrier for an in-flight send
}
