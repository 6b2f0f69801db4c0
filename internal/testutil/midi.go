package testutil

import (
	"sync"

	"gitlab.com/gomidi/midi/v2/drivers"
)

// FakePort is an in-memory MIDI port that counts opens and closes.
type FakePort struct {
	Name string
	Num  int

	mu     sync.Mutex
	open   bool
	opens  int
	closes int
}

func (p *FakePort) Open() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = true
	p.opens++
	return nil
}

func (p *FakePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = false
	p.closes++
	return nil
}

func (p *FakePort) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

func (p *FakePort) Opens() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opens
}

func (p *FakePort) Closes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closes
}

func (p *FakePort) Number() int             { return p.Num }
func (p *FakePort) String() string          { return p.Name }
func (p *FakePort) Underlying() interface{} { return nil }

// FakeOut records the raw messages sent to it.
type FakeOut struct {
	FakePort
	sent [][]byte
}

var _ drivers.Out = (*FakeOut)(nil)

func (o *FakeOut) Send(msg []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, append([]byte(nil), msg...))
	return nil
}

// Messages returns a copy of every message sent so far.
func (o *FakeOut) Messages() [][]byte {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([][]byte(nil), o.sent...)
}

// FakeIn delivers messages injected with Deliver to its listener.
type FakeIn struct {
	FakePort
	onMsg func(msg []byte, ms int32)
}

var _ drivers.In = (*FakeIn)(nil)

func (i *FakeIn) Listen(onMsg func(msg []byte, milliseconds int32), _ drivers.ListenConfig) (func(), error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.onMsg = onMsg
	return func() {
		i.mu.Lock()
		defer i.mu.Unlock()
		i.onMsg = nil
	}, nil
}

// Listening reports whether a listener is attached.
func (i *FakeIn) Listening() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.onMsg != nil
}

// Deliver hands msg to the listener, if any. It reports whether there was one.
func (i *FakeIn) Deliver(msg []byte) bool {
	i.mu.Lock()
	onMsg := i.onMsg
	i.mu.Unlock()
	if onMsg == nil {
		return false
	}
	onMsg(msg, 0)
	return true
}

// FakeDriver is a drivers.Driver over fixed sets of fake ports.
type FakeDriver struct {
	ins  []*FakeIn
	outs []*FakeOut

	mu     sync.Mutex
	closed bool
}

var _ drivers.Driver = (*FakeDriver)(nil)

// NewFakeDriver creates a driver with the named input and output ports.
func NewFakeDriver(ins, outs []string) *FakeDriver {
	d := &FakeDriver{}
	for i, name := range ins {
		d.ins = append(d.ins, &FakeIn{FakePort: FakePort{Name: name, Num: i}})
	}
	for i, name := range outs {
		d.outs = append(d.outs, &FakeOut{FakePort: FakePort{Name: name, Num: i}})
	}
	return d
}

func (d *FakeDriver) Ins() ([]drivers.In, error) {
	ins := make([]drivers.In, len(d.ins))
	for i, in := range d.ins {
		ins[i] = in
	}
	return ins, nil
}

func (d *FakeDriver) Outs() ([]drivers.Out, error) {
	outs := make([]drivers.Out, len(d.outs))
	for i, out := range d.outs {
		outs[i] = out
	}
	return outs, nil
}

func (d *FakeDriver) String() string { return "fake" }

func (d *FakeDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Closed reports whether Close was called.
func (d *FakeDriver) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// In returns the i-th input port.
func (d *FakeDriver) In(i int) *FakeIn { return d.ins[i] }

// Out returns the i-th output port.
func (d *FakeDriver) Out(i int) *FakeOut { return d.outs[i] }
