package notify

import (
	"fmt"
	"runtime/debug"

	"github.com/dshills/spanbuf/internal/engine"
	"github.com/dshills/spanbuf/internal/engine/tag"
	"github.com/dshills/spanbuf/internal/logging"
)

// PanicHandler is called when an observer panics during delivery.
type PanicHandler func(ev Event, value any, stack []byte)

type entry struct {
	id      tag.Tag
	obs     Observer
	removed bool
}

// Dispatcher holds registered observers and the splice nesting depth.
// It is not safe for concurrent use.
type Dispatcher struct {
	entries []*entry
	byID    map[tag.Tag]*entry
	depth   int
	log     *logging.Logger
	onPanic PanicHandler

	delivered uint64
	panicked  uint64
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for recovered panics.
func WithLogger(l *logging.Logger) Option {
	return func(d *Dispatcher) {
		d.log = logging.OrNop(l).WithComponent("notify")
	}
}

// WithPanicHandler replaces the default panic handler.
func WithPanicHandler(h PanicHandler) Option {
	return func(d *Dispatcher) {
		d.onPanic = h
	}
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		byID: make(map[tag.Tag]*entry),
		log:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.onPanic == nil {
		d.onPanic = func(ev Event, value any, stack []byte) {
			d.log.Error("observer panicked on %s: %v\n%s", ev, value, stack)
		}
	}
	return d
}

// Register adds obs under id. Registering an id again replaces its observer
// without changing its delivery position.
func (d *Dispatcher) Register(id tag.Tag, obs Observer) error {
	if id.IsZero() {
		return fmt.Errorf("register: zero tag: %w", engine.ErrInvalidArgument)
	}
	if obs == nil {
		return fmt.Errorf("register %s: nil observer: %w", id, engine.ErrInvalidArgument)
	}
	if e, ok := d.byID[id]; ok {
		e.obs = obs
		return nil
	}
	e := &entry{id: id, obs: obs}
	d.entries = append(d.entries, e)
	d.byID[id] = e
	return nil
}

// Unregister removes the observer registered under id. An observer removed
// while a delivery is running receives no further events from it.
func (d *Dispatcher) Unregister(id tag.Tag) error {
	e, ok := d.byID[id]
	if !ok {
		return fmt.Errorf("unregister %s: not registered: %w", id, engine.ErrInvalidArgument)
	}
	e.removed = true
	delete(d.byID, id)
	for i, cur := range d.entries {
		if cur == e {
			d.entries = append(d.entries[:i:i], d.entries[i+1:]...)
			break
		}
	}
	return nil
}

// Registered reports whether an observer is registered under id.
func (d *Dispatcher) Registered(id tag.Tag) bool {
	_, ok := d.byID[id]
	return ok
}

// Len returns the number of registered observers.
func (d *Dispatcher) Len() int {
	return len(d.entries)
}

// Enter records the start of a splice and returns the new depth.
func (d *Dispatcher) Enter() int {
	d.depth++
	return d.depth
}

// Leave records the end of a splice.
func (d *Dispatcher) Leave() {
	if d.depth > 0 {
		d.depth--
	}
}

// Depth returns the number of splices currently in flight.
func (d *Dispatcher) Depth() int {
	return d.depth
}

// Deliver sends each event, in order, to every observer registered when
// delivery started.
func (d *Dispatcher) Deliver(events ...Event) {
	if len(events) == 0 || len(d.entries) == 0 {
		return
	}
	// Observers registered by a callback only see later deliveries.
	snapshot := make([]*entry, len(d.entries))
	copy(snapshot, d.entries)

	for _, ev := range events {
		for _, e := range snapshot {
			if e.removed {
				continue
			}
			d.deliverOne(ev, e.obs)
		}
	}
}

func (d *Dispatcher) deliverOne(ev Event, obs Observer) {
	d.delivered++
	defer func() {
		if r := recover(); r != nil {
			d.panicked++
			stack := debug.Stack()
			func() {
				defer func() { _ = recover() }()
				d.onPanic(ev, r, stack)
			}()
		}
	}()
	ev.DeliverTo(obs)
}

// Stats reports delivery counters.
type Stats struct {
	Observers int
	Delivered uint64
	Panicked  uint64
}

// Stats returns delivery counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{Observers: len(d.entries), Delivered: d.delivered, Panicked: d.panicked}
}
