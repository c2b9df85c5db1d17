package event

import (
	"reflect"
	"sync"
	"sync/atomic"
)

type registration struct {
	cb      *Callback
	context any // tag given at registration, used by Off
	ctx     any // invocation context handed to the callback
}

// Emitter dispatches named events to registered callbacks, synchronously and
// in registration order.
//
// No lock is held while callbacks run, so a callback may register, remove or
// trigger events on the same emitter.
type Emitter struct {
	mu     sync.Mutex
	owner  any
	events map[string][]registration
}

// NewEmitter creates an emitter. owner is the invocation context of
// callbacks registered without an explicit context; it may be nil.
func NewEmitter(owner any) *Emitter {
	return &Emitter{owner: owner}
}

// On registers cb for name. A nil cb is ignored.
func (e *Emitter) On(name string, cb *Callback, context any) *Emitter {
	if cb == nil {
		return e
	}
	ctx := context
	if ctx == nil {
		ctx = e.owner
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.events == nil {
		e.events = make(map[string][]registration)
	}
	e.events[name] = append(e.events[name], registration{cb: cb, context: context, ctx: ctx})
	return e
}

// Once registers cb for name so that it fires at most once. The registration
// is removed right before cb runs. Off(name, cb, ...) removes it while it is
// still pending.
func (e *Emitter) Once(name string, cb *Callback, context any) *Emitter {
	if cb == nil {
		return e
	}
	var fired atomic.Bool
	wrapper := &Callback{original: cb}
	wrapper.fn = func(ev Event) {
		if !fired.CompareAndSwap(false, true) {
			return
		}
		e.Off(name, wrapper, nil)
		cb.call(ev)
	}
	return e.On(name, wrapper, context)
}

// Off removes registrations.
//
// An empty name selects every event name; otherwise only name's list is
// considered. Within that scope a registration is removed unless cb is set
// and matches neither its callback nor the callback wrapped by Once, or
// context is set and differs from its registered context. With all three
// arguments omitted every registration is dropped.
func (e *Emitter) Off(name string, cb *Callback, context any) *Emitter {
	e.mu.Lock()
	defer e.mu.Unlock()

	if name == "" && cb == nil && context == nil {
		e.events = nil
		return e
	}
	if e.events == nil {
		return e
	}

	names := []string{name}
	if name == "" {
		names = make([]string, 0, len(e.events))
		for n := range e.events {
			names = append(names, n)
		}
	}

	for _, n := range names {
		regs, ok := e.events[n]
		if !ok {
			continue
		}
		var retain []registration
		if cb != nil || context != nil {
			for _, r := range regs {
				if (cb != nil && !r.cb.matches(cb)) || (context != nil && !sameContext(context, r.context)) {
					retain = append(retain, r)
				}
			}
		}
		if len(retain) == 0 {
			delete(e.events, n)
		} else {
			e.events[n] = retain
		}
	}
	return e
}

// Trigger calls every callback registered for name with args. Callbacks
// registered or removed while dispatch is running do not affect the current
// dispatch. A panicking callback stops the dispatch and the panic reaches
// the caller.
func (e *Emitter) Trigger(name string, args ...any) *Emitter {
	e.mu.Lock()
	regs := e.events[name]
	if len(regs) == 0 {
		e.mu.Unlock()
		return e
	}
	snapshot := make([]registration, len(regs))
	copy(snapshot, regs)
	e.mu.Unlock()

	for _, r := range snapshot {
		r.cb.call(Event{Name: name, Context: r.ctx, Args: args})
	}
	return e
}

// Count returns the number of registrations for name.
func (e *Emitter) Count(name string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.events[name])
}

// Names returns the event names that currently have registrations.
func (e *Emitter) Names() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, 0, len(e.events))
	for n := range e.events {
		names = append(names, n)
	}
	return names
}

// sameContext compares two context tags without panicking. Values that are
// not comparable, including structs holding a slice or map in an interface
// field, never match.
func sameContext(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() || !va.Comparable() || !vb.Comparable() {
		return false
	}
	return a == b
}
