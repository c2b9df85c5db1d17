// Package event provides a small synchronous publish/subscribe register keyed
// by event name. It is the notification fabric behind chop models, and can be
// used on its own for application-defined events.
//
// Callbacks are registered with [Emitter.On] or [Emitter.Once] and removed
// with [Emitter.Off]. Because Go functions are not comparable, callbacks are
// wrapped in a [Callback] created by [Func]; the pointer is what Off matches.
//
//	cb := event.Func(func(e event.Event) {
//	    fmt.Println(e.Name, e.Args)
//	})
//
//	em := event.NewEmitter(nil)
//	em.On("saved", cb, nil)
//	em.Trigger("saved", 42)
//	em.Off("saved", cb, nil)
package event

// Event is what a callback receives when its event name is triggered.
type Event struct {
	// Name is the event name passed to Trigger.
	Name string

	// Context is the context registered with the callback, or the emitter's
	// owner when the callback was registered without one.
	Context any

	// Args holds the arguments passed to Trigger, in order.
	Args []any
}

// Arg returns the i-th argument, or nil if there is none.
func (e Event) Arg(i int) any {
	if i < 0 || i >= len(e.Args) {
		return nil
	}
	return e.Args[i]
}

// Callback is a registrable event handler.
type Callback struct {
	fn func(Event)

	// original is set on the wrapper created by Once.
	original *Callback
}

// Func wraps fn into a Callback. Keep the returned pointer to remove the
// registration later.
func Func(fn func(Event)) *Callback {
	return &Callback{fn: fn}
}

// matches reports whether c is cb or wraps cb.
func (c *Callback) matches(cb *Callback) bool {
	return c == cb || (c.original != nil && c.original == cb)
}

func (c *Callback) call(e Event) {
	if c.fn != nil {
		c.fn(e)
	}
}
