package chop

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spetersoncode/chop/event"
	"github.com/spetersoncode/chop/internal/store"
)

// ChangedEvent returns the event name triggered when attr changes value.
func ChangedEvent(attr string) string {
	return "changed:" + attr
}

// Model stores the attributes of schema A and notifies listeners when they
// change. Listeners of "changed:<attr>" events receive the model and the new
// value as arguments.
type Model[A any] struct {
	id     string
	schema *Schema[A]
	attrs  *store.Typed[A]
	events *event.Emitter
	equal  func(a, b any) bool
	logger *slog.Logger
}

// New creates a model of schema s. Attributes missing from initial take their
// default: first the per-attribute defaults, then the schema defaults.
func New[A any](s *Schema[A], initial []Assignment[A], opts ...Option) *Model[A] {
	if s == nil {
		panic("chop: New requires a schema")
	}
	o := ApplyOptions(opts...)

	var clone func(A) A
	if o.clone != nil {
		fn, ok := o.clone.(func(A) A)
		if !ok {
			panic(fmt.Sprintf("chop: schema %q: WithClone expects %T, got %T", s.name, clone, o.clone))
		}
		clone = fn
	}

	given := make(map[string]bool, len(initial))
	for _, as := range initial {
		given[as.Name()] = true
	}

	var data A
	for _, f := range s.fields {
		if !given[f.Name()] {
			f.applyDefault(&data)
		}
	}
	if s.defaults != nil {
		for _, as := range s.defaults() {
			if as.apply != nil && !given[as.Name()] {
				as.apply(&data)
			}
		}
	}
	for _, as := range initial {
		if as.apply != nil {
			as.apply(&data)
		}
	}

	m := &Model[A]{
		id:     o.NewID(),
		schema: s,
		attrs:  store.NewTyped(data, clone),
		equal:  o.Equal,
		logger: o.Logger.With("schema", s.name),
	}
	m.events = event.NewEmitter(m)
	return m
}

// ID returns the identifier assigned at construction.
func (m *Model[A]) ID() string {
	return m.id
}

// Schema returns the model's schema.
func (m *Model[A]) Schema() *Schema[A] {
	return m.schema
}

func (m *Model[A]) String() string {
	return fmt.Sprintf("%s(%s)", m.schema.name, m.id)
}

// Get returns the current value of attr.
func Get[A, T any](m *Model[A], attr *Attr[A, T]) T {
	var v T
	m.attrs.View(func(d *A) {
		v = *attr.ref(d)
	})
	return v
}

// Has reports whether attr holds a value other than nil. Attributes whose type
// cannot be nil always have a value.
func Has[A, T any](m *Model[A], attr *Attr[A, T]) bool {
	return !isNil(Get(m, attr))
}

// Set stores v in attr. It is Fill with a single assignment.
func Set[A, T any](m *Model[A], attr *Attr[A, T], v T, opts ...FillOption) *Model[A] {
	return m.Fill([]Assignment[A]{attr.To(v)}, opts...)
}

type change struct {
	attr  string
	value any
}

// Fill applies attrs in order. Values equal to the stored ones are skipped.
// After all values are stored, a "changed:<attr>" event is triggered for each
// attribute that changed, unless the Silent option is given.
func (m *Model[A]) Fill(attrs []Assignment[A], opts ...FillOption) *Model[A] {
	o := ApplyFillOptions(opts...)

	current := make([]any, len(attrs))
	m.attrs.View(func(d *A) {
		for i, as := range attrs {
			if as.attr != nil {
				current[i] = as.attr.load(d)
			}
		}
	})

	// Equality runs without the lock so it may read the model. A later
	// assignment to the same attribute compares against the earlier one.
	pending := make(map[string]any)
	var changed []Assignment[A]
	var changes []change
	for i, as := range attrs {
		if as.attr == nil {
			continue
		}
		prev, ok := pending[as.attr.Name()]
		if !ok {
			prev = current[i]
		}
		if m.equal(prev, as.value) {
			continue
		}
		pending[as.attr.Name()] = as.value
		changed = append(changed, as)
		changes = append(changes, change{attr: as.attr.Name(), value: as.value})
	}
	if len(changed) > 0 {
		m.attrs.Update(func(d *A) {
			for _, as := range changed {
				as.apply(d)
			}
		})
	}

	for _, c := range changes {
		m.logger.Debug("attribute changed", "model", m.id, "attr", c.attr, "silent", o.Silent)
		if !o.Silent {
			m.events.Trigger(ChangedEvent(c.attr), m, c.value)
		}
	}
	return m
}

// Lookup returns the value of the attribute called name. The second result
// is false if the schema has no such attribute.
func (m *Model[A]) Lookup(name string) (any, bool) {
	f, ok := m.schema.lookup(name)
	if !ok {
		return nil, false
	}
	var v any
	m.attrs.View(func(d *A) {
		v = f.load(d)
	})
	return v, true
}

// SetAttr stores value in the attribute called name.
func (m *Model[A]) SetAttr(name string, value any, opts ...FillOption) error {
	return m.FillMap(map[string]any{name: value}, opts...)
}

// FillMap is Fill for values keyed by attribute name. Values are applied in
// schema definition order. If any name is unknown or any value has the wrong
// type, nothing is stored and an *AttributeError is returned.
func (m *Model[A]) FillMap(values map[string]any, opts ...FillOption) error {
	attrs, err := m.schema.assignments(values)
	if err != nil {
		return err
	}
	m.Fill(attrs, opts...)
	return nil
}

// Snapshot returns a copy of the attributes. Changing the copy does not
// affect the model; values it refers to (maps, slices, pointers) are shared.
func (m *Model[A]) Snapshot() A {
	return m.attrs.Get()
}

// ToMap returns a snapshot keyed by attribute name.
func (m *Model[A]) ToMap() map[string]any {
	snap := m.Snapshot()
	out := make(map[string]any, len(m.schema.fields))
	for _, f := range m.schema.fields {
		out[f.Name()] = f.load(&snap)
	}
	return out
}

// MarshalJSON encodes the snapshot as an object keyed by attribute name.
func (m *Model[A]) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.ToMap())
}

// On registers cb for the event name.
func (m *Model[A]) On(name string, cb *event.Callback, context any) *Model[A] {
	m.events.On(name, cb, context)
	return m
}

// Once registers cb for a single firing of the event name.
func (m *Model[A]) Once(name string, cb *event.Callback, context any) *Model[A] {
	m.events.Once(name, cb, context)
	return m
}

// Off removes registrations; see [event.Emitter.Off].
func (m *Model[A]) Off(name string, cb *event.Callback, context any) *Model[A] {
	m.events.Off(name, cb, context)
	return m
}

// Trigger dispatches an application-defined event to the model's listeners.
func (m *Model[A]) Trigger(name string, args ...any) *Model[A] {
	m.events.Trigger(name, args...)
	return m
}

// TriggerAttrChanged dispatches the change event of key with value, exactly
// as a change made through [Model.Fill] would, without storing anything.
func (m *Model[A]) TriggerAttrChanged(key Key[A], value any) *Model[A] {
	m.events.Trigger(ChangedEvent(key.Name()), m, value)
	return m
}

// OnAttrChanged registers cb for changes of key.
func (m *Model[A]) OnAttrChanged(key Key[A], cb *event.Callback, context any) *Model[A] {
	return m.OnAttrsChanged([]Key[A]{key}, cb, context)
}

// OnAttrsChanged registers cb for changes of each of keys.
func (m *Model[A]) OnAttrsChanged(keys []Key[A], cb *event.Callback, context any) *Model[A] {
	for _, k := range keys {
		m.events.On(ChangedEvent(k.Name()), cb, context)
	}
	return m
}

// OnceAttrChanged registers cb for the next change of key.
func (m *Model[A]) OnceAttrChanged(key Key[A], cb *event.Callback, context any) *Model[A] {
	return m.OnceAttrsChanged([]Key[A]{key}, cb, context)
}

// OnceAttrsChanged registers cb for the next change of each of keys. Each key
// fires cb at most once.
func (m *Model[A]) OnceAttrsChanged(keys []Key[A], cb *event.Callback, context any) *Model[A] {
	for _, k := range keys {
		m.events.Once(ChangedEvent(k.Name()), cb, context)
	}
	return m
}

// Changed adapts fn into a callback for change events of attr.
func (a *Attr[A, T]) Changed(fn func(m *Model[A], v T)) *event.Callback {
	return event.Func(func(e event.Event) {
		m, _ := e.Arg(0).(*Model[A])
		v, _ := e.Arg(1).(T)
		fn(m, v)
	})
}

// ChangeFunc adapts fn into a callback for change events of any attribute of
// schema A.
func ChangeFunc[A any](fn func(m *Model[A], v any)) *event.Callback {
	return event.Func(func(e event.Event) {
		m, _ := e.Arg(0).(*Model[A])
		fn(m, e.Arg(1))
	})
}
