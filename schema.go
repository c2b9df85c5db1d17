package chop

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
)

// Schema lists the attributes of models whose values live in a struct of
// type A. Attributes are added with [Define]; a schema is complete once all
// package-level Define calls have run and must not be extended afterwards.
type Schema[A any] struct {
	name     string
	fields   []field[A]
	spans    []span
	index    map[string]int
	defaults func() []Assignment[A]

	// layout is the value field references are resolved against to find
	// where each attribute is stored.
	layout *A
}

// span is the byte range an attribute occupies within A.
type span struct {
	offset, size uintptr
}

func (sp span) overlaps(o span) bool {
	return sp.offset < o.offset+o.size && o.offset < sp.offset+sp.size
}

// NewSchema creates an empty schema. name is used in log output.
func NewSchema[A any](name string) *Schema[A] {
	return &Schema[A]{
		name:   name,
		index:  make(map[string]int),
		layout: new(A),
	}
}

// Name returns the schema name.
func (s *Schema[A]) Name() string {
	return s.name
}

// Defaults sets a function returning default values for new models. It is
// called once per model, after per-attribute defaults have been applied, so
// it overrides them. Values passed to [New] override both.
func (s *Schema[A]) Defaults(fn func() []Assignment[A]) *Schema[A] {
	s.defaults = fn
	return s
}

// Attributes returns the attribute names in definition order.
func (s *Schema[A]) Attributes() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name()
	}
	return names
}

func (s *Schema[A]) lookup(name string) (field[A], bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.fields[i], true
}

// assignments converts values keyed by attribute name, in definition order.
// Nothing is returned unless every entry is valid.
func (s *Schema[A]) assignments(values map[string]any) ([]Assignment[A], error) {
	for _, name := range slices.Sorted(maps.Keys(values)) {
		if _, ok := s.index[name]; !ok {
			return nil, &AttributeError{Attr: name, Value: values[name], Err: ErrUnknownAttribute}
		}
	}

	attrs := make([]Assignment[A], 0, len(values))
	for _, f := range s.fields {
		v, ok := values[f.Name()]
		if !ok {
			continue
		}
		as, ok := f.assignment(v)
		if !ok {
			return nil, &AttributeError{Attr: f.Name(), Value: v, Err: ErrAttributeType}
		}
		attrs = append(attrs, as)
	}
	return attrs, nil
}

// field is the type-erased view of an *Attr used for dynamic access.
type field[A any] interface {
	Name() string
	load(a *A) any
	assignment(v any) (Assignment[A], bool)
	applyDefault(a *A)
}

// Key identifies an attribute of schema A regardless of its value type.
// Every *Attr[A, T] is a Key[A].
type Key[A any] interface {
	Name() string
	schema() *Schema[A]
}

// Attr is a named attribute of schema A holding a value of type T.
type Attr[A, T any] struct {
	name   string
	owner  *Schema[A]
	ref    func(*A) *T
	source *defaultSource[T]
}

// Define adds an attribute to s. ref returns the address of the struct field
// that stores the attribute:
//
//	type Player struct {
//	    Name  string
//	    Score int
//	}
//
//	var (
//	    Players = chop.NewSchema[Player]("player")
//	    Name    = chop.Define(Players, "name", func(p *Player) *string { return &p.Name })
//	    Score   = chop.Define(Players, "score", func(p *Player) *int { return &p.Score }, chop.Default(100))
//	)
//
// Every attribute needs storage of its own: Define panics if ref does not
// return the address of a field of A or if that field overlaps the field of
// an attribute defined earlier. It also panics if name is empty or already
// defined, or if ref is nil.
func Define[A, T any](s *Schema[A], name string, ref func(*A) *T, opts ...AttrOption[T]) *Attr[A, T] {
	if s == nil {
		panic("chop: Define requires a schema")
	}
	if name == "" {
		panic(fmt.Sprintf("chop: schema %q: attribute name must not be empty", s.name))
	}
	if ref == nil {
		panic(fmt.Sprintf("chop: schema %q: attribute %q requires a field reference", s.name, name))
	}
	if _, dup := s.index[name]; dup {
		panic(fmt.Sprintf("chop: schema %q: attribute %q defined twice", s.name, name))
	}
	sp, ok := fieldSpan(s.layout, ref)
	if !ok {
		panic(fmt.Sprintf("chop: schema %q: attribute %q must reference a field of %s", s.name, name, reflect.TypeFor[A]()))
	}
	for i, other := range s.spans {
		if sp.overlaps(other) {
			panic(fmt.Sprintf("chop: schema %q: attribute %q shares storage with %q", s.name, name, s.fields[i].Name()))
		}
	}

	a := &Attr[A, T]{name: name, owner: s, ref: ref}
	for _, opt := range opts {
		opt(a)
	}
	s.index[name] = len(s.fields)
	s.fields = append(s.fields, a)
	s.spans = append(s.spans, sp)
	return a
}

// fieldSpan locates the value ref addresses within *layout. It reports false
// when the address lies outside of it.
func fieldSpan[A, T any](layout *A, ref func(*A) *T) (span, bool) {
	p := ref(layout)
	if p == nil {
		return span{}, false
	}
	base := reflect.ValueOf(layout).Pointer()
	addr := reflect.ValueOf(p).Pointer()
	size := reflect.TypeFor[T]().Size()
	if addr < base || addr+size > base+reflect.TypeFor[A]().Size() {
		return span{}, false
	}
	return span{offset: addr - base, size: size}, true
}

// Name returns the attribute name.
func (a *Attr[A, T]) Name() string {
	return a.name
}

// To pairs the attribute with a value, for use with [New] and [Model.Fill].
func (a *Attr[A, T]) To(v T) Assignment[A] {
	return Assignment[A]{
		attr:  a,
		value: v,
		apply: func(dst *A) { *a.ref(dst) = v },
	}
}

func (a *Attr[A, T]) schema() *Schema[A] {
	return a.owner
}

func (a *Attr[A, T]) load(dst *A) any {
	return *a.ref(dst)
}

// assignment converts a dynamically typed value. nil is accepted for types
// whose zero value is nil and becomes that zero value.
func (a *Attr[A, T]) assignment(v any) (Assignment[A], bool) {
	if v == nil {
		var zero T
		if !nilable(reflect.TypeFor[T]()) {
			return Assignment[A]{}, false
		}
		return a.To(zero), true
	}
	tv, ok := v.(T)
	if !ok {
		return Assignment[A]{}, false
	}
	return a.To(tv), true
}

func (a *Attr[A, T]) applyDefault(dst *A) {
	if a.source == nil {
		return
	}
	*a.ref(dst) = a.source.resolve()
}

// AttrOption configures an attribute at definition time.
type AttrOption[T any] func(attrConfig[T])

// attrConfig is the part of an attribute that options may set.
type attrConfig[T any] interface {
	setDefault(src *defaultSource[T])
}

func (a *Attr[A, T]) setDefault(src *defaultSource[T]) {
	a.source = src
}

// defaultSource is either a static value or a function producing one.
type defaultSource[T any] struct {
	value T
	fn    func() T
}

func (d *defaultSource[T]) resolve() T {
	if d.fn != nil {
		return d.fn()
	}
	return d.value
}

// Default sets a static default value for the attribute.
func Default[T any](v T) AttrOption[T] {
	return func(c attrConfig[T]) {
		c.setDefault(&defaultSource[T]{value: v})
	}
}

// DefaultFunc sets a function computing the attribute's default. It runs
// once for every model created without a value for the attribute.
func DefaultFunc[T any](fn func() T) AttrOption[T] {
	return func(c attrConfig[T]) {
		c.setDefault(&defaultSource[T]{fn: fn})
	}
}

// Assignment is a value bound to an attribute of schema A.
type Assignment[A any] struct {
	attr  field[A]
	value any
	apply func(*A)
}

// Name returns the name of the assigned attribute.
func (as Assignment[A]) Name() string {
	if as.attr == nil {
		return ""
	}
	return as.attr.Name()
}

// Value returns the assigned value.
func (as Assignment[A]) Value() any {
	return as.value
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

// isNil reports whether v is nil or holds a nil pointer, map, slice,
// interface, func or chan.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	if nilable(rv.Type()) {
		return rv.IsNil()
	}
	return false
}
