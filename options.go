package chop

import (
	"log/slog"
	"reflect"

	"github.com/google/go-cmp/cmp"
)

// Options contains the collaborators a model relies on.
type Options struct {
	// Equal decides whether an incoming value differs from the stored one.
	Equal func(a, b any) bool

	// NewID produces the model identifier.
	NewID func() string

	// Logger receives debug records for applied changes.
	Logger *slog.Logger

	clone any // func(A) A, see WithClone
}

// Option is a functional option for configuring a model.
type Option func(*Options)

// WithEqual replaces the structural equality used for change detection.
// eq runs without the model's lock held, so it may read the model.
func WithEqual(eq func(a, b any) bool) Option {
	return func(o *Options) {
		o.Equal = eq
	}
}

// WithIDGenerator replaces the sequential model identifiers.
// [UUID] is a ready-made alternative.
func WithIDGenerator(fn func() string) Option {
	return func(o *Options) {
		o.NewID = fn
	}
}

// WithClone replaces the copy returned by Snapshot, which by default is a
// plain struct copy. A must match the model's attribute type; New panics
// otherwise.
func WithClone[A any](fn func(A) A) Option {
	return func(o *Options) {
		o.clone = fn
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// ApplyOptions applies functional options over the defaults.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{
		Equal:  Equal,
		NewID:  NextID,
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.Equal == nil {
		o.Equal = Equal
	}
	if o.NewID == nil {
		o.NewID = NextID
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Equal reports whether a and b are structurally equal: same dynamic type and
// recursively equal contents, including unexported struct fields. Sequences
// compare element by element in order.
func Equal(a, b any) bool {
	return cmp.Equal(a, b, cmp.Exporter(func(reflect.Type) bool { return true }))
}

// FillOptions controls a single Fill or Set call.
type FillOptions struct {
	// Silent suppresses change events for the call.
	Silent bool
}

// FillOption is a functional option for Fill and Set.
type FillOption func(*FillOptions)

// Silent stores the values without triggering change events.
func Silent() FillOption {
	return func(o *FillOptions) {
		o.Silent = true
	}
}

// ApplyFillOptions applies functional options to a FillOptions struct.
func ApplyFillOptions(opts ...FillOption) *FillOptions {
	o := &FillOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
