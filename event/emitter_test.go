package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects the events a callback receives.
type recorder struct {
	events []Event
}

func (r *recorder) callback() *Callback {
	return Func(func(e Event) {
		r.events = append(r.events, e)
	})
}

func TestEmitter_TriggerWithoutListeners(t *testing.T) {
	em := NewEmitter(nil)

	assert.NotPanics(t, func() {
		em.Trigger("nothing", 1, 2)
	})
	assert.Empty(t, em.Names())
}

func TestEmitter_OnForwardsArguments(t *testing.T) {
	owner := &struct{ name string }{name: "owner"}
	em := NewEmitter(owner)
	rec := &recorder{}

	em.On("saved", rec.callback(), nil)
	em.Trigger("saved", "a", 2, nil)

	require.Len(t, rec.events, 1)
	assert.Equal(t, "saved", rec.events[0].Name)
	assert.Equal(t, []any{"a", 2, nil}, rec.events[0].Args)
	assert.Same(t, owner, rec.events[0].Context)
}

func TestEmitter_ExplicitContext(t *testing.T) {
	em := NewEmitter("owner")
	rec := &recorder{}

	em.On("saved", rec.callback(), "view")
	em.Trigger("saved")

	require.Len(t, rec.events, 1)
	assert.Equal(t, "view", rec.events[0].Context)
}

func TestEmitter_DispatchOrder(t *testing.T) {
	em := NewEmitter(nil)
	var trace []string

	em.On("tick", Func(func(Event) {
		trace = append(trace, "l1:start")
		trace = append(trace, "l1:end")
	}), nil)
	em.On("tick", Func(func(Event) {
		trace = append(trace, "l2")
	}), nil)

	em.Trigger("tick")

	assert.Equal(t, []string{"l1:start", "l1:end", "l2"}, trace)
}

func TestEmitter_ChainsReturnEmitter(t *testing.T) {
	em := NewEmitter(nil)
	cb := Func(func(Event) {})

	assert.Same(t, em, em.On("a", cb, nil))
	assert.Same(t, em, em.Once("a", cb, nil))
	assert.Same(t, em, em.Trigger("a"))
	assert.Same(t, em, em.Off("a", cb, nil))
}

func TestEmitter_OffAll(t *testing.T) {
	em := NewEmitter(nil)
	rec := &recorder{}

	em.On("a", rec.callback(), nil)
	em.On("b", rec.callback(), "ctx")
	em.Once("c", rec.callback(), nil)

	em.Off("", nil, nil)

	em.Trigger("a").Trigger("b").Trigger("c")
	assert.Empty(t, rec.events)
	assert.Empty(t, em.Names())
}

func TestEmitter_OffByName(t *testing.T) {
	em := NewEmitter(nil)
	rec := &recorder{}

	em.On("a", rec.callback(), nil)
	em.On("a", rec.callback(), nil)
	em.On("b", rec.callback(), nil)

	em.Off("a", nil, nil)

	assert.Equal(t, 0, em.Count("a"))
	assert.Equal(t, 1, em.Count("b"))
	assert.ElementsMatch(t, []string{"b"}, em.Names())
}

func TestEmitter_OffByCallback(t *testing.T) {
	em := NewEmitter(nil)
	calls := map[string]int{}
	keep := Func(func(Event) { calls["keep"]++ })
	drop := Func(func(Event) { calls["drop"]++ })

	em.On("a", keep, nil)
	em.On("a", drop, nil)
	em.On("b", drop, nil)

	// no name: every event name is considered
	em.Off("", drop, nil)

	em.Trigger("a").Trigger("b")
	assert.Equal(t, map[string]int{"keep": 1}, calls)
	assert.Equal(t, 0, em.Count("b"))
	assert.ElementsMatch(t, []string{"a"}, em.Names())
}

func TestEmitter_OffByContext(t *testing.T) {
	em := NewEmitter(nil)
	rec := &recorder{}
	cb := rec.callback()

	em.On("a", cb, "view1")
	em.On("a", cb, "view2")
	em.On("b", cb, "view1")

	em.Off("", nil, "view1")

	assert.Equal(t, 1, em.Count("a"))
	assert.Equal(t, 0, em.Count("b"))

	em.Trigger("a")
	require.Len(t, rec.events, 1)
	assert.Equal(t, "view2", rec.events[0].Context)
}

func TestEmitter_OffByCallbackAndContext(t *testing.T) {
	em := NewEmitter(nil)
	rec := &recorder{}
	cb := rec.callback()
	other := rec.callback()

	em.On("a", cb, "view1")
	em.On("a", cb, "view2")
	em.On("a", other, "view1")

	em.Off("a", cb, "view1")

	assert.Equal(t, 2, em.Count("a"))
}

func TestEmitter_OffNonComparableContext(t *testing.T) {
	em := NewEmitter(nil)
	cb := Func(func(Event) {})

	type tag struct{ V any }

	em.On("a", cb, map[string]int{"x": 1})
	em.On("a", cb, tag{V: []int{1}})
	em.On("a", cb, tag{V: 1})

	assert.NotPanics(t, func() {
		em.Off("a", nil, map[string]int{"x": 1})
		em.Off("a", nil, tag{V: []int{1}})
	})
	assert.Equal(t, 3, em.Count("a"))

	// comparable values of the same struct type still match
	em.Off("a", nil, tag{V: 1})
	assert.Equal(t, 2, em.Count("a"))
}

func TestEmitter_OnceFiresOnce(t *testing.T) {
	em := NewEmitter(nil)
	count := 0

	em.Once("ready", Func(func(Event) { count++ }), nil)

	em.Trigger("ready")
	em.Trigger("ready")
	em.Trigger("ready")

	assert.Equal(t, 1, count)
	assert.Equal(t, 0, em.Count("ready"))
}

func TestEmitter_OnceRemovedBeforeInvocation(t *testing.T) {
	em := NewEmitter(nil)
	var seen int

	em.Once("ready", Func(func(Event) {
		seen = em.Count("ready")
	}), nil)
	em.Trigger("ready")

	assert.Equal(t, 0, seen)
}

func TestEmitter_OffRemovesPendingOnceByOriginal(t *testing.T) {
	em := NewEmitter(nil)
	count := 0
	cb := Func(func(Event) { count++ })

	em.Once("ready", cb, nil)
	require.Equal(t, 1, em.Count("ready"))

	em.Off("ready", cb, nil)

	assert.Equal(t, 0, em.Count("ready"))
	em.Trigger("ready")
	assert.Equal(t, 0, count)
}

func TestEmitter_OffRemovesPendingOnceByWrapper(t *testing.T) {
	em := NewEmitter(nil)
	cb := Func(func(Event) {})

	em.Once("ready", cb, nil)

	em.mu.Lock()
	wrapper := em.events["ready"][0].cb
	em.mu.Unlock()
	require.NotSame(t, cb, wrapper)

	em.Off("ready", wrapper, nil)
	assert.Equal(t, 0, em.Count("ready"))
}

func TestEmitter_ReentrantTrigger(t *testing.T) {
	em := NewEmitter(nil)
	var trace []string

	em.On("outer", Func(func(Event) {
		trace = append(trace, "outer:1")
		em.Trigger("inner")
		trace = append(trace, "outer:1 done")
	}), nil)
	em.On("outer", Func(func(Event) {
		trace = append(trace, "outer:2")
	}), nil)
	em.On("inner", Func(func(Event) {
		trace = append(trace, "inner")
	}), nil)

	em.Trigger("outer")

	assert.Equal(t, []string{"outer:1", "inner", "outer:1 done", "outer:2"}, trace)
}

func TestEmitter_RegistrationDuringDispatch(t *testing.T) {
	em := NewEmitter(nil)
	late := 0

	em.On("a", Func(func(Event) {
		em.On("a", Func(func(Event) { late++ }), nil)
	}), nil)

	em.Trigger("a")
	assert.Equal(t, 0, late)

	em.Trigger("a")
	assert.Equal(t, 1, late)
}

func TestEmitter_PanicAbortsDispatch(t *testing.T) {
	em := NewEmitter(nil)
	after := false

	em.On("boom", Func(func(Event) { panic("listener failed") }), nil)
	em.On("boom", Func(func(Event) { after = true }), nil)

	assert.PanicsWithValue(t, "listener failed", func() {
		em.Trigger("boom")
	})
	assert.False(t, after)

	// the emitter stays usable
	assert.Equal(t, 2, em.Count("boom"))
}

func TestEmitter_NilCallbackIgnored(t *testing.T) {
	em := NewEmitter(nil)

	em.On("a", nil, nil)
	em.Once("a", nil, nil)

	assert.Equal(t, 0, em.Count("a"))
}

func TestEvent_Arg(t *testing.T) {
	e := Event{Args: []any{"x", 1}}

	assert.Equal(t, "x", e.Arg(0))
	assert.Equal(t, 1, e.Arg(1))
	assert.Nil(t, e.Arg(2))
	assert.Nil(t, e.Arg(-1))
}
