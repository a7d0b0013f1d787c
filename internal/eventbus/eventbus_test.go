package eventbus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	kind EventType
	n    int
}

func (e testEvent) Type() EventType { return e.kind }

const (
	typeA EventType = "A"
	typeB EventType = "B"
)

func collect(t *testing.T, bus EventBus, eventType EventType) (func() []int, func()) {
	t.Helper()

	var mu sync.Mutex
	var got []int
	unsub := bus.Subscribe(eventType, func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e.(testEvent).n)
	})

	return func() []int {
		mu.Lock()
		defer mu.Unlock()
		return append([]int(nil), got...)
	}, unsub
}

func TestBus_DeliversInOrder(t *testing.T) {
	bus := New()
	get, _ := collect(t, bus, typeA)

	for i := range 50 {
		bus.Publish(testEvent{kind: typeA, n: i})
	}
	bus.Close()

	got := get()
	require.Len(t, got, 50)
	for i, n := range got {
		assert.Equal(t, i, n)
	}
}

func TestBus_FiltersByType(t *testing.T) {
	bus := New()
	getA, _ := collect(t, bus, typeA)
	getB, _ := collect(t, bus, typeB)

	bus.Publish(testEvent{kind: typeA, n: 1})
	bus.Publish(testEvent{kind: typeB, n: 2})
	bus.Publish(testEvent{kind: typeA, n: 3})
	bus.Close()

	assert.Equal(t, []int{1, 3}, getA())
	assert.Equal(t, []int{2}, getB())
}

func TestBus_SubscribeAll(t *testing.T) {
	bus := New()

	var mu sync.Mutex
	var types []EventType
	bus.SubscribeAll(func(e Event) {
		mu.Lock()
		types = append(types, e.Type())
		mu.Unlock()
	})

	bus.Publish(testEvent{kind: typeA})
	bus.Publish(testEvent{kind: typeB})
	bus.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []EventType{typeA, typeB}, types)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := New()
	get, unsub := collect(t, bus, typeA)
	getOther, _ := collect(t, bus, typeA)

	unsub()
	bus.Publish(testEvent{kind: typeA, n: 7})
	bus.Close()

	assert.Empty(t, get())
	assert.Equal(t, []int{7}, getOther())
}

func TestBus_HandlerPanicDoesNotStopDispatch(t *testing.T) {
	bus := New()
	bus.Subscribe(typeA, func(Event) { panic("boom") })
	get, _ := collect(t, bus, typeA)

	bus.Publish(testEvent{kind: typeA, n: 1})
	bus.Publish(testEvent{kind: typeA, n: 2})
	bus.Close()

	assert.Equal(t, []int{1, 2}, get())
}

func TestBus_PublishAfterClose(t *testing.T) {
	bus := New()
	bus.Close()

	done := make(chan struct{})
	go func() {
		bus.Publish(testEvent{kind: typeA})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked after Close")
	}

	// Close is idempotent
	bus.Close()
}
