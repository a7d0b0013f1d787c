// Package eventbus delivers session events to subscribers (the UI, loggers)
// on a single dispatcher goroutine, in publish order.
package eventbus

import (
	"runtime/debug"
	"sync"

	"github.com/ytget/image-finder/internal/logging"
)

var log = logging.New("eventbus")

// EventType identifies a kind of event
type EventType string

// Event is anything published on the bus
type Event interface {
	Type() EventType
}

// Handler is a function that handles events
type Handler func(Event)

// Publisher is the producing side of the bus
type Publisher interface {
	Publish(event Event)
}

// EventBus is the interface for the event bus
type EventBus interface {
	Publisher
	Subscribe(eventType EventType, handler Handler) func()
	SubscribeAll(handler Handler) func()
	Close()
}

const queueSize = 256

type subscription struct {
	id      uint64
	handler Handler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]subscription
	all      []subscription
	nextID   uint64

	events    chan Event
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a new event bus and starts its dispatcher
func New() EventBus {
	b := &bus{
		handlers: make(map[EventType][]subscription),
		events:   make(chan Event, queueSize),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	go b.dispatch()

	return b
}

// Publish queues an event. It blocks only while the queue is full and is a
// no-op after Close.
func (b *bus) Publish(event Event) {
	log.Debug().Str("event", string(event.Type())).Msg("publishing event")

	select {
	case <-b.quit:
		return
	default:
	}

	select {
	case b.events <- event:
	case <-b.quit:
	}
}

// Subscribe registers handler for one event type and returns an unsubscribe
// function.
func (b *bus) Subscribe(eventType EventType, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.handlers[eventType] = remove(b.handlers[eventType], id)
	}
}

// SubscribeAll registers handler for every event type.
func (b *bus) SubscribeAll(handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.all = append(b.all, subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.all = remove(b.all, id)
	}
}

// Close delivers already queued events, then stops the dispatcher.
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
		<-b.done
	})
}

func (b *bus) dispatch() {
	defer close(b.done)

	for {
		select {
		case event := <-b.events:
			b.deliver(event)
		case <-b.quit:
			for {
				select {
				case event := <-b.events:
					b.deliver(event)
				default:
					return
				}
			}
		}
	}
}

func (b *bus) deliver(event Event) {
	b.mu.RLock()
	typed := b.handlers[event.Type()]
	subs := make([]subscription, 0, len(typed)+len(b.all))
	subs = append(subs, typed...)
	subs = append(subs, b.all...)
	b.mu.RUnlock()

	for _, sub := range subs {
		call(sub.handler, event)
	}
}

func call(h Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("event", string(event.Type())).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("event handler panic")
		}
	}()
	h(event)
}

func remove(subs []subscription, id uint64) []subscription {
	out := subs[:0:0]
	for _, s := range subs {
		if s.id != id {
			out = append(out, s)
		}
	}
	return out
}
