package events

import (
	"sync"

	"github.com/kelindar/event"
	"go.uber.org/zap"

	"github.com/muurk/lightctl/internal/logging"
)

// Bus wraps kelindar/event dispatcher for event broadcasting. Handlers run
// on the dispatcher's goroutines, not the publisher's.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers.
// Usage: bus.Publish(StatusEvent{Text: "Ready"})
func (b *Bus) Publish(ev Event) {
	switch e := ev.(type) {
	case StatusEvent:
		event.Publish(b.dispatcher, e)
	case FieldChangedEvent:
		event.Publish(b.dispatcher, e)
	case LiveConnectionEvent:
		event.Publish(b.dispatcher, e)
	case PatternOrderChangedEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe registers handler for the event type named by its parameter and
// returns an unsubscribe function. Unknown handler types get a no-op.
// Usage: unsub := bus.Subscribe(func(e StatusEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(StatusEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(FieldChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(LiveConnectionEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(PatternOrderChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}

// Forward subscribes to every event type and sends them on ch until the
// returned function is called. This is how the panel feeds bus events into
// its update loop. Status events wait for room in ch so a failure line is
// never lost; other events are dropped when ch is full.
func (b *Bus) Forward(ch chan<- Event) func() {
	done := make(chan struct{})

	send := func(ev Event) {
		select {
		case ch <- ev:
		default:
			logging.Debug("Dropped event, forward channel full", zap.Uint32("type", ev.Type()))
		}
	}
	sendStatus := func(e StatusEvent) {
		select {
		case ch <- e:
		case <-done:
		}
	}

	unsubs := []func(){
		b.Subscribe(sendStatus),
		b.Subscribe(func(e FieldChangedEvent) { send(e) }),
		b.Subscribe(func(e LiveConnectionEvent) { send(e) }),
		b.Subscribe(func(e PatternOrderChangedEvent) { send(e) }),
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			for _, unsub := range unsubs {
				unsub()
			}
		})
	}
}
