// Package realtime moves chat events from the services that produce them to
// the websocket connections that consume them. The broker is the wire in
// between: Redis pub/sub when configured, an in-process loopback otherwise.
package realtime

import (
	"context"

	"jobportal/internal/domain/chat"
)

type Broker interface {
	// Publish sends an event towards every instance's dispatcher. Events
	// for one channel are published in store order, which subscribers see
	// preserved; no ordering holds across channels.
	Publish(ctx context.Context, ev chat.Event) error

	// Events yields the stream of events this instance should deliver.
	Events() <-chan chat.Event

	Close() error
}

// Dispatcher forwards broker events to the local hub until the broker's
// event stream closes.
func Dispatch(hub *Hub, broker Broker) {
	for ev := range broker.Events() {
		hub.Deliver(ev)
	}
}
