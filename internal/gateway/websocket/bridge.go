package websocket

import (
	"context"

	"github.com/taskdeck/taskdeck/internal/events"
	"github.com/taskdeck/taskdeck/internal/events/bus"
)

// AttachEventBus subscribes the hub to all entity lifecycle events so they
// are fanned out to connected clients. The returned subscription should be
// unsubscribed on shutdown.
func AttachEventBus(eventBus bus.EventBus, hub *Hub) (bus.Subscription, error) {
	return eventBus.Subscribe(events.AllSubjects, func(ctx context.Context, event *bus.Event) error {
		hub.Broadcast(event)
		return nil
	})
}
