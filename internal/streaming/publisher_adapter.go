package streaming

import "context"

// Publisher is the surface the engine services use to push events
type Publisher interface {
	Publish(ctx context.Context, event *Event)
}

// EventBusPublisher fans engine events out to the event bus and the
// WebSocket hub. Either side may be nil.
type EventBusPublisher struct {
	bus *EventBus
	hub *WebSocketHub
}

// NewEventBusPublisher creates a publisher over the bus and hub
func NewEventBusPublisher(bus *EventBus, hub *WebSocketHub) *EventBusPublisher {
	return &EventBusPublisher{bus: bus, hub: hub}
}

// Publish forwards the event to local subscribers and connected clients
func (p *EventBusPublisher) Publish(ctx context.Context, event *Event) {
	if p.bus != nil {
		p.bus.Publish(ctx, event)
	}
	if p.hub != nil {
		p.hub.BroadcastEvent(event)
	}
}

// NopPublisher discards events; used when no subscriber surface is wired
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *Event) {}
