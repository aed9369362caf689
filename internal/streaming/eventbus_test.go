package streaming

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"javelin-lab/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "console"})
}

func TestEventBusDeliversToSubscribers(t *testing.T) {
	bus := NewEventBus(nil, testLogger())
	defer bus.Close()

	ch, unsubscribe := bus.Subscribe(nil)
	defer unsubscribe()

	event := NewEvent(EventTypeMonitorTick, "run-1", 1, nil)
	bus.Publish(context.Background(), event)

	received := <-ch
	assert.Equal(t, event.ID, received.ID)
	assert.Equal(t, EventTypeMonitorTick, received.Type)
}

func TestEventBusFiltersBySubscription(t *testing.T) {
	bus := NewEventBus(nil, testLogger())
	defer bus.Close()

	ch, unsubscribe := bus.Subscribe(&Subscription{
		Types: []EventType{EventTypeSimulationProgress},
	})
	defer unsubscribe()

	bus.Publish(context.Background(), NewEvent(EventTypeMonitorTick, "run-1", 1, nil))
	bus.Publish(context.Background(), NewEvent(EventTypeSimulationProgress, "run-2", 1, nil))

	received := <-ch
	assert.Equal(t, EventTypeSimulationProgress, received.Type)
	assert.Empty(t, ch)
}

func TestEventBusUnsubscribeClosesChannel(t *testing.T) {
	bus := NewEventBus(nil, testLogger())
	defer bus.Close()

	ch, unsubscribe := bus.Subscribe(nil)
	require.Equal(t, 1, bus.SubscriberCount())

	unsubscribe()
	assert.Equal(t, 0, bus.SubscriberCount())

	_, open := <-ch
	assert.False(t, open)

	// Unsubscribing twice is safe
	unsubscribe()
}

func TestSubscriptionMatches(t *testing.T) {
	event := NewEvent(EventTypeThreat, "run-7", 3, nil)

	tests := []struct {
		name  string
		sub   Subscription
		match bool
	}{
		{"empty matches all", Subscription{}, true},
		{"matching type", Subscription{Types: []EventType{EventTypeThreat}}, true},
		{"other type", Subscription{Types: []EventType{EventTypeScanCompleted}}, false},
		{"matching run", Subscription{RunID: "run-7"}, true},
		{"other run", Subscription{RunID: "run-8"}, false},
		{"type and run", Subscription{Types: []EventType{EventTypeThreat}, RunID: "run-7"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.match, tt.sub.Matches(event))
		})
	}
}
