package streaming

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies what kind of engine update an event carries
type EventType string

const (
	EventTypeThreat             EventType = "threat_event"
	EventTypeMonitorTick        EventType = "monitor_tick"
	EventTypeMonitorState       EventType = "monitor_state"
	EventTypeSimulationProgress EventType = "simulation_progress"
	EventTypeIntegrityProgress  EventType = "integrity_progress"
	EventTypeScanCompleted      EventType = "scan_completed"
)

// Event is one engine update pushed to subscribers. Within a single run,
// events are ordered by Seq; events from different runs are unordered
// relative to each other.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	// RunID ties the event to one monitor/simulation/sweep run
	RunID string `json:"run_id,omitempty"`
	// Seq is the tick sequence number within the run
	Seq uint64 `json:"seq,omitempty"`

	// Payload is the subsystem snapshot or record for this update
	Payload any `json:"payload,omitempty"`
}

// NewEvent creates an event with a fresh id and timestamp
func NewEvent(eventType EventType, runID string, seq uint64, payload any) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		RunID:     runID,
		Seq:       seq,
		Payload:   payload,
	}
}

// Subscription filters which events a subscriber receives
type Subscription struct {
	// Types to include (empty = all)
	Types []EventType `json:"types,omitempty"`
	// RunID to include (empty = all runs)
	RunID string `json:"run_id,omitempty"`
}

// Matches checks if an event passes the subscription filters
func (s *Subscription) Matches(event *Event) bool {
	if s.RunID != "" && s.RunID != event.RunID {
		return false
	}

	if len(s.Types) > 0 {
		found := false
		for _, t := range s.Types {
			if t == event.Type {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}
