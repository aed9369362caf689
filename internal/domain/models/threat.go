package models

import (
	"time"

	"github.com/google/uuid"
)

// Severity of a monitor threat event
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// ThreatEvent is one entry in the monitor's event log. Resolved is
// monotonic: once true it never reverts.
type ThreatEvent struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
	Resolved  bool      `json:"resolved"`
}

// MonitorState is the lifecycle state of the monitor stream
type MonitorState string

const (
	MonitorIdle   MonitorState = "idle"
	MonitorActive MonitorState = "active"
	MonitorPaused MonitorState = "paused"
)

// MonitorSnapshot is a read-only copy of the monitor's state handed to
// callers. Mutating a snapshot has no effect on the monitor.
type MonitorSnapshot struct {
	State          MonitorState  `json:"state"`
	TickSeq        uint64        `json:"tick_seq"`
	FilesScanned   int64         `json:"files_scanned"`
	ThreatsBlocked int64         `json:"threats_blocked"`
	Events         []ThreatEvent `json:"events"`
}
