package models

import (
	"time"

	"github.com/google/uuid"
)

// SimulationStatus is the lifecycle state of an attack-simulation run.
// Completed and Stopped are terminal.
type SimulationStatus string

const (
	SimulationPending   SimulationStatus = "pending"
	SimulationRunning   SimulationStatus = "running"
	SimulationCompleted SimulationStatus = "completed"
	SimulationStopped   SimulationStatus = "stopped"
)

// Terminal reports whether the status admits no further transitions
func (s SimulationStatus) Terminal() bool {
	return s == SimulationCompleted || s == SimulationStopped
}

// LogTag classifies a simulation log line
type LogTag string

const (
	LogTagNeutral LogTag = "neutral"
	LogTagWarning LogTag = "warning"
	LogTagSuccess LogTag = "success"
)

// SimulationLogLine is one emitted line of the simulation script
type SimulationLogLine struct {
	Seq       int       `json:"seq"`
	Text      string    `json:"text"`
	Tag       LogTag    `json:"tag"`
	EmittedAt time.Time `json:"emitted_at"`
}

// SimulationRun is a snapshot of one attack-simulation execution
type SimulationRun struct {
	ID                   uuid.UUID           `json:"id"`
	Status               SimulationStatus    `json:"status"`
	StageIndex           int                 `json:"stage_index"`
	Progress             int                 `json:"progress"` // 0-100
	VulnerabilitiesFound int                 `json:"vulnerabilities_found"`
	Log                  []SimulationLogLine `json:"log"`
	StartedAt            time.Time           `json:"started_at"`
	EndedAt              *time.Time          `json:"ended_at,omitempty"`
}
