package models

import (
	"time"

	"github.com/google/uuid"
)

// IntegrityStatus classifies one checked file
type IntegrityStatus string

const (
	IntegrityVerified IntegrityStatus = "verified"
	IntegrityModified IntegrityStatus = "modified"
)

// IntegrityRecord is one flagged file from a sweep. A file is modified
// iff CurrentHash differs from OriginalHash at check time.
type IntegrityRecord struct {
	FileID       uuid.UUID       `json:"file_id"`
	FileName     string          `json:"file_name"`
	Status       IntegrityStatus `json:"status"`
	OriginalHash string          `json:"original_hash"`
	CurrentHash  string          `json:"current_hash"`
	CheckedAt    time.Time       `json:"checked_at"`
}

// SweepState is the lifecycle state of an integrity sweep
type SweepState string

const (
	SweepRunning   SweepState = "running"
	SweepCompleted SweepState = "completed"
	SweepCancelled SweepState = "cancelled"
)

// SweepSnapshot is a read-only view of a sweep in flight or finished
type SweepSnapshot struct {
	ID            uuid.UUID         `json:"id"`
	State         SweepState        `json:"state"`
	TotalFiles    int               `json:"total_files"`
	CheckedFiles  int               `json:"checked_files"`
	Progress      int               `json:"progress"` // 0-100
	VerifiedFiles int               `json:"verified_files"`
	ModifiedFiles int               `json:"modified_files"`
	Records       []IntegrityRecord `json:"records"`
	StartedAt     time.Time         `json:"started_at"`
	EndedAt       *time.Time        `json:"ended_at,omitempty"`
}
