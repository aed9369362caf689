package models

import (
	"time"

	"github.com/google/uuid"
)

// VaultFile is a file stored in the secure vault
type VaultFile struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	SizeBytes  int64     `json:"size_bytes"`
	Hash       string    `json:"hash"` // first 8 hex chars of sha256, uppercase
	Encrypted  bool      `json:"encrypted"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// VaultStorageInfo summarizes vault usage
type VaultStorageInfo struct {
	UsedBytes  int64 `json:"used_bytes"`
	TotalBytes int64 `json:"total_bytes"`
	FileCount  int   `json:"file_count"`
}

// ThreatLevel grades an encryption-check finding
type ThreatLevel string

const (
	ThreatLevelNone     ThreatLevel = "none"
	ThreatLevelLow      ThreatLevel = "low"
	ThreatLevelMedium   ThreatLevel = "medium"
	ThreatLevelHigh     ThreatLevel = "high"
	ThreatLevelCritical ThreatLevel = "critical"
)

// EncryptionCheckResult reports whether a file looks ransomware-encrypted
type EncryptionCheckResult struct {
	FileName       string      `json:"file_name"`
	IsEncrypted    bool        `json:"is_encrypted"`
	EncryptionType string      `json:"encryption_type,omitempty"`
	ThreatLevel    ThreatLevel `json:"threat_level"`
	Details        string      `json:"details"`
	Indicators     []string    `json:"indicators"`
	CheckedAt      time.Time   `json:"checked_at"`
}
