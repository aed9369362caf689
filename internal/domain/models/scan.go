package models

import "time"

// ScanKind discriminates what a scan input refers to
type ScanKind string

const (
	ScanKindURL   ScanKind = "url"
	ScanKindImage ScanKind = "image"
	ScanKindFile  ScanKind = "file"
)

// ScanInput is the engine-facing description of something to score.
// The engine never reads file contents; SizeBytes and Filename are the
// only payload attributes the heuristics use.
type ScanInput struct {
	Kind      ScanKind `json:"kind"`
	URL       string   `json:"url,omitempty"`
	Filename  string   `json:"filename,omitempty"`
	SizeBytes int64    `json:"size_bytes,omitempty"`
}

// Signal is one weighted piece of evidence toward a classification.
// Signals are immutable once produced.
type Signal struct {
	Category   string  `json:"category"`
	Weight     float64 `json:"weight"`
	Detail     string  `json:"detail"`
	Confidence float64 `json:"confidence"` // 0-100
}

// Classification is the discrete outcome of scoring an input
type Classification string

const (
	// Image outcomes
	ClassificationAuthentic   Classification = "authentic"
	ClassificationSuspicious  Classification = "suspicious"
	ClassificationManipulated Classification = "manipulated"

	// URL outcomes
	ClassificationSafe    Classification = "safe"
	ClassificationWarning Classification = "warning"
	ClassificationDanger  Classification = "danger"
)

// RiskLevel expresses how urgent the remediation guidance is
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// ScoreResult is the engine's answer for one scan
type ScoreResult struct {
	Input          ScanInput      `json:"input"`
	RawScore       float64        `json:"raw_score"`
	Confidence     float64        `json:"confidence"` // 0-100, clamped
	Classification Classification `json:"classification"`
	RiskLevel      RiskLevel      `json:"risk_level"`
	Signals        []Signal       `json:"signals"`
	Reasons        []string       `json:"reasons"`
	Remediation    []string       `json:"remediation"`
	ScannedAt      time.Time      `json:"scanned_at"`
	Source         string         `json:"source"` // "remote" or "local"
}

// ScanHistoryEntry is one row of the most-recent-first scan history
type ScanHistoryEntry struct {
	URL            string         `json:"url"`
	Classification Classification `json:"classification"`
	Confidence     float64        `json:"confidence"`
	ScannedAt      time.Time      `json:"scanned_at"`
}

// ScanStats are the aggregate counters exposed read-only to callers
type ScanStats struct {
	URLsScanned    int64 `json:"urls_scanned"`
	ThreatsBlocked int64 `json:"threats_blocked"`
	Warnings       int64 `json:"warnings"`
	SafeURLs       int64 `json:"safe_urls"`
}
