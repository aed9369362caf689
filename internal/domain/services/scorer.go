package services

import (
	"time"

	"javelin-lab/internal/config"
	"javelin-lab/internal/domain/models"
	"javelin-lab/pkg/logger"
	"javelin-lab/pkg/random"
)

// Scorer aggregates signals into a raw score and a bounded confidence.
// Deterministic given a deterministic random source.
type Scorer struct {
	config config.ConfidenceConfig
	rand   random.Source
	logger *logger.Logger
}

// NewScorer creates a new Scorer
func NewScorer(cfg config.ConfidenceConfig, src random.Source, log *logger.Logger) *Scorer {
	return &Scorer{
		config: cfg,
		rand:   src,
		logger: log.WithComponent("scorer"),
	}
}

// Aggregate sums signal weights into a raw score and derives the
// normalized confidence. Classification and remediation are filled in by
// the policy layer afterwards.
func (s *Scorer) Aggregate(input models.ScanInput, signals []models.Signal) models.ScoreResult {
	var raw float64
	reasons := make([]string, 0, len(signals))
	for _, sig := range signals {
		raw += sig.Weight
		reasons = append(reasons, sig.Detail)
	}

	jitter := s.rand.Float64() * s.config.JitterMax
	confidence := s.config.Baseline + raw*s.config.ScaleFactor + jitter
	if confidence > s.config.Ceiling {
		confidence = s.config.Ceiling
	}
	confidence = clamp(confidence, 0, 100)

	s.logger.Debug().
		Str("kind", string(input.Kind)).
		Float64("raw_score", raw).
		Float64("confidence", confidence).
		Int("signals", len(signals)).
		Msg("aggregated signals")

	return models.ScoreResult{
		Input:      input,
		RawScore:   raw,
		Confidence: confidence,
		Signals:    signals,
		Reasons:    reasons,
		ScannedAt:  time.Now(),
	}
}

// clamp clamps a value between min and max
func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
