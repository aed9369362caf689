package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"javelin-lab/internal/domain/models"
	"javelin-lab/pkg/random"
)

func TestScorerConfidenceStaysClamped(t *testing.T) {
	scorer := NewScorer(testConfidence(), random.NewSeeded(7), testLogger())
	input := models.ScanInput{Kind: models.ScanKindURL, URL: "http://example.test"}

	// Drive the raw score over a wide range, including values far above
	// the confidence ceiling.
	for _, weight := range []float64{0, 10, 50, 100, 250, 1000} {
		signals := []models.Signal{{Category: "test", Weight: weight, Detail: "synthetic"}}
		for i := 0; i < 50; i++ {
			result := scorer.Aggregate(input, signals)
			assert.GreaterOrEqual(t, result.Confidence, 0.0)
			assert.LessOrEqual(t, result.Confidence, 100.0)
		}
	}
}

func TestScorerConfidenceFormula(t *testing.T) {
	// Fixed jitter draw of 0.5 -> jitter contribution of exactly 2.5
	scorer := NewScorer(testConfidence(), random.NewSequence(0.5), testLogger())
	input := models.ScanInput{Kind: models.ScanKindURL, URL: "http://example.test"}

	result := scorer.Aggregate(input, []models.Signal{
		{Category: "transport", Weight: 30, Detail: "no TLS"},
	})

	assert.Equal(t, 30.0, result.RawScore)
	assert.InDelta(t, 60+30*0.35+2.5, result.Confidence, 1e-9)
}

func TestScorerConfidenceCeiling(t *testing.T) {
	scorer := NewScorer(testConfidence(), random.NewSequence(0.99), testLogger())
	input := models.ScanInput{Kind: models.ScanKindURL, URL: "http://example.test"}

	result := scorer.Aggregate(input, []models.Signal{
		{Category: "a", Weight: 200, Detail: "x"},
	})

	assert.Equal(t, 95.0, result.Confidence)
}

func TestScorerNoSignals(t *testing.T) {
	scorer := NewScorer(testConfidence(), random.NewSequence(0), testLogger())
	input := models.ScanInput{Kind: models.ScanKindURL, URL: "https://example.test"}

	result := scorer.Aggregate(input, nil)

	assert.Equal(t, 0.0, result.RawScore)
	assert.Equal(t, 60.0, result.Confidence)
	assert.Empty(t, result.Reasons)
}

func TestScorerReasonsFollowSignalOrder(t *testing.T) {
	scorer := NewScorer(testConfidence(), random.NewSequence(0), testLogger())
	input := models.ScanInput{Kind: models.ScanKindURL, URL: "http://example.test"}

	result := scorer.Aggregate(input, []models.Signal{
		{Category: "a", Weight: 20, Detail: "first"},
		{Category: "b", Weight: 25, Detail: "second"},
	})

	assert.Equal(t, 45.0, result.RawScore)
	assert.Equal(t, []string{"first", "second"}, result.Reasons)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, clamp(-5, 0, 100))
	assert.Equal(t, 100.0, clamp(250, 0, 100))
	assert.Equal(t, 42.0, clamp(42, 0, 100))
}
