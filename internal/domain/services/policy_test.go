package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"javelin-lab/internal/domain/models"
)

func TestPolicyBandsPartitionAllScores(t *testing.T) {
	p := NewPolicy(testBands())

	tests := []struct {
		score float64
		band  Band
	}{
		{-10, BandLow},
		{0, BandLow},
		{24.999, BandLow},
		{25, BandMedium},
		{30, BandMedium},
		{49.999, BandMedium},
		{50, BandHigh},
		{74.999, BandHigh},
		{75, BandHigh},
		{500, BandHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.band, p.BandFor(tt.score), "score %v", tt.score)
	}
}

func TestPolicyClassifyIsIdempotent(t *testing.T) {
	p := NewPolicy(testBands())

	for _, score := range []float64{0, 25, 30, 50, 75, 120} {
		c1, r1, rem1 := p.Classify(score, models.ScanKindURL)
		c2, r2, rem2 := p.Classify(score, models.ScanKindURL)
		assert.Equal(t, c1, c2)
		assert.Equal(t, r1, r2)
		assert.Equal(t, rem1, rem2)
	}
}

func TestPolicyCriticalRiskWithinHighBand(t *testing.T) {
	p := NewPolicy(testBands())

	_, risk, _ := p.Classify(60, models.ScanKindURL)
	assert.Equal(t, models.RiskHigh, risk)

	_, risk, _ = p.Classify(75, models.ScanKindURL)
	assert.Equal(t, models.RiskCritical, risk)

	_, risk, _ = p.Classify(90, models.ScanKindImage)
	assert.Equal(t, models.RiskCritical, risk)
}

func TestPolicyClassificationVocabularyPerKind(t *testing.T) {
	p := NewPolicy(testBands())

	class, _, _ := p.Classify(10, models.ScanKindImage)
	assert.Equal(t, models.ClassificationAuthentic, class)
	class, _, _ = p.Classify(30, models.ScanKindImage)
	assert.Equal(t, models.ClassificationSuspicious, class)
	class, _, _ = p.Classify(80, models.ScanKindImage)
	assert.Equal(t, models.ClassificationManipulated, class)

	class, _, _ = p.Classify(10, models.ScanKindURL)
	assert.Equal(t, models.ClassificationSafe, class)
	class, _, _ = p.Classify(30, models.ScanKindURL)
	assert.Equal(t, models.ClassificationWarning, class)
	class, _, _ = p.Classify(80, models.ScanKindURL)
	assert.Equal(t, models.ClassificationDanger, class)
}

func TestPolicyRemediationIsACopy(t *testing.T) {
	p := NewPolicy(testBands())

	_, _, rem := p.Classify(80, models.ScanKindURL)
	require.NotEmpty(t, rem)
	rem[0] = "mutated"

	_, _, again := p.Classify(80, models.ScanKindURL)
	assert.NotEqual(t, "mutated", again[0])
}

func TestPolicyApplyFillsResult(t *testing.T) {
	p := NewPolicy(testBands())

	result := models.ScoreResult{
		Input:    models.ScanInput{Kind: models.ScanKindURL, URL: "http://example.test"},
		RawScore: 30,
	}
	p.Apply(&result)

	assert.Equal(t, models.ClassificationWarning, result.Classification)
	assert.Equal(t, models.RiskMedium, result.RiskLevel)
	assert.NotEmpty(t, result.Remediation)
}
