package services

import (
	"javelin-lab/internal/config"
	"javelin-lab/internal/domain/models"
)

// Policy maps raw scores onto classification bands and remediation
// guidance. The mapping is a pure function of the score: classifying the
// same score twice always yields the same outcome.
type Policy struct {
	bands config.BandConfig
}

// NewPolicy creates a Policy from the configured band cutoffs
func NewPolicy(bands config.BandConfig) *Policy {
	return &Policy{bands: bands}
}

// Band identifies which of the three score bands a raw score falls in
type Band int

const (
	BandLow Band = iota
	BandMedium
	BandHigh
)

// BandFor returns the band for a raw score. The bands partition the whole
// real line: (-inf, suspicious), [suspicious, danger), [danger, +inf).
func (p *Policy) BandFor(rawScore float64) Band {
	switch {
	case rawScore < p.bands.Suspicious:
		return BandLow
	case rawScore < p.bands.Danger:
		return BandMedium
	default:
		return BandHigh
	}
}

// Classify resolves the classification, risk level, and remediation list
// for a raw score and input kind.
func (p *Policy) Classify(rawScore float64, kind models.ScanKind) (models.Classification, models.RiskLevel, []string) {
	band := p.BandFor(rawScore)

	risk := models.RiskLow
	switch band {
	case BandMedium:
		risk = models.RiskMedium
	case BandHigh:
		risk = models.RiskHigh
		if rawScore >= p.bands.Critical {
			risk = models.RiskCritical
		}
	}

	var class models.Classification
	if kind == models.ScanKindImage {
		class = imageClassifications[band]
	} else {
		class = urlClassifications[band]
	}

	return class, risk, remediationFor(band, kind)
}

// Apply fills the policy-owned fields of a score result in place
func (p *Policy) Apply(result *models.ScoreResult) {
	result.Classification, result.RiskLevel, result.Remediation = p.Classify(result.RawScore, result.Input.Kind)
}

var imageClassifications = map[Band]models.Classification{
	BandLow:    models.ClassificationAuthentic,
	BandMedium: models.ClassificationSuspicious,
	BandHigh:   models.ClassificationManipulated,
}

var urlClassifications = map[Band]models.Classification{
	BandLow:    models.ClassificationSafe,
	BandMedium: models.ClassificationWarning,
	BandHigh:   models.ClassificationDanger,
}

// Remediation text is fixed per band. Order matters: the UI renders the
// lists verbatim.
var imageRemediation = map[Band][]string{
	BandLow: {
		"Continue to verify images from unknown sources",
		"Use reverse image search to confirm origin",
		"Check EXIF metadata when available",
	},
	BandMedium: {
		"Do not share this image without verification",
		"Use multiple detection tools for confirmation",
		"Check the original source of the image",
		"Look for the original unedited version online",
	},
	BandHigh: {
		"Do not share this image, it may spread misinformation",
		"Report this content to the platform immediately",
		"Document the source URL for potential legal action",
		"Warn others who may have received this image",
	},
}

var urlRemediation = map[Band][]string{
	BandLow: {
		"URL passes security checks and appears legitimate",
	},
	BandMedium: {
		"Verify the site's authenticity before proceeding",
		"Do not enter credentials unless you trust the domain",
	},
	BandHigh: {
		"Do not enter personal information on this site",
		"Close the page and report the URL",
		"Run a device scan if you already submitted data",
	},
}

var fileRemediation = map[Band][]string{
	BandLow: {
		"No ransomware indicators found",
	},
	BandMedium: {
		"Restore the file from a known-good backup if it misbehaves",
		"Scan the device for ransomware activity",
	},
	BandHigh: {
		"Disconnect the device from the network",
		"Do not pay any ransom demand",
		"Restore from backups created before the infection",
	},
}

func remediationFor(band Band, kind models.ScanKind) []string {
	var src []string
	switch kind {
	case models.ScanKindImage:
		src = imageRemediation[band]
	case models.ScanKindFile:
		src = fileRemediation[band]
	default:
		src = urlRemediation[band]
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}
