package services

import (
	"net/url"
	"regexp"
	"strings"

	"javelin-lab/internal/domain/models"
	"javelin-lab/pkg/logger"
	"javelin-lab/pkg/random"
)

// Credential and malware vocabulary, checked as case-insensitive
// substrings of the whole URL
var suspiciousURLKeywords = []string{
	"login", "signin", "verify", "account", "secure", "update",
	"confirm", "banking", "password", "credential", "wallet",
	"phishing", "malware", "ransomware", "keylogger",
}

// TLDs with outsized abuse rates in phishing feeds
var riskyTLDs = []string{
	".xyz", ".tk", ".ml", ".ga", ".cf", ".gq", ".top",
	".click", ".loan", ".work", ".racing", ".download",
	".win", ".bid", ".stream", ".trade", ".date", ".faith",
}

// Filename suffixes appended by known ransomware families
var encryptedExtensions = []string{
	".encrypted", ".locked", ".crypto", ".crypt", ".enc",
	".locky", ".cerber", ".cryptolocker", ".wannacry", ".petya",
	".zepto", ".odin", ".thor", ".osiris", ".aesir",
	".crypted", ".cryptowall", ".crypz", ".cryp1", ".crypt1",
}

var ipLiteralPattern = regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`)

// imageLayer is one synthetic detection layer of the image heuristic.
// A layer fires when a uniform draw exceeds its threshold; the emitted
// signal's confidence is drawn uniformly from [confLo, confHi).
type imageLayer struct {
	category string
	detail   string
	// threshold in [0,1); higher threshold means the layer fires less often
	threshold float64
	weight    float64
	confLo    float64
	confHi    float64
}

var imageLayers = []imageLayer{
	{"color-distribution", "Unusually uniform color distribution across channels", 0.55, 18, 70, 95},
	{"edge-consistency", "Edge transitions appear artificially smooth", 0.60, 15, 68, 93},
	{"noise-fingerprint", "Noise pattern inconsistent with camera sensors", 0.50, 20, 65, 95},
	{"symmetry", "Facial symmetry beyond natural variance", 0.65, 12, 70, 90},
	{"compression-artifact", "Recompression artifacts around facial region", 0.70, 10, 60, 90},
	{"eye-reflection", "Mismatched corneal reflections between eyes", 0.75, 14, 72, 96},
	{"background-consistency", "Background texture discontinuity near subject boundary", 0.68, 11, 66, 91},
}

// Signal weights for the URL heuristics
const (
	weightKeyword      = 20
	weightInsecure     = 30
	weightRiskyTLD     = 25
	weightIPLiteral    = 30
	weightAtSymbol     = 25
	weightSubdomains   = 15
	weightEncryptedExt = 60

	// subdomain depth beyond which the URL structure signal fires
	maxSubdomainLevels = 4
)

// Extractor turns scan inputs into weighted signals. Pure given a
// deterministic random source; inputs are never mutated.
type Extractor struct {
	authenticCutoff float64
	rand            random.Source
	logger          *logger.Logger
}

// NewExtractor creates an Extractor. authenticCutoff is the raw-score bound
// below which an image is reported with authenticity markers instead of
// layer findings (the low band's upper edge).
func NewExtractor(authenticCutoff float64, src random.Source, log *logger.Logger) *Extractor {
	return &Extractor{
		authenticCutoff: authenticCutoff,
		rand:            src,
		logger:          log.WithComponent("extractor"),
	}
}

// ExtractURLSignals analyzes a URL string for phishing heuristics
func (e *Extractor) ExtractURLSignals(rawURL string) []models.Signal {
	full := strings.ToLower(rawURL)
	signals := make([]models.Signal, 0, 4)

	for _, kw := range suspiciousURLKeywords {
		if strings.Contains(full, kw) {
			signals = append(signals, models.Signal{
				Category:   "keyword",
				Weight:     weightKeyword,
				Detail:     "Credential-related keyword detected: '" + kw + "'",
				Confidence: 85,
			})
		}
	}

	if !strings.HasPrefix(full, "https://") {
		signals = append(signals, models.Signal{
			Category:   "transport",
			Weight:     weightInsecure,
			Detail:     "No SSL/TLS encryption (HTTP only), connection not secure",
			Confidence: 90,
		})
	}

	host := full
	if parsed, err := url.Parse(rawURL); err == nil && parsed.Host != "" {
		host = strings.ToLower(parsed.Hostname())
	}

	for _, tld := range riskyTLDs {
		if strings.HasSuffix(host, tld) {
			signals = append(signals, models.Signal{
				Category:   "tld",
				Weight:     weightRiskyTLD,
				Detail:     "High-risk top-level domain: " + tld,
				Confidence: 80,
			})
			break
		}
	}

	if ipLiteralPattern.MatchString(host) {
		signals = append(signals, models.Signal{
			Category:   "structure",
			Weight:     weightIPLiteral,
			Detail:     "Direct IP address used instead of a domain",
			Confidence: 88,
		})
	}

	if strings.Contains(full, "@") {
		signals = append(signals, models.Signal{
			Category:   "structure",
			Weight:     weightAtSymbol,
			Detail:     "@ symbol in URL, possible credential trick",
			Confidence: 86,
		})
	}

	if strings.Count(host, ".") > maxSubdomainLevels {
		signals = append(signals, models.Signal{
			Category:   "structure",
			Weight:     weightSubdomains,
			Detail:     "Excessive subdomain nesting",
			Confidence: 75,
		})
	}

	return signals
}

// ExtractImageSignals runs the synthetic detection layers over an image
// input. Every input yields at least one signal: when the summed weight
// stays below the authentic cutoff the layer findings are replaced by two
// fixed authenticity markers.
func (e *Extractor) ExtractImageSignals(input models.ScanInput) []models.Signal {
	signals := make([]models.Signal, 0, len(imageLayers))
	var total float64

	for _, layer := range imageLayers {
		if e.rand.Float64() <= layer.threshold {
			continue
		}
		conf := layer.confLo + e.rand.Float64()*(layer.confHi-layer.confLo)
		signals = append(signals, models.Signal{
			Category:   layer.category,
			Weight:     layer.weight,
			Detail:     layer.detail,
			Confidence: conf,
		})
		total += layer.weight
	}

	// Filename metadata is the one deterministic image heuristic
	if name := strings.ToLower(input.Filename); name != "" {
		for _, kw := range []string{"generated", "deepfake", "synthetic", "gan", "diffusion", "midjourney", "dalle"} {
			if strings.Contains(name, kw) {
				signals = append(signals, models.Signal{
					Category:   "metadata",
					Weight:     25,
					Detail:     "Filename contains generation-related keyword: '" + kw + "'",
					Confidence: 90,
				})
				total += 25
				break
			}
		}
	}

	if total < e.authenticCutoff {
		return []models.Signal{
			{
				Category:   "authenticity",
				Weight:     0,
				Detail:     "Natural lighting and shading patterns detected",
				Confidence: 92,
			},
			{
				Category:   "authenticity",
				Weight:     0,
				Detail:     "Noise fingerprint consistent with camera sensors",
				Confidence: 90,
			},
		}
	}

	return signals
}

// ExtractFileSignals checks a filename against known ransomware suffixes,
// including the document.pdf.encrypted double-extension pattern.
func (e *Extractor) ExtractFileSignals(filename string) []models.Signal {
	name := strings.ToLower(filename)

	for _, ext := range encryptedExtensions {
		if strings.HasSuffix(name, ext) {
			return []models.Signal{{
				Category:   "extension",
				Weight:     weightEncryptedExt,
				Detail:     "Known ransomware extension detected: " + ext,
				Confidence: 95,
			}}
		}
	}

	return nil
}

// EncryptionTypeFor names the ransomware family implied by a filename
// suffix, or "" when none matches.
func EncryptionTypeFor(filename string) string {
	name := strings.ToLower(filename)
	for _, ext := range encryptedExtensions {
		if strings.HasSuffix(name, ext) {
			return "Ransomware (" + strings.ToUpper(strings.TrimPrefix(ext, ".")) + ")"
		}
	}
	return ""
}
