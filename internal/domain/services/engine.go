package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"javelin-lab/internal/domain/models"
	"javelin-lab/internal/streaming"
	"javelin-lab/pkg/logger"
)

const maxHistoryEntries = 100

// Stat counter names shared between the in-memory counters and the cache
const (
	statURLsScanned    = "urls_scanned"
	statThreatsBlocked = "threats_blocked"
	statWarnings       = "warnings"
	statSafeURLs       = "safe_urls"
)

// RemoteScanner is the hosted analysis backend. All methods may fail;
// the engine recovers by scoring locally.
type RemoteScanner interface {
	ScanURL(ctx context.Context, rawURL string) (*models.ScoreResult, error)
	CheckFile(ctx context.Context, filename string) (*models.EncryptionCheckResult, error)
}

// ScanCache caches URL results and aggregate counters
type ScanCache interface {
	GetScanResult(ctx context.Context, rawURL string) (*models.ScoreResult, error)
	SetScanResult(ctx context.Context, rawURL string, result *models.ScoreResult) error
	IncrementStat(ctx context.Context, name string) error
}

// ScanHistoryStore persists history rows beyond process restarts
type ScanHistoryStore interface {
	SaveScan(ctx context.Context, entry models.ScanHistoryEntry) error
}

// Engine is the scoring front door: remote-first when a backend is
// configured, always falling back to the local heuristics. Remote
// failures are recovered internally and never surface to callers.
type Engine struct {
	extractor *Extractor
	scorer    *Scorer
	policy    *Policy
	remote    RemoteScanner
	cache     ScanCache
	store     ScanHistoryStore
	publisher streaming.Publisher
	logger    *logger.Logger

	mu      sync.Mutex
	history []models.ScanHistoryEntry
	stats   models.ScanStats
}

// EngineOption configures optional engine collaborators
type EngineOption func(*Engine)

// WithRemote wires the hosted backend
func WithRemote(remote RemoteScanner) EngineOption {
	return func(e *Engine) {
		if remote != nil {
			e.remote = remote
		}
	}
}

// WithCache wires result caching and counter persistence
func WithCache(cache ScanCache) EngineOption {
	return func(e *Engine) { e.cache = cache }
}

// WithHistoryStore wires durable scan history
func WithHistoryStore(store ScanHistoryStore) EngineOption {
	return func(e *Engine) { e.store = store }
}

// NewEngine creates the scoring engine
func NewEngine(extractor *Extractor, scorer *Scorer, policy *Policy, pub streaming.Publisher, log *logger.Logger, opts ...EngineOption) *Engine {
	if pub == nil {
		pub = streaming.NopPublisher{}
	}
	e := &Engine{
		extractor: extractor,
		scorer:    scorer,
		policy:    policy,
		publisher: pub,
		logger:    log.WithComponent("engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ScanURL scores a URL for phishing risk
func (e *Engine) ScanURL(ctx context.Context, rawURL string) (*models.ScoreResult, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, fmt.Errorf("%w: url is required", models.ErrInvalidInput)
	}
	if _, err := url.Parse(rawURL); err != nil {
		return nil, fmt.Errorf("%w: malformed url", models.ErrInvalidInput)
	}

	if e.cache != nil {
		if cached, err := e.cache.GetScanResult(ctx, rawURL); err != nil {
			e.logger.Warn().Err(err).Msg("scan cache read failed")
		} else if cached != nil {
			e.logger.Debug().Str("url", rawURL).Msg("serving cached scan result")
			return cached, nil
		}
	}

	result := e.remoteOrLocalURL(ctx, rawURL)
	e.recordURLScan(ctx, rawURL, result)

	if e.cache != nil {
		if err := e.cache.SetScanResult(ctx, rawURL, result); err != nil {
			e.logger.Warn().Err(err).Msg("scan cache write failed")
		}
	}

	e.publisher.Publish(ctx, streaming.NewEvent(streaming.EventTypeScanCompleted, "", 0, result))
	return result, nil
}

func (e *Engine) remoteOrLocalURL(ctx context.Context, rawURL string) *models.ScoreResult {
	if e.remote != nil {
		result, err := e.remote.ScanURL(ctx, rawURL)
		if err == nil {
			return result
		}
		e.logger.Warn().Err(err).Msg("remote scan failed, falling back to local engine")
	}

	input := models.ScanInput{Kind: models.ScanKindURL, URL: rawURL}
	result := e.scorer.Aggregate(input, e.extractor.ExtractURLSignals(rawURL))
	e.policy.Apply(&result)
	result.Source = "local"
	return &result
}

// recordURLScan updates history and counters for one URL scan
func (e *Engine) recordURLScan(ctx context.Context, rawURL string, result *models.ScoreResult) {
	entry := models.ScanHistoryEntry{
		URL:            rawURL,
		Classification: result.Classification,
		Confidence:     result.Confidence,
		ScannedAt:      result.ScannedAt,
	}

	var bumped []string
	e.mu.Lock()
	e.history = append([]models.ScanHistoryEntry{entry}, e.history...)
	if len(e.history) > maxHistoryEntries {
		e.history = e.history[:maxHistoryEntries]
	}
	e.stats.URLsScanned++
	bumped = append(bumped, statURLsScanned)
	switch result.Classification {
	case models.ClassificationDanger:
		e.stats.ThreatsBlocked++
		bumped = append(bumped, statThreatsBlocked)
	case models.ClassificationWarning:
		e.stats.Warnings++
		bumped = append(bumped, statWarnings)
	default:
		e.stats.SafeURLs++
		bumped = append(bumped, statSafeURLs)
	}
	e.mu.Unlock()

	if e.cache != nil {
		for _, name := range bumped {
			if err := e.cache.IncrementStat(ctx, name); err != nil {
				e.logger.Warn().Err(err).Str("stat", name).Msg("failed to persist counter")
			}
		}
	}
	if e.store != nil {
		if err := e.store.SaveScan(ctx, entry); err != nil {
			e.logger.Warn().Err(err).Msg("failed to persist scan history")
		}
	}
}

// ScanImage scores an image input for manipulation. Always local; the
// image heuristics run on-device.
func (e *Engine) ScanImage(ctx context.Context, input models.ScanInput) (*models.ScoreResult, error) {
	if input.Filename == "" {
		return nil, fmt.Errorf("%w: filename is required", models.ErrInvalidInput)
	}
	input.Kind = models.ScanKindImage

	result := e.scorer.Aggregate(input, e.extractor.ExtractImageSignals(input))
	e.policy.Apply(&result)
	result.Source = "local"

	e.publisher.Publish(ctx, streaming.NewEvent(streaming.EventTypeScanCompleted, "", 0, &result))
	return &result, nil
}

// CheckFile scores a filename for ransomware indicators
func (e *Engine) CheckFile(ctx context.Context, filename string) (*models.EncryptionCheckResult, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return nil, fmt.Errorf("%w: file name is required", models.ErrInvalidInput)
	}

	if e.remote != nil {
		result, err := e.remote.CheckFile(ctx, filename)
		if err == nil {
			return result, nil
		}
		e.logger.Warn().Err(err).Msg("remote file check failed, falling back to local engine")
	}

	return e.checkFileLocal(filename), nil
}

func (e *Engine) checkFileLocal(filename string) *models.EncryptionCheckResult {
	signals := e.extractor.ExtractFileSignals(filename)

	result := &models.EncryptionCheckResult{
		FileName:    filename,
		ThreatLevel: models.ThreatLevelNone,
		Details:     "No ransomware indicators found",
		CheckedAt:   time.Now(),
	}

	if len(signals) == 0 {
		return result
	}

	result.IsEncrypted = true
	result.EncryptionType = EncryptionTypeFor(filename)
	result.ThreatLevel = models.ThreatLevelCritical
	result.Details = "File appears to be encrypted by ransomware"
	for _, sig := range signals {
		result.Indicators = append(result.Indicators, sig.Detail)
	}
	return result
}

// History returns the most-recent-first URL scan history
func (e *Engine) History() []models.ScanHistoryEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]models.ScanHistoryEntry, len(e.history))
	copy(out, e.history)
	return out
}

// Stats returns a copy of the aggregate counters
func (e *Engine) Stats() models.ScanStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}
