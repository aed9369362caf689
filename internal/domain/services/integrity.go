package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"javelin-lab/internal/config"
	"javelin-lab/internal/domain/models"
	"javelin-lab/internal/streaming"
	"javelin-lab/pkg/logger"
	"javelin-lab/pkg/random"
)

// Sampled file names for sweep records
var integrityFilePool = []string{
	"Documents/quarterly_report.docx",
	"Documents/contracts/msa_2026.pdf",
	"Pictures/family/vacation_0412.jpg",
	"Pictures/scans/passport.png",
	"Work/payroll_export.xlsx",
	"Work/client_list.csv",
	"Backups/keepass.kdbx",
	"Backups/notes_archive.zip",
	"Desktop/tax_return_2025.pdf",
	"Downloads/installer_cache.bin",
}

// integritySweep is the mutable state behind one sweep
type integritySweep struct {
	id       uuid.UUID
	state    models.SweepState
	total    int
	checked  int
	verified int
	modified int
	records  []models.IntegrityRecord
	started  time.Time
	ended    *time.Time
	cancel   context.CancelFunc
}

// IntegritySweeper walks a synthetic file population and verifies
// per-file hashes. Progress is strictly monotonic and the final tick is
// clamped so checked never exceeds the total.
type IntegritySweeper struct {
	lifecycle context.Context
	cfg       config.IntegrityConfig
	rand      random.Source
	publisher streaming.Publisher
	logger    *logger.Logger

	mu     sync.Mutex
	sweeps map[uuid.UUID]*integritySweep
}

// NewIntegritySweeper creates a sweeper with no active sweeps. ctx
// bounds the lifetime of every sweep; sweeps outlive the request that
// started them.
func NewIntegritySweeper(ctx context.Context, cfg config.IntegrityConfig, src random.Source, pub streaming.Publisher, log *logger.Logger) *IntegritySweeper {
	if ctx == nil {
		ctx = context.Background()
	}
	if pub == nil {
		pub = streaming.NopPublisher{}
	}
	return &IntegritySweeper{
		lifecycle: ctx,
		cfg:       cfg,
		rand:      src,
		publisher: pub,
		logger:    log.WithComponent("integrity"),
		sweeps:    make(map[uuid.UUID]*integritySweep),
	}
}

// Start begins a sweep over totalFiles files
func (s *IntegritySweeper) Start(ctx context.Context, totalFiles int) (models.SweepSnapshot, error) {
	if totalFiles <= 0 {
		return models.SweepSnapshot{}, fmt.Errorf("%w: total files must be positive", models.ErrInvalidInput)
	}

	runCtx, cancel := context.WithCancel(s.lifecycle)
	sweep := &integritySweep{
		id:      uuid.New(),
		state:   models.SweepRunning,
		total:   totalFiles,
		started: time.Now(),
		cancel:  cancel,
	}

	s.mu.Lock()
	s.sweeps[sweep.id] = sweep
	snapshot := s.snapshotLocked(sweep)
	s.mu.Unlock()

	s.logger.Info().
		Str("sweep_id", sweep.id.String()).
		Int("total_files", totalFiles).
		Msg("integrity sweep started")
	go s.drive(runCtx, sweep.id)

	return snapshot, nil
}

func (s *IntegritySweeper) drive(ctx context.Context, id uuid.UUID) {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if done := s.tick(ctx, id); done {
				return
			}
		}
	}
}

// tick advances the sweep by a randomized batch of files
func (s *IntegritySweeper) tick(ctx context.Context, id uuid.UUID) bool {
	s.mu.Lock()
	sweep, ok := s.sweeps[id]
	if !ok || sweep.state != models.SweepRunning {
		s.mu.Unlock()
		return true
	}

	span := s.cfg.MaxIncrement - s.cfg.MinIncrement
	increment := s.cfg.MinIncrement
	if span > 0 {
		increment += s.rand.IntN(span + 1)
	}
	if sweep.checked+increment > sweep.total {
		increment = sweep.total - sweep.checked
	}
	sweep.checked += increment

	// Stats derive from the discovered records: a file only counts as
	// modified when a record surfaced it as such, everything else
	// verifies clean.
	if s.rand.Float64() < s.cfg.RecordProbability && len(sweep.records) < s.cfg.MaxRecords {
		record := s.sampleRecord(s.rand.Float64() >= s.cfg.VerifiedChance)
		sweep.records = append(sweep.records, record)
		if record.Status == models.IntegrityModified {
			sweep.modified++
		}
	}
	sweep.verified = sweep.checked - sweep.modified

	if sweep.checked == sweep.total {
		sweep.state = models.SweepCompleted
		now := time.Now()
		sweep.ended = &now
		if sweep.cancel != nil {
			sweep.cancel()
		}
	}

	snapshot := s.snapshotLocked(sweep)
	s.mu.Unlock()

	s.publisher.Publish(ctx, streaming.NewEvent(streaming.EventTypeIntegrityProgress, id.String(), uint64(snapshot.CheckedFiles), snapshot))

	if snapshot.State != models.SweepRunning {
		s.logger.Info().
			Str("sweep_id", id.String()).
			Int("verified", snapshot.VerifiedFiles).
			Int("modified", snapshot.ModifiedFiles).
			Msg("integrity sweep completed")
		return true
	}
	return false
}

// sampleRecord fabricates a per-file check result for the sweep log
func (s *IntegritySweeper) sampleRecord(modified bool) models.IntegrityRecord {
	name := integrityFilePool[s.rand.IntN(len(integrityFilePool))]
	original := shortHash(name)

	record := models.IntegrityRecord{
		FileID:       uuid.New(),
		FileName:     name,
		Status:       models.IntegrityVerified,
		OriginalHash: original,
		CurrentHash:  original,
		CheckedAt:    time.Now(),
	}
	if modified {
		record.Status = models.IntegrityModified
		record.CurrentHash = shortHash(fmt.Sprintf("%s:%d", name, s.rand.IntN(1<<30)))
	}
	return record
}

// Cancel stops a running sweep; the partial totals are preserved.
// Cancelling a finished sweep is a no-op.
func (s *IntegritySweeper) Cancel(id uuid.UUID) (models.SweepSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sweep, ok := s.sweeps[id]
	if !ok {
		return models.SweepSnapshot{}, models.ErrNotFound
	}
	if sweep.state == models.SweepRunning {
		sweep.state = models.SweepCancelled
		now := time.Now()
		sweep.ended = &now
		if sweep.cancel != nil {
			sweep.cancel()
		}
		s.logger.Info().Str("sweep_id", id.String()).Msg("integrity sweep cancelled")
	}
	return s.snapshotLocked(sweep), nil
}

// Get returns the current snapshot of a sweep
func (s *IntegritySweeper) Get(id uuid.UUID) (models.SweepSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sweep, ok := s.sweeps[id]
	if !ok {
		return models.SweepSnapshot{}, models.ErrNotFound
	}
	return s.snapshotLocked(sweep), nil
}

func (s *IntegritySweeper) snapshotLocked(sweep *integritySweep) models.SweepSnapshot {
	records := make([]models.IntegrityRecord, len(sweep.records))
	copy(records, sweep.records)

	var ended *time.Time
	if sweep.ended != nil {
		t := *sweep.ended
		ended = &t
	}

	progress := 0
	if sweep.total > 0 {
		progress = sweep.checked * 100 / sweep.total
	}

	return models.SweepSnapshot{
		ID:            sweep.id,
		State:         sweep.state,
		TotalFiles:    sweep.total,
		CheckedFiles:  sweep.checked,
		Progress:      progress,
		VerifiedFiles: sweep.verified,
		ModifiedFiles: sweep.modified,
		Records:       records,
		StartedAt:     sweep.started,
		EndedAt:       ended,
	}
}

// shortHash derives the 8-hex-uppercase digest used for integrity and
// vault hashes
func shortHash(input string) string {
	sum := sha256.Sum256([]byte(input))
	return strings.ToUpper(hex.EncodeToString(sum[:]))[:8]
}
