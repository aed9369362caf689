package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"javelin-lab/internal/config"
	"javelin-lab/internal/domain/models"
	"javelin-lab/pkg/random"
)

// Fixed increment of 10 files per tick so clamping is easy to reason about
func testIntegrityConfig() config.IntegrityConfig {
	return config.IntegrityConfig{
		TickInterval:      time.Hour,
		MinIncrement:      10,
		MaxIncrement:      10,
		RecordProbability: 0,
		VerifiedChance:    1,
		MaxRecords:        3,
	}
}

func TestIntegritySweepRejectsInvalidTotal(t *testing.T) {
	s := NewIntegritySweeper(context.Background(), testIntegrityConfig(), random.NewSequence(0.5), nil, testLogger())

	_, err := s.Start(context.Background(), 0)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = s.Start(context.Background(), -4)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestIntegritySweepFinalTickIsClamped(t *testing.T) {
	s := NewIntegritySweeper(context.Background(), testIntegrityConfig(), random.NewSequence(0.5), nil, testLogger())

	// 25 files with 10-file ticks: 10, 20, then a clamped final tick of 5
	sweep, err := s.Start(context.Background(), 25)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		snap, err := s.Get(sweep.ID)
		require.NoError(t, err)
		assert.LessOrEqual(t, snap.CheckedFiles, snap.TotalFiles)
		if s.tick(context.Background(), sweep.ID) {
			break
		}
	}

	final, err := s.Get(sweep.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SweepCompleted, final.State)
	assert.Equal(t, 25, final.CheckedFiles)
	assert.Equal(t, 100, final.Progress)
	require.NotNil(t, final.EndedAt)
}

func TestIntegritySweepCountsAddUp(t *testing.T) {
	cfg := testIntegrityConfig()
	cfg.VerifiedChance = 0 // every discovered record is modified
	cfg.RecordProbability = 1
	s := NewIntegritySweeper(context.Background(), cfg, random.NewSequence(0.5), nil, testLogger())

	sweep, err := s.Start(context.Background(), 40)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		if s.tick(context.Background(), sweep.ID) {
			break
		}
		snap, err := s.Get(sweep.ID)
		require.NoError(t, err)
		assert.Equal(t, snap.CheckedFiles, snap.VerifiedFiles+snap.ModifiedFiles)
	}

	final, err := s.Get(sweep.ID)
	require.NoError(t, err)
	assert.Equal(t, final.TotalFiles, final.VerifiedFiles+final.ModifiedFiles)
	assert.Greater(t, final.ModifiedFiles, 0)
}

func TestIntegritySweepStatsDeriveFromRecords(t *testing.T) {
	// Without any discovered records nothing may count as modified
	cfg := testIntegrityConfig()
	cfg.RecordProbability = 0
	cfg.VerifiedChance = 0
	s := NewIntegritySweeper(context.Background(), cfg, random.NewSequence(0.5), nil, testLogger())

	sweep, err := s.Start(context.Background(), 30)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		if s.tick(context.Background(), sweep.ID) {
			break
		}
	}

	final, err := s.Get(sweep.ID)
	require.NoError(t, err)
	require.Equal(t, models.SweepCompleted, final.State)
	assert.Empty(t, final.Records)
	assert.Equal(t, 0, final.ModifiedFiles)
	assert.Equal(t, 30, final.VerifiedFiles)
}

func TestIntegritySweepModifiedMatchesRecords(t *testing.T) {
	cfg := testIntegrityConfig()
	cfg.RecordProbability = 1
	cfg.VerifiedChance = 0 // every discovered record is modified
	s := NewIntegritySweeper(context.Background(), cfg, random.NewSequence(0.5), nil, testLogger())

	sweep, err := s.Start(context.Background(), 40)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		if s.tick(context.Background(), sweep.ID) {
			break
		}
	}

	final, err := s.Get(sweep.ID)
	require.NoError(t, err)
	require.Equal(t, models.SweepCompleted, final.State)

	modified := 0
	for _, record := range final.Records {
		if record.Status == models.IntegrityModified {
			modified++
		}
	}
	assert.Equal(t, modified, final.ModifiedFiles)
	assert.Equal(t, final.TotalFiles-modified, final.VerifiedFiles)
}

func TestIntegritySweepRecordsAreBounded(t *testing.T) {
	cfg := testIntegrityConfig()
	cfg.RecordProbability = 1
	cfg.MinIncrement = 1
	cfg.MaxIncrement = 1
	s := NewIntegritySweeper(context.Background(), cfg, random.NewSequence(0.5), nil, testLogger())

	sweep, err := s.Start(context.Background(), 20)
	require.NoError(t, err)

	for i := 0; i < 25; i++ {
		if s.tick(context.Background(), sweep.ID) {
			break
		}
	}

	final, err := s.Get(sweep.ID)
	require.NoError(t, err)
	assert.Len(t, final.Records, cfg.MaxRecords)
}

func TestIntegritySweepRecordHashes(t *testing.T) {
	cfg := testIntegrityConfig()
	cfg.RecordProbability = 1
	cfg.VerifiedChance = 0
	s := NewIntegritySweeper(context.Background(), cfg, random.NewSequence(0.5), nil, testLogger())

	sweep, err := s.Start(context.Background(), 10)
	require.NoError(t, err)
	s.tick(context.Background(), sweep.ID)

	final, err := s.Get(sweep.ID)
	require.NoError(t, err)
	require.NotEmpty(t, final.Records)

	hashPattern := regexp.MustCompile(`^[0-9A-F]{8}$`)
	record := final.Records[0]
	assert.Regexp(t, hashPattern, record.OriginalHash)
	assert.Regexp(t, hashPattern, record.CurrentHash)
	assert.Equal(t, models.IntegrityModified, record.Status)
	assert.NotEqual(t, record.OriginalHash, record.CurrentHash)
}

func TestIntegritySweepCancelPreservesPartials(t *testing.T) {
	s := NewIntegritySweeper(context.Background(), testIntegrityConfig(), random.NewSequence(0.5), nil, testLogger())

	sweep, err := s.Start(context.Background(), 100)
	require.NoError(t, err)

	s.tick(context.Background(), sweep.ID)
	s.tick(context.Background(), sweep.ID)

	cancelled, err := s.Cancel(sweep.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SweepCancelled, cancelled.State)
	assert.Equal(t, 20, cancelled.CheckedFiles)

	// A late tick must not advance a cancelled sweep
	assert.True(t, s.tick(context.Background(), sweep.ID))
	after, err := s.Get(sweep.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, after.CheckedFiles)
}

func TestIntegritySweepOutlivesStartContext(t *testing.T) {
	cfg := testIntegrityConfig()
	cfg.TickInterval = 2 * time.Millisecond
	s := NewIntegritySweeper(context.Background(), cfg, random.NewSequence(0.5), nil, testLogger())

	// A request-scoped context that is gone right after Start returns
	reqCtx, cancelReq := context.WithCancel(context.Background())
	sweep, err := s.Start(reqCtx, 30)
	require.NoError(t, err)
	cancelReq()

	assert.Eventually(t, func() bool {
		current, err := s.Get(sweep.ID)
		return err == nil && current.State == models.SweepCompleted
	}, 3*time.Second, 5*time.Millisecond, "sweep must complete after the starting context is cancelled")
}

func TestIntegritySweepCancelUnknown(t *testing.T) {
	s := NewIntegritySweeper(context.Background(), testIntegrityConfig(), random.NewSequence(0.5), nil, testLogger())

	_, err := s.Cancel(uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}
