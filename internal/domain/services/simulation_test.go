package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"javelin-lab/internal/config"
	"javelin-lab/internal/domain/models"
	"javelin-lab/pkg/random"
)

func testSimulationConfig() config.SimulationConfig {
	return config.SimulationConfig{
		TickInterval:        time.Hour,
		VulnerabilityChance: 0.5,
	}
}

// runToCompletion drives a run by stepping the manager directly
func runToCompletion(t *testing.T, sm *SimulationManager, id uuid.UUID) models.SimulationRun {
	t.Helper()
	for i := 0; i < len(simulationScript)+1; i++ {
		if sm.step(context.Background(), id) {
			break
		}
	}
	run, err := sm.Get(id)
	require.NoError(t, err)
	return run
}

func TestSimulationProgressIsMonotonic(t *testing.T) {
	sm := NewSimulationManager(context.Background(), testSimulationConfig(), random.NewSequence(0.9), nil, testLogger())
	run := sm.Start(context.Background())

	last := run.Progress
	for {
		done := sm.step(context.Background(), run.ID)
		current, err := sm.Get(run.ID)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, current.Progress, last)
		last = current.Progress
		if done {
			break
		}
	}

	final, err := sm.Get(run.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, final.Progress)
	assert.Equal(t, models.SimulationCompleted, final.Status)
	require.NotNil(t, final.EndedAt)
}

func TestSimulationProgressHundredIffCompleted(t *testing.T) {
	sm := NewSimulationManager(context.Background(), testSimulationConfig(), random.NewSequence(0.9), nil, testLogger())
	run := sm.Start(context.Background())

	for {
		done := sm.step(context.Background(), run.ID)
		current, err := sm.Get(run.ID)
		require.NoError(t, err)
		if current.Progress == 100 {
			assert.Equal(t, models.SimulationCompleted, current.Status)
		} else {
			assert.NotEqual(t, models.SimulationCompleted, current.Status)
		}
		if done {
			break
		}
	}
}

func TestSimulationVulnerabilityCount(t *testing.T) {
	// Only warning-tagged lines roll; every draw below the chance hits
	sm := NewSimulationManager(context.Background(), testSimulationConfig(), random.NewSequence(0.0), nil, testLogger())
	run := sm.Start(context.Background())

	final := runToCompletion(t, sm, run.ID)

	warnings := 0
	for _, line := range simulationScript {
		if line.tag == models.LogTagWarning {
			warnings++
		}
	}
	assert.Equal(t, warnings, final.VulnerabilitiesFound)
	assert.Len(t, final.Log, len(simulationScript))
}

func TestSimulationStopMidRun(t *testing.T) {
	sm := NewSimulationManager(context.Background(), testSimulationConfig(), random.NewSequence(0.9), nil, testLogger())
	run := sm.Start(context.Background())

	sm.step(context.Background(), run.ID)
	sm.step(context.Background(), run.ID)

	stopped, err := sm.Stop(run.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SimulationStopped, stopped.Status)
	require.NotNil(t, stopped.EndedAt)

	// Further steps must not advance a stopped run
	assert.True(t, sm.step(context.Background(), run.ID))
	after, err := sm.Get(run.ID)
	require.NoError(t, err)
	assert.Equal(t, stopped.Progress, after.Progress)
}

func TestSimulationStopAfterCompletedIsNoOp(t *testing.T) {
	sm := NewSimulationManager(context.Background(), testSimulationConfig(), random.NewSequence(0.9), nil, testLogger())
	run := sm.Start(context.Background())

	final := runToCompletion(t, sm, run.ID)
	require.Equal(t, models.SimulationCompleted, final.Status)

	stopped, err := sm.Stop(run.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SimulationCompleted, stopped.Status)
	assert.Equal(t, final.EndedAt.Unix(), stopped.EndedAt.Unix())
}

func TestSimulationRestartCreatesFreshRun(t *testing.T) {
	sm := NewSimulationManager(context.Background(), testSimulationConfig(), random.NewSequence(0.9), nil, testLogger())

	first := sm.Start(context.Background())
	runToCompletion(t, sm, first.ID)

	second := sm.Start(context.Background())
	defer sm.Stop(second.ID)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 0, second.Progress)
	assert.Empty(t, second.Log)
	assert.Len(t, sm.List(), 2)
}

func TestSimulationRunOutlivesStartContext(t *testing.T) {
	cfg := testSimulationConfig()
	cfg.TickInterval = 2 * time.Millisecond
	sm := NewSimulationManager(context.Background(), cfg, random.NewSequence(0.9), nil, testLogger())

	// A request-scoped context that is gone right after Start returns
	reqCtx, cancelReq := context.WithCancel(context.Background())
	run := sm.Start(reqCtx)
	cancelReq()

	assert.Eventually(t, func() bool {
		current, err := sm.Get(run.ID)
		return err == nil && current.Status == models.SimulationCompleted
	}, 3*time.Second, 5*time.Millisecond, "run must complete after the starting context is cancelled")
}

func TestSimulationGetUnknownRun(t *testing.T) {
	sm := NewSimulationManager(context.Background(), testSimulationConfig(), random.NewSequence(0.9), nil, testLogger())

	_, err := sm.Get(uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = sm.Stop(uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSimulationLogSequenceAndTags(t *testing.T) {
	// Every warning line hits, yet the emitted log still mirrors the
	// script exactly: a hit only increments the counter.
	sm := NewSimulationManager(context.Background(), testSimulationConfig(), random.NewSequence(0.0), nil, testLogger())
	run := sm.Start(context.Background())

	final := runToCompletion(t, sm, run.ID)
	require.Greater(t, final.VulnerabilitiesFound, 0)

	for i, line := range final.Log {
		assert.Equal(t, i+1, line.Seq)
	}
	for i, line := range simulationScript {
		assert.Equal(t, line.tag, final.Log[i].Tag)
		assert.Equal(t, line.text, final.Log[i].Text)
	}
}
