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

// testMonitorConfig uses an hour-long tick so the background loop never
// fires on its own; tests drive tick() directly.
func testMonitorConfig() config.MonitorConfig {
	return config.MonitorConfig{
		TickInterval:     time.Hour,
		EventProbability: 0.3,
		MaxEvents:        5,
		MaxScanIncrement: 8,
	}
}

func TestMonitorLifecycle(t *testing.T) {
	m := NewMonitor(context.Background(), testMonitorConfig(), random.NewSequence(0.9), nil, testLogger())

	assert.Equal(t, models.MonitorIdle, m.Snapshot().State)

	m.Start(context.Background())
	defer m.Stop(context.Background())
	assert.Equal(t, models.MonitorActive, m.Snapshot().State)

	m.Pause(context.Background())
	assert.Equal(t, models.MonitorPaused, m.Snapshot().State)

	m.Resume(context.Background())
	assert.Equal(t, models.MonitorActive, m.Snapshot().State)

	m.Stop(context.Background())
	assert.Equal(t, models.MonitorIdle, m.Snapshot().State)
}

func TestMonitorPauseBeforeFirstTick(t *testing.T) {
	m := NewMonitor(context.Background(), testMonitorConfig(), random.NewSequence(0.1), nil, testLogger())

	m.Start(context.Background())
	defer m.Stop(context.Background())
	m.Pause(context.Background())

	// A tick that lands while paused must not touch counters or history
	m.tick(context.Background())

	snap := m.Snapshot()
	assert.Equal(t, uint64(0), snap.TickSeq)
	assert.Equal(t, int64(0), snap.FilesScanned)
	assert.Empty(t, snap.Events)
}

func TestMonitorTickRaisesEvents(t *testing.T) {
	// Draw 0.1 < 0.3 raises an event; the second draw picks index 0
	// (danger severity), which bumps the blocked counter.
	m := NewMonitor(context.Background(), testMonitorConfig(), random.NewSequence(0.1, 0.0), nil, testLogger())

	m.Start(context.Background())
	defer m.Stop(context.Background())
	m.tick(context.Background())

	snap := m.Snapshot()
	assert.Equal(t, uint64(1), snap.TickSeq)
	require.Len(t, snap.Events, 1)
	assert.Equal(t, models.SeverityDanger, snap.Events[0].Severity)
	assert.Equal(t, int64(1), snap.ThreatsBlocked)
	assert.Equal(t, int64(0), snap.FilesScanned)
}

func TestMonitorTickScansFiles(t *testing.T) {
	// Draw 0.9 >= 0.3 takes the scan branch; 0.5 scales into [1, 8]
	m := NewMonitor(context.Background(), testMonitorConfig(), random.NewSequence(0.9, 0.5), nil, testLogger())

	m.Start(context.Background())
	defer m.Stop(context.Background())
	m.tick(context.Background())

	snap := m.Snapshot()
	assert.Empty(t, snap.Events)
	assert.Equal(t, int64(5), snap.FilesScanned)
}

func TestMonitorEventLogIsBounded(t *testing.T) {
	// Every tick raises an event (draw always below probability)
	m := NewMonitor(context.Background(), testMonitorConfig(), random.NewSequence(0.0), nil, testLogger())

	m.Start(context.Background())
	defer m.Stop(context.Background())
	for i := 0; i < 12; i++ {
		m.tick(context.Background())
	}

	snap := m.Snapshot()
	assert.Equal(t, uint64(12), snap.TickSeq)
	assert.Len(t, snap.Events, 5)
}

func TestMonitorResolveEventIsIdempotent(t *testing.T) {
	m := NewMonitor(context.Background(), testMonitorConfig(), random.NewSequence(0.0), nil, testLogger())

	m.Start(context.Background())
	defer m.Stop(context.Background())
	m.tick(context.Background())

	snap := m.Snapshot()
	require.NotEmpty(t, snap.Events)
	id := snap.Events[0].ID

	require.NoError(t, m.ResolveEvent(id))
	require.NoError(t, m.ResolveEvent(id))

	snap = m.Snapshot()
	assert.True(t, snap.Events[0].Resolved)
}

func TestMonitorResolveUnknownEvent(t *testing.T) {
	m := NewMonitor(context.Background(), testMonitorConfig(), random.NewSequence(0.0), nil, testLogger())

	err := m.ResolveEvent(uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMonitorSnapshotIsACopy(t *testing.T) {
	m := NewMonitor(context.Background(), testMonitorConfig(), random.NewSequence(0.0), nil, testLogger())

	m.Start(context.Background())
	defer m.Stop(context.Background())
	m.tick(context.Background())

	snap := m.Snapshot()
	require.NotEmpty(t, snap.Events)
	snap.Events[0].Name = "mutated"

	assert.NotEqual(t, "mutated", m.Snapshot().Events[0].Name)
}

func TestMonitorRunOutlivesStartContext(t *testing.T) {
	cfg := testMonitorConfig()
	cfg.TickInterval = 5 * time.Millisecond
	m := NewMonitor(context.Background(), cfg, random.NewSequence(0.9, 0.5), nil, testLogger())

	// A request-scoped context that is gone right after Start returns
	reqCtx, cancelReq := context.WithCancel(context.Background())
	m.Start(reqCtx)
	cancelReq()
	defer m.Stop(context.Background())

	assert.Eventually(t, func() bool {
		return m.Snapshot().TickSeq > 0
	}, 2*time.Second, 5*time.Millisecond, "run must keep ticking after the starting context is cancelled")
}

func TestMonitorStartWhileRunningIsNoOp(t *testing.T) {
	m := NewMonitor(context.Background(), testMonitorConfig(), random.NewSequence(0.0), nil, testLogger())

	m.Start(context.Background())
	defer m.Stop(context.Background())
	m.tick(context.Background())

	m.Start(context.Background())
	assert.Equal(t, uint64(1), m.Snapshot().TickSeq, "second Start must not reset a running monitor")
}
