package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"javelin-lab/internal/config"
	"javelin-lab/internal/domain/models"
	"javelin-lab/internal/streaming"
	"javelin-lab/pkg/logger"
	"javelin-lab/pkg/random"
)

// Catalog of synthetic threat events the monitor can raise. Picked
// uniformly on an event tick.
var threatCatalog = []struct {
	name     string
	severity models.Severity
}{
	{"Suspicious file modification blocked", models.SeverityDanger},
	{"Unknown process requested file access", models.SeverityWarning},
	{"Mass rename attempt detected", models.SeverityDanger},
	{"Shadow copy deletion attempt blocked", models.SeverityDanger},
	{"Unsigned binary executed from temp directory", models.SeverityWarning},
	{"Scheduled scan completed", models.SeverityInfo},
	{"Outbound connection to known C2 range blocked", models.SeverityDanger},
	{"New startup entry registered", models.SeverityWarning},
	{"Definitions updated", models.SeverityInfo},
}

// Monitor is the real-time protection event stream. Lifecycle:
// idle -> active <-> paused, cancel returns to idle. One goroutine owns
// the ticker; all state is guarded by mu and exposed only as snapshots.
type Monitor struct {
	lifecycle context.Context
	cfg       config.MonitorConfig
	rand      random.Source
	publisher streaming.Publisher
	logger    *logger.Logger

	mu             sync.Mutex
	state          models.MonitorState
	runID          uuid.UUID
	seq            uint64
	filesScanned   int64
	threatsBlocked int64
	events         []models.ThreatEvent
	cancel         context.CancelFunc
}

// NewMonitor creates an idle monitor. ctx bounds the lifetime of every
// run the monitor starts; runs must not inherit the caller's
// request-scoped context or they die when the request ends.
func NewMonitor(ctx context.Context, cfg config.MonitorConfig, src random.Source, pub streaming.Publisher, log *logger.Logger) *Monitor {
	if ctx == nil {
		ctx = context.Background()
	}
	if pub == nil {
		pub = streaming.NopPublisher{}
	}
	return &Monitor{
		lifecycle: ctx,
		cfg:       cfg,
		rand:      src,
		publisher: pub,
		logger:    log.WithComponent("monitor"),
		state:     models.MonitorIdle,
	}
}

// Start transitions idle -> active and begins ticking. Starting an
// already active or paused monitor is a no-op.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.state != models.MonitorIdle {
		m.mu.Unlock()
		return
	}
	m.state = models.MonitorActive
	m.runID = uuid.New()
	m.seq = 0
	m.filesScanned = 0
	m.threatsBlocked = 0
	m.events = nil

	// The run loop is bound to the monitor's lifecycle, not the caller's
	// context, so it keeps ticking after the starting request returns.
	runCtx, cancel := context.WithCancel(m.lifecycle)
	m.cancel = cancel
	runID := m.runID
	m.mu.Unlock()

	m.logger.Info().Str("run_id", runID.String()).Msg("monitor started")
	m.publishState(ctx)
	go m.run(runCtx)
}

// publishState pushes a monitor_state event with the current snapshot
func (m *Monitor) publishState(ctx context.Context) {
	m.mu.Lock()
	snapshot := m.snapshotLocked()
	runID := m.runID.String()
	seq := m.seq
	m.mu.Unlock()
	m.publisher.Publish(ctx, streaming.NewEvent(streaming.EventTypeMonitorState, runID, seq, snapshot))
}

// run drives the tick loop until cancellation
func (m *Monitor) run(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.tick(ctx)
		}
	}
}

// tick performs one activation. Paused monitors skip the activation
// entirely, so history and counters stay untouched while paused.
func (m *Monitor) tick(ctx context.Context) {
	m.mu.Lock()
	if m.state != models.MonitorActive {
		m.mu.Unlock()
		return
	}
	m.seq++
	seq := m.seq

	var raised *models.ThreatEvent
	if m.rand.Float64() < m.cfg.EventProbability {
		pick := threatCatalog[m.rand.IntN(len(threatCatalog))]
		event := models.ThreatEvent{
			ID:        uuid.New(),
			Name:      pick.name,
			Severity:  pick.severity,
			CreatedAt: time.Now(),
		}
		// Newest first, bounded to the most recent MaxEvents
		m.events = append([]models.ThreatEvent{event}, m.events...)
		if len(m.events) > m.cfg.MaxEvents {
			m.events = m.events[:m.cfg.MaxEvents]
		}
		if event.Severity == models.SeverityDanger {
			m.threatsBlocked++
		}
		raised = &event
	} else {
		m.filesScanned += int64(1 + m.rand.IntN(m.cfg.MaxScanIncrement))
	}

	snapshot := m.snapshotLocked()
	runID := m.runID.String()
	m.mu.Unlock()

	if raised != nil {
		m.publisher.Publish(ctx, streaming.NewEvent(streaming.EventTypeThreat, runID, seq, raised))
	}
	m.publisher.Publish(ctx, streaming.NewEvent(streaming.EventTypeMonitorTick, runID, seq, snapshot))
}

// Pause suspends tick effects without discarding history
func (m *Monitor) Pause(ctx context.Context) {
	m.mu.Lock()
	if m.state != models.MonitorActive {
		m.mu.Unlock()
		return
	}
	m.state = models.MonitorPaused
	m.mu.Unlock()

	m.logger.Info().Msg("monitor paused")
	m.publishState(ctx)
}

// Resume continues ticking after a pause
func (m *Monitor) Resume(ctx context.Context) {
	m.mu.Lock()
	if m.state != models.MonitorPaused {
		m.mu.Unlock()
		return
	}
	m.state = models.MonitorActive
	m.mu.Unlock()

	m.logger.Info().Msg("monitor resumed")
	m.publishState(ctx)
}

// Stop cancels the run and returns the monitor to idle. The event log is
// kept until the next Start.
func (m *Monitor) Stop(ctx context.Context) {
	m.mu.Lock()
	if m.state == models.MonitorIdle {
		m.mu.Unlock()
		return
	}
	m.state = models.MonitorIdle
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.mu.Unlock()

	m.logger.Info().Msg("monitor stopped")
	m.publishState(ctx)
}

// ResolveEvent marks an event resolved. Resolving an already resolved
// event is a no-op, not an error; resolution never reverts.
func (m *Monitor) ResolveEvent(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.events {
		if m.events[i].ID == id {
			m.events[i].Resolved = true
			return nil
		}
	}
	return models.ErrNotFound
}

// Snapshot returns a read-only copy of the monitor state
func (m *Monitor) Snapshot() models.MonitorSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Monitor) snapshotLocked() models.MonitorSnapshot {
	events := make([]models.ThreatEvent, len(m.events))
	copy(events, m.events)
	return models.MonitorSnapshot{
		State:          m.state,
		TickSeq:        m.seq,
		FilesScanned:   m.filesScanned,
		ThreatsBlocked: m.threatsBlocked,
		Events:         events,
	}
}
