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

type scriptLine struct {
	stage int
	text  string
	tag   models.LogTag
}

// The attack drill script. Stage boundaries follow the line's stage
// index; warning-tagged lines roll against VulnerabilityChance.
var simulationScript = []scriptLine{
	{0, "Initializing attack simulation environment", models.LogTagNeutral},
	{0, "Loading threat actor profile: generic ransomware operator", models.LogTagNeutral},
	{1, "Stage 1: Reconnaissance", models.LogTagNeutral},
	{1, "Enumerating exposed services", models.LogTagWarning},
	{1, "Fingerprinting OS and patch level", models.LogTagWarning},
	{2, "Stage 2: Initial access", models.LogTagNeutral},
	{2, "Attempting phishing payload delivery", models.LogTagWarning},
	{2, "Payload delivery blocked by mail filter", models.LogTagSuccess},
	{2, "Attempting credential stuffing against login portal", models.LogTagWarning},
	{3, "Stage 3: Execution", models.LogTagNeutral},
	{3, "Dropping staged binary to temp directory", models.LogTagWarning},
	{3, "Binary execution intercepted by behavior monitor", models.LogTagSuccess},
	{4, "Stage 4: Lateral movement", models.LogTagNeutral},
	{4, "Scanning for reachable file shares", models.LogTagWarning},
	{4, "Probing for cached administrator credentials", models.LogTagWarning},
	{5, "Stage 5: Impact", models.LogTagNeutral},
	{5, "Simulating bulk file encryption", models.LogTagWarning},
	{5, "Encryption attempt contained by integrity shield", models.LogTagSuccess},
	{5, "Simulation complete, compiling findings", models.LogTagSuccess},
}

// simulationRun is the mutable state behind a run; only snapshots leave
// the manager.
type simulationRun struct {
	id       uuid.UUID
	status   models.SimulationStatus
	stage    int
	emitted  int
	vulns    int
	log      []models.SimulationLogLine
	started  time.Time
	ended    *time.Time
	cancel   context.CancelFunc
}

// SimulationManager runs staged attack drills. Each Start produces an
// independent run with its own timer; runs are kept for later inspection.
type SimulationManager struct {
	lifecycle context.Context
	cfg       config.SimulationConfig
	rand      random.Source
	publisher streaming.Publisher
	logger    *logger.Logger

	mu   sync.Mutex
	runs map[uuid.UUID]*simulationRun
}

// NewSimulationManager creates a manager with no runs. ctx bounds the
// lifetime of every run; runs outlive the request that started them.
func NewSimulationManager(ctx context.Context, cfg config.SimulationConfig, src random.Source, pub streaming.Publisher, log *logger.Logger) *SimulationManager {
	if ctx == nil {
		ctx = context.Background()
	}
	if pub == nil {
		pub = streaming.NopPublisher{}
	}
	return &SimulationManager{
		lifecycle: ctx,
		cfg:       cfg,
		rand:      src,
		publisher: pub,
		logger:    log.WithComponent("simulation"),
		runs:      make(map[uuid.UUID]*simulationRun),
	}
}

// Start creates a new run and begins emitting script lines on a timer.
// Starting again while another run is active creates an independent run
// with a fresh ID.
func (sm *SimulationManager) Start(ctx context.Context) models.SimulationRun {
	runCtx, cancel := context.WithCancel(sm.lifecycle)

	run := &simulationRun{
		id:      uuid.New(),
		status:  models.SimulationRunning,
		started: time.Now(),
		cancel:  cancel,
	}

	sm.mu.Lock()
	sm.runs[run.id] = run
	snapshot := sm.snapshotLocked(run)
	sm.mu.Unlock()

	sm.logger.Info().Str("run_id", run.id.String()).Msg("simulation started")
	go sm.drive(runCtx, run.id)

	return snapshot
}

func (sm *SimulationManager) drive(ctx context.Context, id uuid.UUID) {
	ticker := time.NewTicker(sm.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if done := sm.step(ctx, id); done {
				return
			}
		}
	}
}

// step emits the next script line. Returns true once the run has reached
// a terminal state.
func (sm *SimulationManager) step(ctx context.Context, id uuid.UUID) bool {
	sm.mu.Lock()
	run, ok := sm.runs[id]
	if !ok || run.status != models.SimulationRunning {
		sm.mu.Unlock()
		return true
	}

	line := simulationScript[run.emitted]
	entry := models.SimulationLogLine{
		Seq:       run.emitted + 1,
		Text:      line.text,
		Tag:       line.tag,
		EmittedAt: time.Now(),
	}
	// Only warning-tagged lines can surface a vulnerability; the line
	// itself is emitted exactly as scripted either way.
	if line.tag == models.LogTagWarning && sm.rand.Float64() < sm.cfg.VulnerabilityChance {
		run.vulns++
	}
	run.log = append(run.log, entry)
	run.emitted++
	run.stage = line.stage

	if run.emitted == len(simulationScript) {
		run.status = models.SimulationCompleted
		now := time.Now()
		run.ended = &now
		if run.cancel != nil {
			run.cancel()
		}
	}

	snapshot := sm.snapshotLocked(run)
	sm.mu.Unlock()

	sm.publisher.Publish(ctx, streaming.NewEvent(streaming.EventTypeSimulationProgress, id.String(), uint64(entry.Seq), snapshot))

	if snapshot.Status.Terminal() {
		sm.logger.Info().
			Str("run_id", id.String()).
			Int("vulnerabilities", snapshot.VulnerabilitiesFound).
			Msg("simulation completed")
		return true
	}
	return false
}

// Stop halts a running simulation. Stopping a run that already reached a
// terminal state is a no-op and returns its final snapshot.
func (sm *SimulationManager) Stop(id uuid.UUID) (models.SimulationRun, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	run, ok := sm.runs[id]
	if !ok {
		return models.SimulationRun{}, models.ErrNotFound
	}
	if run.status == models.SimulationRunning || run.status == models.SimulationPending {
		run.status = models.SimulationStopped
		now := time.Now()
		run.ended = &now
		if run.cancel != nil {
			run.cancel()
		}
		sm.logger.Info().Str("run_id", id.String()).Msg("simulation stopped")
	}
	return sm.snapshotLocked(run), nil
}

// Get returns the current snapshot of a run
func (sm *SimulationManager) Get(id uuid.UUID) (models.SimulationRun, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	run, ok := sm.runs[id]
	if !ok {
		return models.SimulationRun{}, models.ErrNotFound
	}
	return sm.snapshotLocked(run), nil
}

// List returns snapshots of all known runs
func (sm *SimulationManager) List() []models.SimulationRun {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	out := make([]models.SimulationRun, 0, len(sm.runs))
	for _, run := range sm.runs {
		out = append(out, sm.snapshotLocked(run))
	}
	return out
}

func (sm *SimulationManager) snapshotLocked(run *simulationRun) models.SimulationRun {
	log := make([]models.SimulationLogLine, len(run.log))
	copy(log, run.log)

	progress := run.emitted * 100 / len(simulationScript)

	var ended *time.Time
	if run.ended != nil {
		t := *run.ended
		ended = &t
	}

	return models.SimulationRun{
		ID:                   run.id,
		Status:               run.status,
		StageIndex:           run.stage,
		Progress:             progress,
		VulnerabilitiesFound: run.vulns,
		Log:                  log,
		StartedAt:            run.started,
		EndedAt:              ended,
	}
}
