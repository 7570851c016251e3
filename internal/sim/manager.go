package sim

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dynbilliards/backend/internal/config"
	"github.com/dynbilliards/backend/internal/store"
)

var (
	ErrRunNotFound = errors.New("run not found")
	ErrRunPlaying  = errors.New("run is playing; pause before stepping manually")
	ErrTooManyRuns = errors.New("run limit reached")
)

// BallState is one ball's kinematic state as exposed to API and WebSocket
// consumers.
type BallState struct {
	ID    int     `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	VX    float64 `json:"vx"`
	VY    float64 `json:"vy"`
	Color string  `json:"color"`
}

// Snapshot is the pull-side view of a run between ticks.
type Snapshot struct {
	Token   string      `json:"token"`
	Name    string      `json:"name"`
	Tick    uint64      `json:"tick"`
	SimTime float64     `json:"sim_time"`
	Dt      float64     `json:"dt"`
	Playing bool        `json:"playing"`
	Trace   bool        `json:"trace"`
	Balls   []BallState `json:"balls"`
}

// Frame is the per-tick message pushed to attached renderers.
type Frame struct {
	Token string      `json:"token"`
	Tick  uint64      `json:"tick"`
	Balls []BallState `json:"balls"`
}

// Run is one live simulation driven by its own ticker goroutine. The physics
// stays single-threaded: every tick and every manual step runs under mu, so
// StepAll invocations never overlap.
type Run struct {
	Token string
	Scene SceneConfig

	mu           sync.Mutex
	sim          *Simulation
	tick         uint64
	simTime      float64
	playing      bool
	stop         chan struct{}
	lastActivity time.Time
}

// Manager owns all live runs and their tickers.
type Manager struct {
	mu      sync.RWMutex
	runs    map[string]*Run
	cfg     *config.Config
	st      *store.Store
	rdb     *goredis.Client
	onFrame func(Frame)
}

// NewManager wires the run manager. st and rdb may be nil; persistence and
// caching are then disabled.
func NewManager(cfg *config.Config, st *store.Store, rdb *goredis.Client) *Manager {
	if cfg == nil {
		cfg = config.Load()
	}
	return &Manager{
		runs: make(map[string]*Run),
		cfg:  cfg,
		st:   st,
		rdb:  rdb,
	}
}

// SetFrameHandler registers the callback invoked after every playing tick.
// The WebSocket layer uses it to broadcast frames to attached renderers.
func (m *Manager) SetFrameHandler(fn func(Frame)) {
	m.onFrame = fn
}

// CreateRun validates the scene, builds the simulation, and registers a new
// paused run.
func (m *Manager) CreateRun(scene SceneConfig) (*Run, error) {
	simulation, err := BuildSimulation(scene)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg.MaxRuns > 0 && len(m.runs) >= m.cfg.MaxRuns {
		return nil, ErrTooManyRuns
	}

	run := &Run{
		Token:        newRunToken(),
		Scene:        scene,
		sim:          simulation,
		lastActivity: time.Now(),
	}
	m.runs[run.Token] = run

	if sceneJSON, err := json.Marshal(scene); err == nil {
		if err := m.st.SaveRun(run.Token, scene.Name, sceneJSON); err != nil {
			log.Printf("[DB] Failed to save run %s: %v", run.Token, err)
		}
	}
	m.cacheSnapshot(run.snapshotLocked())

	log.Printf("[SIM] Created run %s (%s table, %d balls)", run.Token, scene.Table.Kind, len(scene.Balls))
	return run, nil
}

// Get returns a live run by token.
func (m *Manager) Get(token string) (*Run, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	run, ok := m.runs[token]
	return run, ok
}

// Snapshot returns the current state of a run.
func (m *Manager) Snapshot(token string) (Snapshot, error) {
	run, ok := m.Get(token)
	if !ok {
		return Snapshot{}, ErrRunNotFound
	}
	run.mu.Lock()
	defer run.mu.Unlock()
	run.lastActivity = time.Now()
	return run.snapshotLocked(), nil
}

// Outline returns the table geometry of a run for preview rendering.
func (m *Manager) Outline(token string) (Outline, error) {
	run, ok := m.Get(token)
	if !ok {
		return Outline{}, ErrRunNotFound
	}
	return run.sim.Table().Outline(), nil
}

// StepOnce advances a paused run by a single tick. dt <= 0 uses the scene's
// increment.
func (m *Manager) StepOnce(token string, dt float64) (Snapshot, error) {
	run, ok := m.Get(token)
	if !ok {
		return Snapshot{}, ErrRunNotFound
	}

	run.mu.Lock()
	if run.playing {
		run.mu.Unlock()
		return Snapshot{}, ErrRunPlaying
	}
	if dt <= 0 {
		dt = run.Scene.EffectiveDt()
	}
	run.stepLocked(dt)
	snap := run.snapshotLocked()
	run.mu.Unlock()

	m.cacheSnapshot(snap)
	return snap, nil
}

// Play starts the run's ticker. Each tick advances the simulation by the
// scene dt at the scene's playback rate.
func (m *Manager) Play(token string) error {
	run, ok := m.Get(token)
	if !ok {
		return ErrRunNotFound
	}

	run.mu.Lock()
	if run.playing {
		run.mu.Unlock()
		return nil
	}
	run.playing = true
	run.stop = make(chan struct{})
	run.lastActivity = time.Now()
	stop := run.stop
	run.mu.Unlock()

	if err := m.st.SetRunStatus(token, "RUNNING"); err != nil {
		log.Printf("[DB] Failed to mark run %s running: %v", token, err)
	}

	interval := time.Duration(float64(time.Second) / run.Scene.EffectivePlaybackSpeed())
	go m.tickLoop(run, stop, interval)

	log.Printf("[SIM] Run %s playing (interval %s)", token, interval)
	return nil
}

// Pause stops the run's ticker. The current tick, if one is in flight,
// completes before the loop exits.
func (m *Manager) Pause(token string) error {
	run, ok := m.Get(token)
	if !ok {
		return ErrRunNotFound
	}

	run.mu.Lock()
	if !run.playing {
		run.mu.Unlock()
		return nil
	}
	run.playing = false
	close(run.stop)
	run.stop = nil
	run.lastActivity = time.Now()
	run.mu.Unlock()

	if err := m.st.SetRunStatus(token, "PAUSED"); err != nil {
		log.Printf("[DB] Failed to mark run %s paused: %v", token, err)
	}

	log.Printf("[SIM] Run %s paused", token)
	return nil
}

// Delete stops and removes a run.
func (m *Manager) Delete(token string) error {
	m.mu.Lock()
	run, ok := m.runs[token]
	if ok {
		delete(m.runs, token)
	}
	m.mu.Unlock()
	if !ok {
		return ErrRunNotFound
	}

	run.mu.Lock()
	if run.playing {
		run.playing = false
		close(run.stop)
		run.stop = nil
	}
	run.mu.Unlock()

	if err := m.st.DeleteRun(token); err != nil {
		log.Printf("[DB] Failed to delete run %s: %v", token, err)
	}
	if m.rdb != nil {
		m.rdb.Del(context.Background(), runStateKey(token))
	}

	log.Printf("[SIM] Deleted run %s", token)
	return nil
}

// List returns snapshots of all live runs.
func (m *Manager) List() []Snapshot {
	m.mu.RLock()
	runs := make([]*Run, 0, len(m.runs))
	for _, run := range m.runs {
		runs = append(runs, run)
	}
	m.mu.RUnlock()

	snaps := make([]Snapshot, 0, len(runs))
	for _, run := range runs {
		run.mu.Lock()
		snaps = append(snaps, run.snapshotLocked())
		run.mu.Unlock()
	}
	return snaps
}

// CachedSnapshot serves a run snapshot from Redis, for runs that live on
// another node or have already been evicted here.
func (m *Manager) CachedSnapshot(ctx context.Context, token string) (Snapshot, error) {
	if m.rdb == nil {
		return Snapshot{}, ErrRunNotFound
	}
	data, err := m.rdb.Get(ctx, runStateKey(token)).Bytes()
	if err != nil {
		return Snapshot{}, ErrRunNotFound
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, ErrRunNotFound
	}
	return snap, nil
}

// StartExpiryWorker evicts runs that have seen no activity for the
// configured idle window.
func (m *Manager) StartExpiryWorker(ctx context.Context) {
	if m.cfg.RunExpiryMinutes <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.evictIdle(time.Duration(m.cfg.RunExpiryMinutes) * time.Minute)
			}
		}
	}()
}

func (m *Manager) evictIdle(maxIdle time.Duration) {
	m.mu.RLock()
	var expired []string
	for token, run := range m.runs {
		run.mu.Lock()
		idle := time.Since(run.lastActivity)
		playing := run.playing
		run.mu.Unlock()
		if !playing && idle > maxIdle {
			expired = append(expired, token)
		}
	}
	m.mu.RUnlock()

	for _, token := range expired {
		log.Printf("[SIM] Evicting idle run %s", token)
		m.Delete(token)
	}
}

func (m *Manager) tickLoop(run *Run, stop chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	dt := run.Scene.EffectiveDt()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			run.mu.Lock()
			if !run.playing {
				run.mu.Unlock()
				return
			}
			run.stepLocked(dt)
			snap := run.snapshotLocked()
			run.mu.Unlock()

			if m.onFrame != nil {
				m.onFrame(Frame{Token: snap.Token, Tick: snap.Tick, Balls: snap.Balls})
			}
			m.cacheSnapshot(snap)
			if m.cfg.SnapshotEveryTicks > 0 && snap.Tick%uint64(m.cfg.SnapshotEveryTicks) == 0 {
				m.persistSnapshot(snap)
			}
		}
	}
}

func (m *Manager) cacheSnapshot(snap Snapshot) {
	if m.rdb == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := m.rdb.SetEx(context.Background(), runStateKey(snap.Token), data, time.Hour).Err(); err != nil {
		log.Printf("[REDIS] Failed to cache run %s: %v", snap.Token, err)
	}
}

func (m *Manager) persistSnapshot(snap Snapshot) {
	state, err := json.Marshal(snap.Balls)
	if err != nil {
		return
	}
	if err := m.st.SaveSnapshot(snap.Token, snap.Tick, snap.SimTime, state); err != nil {
		log.Printf("[DB] Failed to persist snapshot for run %s: %v", snap.Token, err)
	}
}

func (r *Run) stepLocked(dt float64) {
	r.sim.StepAll(dt)
	r.tick++
	r.simTime += dt
	r.lastActivity = time.Now()
}

func (r *Run) snapshotLocked() Snapshot {
	balls := r.sim.Balls()
	states := make([]BallState, len(balls))
	for i, b := range balls {
		states[i] = BallState{
			ID:    i + 1,
			X:     b.Position.X,
			Y:     b.Position.Y,
			VX:    b.Velocity.X,
			VY:    b.Velocity.Y,
			Color: b.Color,
		}
	}
	return Snapshot{
		Token:   r.Token,
		Name:    r.Scene.Name,
		Tick:    r.tick,
		SimTime: r.simTime,
		Dt:      r.Scene.EffectiveDt(),
		Playing: r.playing,
		Trace:   r.Scene.Trace,
		Balls:   states,
	}
}

func newRunToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return hex.EncodeToString([]byte(time.Now().String()))[:32]
	}
	return hex.EncodeToString(buf)
}

func runStateKey(token string) string {
	return "run:" + token + ":state"
}
