// Package engine owns the live GameState: the tick loop, the action
// dispatcher, offline reconciliation on startup, and autosaving through
// the persistence gateway.
package engine

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/persist"
	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/progression"
	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/state"
)

// Options configures a new Engine. Zero values fall back to sane
// defaults; only Store is required for persistence to work (a nil Store
// disables save/load entirely).
type Options struct {
	Store            persist.Store
	Clock            Clock
	Logger           *log.Logger
	TickInterval     time.Duration
	AutosaveInterval time.Duration
	OfflineProgress  bool
	BaseManualQi     float64

	// Balance knobs; zero means the shipped default.
	BreakthroughBase  float64
	OfflineCap        time.Duration
	OfflineDecayFloor float64

	// Roll draws the breakthrough roll in [0, 100). Tests inject a
	// deterministic one.
	Roll func() float64
}

type Engine struct {
	mu sync.Mutex
	st *state.GameState

	clock  Clock
	store  persist.Store
	logger *log.Logger
	roll   func() float64

	tickInterval     time.Duration
	autosaveInterval time.Duration
	offlineProgress  bool
	offlinePolicy    progression.OfflinePolicy
	baseManualQi     float64
	breakthroughBase float64

	sinksMu sync.RWMutex
	sinks   []Sink

	initialized bool
	lastTick    time.Time
	stopOnce    sync.Once
	stopCh      chan struct{}
	loopDone    chan struct{}
}

func New(opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = 100 * time.Millisecond
	}
	if opts.AutosaveInterval <= 0 {
		opts.AutosaveInterval = 30 * time.Second
	}
	if opts.BaseManualQi <= 0 {
		opts.BaseManualQi = 1
	}
	if opts.BreakthroughBase <= 0 {
		opts.BreakthroughBase = progression.DefaultBreakthroughBase
	}
	offline := progression.DefaultOfflinePolicy()
	if opts.OfflineCap > 0 {
		offline.Cap = opts.OfflineCap
	}
	if opts.OfflineDecayFloor > 0 {
		offline.DecayFloor = opts.OfflineDecayFloor
	}
	if opts.Roll == nil {
		opts.Roll = func() float64 { return rand.Float64() * 100 }
	}
	return &Engine{
		st:               state.New(),
		clock:            opts.Clock,
		store:            opts.Store,
		logger:           opts.Logger,
		roll:             opts.Roll,
		tickInterval:     opts.TickInterval,
		autosaveInterval: opts.AutosaveInterval,
		offlineProgress:  opts.OfflineProgress,
		offlinePolicy:    offline,
		baseManualQi:     opts.BaseManualQi,
		breakthroughBase: opts.BreakthroughBase,
		stopCh:           make(chan struct{}),
		loopDone:         make(chan struct{}),
	}
}

// Subscribe registers a sink for engine notifications. Sinks run
// synchronously in emit order; keep them cheap.
func (e *Engine) Subscribe(sink Sink) {
	e.sinksMu.Lock()
	e.sinks = append(e.sinks, sink)
	e.sinksMu.Unlock()
}

func (e *Engine) emit(events []Event) {
	if len(events) == 0 {
		return
	}
	e.sinksMu.RLock()
	sinks := make([]Sink, len(e.sinks))
	copy(sinks, e.sinks)
	e.sinksMu.RUnlock()
	for _, ev := range events {
		for _, sink := range sinks {
			sink(ev)
		}
	}
}

// Snapshot returns a deep copy of the current state for read-only use.
func (e *Engine) Snapshot() *state.GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.Clone()
}

// Initialize hydrates state from the gateway when a save exists, grants
// offline progress, and starts the tick and autosave loops. Calling it
// again while initialized is a no-op.
func (e *Engine) Initialize(ctx context.Context) error {
	e.mu.Lock()
	if e.initialized {
		e.mu.Unlock()
		return nil
	}
	e.initialized = true
	now := e.clock.Now()
	e.lastTick = now
	e.mu.Unlock()

	var events []Event

	if e.store != nil {
		loaded, err := e.store.Load(ctx)
		switch {
		case err == nil:
			e.mu.Lock()
			e.st = loaded
			e.mu.Unlock()
			events = append(events, Event{Type: EventGameLoaded, At: now})
		case errors.Is(err, persist.ErrNotFound):
			// fresh character
		default:
			// best available state wins; keep the initial state
			e.logger.Printf("load save: %v", err)
		}
	}

	if e.offlineProgress {
		e.mu.Lock()
		if !e.st.LastSaved.IsZero() {
			gained := e.offlinePolicy.Progress(e.st.LastSaved, now, e.st.QiRate, e.st.MaxQi)
			if gained > 0 {
				next := e.st.Clone()
				next.Qi += gained
				next.TotalQiGenerated += gained
				next.ClampQi()
				if next.Qi > next.HighestQi {
					next.HighestQi = next.Qi
				}
				e.st = next
				events = append(events, Event{Type: EventOfflineProgress, Amount: gained, At: now})
			}
		}
		e.mu.Unlock()
	}

	go e.run()

	e.emit(events)
	return nil
}

// run drives the tick and autosave timers until Stop.
func (e *Engine) run() {
	defer close(e.loopDone)

	tick := time.NewTicker(e.tickInterval)
	defer tick.Stop()
	autosave := time.NewTicker(e.autosaveInterval)
	defer autosave.Stop()

	for {
		select {
		case <-e.stopCh:
			return
		case <-tick.C:
			e.Tick(e.clock.Now())
		case <-autosave.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := e.Save(ctx); err != nil {
				e.logger.Printf("autosave: %v", err)
			}
			cancel()
		}
	}
}

// Stop halts the tick and autosave timers. In-flight saves already
// dispatched run to completion on their own.
func (e *Engine) Stop() {
	e.mu.Lock()
	started := e.initialized
	e.mu.Unlock()

	e.stopOnce.Do(func() { close(e.stopCh) })
	if started {
		<-e.loopDone
	}
}

// Tick advances accrual to now. Elapsed time is measured against the
// previous tick, and lastTick moves forward unconditionally so a slow
// tick never double-counts.
func (e *Engine) Tick(now time.Time) {
	e.mu.Lock()
	elapsed := now.Sub(e.lastTick).Seconds()
	e.lastTick = now
	next, events := tickTransition(e.st, elapsed, now)
	e.st = next
	e.mu.Unlock()
	e.emit(events)
}

// Meditate is the manual cultivation action. No cooldown.
func (e *Engine) Meditate() {
	e.mu.Lock()
	next, events := meditateTransition(e.st, e.baseManualQi)
	e.st = next
	e.mu.Unlock()
	e.emit(events)
}

// BuyUpgrade spends qi on the next level of an upgrade. Insufficient qi
// or an unavailable upgrade leaves state untouched and emits a
// notification.
func (e *Engine) BuyUpgrade(id string) {
	e.mu.Lock()
	next, events := buyUpgradeTransition(e.st, id)
	e.st = next
	e.mu.Unlock()
	e.emit(events)
}

// UpgradeSkill spends qi on the next level of a skill.
func (e *Engine) UpgradeSkill(id string) {
	e.mu.Lock()
	next, events := upgradeSkillTransition(e.st, id)
	e.st = next
	e.mu.Unlock()
	e.emit(events)
}

// AttemptBreakthrough consumes the full qi reserve for a chance to
// advance. The reserve is spent win or lose.
func (e *Engine) AttemptBreakthrough() {
	e.mu.Lock()
	next, events := breakthroughTransition(e.st, e.roll(), e.breakthroughBase)
	e.st = next
	e.mu.Unlock()
	e.emit(events)
}

// Save pushes a snapshot stamped with the current time through the
// gateway. Failures are reported and nothing is rolled back: the local
// state keeps playing ahead of the remote copy, and LastSaved only
// commits once a save actually lands.
func (e *Engine) Save(ctx context.Context) error {
	if e.store == nil {
		return nil
	}

	now := e.clock.Now()
	e.mu.Lock()
	snap := e.st.Clone()
	snap.LastSaved = now
	e.mu.Unlock()

	receipt, err := e.store.Save(ctx, snap)
	if err != nil {
		e.emit([]Event{{Type: EventSaveFailed, Reason: err.Error(), At: now}})
		return err
	}

	e.mu.Lock()
	e.st.LastSaved = now
	e.mu.Unlock()
	e.emit([]Event{{Type: EventSaveSucceeded, At: receipt.SavedAt}})
	return nil
}

// Load replaces the local state with the remote copy. Any failure keeps
// the current state; the freshest available state wins.
func (e *Engine) Load(ctx context.Context) error {
	if e.store == nil {
		return nil
	}
	loaded, err := e.store.Load(ctx)
	if err != nil {
		e.logger.Printf("load save: %v", err)
		return nil
	}
	e.mu.Lock()
	e.st = loaded
	e.lastTick = e.clock.Now()
	e.mu.Unlock()
	e.emit([]Event{{Type: EventGameLoaded, At: e.clock.Now()}})
	return nil
}

// Reset replaces the state with a fresh character. Confirmation is the
// caller's responsibility.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.st = state.New()
	e.lastTick = e.clock.Now()
	e.mu.Unlock()
	e.emit([]Event{{Type: EventGameReset, At: e.clock.Now()}})
}
