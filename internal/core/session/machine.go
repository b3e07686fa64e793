// Package session implements the sitting/activity countdown state machine.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"sitless/internal/core/model"
	"sitless/internal/core/progress"
)

// Alerter is told about every completed phase. Implementations must not block.
type Alerter interface {
	NotifyPhaseComplete(kind CompletionKind, sessionsToday int)
}

// ProgressGateway loads and persists the daily session counter.
type ProgressGateway interface {
	LoadProgress(ctx context.Context) progress.DailyProgress
	SaveProgress(ctx context.Context, p progress.DailyProgress)
}

// History records completed round trips.
type History interface {
	RecordSession(ctx context.Context, completed Completed) error
}

// Deps contains the collaborators of a Machine. Only Ticker is required.
type Deps struct {
	Ticker   Ticker
	Alerter  Alerter
	Progress ProgressGateway
	History  History
	Logger   *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
	// Async runs fire-and-forget side effects. Defaults to one goroutine per task.
	Async func(task func())
}

// Machine drives exactly one countdown at a time.
type Machine struct {
	mu         sync.Mutex
	config     model.SessionConfig
	deps       Deps
	phase      Phase
	remaining  time.Duration
	running    bool
	cycle      int
	progress   progress.DailyProgress
	generation uint64
	events     []chan Event
	pending    []func()
	closed     bool
}

// New creates a paused Machine in the sitting phase. Daily progress is loaded
// once from deps.Progress.
func New(config model.SessionConfig, deps Deps) *Machine {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Async == nil {
		deps.Async = func(task func()) { go task() }
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Ticker == nil {
		deps.Ticker = NewIntervalTicker(time.Second)
	}

	config = config.Normalize()
	machine := &Machine{
		config:    config,
		deps:      deps,
		phase:     PhaseSitting,
		remaining: config.SittingDuration,
		cycle:     1,
		progress:  progress.DailyProgress{Date: progress.DateKey(deps.Now())},
	}
	if deps.Progress != nil {
		machine.progress = deps.Progress.LoadProgress(context.Background())
	}
	return machine
}

// Subscribe registers a new observer channel. Slow observers miss events
// rather than blocking the machine.
func (machine *Machine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	machine.mu.Lock()
	defer machine.mu.Unlock()
	if machine.closed {
		close(ch)
		return ch
	}
	machine.events = append(machine.events, ch)
	return ch
}

// Snapshot returns the current state.
func (machine *Machine) Snapshot() Snapshot {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	return machine.snapshotLocked()
}

// Start resumes the countdown of the current phase.
func (machine *Machine) Start() {
	machine.mu.Lock()
	if machine.closed || machine.running {
		machine.mu.Unlock()
		return
	}
	if machine.remaining <= 0 {
		machine.remaining = machine.nominalLocked()
	}
	machine.running = true
	machine.armLocked()
	machine.emitLocked(EventStateChange, "")
	machine.mu.Unlock()
}

// Pause freezes the countdown.
func (machine *Machine) Pause() {
	machine.mu.Lock()
	if machine.closed || !machine.running {
		machine.mu.Unlock()
		return
	}
	machine.running = false
	machine.disarmLocked()
	machine.emitLocked(EventStateChange, "")
	machine.mu.Unlock()
}

// Reset stops the countdown and restores the current phase's full duration.
func (machine *Machine) Reset() {
	machine.mu.Lock()
	if machine.closed {
		machine.mu.Unlock()
		return
	}
	machine.running = false
	machine.disarmLocked()
	machine.remaining = machine.nominalLocked()
	machine.emitLocked(EventStateChange, "")
	machine.mu.Unlock()
}

// Tick advances the countdown by one second.
func (machine *Machine) Tick() {
	machine.mu.Lock()
	machine.tickLocked()
	tasks := machine.takePendingLocked()
	machine.mu.Unlock()
	machine.runAsync(tasks)
}

// UpdateConfig applies new durations and goal. A changed duration resets a
// paused countdown and clamps a running one. An unchanged config is a no-op.
func (machine *Machine) UpdateConfig(config model.SessionConfig) {
	config = config.Normalize()
	machine.mu.Lock()
	defer machine.mu.Unlock()
	if machine.closed || config == machine.config {
		return
	}
	previous := machine.nominalLocked()
	machine.config = config
	nominal := machine.nominalLocked()
	if nominal != previous {
		if !machine.running || machine.remaining > nominal {
			machine.remaining = nominal
		}
	}
	machine.emitLocked(EventStateChange, "")
}

// Close disarms the tick source and closes observers. Further commands are ignored.
func (machine *Machine) Close() {
	machine.mu.Lock()
	if machine.closed {
		machine.mu.Unlock()
		return
	}
	machine.closed = true
	machine.running = false
	machine.disarmLocked()
	events := machine.events
	machine.events = nil
	machine.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (machine *Machine) tickFrom(generation uint64) {
	machine.mu.Lock()
	if generation != machine.generation {
		machine.mu.Unlock()
		return
	}
	machine.tickLocked()
	tasks := machine.takePendingLocked()
	machine.mu.Unlock()
	machine.runAsync(tasks)
}

func (machine *Machine) tickLocked() {
	if machine.closed || !machine.running || machine.remaining <= 0 {
		return
	}
	if machine.remaining <= time.Second {
		machine.remaining = 0
		machine.completePhaseLocked()
		return
	}
	machine.remaining -= time.Second
	machine.emitLocked(EventTick, "")
}

func (machine *Machine) completePhaseLocked() {
	machine.running = false
	machine.disarmLocked()

	now := machine.deps.Now()
	today := progress.DateKey(now)

	var kind CompletionKind
	var sessionsToday int
	switch machine.phase {
	case PhaseSitting:
		kind = SittingDone
		sessionsToday = progress.Rollover(machine.progress, today).SessionsCompleted
		machine.phase = PhaseActivity
		machine.remaining = machine.config.ActivityDuration
	case PhaseActivity:
		kind = ActivityDone
		machine.progress = progress.Rollover(machine.progress, today)
		machine.progress.SessionsCompleted++
		sessionsToday = machine.progress.SessionsCompleted
		machine.queuePersistLocked(machine.progress, Completed{
			Date:             today,
			Cycle:            machine.cycle,
			SittingDuration:  machine.config.SittingDuration,
			ActivityDuration: machine.config.ActivityDuration,
			At:               now,
		})
		machine.cycle++
		machine.phase = PhaseSitting
		machine.remaining = machine.config.SittingDuration
	}

	if alerter := machine.deps.Alerter; alerter != nil {
		machine.pending = append(machine.pending, func() {
			alerter.NotifyPhaseComplete(kind, sessionsToday)
		})
	}
	machine.emitLocked(EventPhaseComplete, kind)
}

func (machine *Machine) queuePersistLocked(saved progress.DailyProgress, completed Completed) {
	if gateway := machine.deps.Progress; gateway != nil {
		machine.pending = append(machine.pending, func() {
			gateway.SaveProgress(context.Background(), saved)
		})
	}
	if history := machine.deps.History; history != nil {
		logger := machine.deps.Logger
		machine.pending = append(machine.pending, func() {
			if err := history.RecordSession(context.Background(), completed); err != nil {
				logger.Warn("record session", slog.Int("cycle", completed.Cycle), slog.Any("error", err))
			}
		})
	}
}

func (machine *Machine) armLocked() {
	machine.generation++
	generation := machine.generation
	machine.deps.Ticker.Arm(func() {
		machine.tickFrom(generation)
	})
}

func (machine *Machine) disarmLocked() {
	machine.generation++
	machine.deps.Ticker.Disarm()
}

func (machine *Machine) nominalLocked() time.Duration {
	if machine.phase == PhaseActivity {
		return machine.config.ActivityDuration
	}
	return machine.config.SittingDuration
}

func (machine *Machine) snapshotLocked() Snapshot {
	return Snapshot{
		Phase:     machine.phase,
		Remaining: machine.remaining,
		Total:     machine.nominalLocked(),
		Running:   machine.running,
		Cycle:     machine.cycle,
		Progress:  progress.Rollover(machine.progress, progress.DateKey(machine.deps.Now())),
		DailyGoal: machine.config.DailyGoal,
	}
}

func (machine *Machine) takePendingLocked() []func() {
	tasks := machine.pending
	machine.pending = nil
	return tasks
}

func (machine *Machine) runAsync(tasks []func()) {
	for _, task := range tasks {
		machine.deps.Async(task)
	}
}

func (machine *Machine) emitLocked(eventType EventType, kind CompletionKind) {
	event := Event{
		Type:     eventType,
		Snapshot: machine.snapshotLocked(),
		Kind:     kind,
		At:       machine.deps.Now(),
	}
	for _, ch := range machine.events {
		select {
		case ch <- event:
		default:
		}
	}
}
