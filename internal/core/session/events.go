package session

import (
	"time"

	"sitless/internal/core/progress"
)

// Phase is the countdown currently being driven.
type Phase string

const (
	PhaseSitting  Phase = "sitting"
	PhaseActivity Phase = "activity"
)

// CompletionKind identifies which countdown reached zero.
type CompletionKind string

const (
	SittingDone  CompletionKind = "sitting_done"
	ActivityDone CompletionKind = "activity_done"
)

// EventType defines the type of Machine event.
type EventType string

const (
	EventStateChange   EventType = "state_change"
	EventTick          EventType = "tick"
	EventPhaseComplete EventType = "phase_complete"
)

// Snapshot is a read-only view of the machine state.
type Snapshot struct {
	Phase     Phase
	Remaining time.Duration
	Total     time.Duration
	Running   bool
	Cycle     int
	Progress  progress.DailyProgress
	DailyGoal int
}

// Event represents a Machine update for observers.
type Event struct {
	Type     EventType
	Snapshot Snapshot
	Kind     CompletionKind
	At       time.Time
}

// Completed describes one finished sitting+activity round trip.
type Completed struct {
	Date             string
	Cycle            int
	SittingDuration  time.Duration
	ActivityDuration time.Duration
	At               time.Time
}
