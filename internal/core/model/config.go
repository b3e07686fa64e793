package model

import "time"

const (
	DefaultSittingDuration  = 50 * time.Minute
	DefaultActivityDuration = 10 * time.Minute
	DefaultDailyGoal        = 8
)

// SessionConfig contains runtime settings for the session state machine.
type SessionConfig struct {
	SittingDuration  time.Duration
	ActivityDuration time.Duration
	DailyGoal        int
}

// DefaultSessionConfig returns the 50/10 minute rhythm with a goal of 8 cycles.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		SittingDuration:  DefaultSittingDuration,
		ActivityDuration: DefaultActivityDuration,
		DailyGoal:        DefaultDailyGoal,
	}
}

// Normalize replaces unusable values with defaults and truncates durations to
// whole seconds.
func (config SessionConfig) Normalize() SessionConfig {
	config.SittingDuration = config.SittingDuration.Truncate(time.Second)
	config.ActivityDuration = config.ActivityDuration.Truncate(time.Second)
	if config.SittingDuration <= 0 {
		config.SittingDuration = DefaultSittingDuration
	}
	if config.ActivityDuration <= 0 {
		config.ActivityDuration = DefaultActivityDuration
	}
	if config.DailyGoal <= 0 {
		config.DailyGoal = DefaultDailyGoal
	}
	return config
}

// AlertConfig toggles the best-effort alert channels.
type AlertConfig struct {
	Notifications bool
	Sound         bool
	Vibration     bool
}

// IdleConfig controls the "you walked away" restart of the sitting countdown.
type IdleConfig struct {
	Enabled       bool
	RestartAfter  time.Duration
	CheckInterval time.Duration
}
