package preferences

import (
	"time"

	"sitless/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	SittingDuration  time.Duration
	ActivityDuration time.Duration
	DailyGoal        int

	Notifications bool
	Sound         bool
	Vibration     bool

	IdleRestart      bool
	IdleRestartAfter time.Duration

	LaunchAtLogin bool
}

// DefaultSettings returns default settings for sitless.
func DefaultSettings() Settings {
	return Settings{
		SittingDuration:  model.DefaultSittingDuration,
		ActivityDuration: model.DefaultActivityDuration,
		DailyGoal:        model.DefaultDailyGoal,
		Notifications:    true,
		Sound:            true,
		Vibration:        true,
		IdleRestart:      true,
		IdleRestartAfter: 5 * time.Minute,
		LaunchAtLogin:    false,
	}
}

// SessionConfig converts settings to the state machine configuration.
func (settings Settings) SessionConfig() model.SessionConfig {
	return model.SessionConfig{
		SittingDuration:  settings.SittingDuration,
		ActivityDuration: settings.ActivityDuration,
		DailyGoal:        settings.DailyGoal,
	}.Normalize()
}

// AlertConfig converts settings to alert channel toggles.
func (settings Settings) AlertConfig() model.AlertConfig {
	return model.AlertConfig{
		Notifications: settings.Notifications,
		Sound:         settings.Sound,
		Vibration:     settings.Vibration,
	}
}

// IdleConfig converts settings to the idle restart configuration.
func (settings Settings) IdleConfig() model.IdleConfig {
	restartAfter := settings.IdleRestartAfter
	if restartAfter <= 0 {
		restartAfter = 5 * time.Minute
	}
	return model.IdleConfig{
		Enabled:       settings.IdleRestart,
		RestartAfter:  restartAfter,
		CheckInterval: 5 * time.Second,
	}
}
