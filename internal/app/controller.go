package app

import (
	"log/slog"
	"sync"

	"sitless/internal/core/model"
	"sitless/internal/core/session"
	"sitless/internal/ui/preferences"
)

type sessionControl interface {
	Snapshot() session.Snapshot
	Start()
	Pause()
	UpdateConfig(config model.SessionConfig)
}

type alertControl interface {
	UpdateConfig(config model.AlertConfig, sessionConfig model.SessionConfig)
}

type idleControl interface {
	UpdateConfig(config model.IdleConfig)
}

// controller routes user actions and settings changes to the running parts.
type controller struct {
	mu           sync.Mutex
	settings     preferences.Settings
	machine      sessionControl
	alerts       alertControl
	idle         idleControl
	saveSettings func(preferences.Settings) error
	setAutostart func(enabled bool) error
	logger       *slog.Logger
}

func (ctrl *controller) Settings() preferences.Settings {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	return ctrl.settings
}

func (ctrl *controller) ToggleRunning() {
	if ctrl.machine.Snapshot().Running {
		ctrl.machine.Pause()
		return
	}
	ctrl.machine.Start()
}

// Apply pushes settings into the machine, the dispatcher and the idle guard.
func (ctrl *controller) Apply(settings preferences.Settings) {
	ctrl.mu.Lock()
	ctrl.settings = settings
	ctrl.mu.Unlock()

	sessionConfig := settings.SessionConfig()
	ctrl.machine.UpdateConfig(sessionConfig)
	ctrl.alerts.UpdateConfig(settings.AlertConfig(), sessionConfig)
	if ctrl.idle != nil {
		ctrl.idle.UpdateConfig(settings.IdleConfig())
	}
}

// Save persists settings from the preferences window and applies them.
func (ctrl *controller) Save(settings preferences.Settings) {
	previous := ctrl.Settings()

	if ctrl.saveSettings != nil {
		if err := ctrl.saveSettings(settings); err != nil {
			ctrl.logger.Warn("save settings", slog.Any("error", err))
		}
	}
	if settings.LaunchAtLogin != previous.LaunchAtLogin && ctrl.setAutostart != nil {
		if err := ctrl.setAutostart(settings.LaunchAtLogin); err != nil {
			ctrl.logger.Warn("update autostart", slog.Bool("enabled", settings.LaunchAtLogin), slog.Any("error", err))
		}
	}
	ctrl.Apply(settings)
}

// runningEdge reports when the running flag differs from the last value seen.
type runningEdge struct {
	seen    bool
	running bool
}

func (edge *runningEdge) changed(running bool) bool {
	if edge.seen && edge.running == running {
		return false
	}
	edge.seen = true
	edge.running = running
	return true
}
