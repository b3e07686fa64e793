package app

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"sitless/internal/core/model"
	"sitless/internal/core/session"
	"sitless/internal/platform"
)

// Restarter is the part of the session machine the idle guard drives.
type Restarter interface {
	Reset()
	Start()
}

// IdleGuard restarts a running sitting countdown once the user has been idle
// for longer than the configured threshold. Time spent away from the desk
// is not sitting time.
type IdleGuard struct {
	mu          sync.Mutex
	config      model.IdleConfig
	source      platform.IdleProvider
	machine     Restarter
	logger      *slog.Logger
	now         func() time.Time
	lastCheck   time.Time
	restarted   bool
	unsupported bool
}

// NewIdleGuard creates a guard. A nil source disables it.
func NewIdleGuard(source platform.IdleProvider, machine Restarter, config model.IdleConfig, logger *slog.Logger) *IdleGuard {
	if logger == nil {
		logger = slog.Default()
	}
	return &IdleGuard{
		config:  config,
		source:  source,
		machine: machine,
		logger:  logger,
		now:     time.Now,
	}
}

// UpdateConfig replaces the threshold and toggle.
func (guard *IdleGuard) UpdateConfig(config model.IdleConfig) {
	guard.mu.Lock()
	defer guard.mu.Unlock()
	guard.config = config
	guard.restarted = false
}

// Observe is fed every tick snapshot. It polls the idle source at most once
// per check interval.
func (guard *IdleGuard) Observe(snapshot session.Snapshot) {
	if !snapshot.Running || snapshot.Phase != session.PhaseSitting {
		return
	}

	guard.mu.Lock()
	if !guard.config.Enabled || guard.unsupported || guard.source == nil {
		guard.mu.Unlock()
		return
	}
	now := guard.now()
	if !guard.lastCheck.IsZero() && now.Sub(guard.lastCheck) < guard.config.CheckInterval {
		guard.mu.Unlock()
		return
	}
	guard.lastCheck = now
	threshold := guard.config.RestartAfter
	guard.mu.Unlock()

	idle, err := guard.source.IdleDuration()
	if err != nil {
		if errors.Is(err, platform.ErrIdleUnsupported) {
			guard.mu.Lock()
			guard.unsupported = true
			guard.mu.Unlock()
			guard.logger.Info("idle detection unavailable, idle restart disabled")
			return
		}
		guard.logger.Debug("idle check failed", slog.Any("error", err))
		return
	}

	guard.mu.Lock()
	if idle < threshold {
		guard.restarted = false
		guard.mu.Unlock()
		return
	}
	if guard.restarted {
		guard.mu.Unlock()
		return
	}
	guard.restarted = true
	guard.mu.Unlock()

	guard.logger.Info("user idle, restarting sitting countdown", slog.Duration("idle", idle))
	guard.machine.Reset()
	guard.machine.Start()
}
