// Package alert fans a phase completion out to notification, prompt,
// vibration and sound channels. Every channel is best effort.
package alert

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"sitless/internal/core/model"
	"sitless/internal/core/session"
)

// Channels groups the side channels. Nil channels are skipped.
type Channels struct {
	Notifier  Notifier
	Confirmer Confirmer
	Vibrator  Vibrator
	Sound     SoundPlayer
}

// Options contains runtime options for Dispatcher.
type Options struct {
	Logger *slog.Logger
	// Async runs each channel. Defaults to one goroutine per channel.
	Async func(task func())
}

// Dispatcher implements session.Alerter.
type Dispatcher struct {
	mu                  sync.Mutex
	channels            Channels
	config              model.AlertConfig
	session             model.SessionConfig
	notificationsReason error
	onAcknowledge       func()
	logger              *slog.Logger
	async               func(task func())
}

var _ session.Alerter = (*Dispatcher)(nil)

// New creates a dispatcher.
func New(channels Channels, config model.AlertConfig, sessionConfig model.SessionConfig, options Options) *Dispatcher {
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.Async == nil {
		options.Async = func(task func()) { go task() }
	}
	return &Dispatcher{
		channels: channels,
		config:   config,
		session:  sessionConfig.Normalize(),
		logger:   options.Logger,
		async:    options.Async,
	}
}

// OnAcknowledge sets the callback bound to the prompt's primary action.
func (dispatcher *Dispatcher) OnAcknowledge(handler func()) {
	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	dispatcher.onAcknowledge = handler
}

// UpdateConfig replaces channel toggles and the durations used in messages.
func (dispatcher *Dispatcher) UpdateConfig(config model.AlertConfig, sessionConfig model.SessionConfig) {
	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	dispatcher.config = config
	dispatcher.session = sessionConfig.Normalize()
}

// DisableNotifications turns the notification channel off for the rest of
// the process, e.g. when permission was denied.
func (dispatcher *Dispatcher) DisableNotifications(reason error) {
	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	dispatcher.notificationsReason = reason
	dispatcher.logger.Warn("notifications disabled", slog.Any("reason", reason))
}

// NotifyPhaseComplete fires every enabled channel and returns immediately.
func (dispatcher *Dispatcher) NotifyPhaseComplete(kind session.CompletionKind, sessionsToday int) {
	dispatcher.mu.Lock()
	config := dispatcher.config
	notificationsAllowed := dispatcher.notificationsReason == nil
	acknowledge := dispatcher.onAcknowledge
	title, body := Message(kind, sessionsToday, dispatcher.session)
	dispatcher.mu.Unlock()

	logger := dispatcher.logger.With(slog.String("kind", string(kind)))
	logger.Info("phase complete", slog.Int("sessions_today", sessionsToday))

	if config.Notifications && notificationsAllowed && dispatcher.channels.Notifier != nil {
		notification := Notification{Title: title, Body: body, PlaySound: config.Sound}
		dispatcher.fire(logger, "notification", func() error {
			return dispatcher.channels.Notifier.Notify(notification)
		})
	}

	if dispatcher.channels.Confirmer != nil {
		prompt := Prompt{
			Title: title,
			Body:  body,
			Actions: []Action{{
				Label: actionLabel(kind),
				Run: func() {
					if acknowledge != nil {
						acknowledge()
					}
				},
			}},
		}
		dispatcher.fire(logger, "prompt", func() error {
			return dispatcher.channels.Confirmer.Confirm(prompt)
		})
	}

	if config.Vibration && dispatcher.channels.Vibrator != nil {
		pattern := PatternFor(kind)
		dispatcher.fire(logger, "vibration", func() error {
			return dispatcher.channels.Vibrator.Vibrate(pattern)
		})
	}

	if config.Sound && dispatcher.channels.Sound != nil {
		dispatcher.fire(logger, "sound", dispatcher.channels.Sound.Play)
	}
}

func (dispatcher *Dispatcher) fire(logger *slog.Logger, channel string, send func() error) {
	dispatcher.async(func() {
		defer func() {
			if recovered := recover(); recovered != nil {
				logger.Error("alert channel panicked", slog.String("channel", channel), slog.Any("panic", recovered))
			}
		}()
		if err := send(); err != nil {
			logger.Warn("alert channel failed", slog.String("channel", channel), slog.Any("error", err))
		}
	})
}

// PatternFor returns the vibration pattern of a completion kind.
func PatternFor(kind session.CompletionKind) Pattern {
	if kind == session.SittingDone {
		return MovePattern
	}
	return DonePattern
}

// Message returns the title and body shown for a completion.
func Message(kind session.CompletionKind, sessionsToday int, config model.SessionConfig) (string, string) {
	if kind == session.SittingDone {
		return "Time to move!", fmt.Sprintf(
			"You've been sitting for a while. Stand up and move for the next %s.",
			humanMinutes(config.ActivityDuration),
		)
	}

	body := fmt.Sprintf("Break complete. Sessions today: %d", sessionsToday)
	if config.DailyGoal > 0 && sessionsToday == config.DailyGoal {
		body += fmt.Sprintf(" (daily goal of %d reached!)", config.DailyGoal)
	}
	return "Well done!", body
}

func actionLabel(kind session.CompletionKind) string {
	if kind == session.SittingDone {
		return "Start break"
	}
	return "Back to work"
}

func humanMinutes(duration time.Duration) string {
	minutes := int(duration / time.Minute)
	seconds := int(duration % time.Minute / time.Second)
	switch {
	case minutes == 0:
		return plural(seconds, "second")
	case seconds == 0 && minutes == 1:
		return "minute"
	case seconds == 0:
		return plural(minutes, "minute")
	default:
		return plural(minutes, "minute") + " " + plural(seconds, "second")
	}
}

func plural(count int, unit string) string {
	if count == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", count, unit)
}
