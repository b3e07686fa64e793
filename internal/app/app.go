// Package app wires the session machine, alert channels, storage and the Fyne
// user interface into the desktop application.
package app

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"

	"sitless/internal/alert"
	"sitless/internal/audio"
	"sitless/internal/config"
	"sitless/internal/core/progress"
	"sitless/internal/core/session"
	"sitless/internal/logging"
	"sitless/internal/platform"
	"sitless/internal/storage"
	"sitless/internal/ui/animation"
	"sitless/internal/ui/notify"
	"sitless/internal/ui/preferences"
	"sitless/internal/ui/timerview"
	"sitless/internal/ui/tray"
	"sitless/resources"
)

const appID = "io.sitless.app"

// Run starts the desktop app and blocks until it quits.
func Run(cfg config.Config, logger *slog.Logger) error {
	guard, err := platform.AcquireSingleInstance(config.AppName)
	if err != nil {
		return fmt.Errorf("single instance: %w", err)
	}
	defer func() {
		_ = guard.Release()
	}()

	store, err := storage.OpenSQLite(cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("close storage", slog.Any("error", err))
		}
	}()

	settings, err := storage.LoadSettings(cfg.DataDir)
	if err != nil {
		logger.Warn("load settings, using defaults", slog.Any("error", err))
	}

	fyneApp := fyneapp.NewWithID(appID)
	activeIcon := resources.MustLogo("active.png")
	pausedIcon := resources.MustLogo("paused.png")
	alertIcon := resources.MustLogo("alert.png")
	fyneApp.SetIcon(activeIcon)

	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		logger.Info("system tray unsupported on this platform, running windowed")
	}

	gateway := progress.NewGateway(store, time.Now, logging.Component(logger, "progress"))

	var machine *session.Machine
	ctrl := &controller{
		settings: settings,
		saveSettings: func(updated preferences.Settings) error {
			return storage.SaveSettings(cfg.DataDir, updated)
		},
		setAutostart: func(enabled bool) error {
			return platform.SetAutostart(platform.NewService(), config.AppName, enabled)
		},
		logger: logging.Component(logger, "controller"),
	}

	timerWindow := timerview.New(fyneApp, timerview.Callbacks{
		OnStart: func() { machine.Start() },
		OnPause: func() { machine.Pause() },
		OnReset: func() { machine.Reset() },
	})

	var trayManager *tray.Manager
	var prefsWindow *preferences.Window
	trayManager = tray.New(desktopApp, tray.Callbacks{
		OnToggleRunning: ctrl.ToggleRunning,
		OnReset:         func() { machine.Reset() },
		OnShowTimer:     timerWindow.Show,
		OnPreferences:   func() { prefsWindow.Show() },
		OnQuit:          fyneApp.Quit,
	})

	pulse := animation.New(animation.DefaultConfig(), animation.Frames{
		Pulse: alertIcon,
		Dim:   pausedIcon,
		Rest:  pausedIcon,
	}, func(resource fyne.Resource) {
		fyne.Do(func() { trayManager.SetIcon(resource) })
	})
	pulse.SetRest(pausedIcon)

	dispatcher := alert.New(alert.Channels{
		Notifier:  notify.NewNotifier(fyneApp),
		Confirmer: notify.NewConfirmer(timerWindow.Window),
		Vibrator:  pulse,
		Sound:     loadSound(logger),
	}, settings.AlertConfig(), settings.SessionConfig(), alert.Options{
		Logger: logging.Component(logger, "alert"),
	})
	ctrl.alerts = dispatcher

	notificationsErr := platform.NotificationsAvailable()
	if notificationsErr != nil {
		dispatcher.DisableNotifications(notificationsErr)
	}

	machine = session.New(settings.SessionConfig(), session.Deps{
		Ticker:   session.NewIntervalTicker(cfg.TickInterval),
		Alerter:  dispatcher,
		Progress: gateway,
		History:  store,
		Logger:   logging.Component(logger, "session"),
	})
	defer machine.Close()
	ctrl.machine = machine
	dispatcher.OnAcknowledge(machine.Start)

	idleGuard := NewIdleGuard(platform.NewIdleProvider(), machine, settings.IdleConfig(), logging.Component(logger, "idle"))
	ctrl.idle = idleGuard

	prefsWindow = preferences.New(fyneApp, settings, ctrl.Save)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := storage.WatchSettings(ctx, cfg.DataDir, logging.Component(logger, "settings"), func(updated preferences.Settings) {
		ctrl.Apply(updated)
		fyne.Do(func() { prefsWindow.UpdateSettings(updated) })
	}); err != nil {
		logger.Warn("watch settings", slog.Any("error", err))
	}

	events := machine.Subscribe(16)
	go func() {
		var running runningEdge
		for event := range events {
			snapshot := event.Snapshot
			timerWindow.Render(snapshot)
			fyne.Do(func() {
				trayManager.SetStatus(timerview.StatusLine(snapshot))
				trayManager.SetRunning(snapshot.Running)
			})
			if running.changed(snapshot.Running) {
				if snapshot.Running {
					pulse.SetRest(activeIcon)
				} else {
					pulse.SetRest(pausedIcon)
				}
			}
			if event.Type == session.EventTick {
				idleGuard.Observe(snapshot)
			}
		}
	}()

	fyneApp.Lifecycle().SetOnStarted(func() {
		snapshot := machine.Snapshot()
		timerWindow.Render(snapshot)
		trayManager.SetStatus(timerview.StatusLine(snapshot))
		timerWindow.Show()
		if notificationsErr != nil {
			dialog.ShowInformation(
				"Notifications unavailable",
				"Sitless will remind you in this window instead of the system notification area.",
				timerWindow.Window(),
			)
		}
	})

	logger.Info("sitless started", slog.String("data_dir", cfg.DataDir))
	fyneApp.Run()
	pulse.Stop()
	logger.Info("sitless stopped")
	return nil
}

func loadSound(logger *slog.Logger) alert.SoundPlayer {
	data, err := resources.Sound("chime.wav")
	if err != nil {
		logger.Warn("load alert sound", slog.Any("error", err))
		return nil
	}
	player := audio.NewPlayer()
	clip, err := player.Preload(bytes.NewReader(data))
	if err != nil {
		logger.Warn("decode alert sound", slog.Any("error", err))
		return nil
	}
	return audio.Sound{Player: player, Clip: clip}
}
