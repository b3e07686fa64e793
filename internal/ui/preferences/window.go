package preferences

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window        fyne.Window
	settings      Settings
	onSave        func(Settings)
	sitting       *widget.Entry
	activity      *widget.Entry
	goal          *widget.Entry
	notifications *widget.Check
	sound         *widget.Check
	vibration     *widget.Check
	idleRestart   *widget.Check
	idleMinutes   *widget.Entry
	launchAtLogin *widget.Check
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Sitless Settings")

	prefs := &Window{
		window:        window,
		settings:      settings,
		onSave:        onSave,
		sitting:       widget.NewEntry(),
		activity:      widget.NewEntry(),
		goal:          widget.NewEntry(),
		notifications: widget.NewCheck("Show notifications", nil),
		sound:         widget.NewCheck("Play sound", nil),
		vibration:     widget.NewCheck("Flash tray icon", nil),
		idleRestart:   widget.NewCheck("Restart sitting timer after idle", nil),
		idleMinutes:   widget.NewEntry(),
		launchAtLogin: widget.NewCheck("Launch at login", nil),
	}
	prefs.idleRestart.OnChanged = prefs.syncIdleMinutes
	prefs.fill(settings)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Sit for"), prefs.sitting, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Move for"), prefs.activity, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Daily goal"), prefs.goal, widget.NewLabel("sessions")),
		widget.NewLabelWithStyle("Alerts", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.notifications,
		prefs.sound,
		prefs.vibration,
		widget.NewLabelWithStyle("System", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.idleRestart,
		container.NewHBox(widget.NewLabel("Idle for"), prefs.idleMinutes, widget.NewLabel("min")),
		prefs.launchAtLogin,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	saveButton.Importance = widget.HighImportance
	cancelButton := widget.NewButton("Cancel", prefs.handleCancel)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(380, 460))
	window.SetCloseIntercept(prefs.handleCancel)

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values, e.g. after the file changed on disk.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.fill(settings)
}

func (prefs *Window) fill(settings Settings) {
	prefs.sitting.SetText(formatMinutes(settings.SittingDuration))
	prefs.activity.SetText(formatMinutes(settings.ActivityDuration))
	prefs.goal.SetText(strconv.Itoa(settings.DailyGoal))
	prefs.notifications.SetChecked(settings.Notifications)
	prefs.sound.SetChecked(settings.Sound)
	prefs.vibration.SetChecked(settings.Vibration)
	prefs.idleMinutes.SetText(formatMinutes(settings.IdleRestartAfter))
	prefs.idleRestart.SetChecked(settings.IdleRestart)
	prefs.syncIdleMinutes(settings.IdleRestart)
	prefs.launchAtLogin.SetChecked(settings.LaunchAtLogin)
}

func (prefs *Window) syncIdleMinutes(enabled bool) {
	if enabled {
		prefs.idleMinutes.Enable()
		return
	}
	prefs.idleMinutes.Disable()
}

// handleCancel drops unsaved edits so the next Show starts from the stored values.
func (prefs *Window) handleCancel() {
	prefs.fill(prefs.settings)
	prefs.window.Hide()
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if minutes, ok := parsePositiveInt(prefs.sitting.Text); ok {
		settings.SittingDuration = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parsePositiveInt(prefs.activity.Text); ok {
		settings.ActivityDuration = time.Duration(minutes) * time.Minute
	}
	if goal, ok := parsePositiveInt(prefs.goal.Text); ok {
		settings.DailyGoal = goal
	}
	if minutes, ok := parsePositiveInt(prefs.idleMinutes.Text); ok {
		settings.IdleRestartAfter = time.Duration(minutes) * time.Minute
	}

	settings.Notifications = prefs.notifications.Checked
	settings.Sound = prefs.sound.Checked
	settings.Vibration = prefs.vibration.Checked
	settings.IdleRestart = prefs.idleRestart.Checked
	settings.LaunchAtLogin = prefs.launchAtLogin.Checked

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func formatMinutes(duration time.Duration) string {
	return fmt.Sprintf("%d", int(duration.Minutes()))
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
