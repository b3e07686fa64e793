// Package timerview renders the countdown window.
package timerview

import (
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"sitless/internal/core/session"
)

var (
	sittingColor  = color.NRGBA{R: 66, G: 133, B: 244, A: 255}
	activityColor = color.NRGBA{R: 52, G: 168, B: 83, A: 255}
)

// Callbacks defines the control handlers.
type Callbacks struct {
	OnStart func()
	OnPause func()
	OnReset func()
}

// Window shows the current phase, the countdown and today's progress.
type Window struct {
	window      fyne.Window
	phaseLabel  *canvas.Text
	timerLabel  *canvas.Text
	phaseBar    *widget.ProgressBar
	cycleLabel  *widget.Label
	goalLabel   *widget.Label
	goalBar     *widget.ProgressBar
	startButton *widget.Button
	pauseButton *widget.Button
	resetButton *widget.Button
	callbacks   Callbacks
}

// New creates the timer window. It starts hidden.
func New(app fyne.App, callbacks Callbacks) *Window {
	window := app.NewWindow("Sitless")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	phaseLabel := canvas.NewText(PhaseTitle(session.PhaseSitting), sittingColor)
	phaseLabel.Alignment = fyne.TextAlignCenter
	phaseLabel.TextStyle = fyne.TextStyle{Bold: true}
	phaseLabel.TextSize = 20

	timerLabel := canvas.NewText("--:--", sittingColor)
	timerLabel.Alignment = fyne.TextAlignCenter
	timerLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timerLabel.TextSize = 48

	phaseBar := widget.NewProgressBar()
	phaseBar.TextFormatter = func() string { return "" }

	cycleLabel := widget.NewLabel("")
	cycleLabel.Alignment = fyne.TextAlignCenter
	goalLabel := widget.NewLabel("")
	goalBar := widget.NewProgressBar()

	view := &Window{
		window:     window,
		phaseLabel: phaseLabel,
		timerLabel: timerLabel,
		phaseBar:   phaseBar,
		cycleLabel: cycleLabel,
		goalLabel:  goalLabel,
		goalBar:    goalBar,
		callbacks:  callbacks,
	}

	view.startButton = widget.NewButton("Start", func() {
		if view.callbacks.OnStart != nil {
			view.callbacks.OnStart()
		}
	})
	view.startButton.Importance = widget.HighImportance
	view.pauseButton = widget.NewButton("Pause", func() {
		if view.callbacks.OnPause != nil {
			view.callbacks.OnPause()
		}
	})
	view.resetButton = widget.NewButton("Reset", func() {
		if view.callbacks.OnReset != nil {
			view.callbacks.OnReset()
		}
	})

	buttons := container.NewHBox(layout.NewSpacer(), view.startButton, view.pauseButton, view.resetButton, layout.NewSpacer())
	content := container.NewVBox(
		phaseLabel,
		timerLabel,
		phaseBar,
		cycleLabel,
		buttons,
		widget.NewSeparator(),
		goalLabel,
		goalBar,
	)
	window.SetContent(container.NewPadded(content))
	window.Resize(fyne.NewSize(340, 320))
	window.SetCloseIntercept(window.Hide)

	return view
}

// Show brings the window to front.
func (view *Window) Show() {
	fyne.Do(func() {
		view.window.Show()
		view.window.RequestFocus()
	})
}

// Window exposes the underlying window, e.g. as a dialog parent.
func (view *Window) Window() fyne.Window {
	return view.window
}

// Hide hides the window without stopping the countdown.
func (view *Window) Hide() {
	fyne.Do(view.window.Hide)
}

// Render updates every widget from snapshot on the UI goroutine.
func (view *Window) Render(snapshot session.Snapshot) {
	fyne.Do(func() {
		view.renderUnsafe(snapshot)
	})
}

func (view *Window) renderUnsafe(snapshot session.Snapshot) {
	phaseColor := colorFor(snapshot.Phase)

	view.phaseLabel.Text = PhaseTitle(snapshot.Phase)
	view.phaseLabel.Color = phaseColor
	view.phaseLabel.Refresh()

	view.timerLabel.Text = FormatDuration(snapshot.Remaining)
	view.timerLabel.Color = phaseColor
	view.timerLabel.Refresh()

	view.phaseBar.SetValue(elapsedFraction(snapshot))
	view.cycleLabel.SetText(fmt.Sprintf("Cycle %d", snapshot.Cycle))

	done := snapshot.Progress.SessionsCompleted
	view.goalLabel.SetText(GoalLine(done, snapshot.DailyGoal))
	view.goalBar.Max = float64(max(snapshot.DailyGoal, 1))
	view.goalBar.SetValue(float64(min(done, snapshot.DailyGoal)))

	if snapshot.Running {
		view.startButton.Disable()
		view.pauseButton.Enable()
	} else {
		view.startButton.Enable()
		view.pauseButton.Disable()
	}
}

// FormatDuration renders value as mm:ss. Values of an hour or more keep
// counting minutes.
func FormatDuration(value time.Duration) string {
	if value < 0 {
		value = 0
	}
	seconds := int(value.Seconds())
	minutes := seconds / 60
	seconds = seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// PhaseTitle is the human label of phase.
func PhaseTitle(phase session.Phase) string {
	switch phase {
	case session.PhaseActivity:
		return "Move!"
	default:
		return "Sitting"
	}
}

// GoalLine summarizes today's sessions against the goal.
func GoalLine(done, goal int) string {
	if goal > 0 && done >= goal {
		return fmt.Sprintf("Today: %d of %d sessions, goal reached", done, goal)
	}
	return fmt.Sprintf("Today: %d of %d sessions", done, goal)
}

// StatusLine is the one-line summary shown in the tray menu.
func StatusLine(snapshot session.Snapshot) string {
	status := fmt.Sprintf("%s %s", PhaseTitle(snapshot.Phase), FormatDuration(snapshot.Remaining))
	if !snapshot.Running {
		status += " (paused)"
	}
	return status
}

func colorFor(phase session.Phase) color.Color {
	if phase == session.PhaseActivity {
		return activityColor
	}
	return sittingColor
}

func elapsedFraction(snapshot session.Snapshot) float64 {
	if snapshot.Total <= 0 {
		return 0
	}
	elapsed := snapshot.Total - snapshot.Remaining
	if elapsed < 0 {
		elapsed = 0
	}
	return float64(elapsed) / float64(snapshot.Total)
}
