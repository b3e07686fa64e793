package timerview

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"

	"sitless/internal/core/progress"
	"sitless/internal/core/session"
)

func TestFormatDuration(t *testing.T) {
	cases := map[time.Duration]string{
		-time.Second:                   "00:00",
		0:                              "00:00",
		59 * time.Second:               "00:59",
		50 * time.Minute:               "50:00",
		49*time.Minute + 5*time.Second: "49:05",
		90 * time.Minute:               "90:00",
		1500 * time.Millisecond:        "00:01",
	}
	for input, want := range cases {
		assert.Equal(t, want, FormatDuration(input), input.String())
	}
}

func TestStatusLine(t *testing.T) {
	running := session.Snapshot{Phase: session.PhaseSitting, Remaining: 12 * time.Minute, Running: true}
	assert.Equal(t, "Sitting 12:00", StatusLine(running))

	paused := session.Snapshot{Phase: session.PhaseActivity, Remaining: 10 * time.Minute}
	assert.Equal(t, "Move! 10:00 (paused)", StatusLine(paused))
}

func TestGoalLine(t *testing.T) {
	assert.Equal(t, "Today: 3 of 8 sessions", GoalLine(3, 8))
	assert.Equal(t, "Today: 8 of 8 sessions, goal reached", GoalLine(8, 8))
}

func TestRenderReflectsSnapshot(t *testing.T) {
	app := test.NewTempApp(t)
	var started, paused, reset int
	view := New(app, Callbacks{
		OnStart: func() { started++ },
		OnPause: func() { paused++ },
		OnReset: func() { reset++ },
	})

	view.renderUnsafe(session.Snapshot{
		Phase:     session.PhaseActivity,
		Remaining: 4 * time.Minute,
		Total:     10 * time.Minute,
		Running:   true,
		Cycle:     2,
		Progress:  progress.DailyProgress{Date: "2026-10-18", SessionsCompleted: 3},
		DailyGoal: 8,
	})

	assert.Equal(t, "Move!", view.phaseLabel.Text)
	assert.Equal(t, "04:00", view.timerLabel.Text)
	assert.InDelta(t, 0.6, view.phaseBar.Value, 0.0001)
	assert.Equal(t, "Cycle 2", view.cycleLabel.Text)
	assert.Equal(t, "Today: 3 of 8 sessions", view.goalLabel.Text)
	assert.Equal(t, 3.0, view.goalBar.Value)
	assert.Equal(t, 8.0, view.goalBar.Max)
	assert.True(t, view.startButton.Disabled())
	assert.False(t, view.pauseButton.Disabled())

	test.Tap(view.pauseButton)
	test.Tap(view.resetButton)
	assert.Equal(t, 1, paused)
	assert.Equal(t, 1, reset)

	view.renderUnsafe(session.Snapshot{Phase: session.PhaseSitting, Remaining: 50 * time.Minute, Total: 50 * time.Minute, DailyGoal: 8})
	assert.Equal(t, "Sitting", view.phaseLabel.Text)
	assert.False(t, view.startButton.Disabled())
	assert.True(t, view.pauseButton.Disabled())
	test.Tap(view.startButton)
	assert.Equal(t, 1, started)
}

func TestRenderClampsGoalBar(t *testing.T) {
	app := test.NewTempApp(t)
	view := New(app, Callbacks{})

	view.renderUnsafe(session.Snapshot{Progress: progress.DailyProgress{SessionsCompleted: 11}, DailyGoal: 8})

	assert.Equal(t, 8.0, view.goalBar.Value)
	assert.Zero(t, view.phaseBar.Value)
}
