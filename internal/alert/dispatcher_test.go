package alert

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"sitless/internal/core/model"
	"sitless/internal/core/session"
)

type mocks struct {
	notifier  *MockNotifier
	confirmer *MockConfirmer
	vibrator  *MockVibrator
	sound     *MockSoundPlayer
}

func newDispatcher(t *testing.T, config model.AlertConfig) (*Dispatcher, mocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := mocks{
		notifier:  NewMockNotifier(ctrl),
		confirmer: NewMockConfirmer(ctrl),
		vibrator:  NewMockVibrator(ctrl),
		sound:     NewMockSoundPlayer(ctrl),
	}
	dispatcher := New(Channels{
		Notifier:  m.notifier,
		Confirmer: m.confirmer,
		Vibrator:  m.vibrator,
		Sound:     m.sound,
	}, config, model.DefaultSessionConfig(), Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Async:  func(task func()) { task() },
	})
	return dispatcher, m
}

var allChannels = model.AlertConfig{Notifications: true, Sound: true, Vibration: true}

func TestSittingDoneFiresEveryChannel(t *testing.T) {
	dispatcher, m := newDispatcher(t, allChannels)
	acknowledged := 0
	dispatcher.OnAcknowledge(func() { acknowledged++ })

	m.notifier.EXPECT().Notify(Notification{
		Title:     "Time to move!",
		Body:      "You've been sitting for a while. Stand up and move for the next 10 minutes.",
		PlaySound: true,
	}).Return(nil)
	m.confirmer.EXPECT().Confirm(gomock.Any()).DoAndReturn(func(prompt Prompt) error {
		require.Len(t, prompt.Actions, 1)
		assert.Equal(t, "Start break", prompt.Actions[0].Label)
		assert.Equal(t, "Time to move!", prompt.Title)
		prompt.Actions[0].Run()
		return nil
	})
	m.vibrator.EXPECT().Vibrate(MovePattern).Return(nil)
	m.sound.EXPECT().Play().Return(nil)

	dispatcher.NotifyPhaseComplete(session.SittingDone, 0)

	assert.Equal(t, 1, acknowledged)
}

func TestActivityDoneUsesSinglePulseAndCount(t *testing.T) {
	dispatcher, m := newDispatcher(t, allChannels)

	m.notifier.EXPECT().Notify(Notification{
		Title:     "Well done!",
		Body:      "Break complete. Sessions today: 3",
		PlaySound: true,
	}).Return(nil)
	m.confirmer.EXPECT().Confirm(gomock.Any()).Return(nil)
	m.vibrator.EXPECT().Vibrate(DonePattern).Return(nil)
	m.sound.EXPECT().Play().Return(nil)

	dispatcher.NotifyPhaseComplete(session.ActivityDone, 3)
}

func TestFailingChannelsDoNotStopOthers(t *testing.T) {
	dispatcher, m := newDispatcher(t, allChannels)

	m.notifier.EXPECT().Notify(gomock.Any()).Return(errors.New("dbus unavailable"))
	m.confirmer.EXPECT().Confirm(gomock.Any()).DoAndReturn(func(Prompt) error {
		panic("no window")
	})
	m.vibrator.EXPECT().Vibrate(gomock.Any()).Return(errors.New("no haptics"))
	m.sound.EXPECT().Play().Return(errors.New("no audio device"))

	assert.NotPanics(t, func() {
		dispatcher.NotifyPhaseComplete(session.SittingDone, 1)
	})
}

func TestDisabledChannelsAreSkipped(t *testing.T) {
	dispatcher, m := newDispatcher(t, model.AlertConfig{})

	m.confirmer.EXPECT().Confirm(gomock.Any()).Return(nil)

	dispatcher.NotifyPhaseComplete(session.ActivityDone, 1)
}

func TestDisableNotificationsDegradesToOtherChannels(t *testing.T) {
	dispatcher, m := newDispatcher(t, allChannels)
	dispatcher.DisableNotifications(errors.New("permission denied"))

	m.confirmer.EXPECT().Confirm(gomock.Any()).Return(nil)
	m.vibrator.EXPECT().Vibrate(MovePattern).Return(nil)
	m.sound.EXPECT().Play().Return(nil)

	dispatcher.NotifyPhaseComplete(session.SittingDone, 0)
}

func TestUpdateConfigChangesMessageAndToggles(t *testing.T) {
	dispatcher, m := newDispatcher(t, allChannels)
	dispatcher.UpdateConfig(model.AlertConfig{Notifications: true}, model.SessionConfig{
		SittingDuration:  30 * time.Minute,
		ActivityDuration: 5 * time.Minute,
	})

	m.notifier.EXPECT().Notify(Notification{
		Title: "Time to move!",
		Body:  "You've been sitting for a while. Stand up and move for the next 5 minutes.",
	}).Return(nil)
	m.confirmer.EXPECT().Confirm(gomock.Any()).Return(nil)

	dispatcher.NotifyPhaseComplete(session.SittingDone, 0)
}

func TestNilChannelsAreIgnored(t *testing.T) {
	dispatcher := New(Channels{}, allChannels, model.DefaultSessionConfig(), Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Async:  func(task func()) { task() },
	})

	assert.NotPanics(t, func() {
		dispatcher.NotifyPhaseComplete(session.ActivityDone, 2)
	})
}

func TestMessage(t *testing.T) {
	config := model.DefaultSessionConfig()

	title, body := Message(session.ActivityDone, 8, config)
	assert.Equal(t, "Well done!", title)
	assert.Equal(t, "Break complete. Sessions today: 8 (daily goal of 8 reached!)", body)

	config.ActivityDuration = 45 * time.Second
	_, body = Message(session.SittingDone, 0, config)
	assert.Equal(t, "You've been sitting for a while. Stand up and move for the next 45 seconds.", body)

	config.ActivityDuration = time.Minute
	_, body = Message(session.SittingDone, 0, config)
	assert.Equal(t, "You've been sitting for a while. Stand up and move for the next minute.", body)
}

func TestHumanMinutesKeepsLeftoverSeconds(t *testing.T) {
	cases := map[time.Duration]string{
		time.Second:                     "1 second",
		45 * time.Second:                "45 seconds",
		time.Minute:                     "minute",
		time.Minute + time.Second:       "1 minute 1 second",
		90 * time.Second:                "1 minute 30 seconds",
		119 * time.Second:               "1 minute 59 seconds",
		10 * time.Minute:                "10 minutes",
		10*time.Minute + 30*time.Second: "10 minutes 30 seconds",
	}
	for input, want := range cases {
		assert.Equal(t, want, humanMinutes(input), input.String())
	}
}

func TestPatterns(t *testing.T) {
	assert.Len(t, PatternFor(session.SittingDone), 3)
	assert.Len(t, PatternFor(session.ActivityDone), 1)
	assert.Equal(t, 1600*time.Millisecond, MovePattern.Duration())
}
