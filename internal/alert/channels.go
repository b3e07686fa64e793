package alert

import "time"

//go:generate mockgen -source=channels.go -destination=mock_channels_test.go -package=alert

// Notification is a local, immediate desktop notification.
type Notification struct {
	Title     string
	Body      string
	PlaySound bool
}

// Notifier delivers notifications.
type Notifier interface {
	Notify(notification Notification) error
}

// Action is a labeled button of a Prompt.
type Action struct {
	Label string
	Run   func()
}

// Prompt is a modal that blocks the user, not the caller.
type Prompt struct {
	Title   string
	Body    string
	Actions []Action
}

// Confirmer presents prompts.
type Confirmer interface {
	Confirm(prompt Prompt) error
}

// Pulse is one on/off step of a vibration pattern.
type Pulse struct {
	On  time.Duration
	Off time.Duration
}

// Pattern is an ordered sequence of pulses.
type Pattern []Pulse

// Duration returns the total length of the pattern.
func (pattern Pattern) Duration() time.Duration {
	var total time.Duration
	for _, pulse := range pattern {
		total += pulse.On + pulse.Off
	}
	return total
}

var (
	// MovePattern is three short pulses: time to get up.
	MovePattern = Pattern{
		{On: 400 * time.Millisecond, Off: 200 * time.Millisecond},
		{On: 400 * time.Millisecond, Off: 200 * time.Millisecond},
		{On: 400 * time.Millisecond},
	}
	// DonePattern is a single pulse: break finished.
	DonePattern = Pattern{
		{On: 600 * time.Millisecond},
	}
)

// Vibrator plays a pulse pattern on whatever haptic or visual channel the
// device offers.
type Vibrator interface {
	Vibrate(pattern Pattern) error
}

// SoundPlayer plays the preloaded alert sound.
type SoundPlayer interface {
	Play() error
}
