package animation

import "time"

// Config bounds pulse timing.
type Config struct {
	// MinPulse is the shortest on or off step the tray can show.
	MinPulse time.Duration
	// MaxDuration caps a single pattern. Zero disables the cap.
	MaxDuration time.Duration
}

// DefaultConfig returns defaults suited to a tray icon.
func DefaultConfig() Config {
	return Config{
		MinPulse:    50 * time.Millisecond,
		MaxDuration: 5 * time.Second,
	}
}
