// Package animation flashes the tray icon through a pulse pattern. It is the
// desktop stand-in for device vibration.
package animation

import (
	"context"
	"errors"
	"sync"
	"time"

	"fyne.io/fyne/v2"

	"sitless/internal/alert"
)

// ErrNoFrames is returned when the engine has nothing to show.
var ErrNoFrames = errors.New("animation: pulse frames are not configured")

// Engine alternates the tray icon between the pulse frame and the rest frame.
type Engine struct {
	mu        sync.Mutex
	config    Config
	frames    Frames
	rest      fyne.Resource
	update    func(fyne.Resource)
	cancel    context.CancelFunc
	pulsing   bool
	runPulses func(context.Context, alert.Pattern)
}

var _ alert.Vibrator = (*Engine)(nil)

// New creates a pulse engine. update receives every frame change.
func New(config Config, frames Frames, update func(fyne.Resource)) *Engine {
	engine := &Engine{
		config: config,
		frames: frames,
		rest:   frames.Rest,
		update: update,
	}
	engine.runPulses = engine.Play
	return engine
}

// Vibrate starts pattern in the background, replacing any pattern in flight.
func (engine *Engine) Vibrate(pattern alert.Pattern) error {
	if engine.frames.Pulse == nil || engine.update == nil {
		return ErrNoFrames
	}
	engine.start(context.Background(), func(runCtx context.Context) {
		engine.runPulses(runCtx, pattern)
	})
	return nil
}

// Play runs pattern synchronously and restores the rest frame when it ends
// or ctx is cancelled.
func (engine *Engine) Play(ctx context.Context, pattern alert.Pattern) {
	engine.setPulsing(true)
	defer func() {
		engine.setPulsing(false)
		engine.show(engine.restFrame())
	}()

	deadline := time.Now().Add(engine.config.MaxDuration)
	for _, pulse := range pattern {
		if engine.config.MaxDuration > 0 && time.Now().After(deadline) {
			return
		}
		engine.show(engine.frames.Pulse)
		if !sleepWithContext(ctx, engine.clamp(pulse.On)) {
			return
		}
		if pulse.Off <= 0 {
			continue
		}
		engine.show(engine.frames.Dim)
		if !sleepWithContext(ctx, engine.clamp(pulse.Off)) {
			return
		}
	}
}

// SetRest changes the frame shown between patterns. It is applied at once
// unless a pattern is running.
func (engine *Engine) SetRest(resource fyne.Resource) {
	engine.mu.Lock()
	engine.rest = resource
	pulsing := engine.pulsing
	engine.mu.Unlock()
	if !pulsing {
		engine.show(resource)
	}
}

// Stop terminates any active pattern.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.cancel != nil {
		engine.cancel()
		engine.cancel = nil
	}
}

func (engine *Engine) start(parent context.Context, run func(context.Context)) {
	engine.mu.Lock()
	if engine.cancel != nil {
		engine.cancel()
	}
	runCtx, cancel := context.WithCancel(parent)
	engine.cancel = cancel
	engine.mu.Unlock()

	go run(runCtx)
}

func (engine *Engine) setPulsing(value bool) {
	engine.mu.Lock()
	engine.pulsing = value
	engine.mu.Unlock()
}

func (engine *Engine) restFrame() fyne.Resource {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.rest
}

func (engine *Engine) show(resource fyne.Resource) {
	if resource == nil || engine.update == nil {
		return
	}
	engine.update(resource)
}

func (engine *Engine) clamp(duration time.Duration) time.Duration {
	if duration < engine.config.MinPulse {
		return engine.config.MinPulse
	}
	return duration
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
