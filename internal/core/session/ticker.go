package session

import (
	"sync"
	"time"
)

// Ticker delivers one callback per interval while armed.
type Ticker interface {
	Arm(onTick func())
	Disarm()
}

// IntervalTicker is a Ticker backed by time.Ticker. Every Arm starts a new
// goroutine that exits as soon as it is disarmed.
type IntervalTicker struct {
	mu       sync.Mutex
	interval time.Duration
	stopCh   chan struct{}
}

// NewIntervalTicker creates a disarmed ticker. Non-positive intervals default
// to one second.
func NewIntervalTicker(interval time.Duration) *IntervalTicker {
	if interval <= 0 {
		interval = time.Second
	}
	return &IntervalTicker{interval: interval}
}

// Arm starts ticking. An already armed ticker is disarmed first.
func (ticker *IntervalTicker) Arm(onTick func()) {
	ticker.mu.Lock()
	defer ticker.mu.Unlock()
	ticker.disarmLocked()

	stopCh := make(chan struct{})
	ticker.stopCh = stopCh
	go ticker.run(stopCh, onTick)
}

// Disarm stops ticking. Safe to call when not armed.
func (ticker *IntervalTicker) Disarm() {
	ticker.mu.Lock()
	defer ticker.mu.Unlock()
	ticker.disarmLocked()
}

// Armed reports whether a tick goroutine is active.
func (ticker *IntervalTicker) Armed() bool {
	ticker.mu.Lock()
	defer ticker.mu.Unlock()
	return ticker.stopCh != nil
}

func (ticker *IntervalTicker) disarmLocked() {
	if ticker.stopCh == nil {
		return
	}
	close(ticker.stopCh)
	ticker.stopCh = nil
}

func (ticker *IntervalTicker) run(stopCh <-chan struct{}, onTick func()) {
	timeTicker := time.NewTicker(ticker.interval)
	defer timeTicker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-timeTicker.C:
			select {
			case <-stopCh:
				return
			default:
			}
			onTick()
		}
	}
}
