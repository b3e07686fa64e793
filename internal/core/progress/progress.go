// Package progress keeps the daily completed-session counter and its
// date-rollover rule on top of a string key-value store.
package progress

import (
	"context"
	"log/slog"
	"strconv"
	"time"
)

const (
	KeyLastSessionDate   = "lastSessionDate"
	KeyDailySessionCount = "dailySessionCount"

	dateLayout = "2006-01-02"
)

// DailyProgress is the number of activity sessions completed on Date.
type DailyProgress struct {
	Date              string
	SessionsCompleted int
}

// Store is a string-keyed persistence engine.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// BatchStore is a Store that can write several keys atomically.
type BatchStore interface {
	Store
	SetMany(ctx context.Context, values map[string]string) error
}

// DateKey returns the local calendar day of t.
func DateKey(t time.Time) string {
	return t.Local().Format(dateLayout)
}

// Rollover returns p unchanged when it belongs to today, otherwise a fresh
// zero counter for today.
func Rollover(p DailyProgress, today string) DailyProgress {
	if p.Date != today {
		return DailyProgress{Date: today}
	}
	if p.SessionsCompleted < 0 {
		p.SessionsCompleted = 0
	}
	return p
}

// Gateway reads and writes DailyProgress. Failures are logged and never
// returned: the in-memory counter stays authoritative.
type Gateway struct {
	store  Store
	now    func() time.Time
	logger *slog.Logger
}

// NewGateway creates a gateway over store. A nil now defaults to time.Now.
func NewGateway(store Store, now func() time.Time, logger *slog.Logger) *Gateway {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{store: store, now: now, logger: logger}
}

// Today returns today's date key.
func (gateway *Gateway) Today() string {
	return DateKey(gateway.now())
}

// LoadProgress returns today's progress. A missing, stale or unreadable record
// is reset to {today, 0} and written back immediately.
func (gateway *Gateway) LoadProgress(ctx context.Context) DailyProgress {
	today := gateway.Today()
	fresh := DailyProgress{Date: today}

	storedDate, found, err := gateway.store.Get(ctx, KeyLastSessionDate)
	if err != nil {
		gateway.logger.Warn("load progress date", slog.Any("error", err))
		return fresh
	}
	if !found || storedDate != today {
		gateway.SaveProgress(ctx, fresh)
		return fresh
	}

	rawCount, found, err := gateway.store.Get(ctx, KeyDailySessionCount)
	if err != nil {
		gateway.logger.Warn("load progress count", slog.Any("error", err))
		return fresh
	}
	count, parseErr := strconv.Atoi(rawCount)
	if !found || parseErr != nil || count < 0 {
		gateway.SaveProgress(ctx, fresh)
		return fresh
	}

	return DailyProgress{Date: today, SessionsCompleted: count}
}

// SaveProgress persists p. Both keys are written in one transaction when the
// store supports it. Otherwise the count goes first, so a failed date write
// leaves the old date in place and the stored count still rolls over.
func (gateway *Gateway) SaveProgress(ctx context.Context, p DailyProgress) {
	count := strconv.Itoa(p.SessionsCompleted)
	if batch, ok := gateway.store.(BatchStore); ok {
		err := batch.SetMany(ctx, map[string]string{
			KeyDailySessionCount: count,
			KeyLastSessionDate:   p.Date,
		})
		if err != nil {
			gateway.logger.Warn("save progress", slog.String("date", p.Date), slog.Int("count", p.SessionsCompleted), slog.Any("error", err))
		}
		return
	}

	if err := gateway.store.Set(ctx, KeyDailySessionCount, count); err != nil {
		gateway.logger.Warn("save progress count", slog.Int("count", p.SessionsCompleted), slog.Any("error", err))
		return
	}
	if err := gateway.store.Set(ctx, KeyLastSessionDate, p.Date); err != nil {
		gateway.logger.Warn("save progress date", slog.String("date", p.Date), slog.Any("error", err))
	}
}
