package progress

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	values  map[string]string
	getErr  error
	setErr  error
	failKey string
	setKeys []string
}

func newMemStore() *memStore {
	return &memStore{values: map[string]string{}}
}

func (store *memStore) Get(_ context.Context, key string) (string, bool, error) {
	if store.getErr != nil {
		return "", false, store.getErr
	}
	value, ok := store.values[key]
	return value, ok, nil
}

func (store *memStore) Set(_ context.Context, key, value string) error {
	store.setKeys = append(store.setKeys, key)
	if store.setErr != nil {
		return store.setErr
	}
	if store.failKey == key {
		return errors.New("write " + key + " failed")
	}
	store.values[key] = value
	return nil
}

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 9, 30, 0, 0, time.Local)
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadProgressFirstLaunchPersistsFreshRecord(t *testing.T) {
	store := newMemStore()
	gateway := NewGateway(store, fixedClock(2026, time.October, 18), quietLogger())

	got := gateway.LoadProgress(context.Background())

	assert.Equal(t, DailyProgress{Date: "2026-10-18", SessionsCompleted: 0}, got)
	assert.Equal(t, "2026-10-18", store.values[KeyLastSessionDate])
	assert.Equal(t, "0", store.values[KeyDailySessionCount])
}

func TestLoadProgressSameDayKeepsCount(t *testing.T) {
	store := newMemStore()
	store.values[KeyLastSessionDate] = "2026-10-18"
	store.values[KeyDailySessionCount] = "5"
	gateway := NewGateway(store, fixedClock(2026, time.October, 18), quietLogger())

	got := gateway.LoadProgress(context.Background())

	assert.Equal(t, DailyProgress{Date: "2026-10-18", SessionsCompleted: 5}, got)
	assert.Empty(t, store.setKeys)
}

func TestLoadProgressNewDayResetsAndWritesBack(t *testing.T) {
	store := newMemStore()
	yesterday := NewGateway(store, fixedClock(2026, time.October, 17), quietLogger())
	yesterday.SaveProgress(context.Background(), DailyProgress{Date: "2026-10-17", SessionsCompleted: 6})

	today := NewGateway(store, fixedClock(2026, time.October, 18), quietLogger())
	got := today.LoadProgress(context.Background())

	assert.Equal(t, DailyProgress{Date: "2026-10-18"}, got)
	assert.Equal(t, "2026-10-18", store.values[KeyLastSessionDate])
	assert.Equal(t, "0", store.values[KeyDailySessionCount])
}

func TestLoadProgressCorruptCountIsReset(t *testing.T) {
	store := newMemStore()
	store.values[KeyLastSessionDate] = "2026-10-18"
	store.values[KeyDailySessionCount] = "many"
	gateway := NewGateway(store, fixedClock(2026, time.October, 18), quietLogger())

	got := gateway.LoadProgress(context.Background())

	assert.Equal(t, DailyProgress{Date: "2026-10-18"}, got)
	assert.Equal(t, "0", store.values[KeyDailySessionCount])
}

func TestLoadProgressStoreFailureFallsBackToToday(t *testing.T) {
	store := newMemStore()
	store.getErr = errors.New("disk gone")
	gateway := NewGateway(store, fixedClock(2026, time.October, 18), quietLogger())

	got := gateway.LoadProgress(context.Background())

	assert.Equal(t, DailyProgress{Date: "2026-10-18"}, got)
}

func TestSaveProgressFailureIsSwallowed(t *testing.T) {
	store := newMemStore()
	store.setErr = errors.New("read-only")
	gateway := NewGateway(store, fixedClock(2026, time.October, 18), quietLogger())

	require.NotPanics(t, func() {
		gateway.SaveProgress(context.Background(), DailyProgress{Date: "2026-10-18", SessionsCompleted: 1})
	})
	assert.Equal(t, []string{KeyDailySessionCount}, store.setKeys)
}

func TestPartialSaveNeverRevivesStaleCount(t *testing.T) {
	store := newMemStore()
	store.values[KeyLastSessionDate] = "2026-10-17"
	store.values[KeyDailySessionCount] = "6"
	store.failKey = KeyDailySessionCount
	ctx := context.Background()

	first := NewGateway(store, fixedClock(2026, time.October, 18), quietLogger())
	assert.Equal(t, DailyProgress{Date: "2026-10-18"}, first.LoadProgress(ctx))
	assert.Equal(t, "2026-10-17", store.values[KeyLastSessionDate])

	restarted := NewGateway(store, fixedClock(2026, time.October, 18), quietLogger())
	assert.Equal(t, DailyProgress{Date: "2026-10-18"}, restarted.LoadProgress(ctx))
}

func TestFailedDateWriteLeavesRolloverIntact(t *testing.T) {
	store := newMemStore()
	store.values[KeyLastSessionDate] = "2026-10-17"
	store.values[KeyDailySessionCount] = "6"
	store.failKey = KeyLastSessionDate
	ctx := context.Background()

	gateway := NewGateway(store, fixedClock(2026, time.October, 18), quietLogger())
	assert.Equal(t, DailyProgress{Date: "2026-10-18"}, gateway.LoadProgress(ctx))
	assert.Equal(t, DailyProgress{Date: "2026-10-18"}, gateway.LoadProgress(ctx))
}

type batchStore struct {
	*memStore
	batches []map[string]string
	err     error
}

func (store *batchStore) SetMany(_ context.Context, values map[string]string) error {
	store.batches = append(store.batches, values)
	if store.err != nil {
		return store.err
	}
	for key, value := range values {
		store.values[key] = value
	}
	return nil
}

func TestSaveProgressUsesBatchWhenAvailable(t *testing.T) {
	store := &batchStore{memStore: newMemStore()}
	gateway := NewGateway(store, fixedClock(2026, time.October, 18), quietLogger())

	gateway.SaveProgress(context.Background(), DailyProgress{Date: "2026-10-18", SessionsCompleted: 4})

	require.Len(t, store.batches, 1)
	assert.Equal(t, map[string]string{KeyLastSessionDate: "2026-10-18", KeyDailySessionCount: "4"}, store.batches[0])
	assert.Empty(t, store.setKeys)

	store.err = errors.New("database is locked")
	assert.NotPanics(t, func() {
		gateway.SaveProgress(context.Background(), DailyProgress{Date: "2026-10-18", SessionsCompleted: 5})
	})
	assert.Equal(t, "4", store.values[KeyDailySessionCount])
}

func TestSaveOfLoadIsIdempotent(t *testing.T) {
	store := newMemStore()
	store.values[KeyLastSessionDate] = "2026-10-18"
	store.values[KeyDailySessionCount] = "3"
	gateway := NewGateway(store, fixedClock(2026, time.October, 18), quietLogger())
	ctx := context.Background()

	first := gateway.LoadProgress(ctx)
	gateway.SaveProgress(ctx, first)
	second := gateway.LoadProgress(ctx)
	gateway.SaveProgress(ctx, second)

	assert.Equal(t, first, second)
	assert.Equal(t, "3", store.values[KeyDailySessionCount])
}

func TestRollover(t *testing.T) {
	tests := []struct {
		name string
		in   DailyProgress
		want DailyProgress
	}{
		{"same day", DailyProgress{Date: "2026-10-18", SessionsCompleted: 2}, DailyProgress{Date: "2026-10-18", SessionsCompleted: 2}},
		{"previous day", DailyProgress{Date: "2026-10-17", SessionsCompleted: 9}, DailyProgress{Date: "2026-10-18"}},
		{"empty", DailyProgress{}, DailyProgress{Date: "2026-10-18"}},
		{"negative", DailyProgress{Date: "2026-10-18", SessionsCompleted: -1}, DailyProgress{Date: "2026-10-18"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rollover(tt.in, "2026-10-18"))
		})
	}
}
