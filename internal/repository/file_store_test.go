package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"scheduleandpay/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_CreatePersistsBookingMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "bookings.json")
	store := NewFileStore(path)
	ctx := context.Background()
	day := domain.NewDay(2024, time.June, 10)

	require.NoError(t, store.Create(ctx, newReservation(day, "09:00 AM")))
	require.NoError(t, store.Create(ctx, newReservation(day, "10:00 AM")))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc struct {
		Bookings map[string][]string `json:"bookings"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, []string{"09:00 AM", "10:00 AM"}, doc.Bookings["2024-06-10"])

	// A fresh store over the same file sees the same state.
	reopened := NewFileStore(path)
	booked, err := reopened.BookedLabels(ctx, []domain.Day{day})
	require.NoError(t, err)
	assert.Equal(t, []domain.TimeLabel{"09:00 AM", "10:00 AM"}, booked[day.Key()])
}

func TestFileStore_DuplicateSlot(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "bookings.json"))
	ctx := context.Background()
	day := domain.NewDay(2024, time.June, 10)

	first := newReservation(day, "09:00 AM")
	require.NoError(t, store.Create(ctx, first))
	assert.ErrorIs(t, store.Create(ctx, newReservation(day, "09:00 AM")), ErrSlotTaken)

	list, err := store.ListByDay(ctx, day)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first.Reference, list[0].Reference)

	got, err := store.GetByReference(ctx, first.Reference)
	require.NoError(t, err)
	assert.Equal(t, domain.TimeLabel("09:00 AM"), got.Time)

	_, err = store.GetByReference(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_ConcurrentCreate(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "bookings.json"))
	ctx := context.Background()
	day := domain.NewDay(2024, time.June, 10)

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.Create(ctx, newReservation(day, "09:00 AM"))
		}()
	}
	wg.Wait()
	close(errs)

	success := 0
	for err := range errs {
		if err == nil {
			success++
			continue
		}
		assert.ErrorIs(t, err, ErrSlotTaken)
	}
	assert.Equal(t, 1, success)
}

func TestFileStore_CorruptFileFailsWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	store := NewFileStore(path)

	err := store.Create(context.Background(), newReservation(domain.NewDay(2024, time.June, 10), "09:00 AM"))
	require.Error(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(raw))
}

func TestFileStore_LegacyDateMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"2024-06-10": ["09:00 AM"], "2024-06-11": []}`), 0o644))
	store := NewFileStore(path)
	ctx := context.Background()
	day := domain.NewDay(2024, time.June, 10)

	booked, err := store.BookedLabels(ctx, []domain.Day{day})
	require.NoError(t, err)
	assert.Equal(t, []domain.TimeLabel{"09:00 AM"}, booked[day.Key()])

	assert.ErrorIs(t, store.Create(ctx, newReservation(day, "09:00 AM")), ErrSlotTaken)
	require.NoError(t, store.Create(ctx, newReservation(day, "10:00 AM")))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc struct {
		Bookings map[string][]string `json:"bookings"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, []string{"09:00 AM", "10:00 AM"}, doc.Bookings["2024-06-10"])

	var top map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &top))
	assert.NotContains(t, top, "2024-06-10")
}

func TestFileStore_UnknownKeysFailWithoutRewriting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.json")
	original := `{"slots": {"2024-06-10": ["09:00 AM"]}}`
	require.NoError(t, os.WriteFile(path, []byte(original), 0o644))
	store := NewFileStore(path)
	ctx := context.Background()
	day := domain.NewDay(2024, time.June, 10)

	_, err := store.BookedLabels(ctx, []domain.Day{day})
	assert.ErrorIs(t, err, ErrUnknownDocument)

	err = store.Create(ctx, newReservation(day, "09:00 AM"))
	assert.ErrorIs(t, err, ErrUnknownDocument)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(raw))
}

func TestFileStore_Hours(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "bookings.json"))
	ctx := context.Background()

	_, err := store.LoadHours(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.SaveHours(ctx, []domain.TimeLabel{"08:00", "09:00"}))
	got, err := store.LoadHours(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.TimeLabel{"08:00", "09:00"}, got)

	require.NoError(t, store.Create(ctx, newReservation(domain.NewDay(2024, time.June, 10), "08:00")))
	got, err = store.LoadHours(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.TimeLabel{"08:00", "09:00"}, got)
}
