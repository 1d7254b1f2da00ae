package store

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"touristhub/internal/models"
	"touristhub/internal/shim"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newTestStore(t *testing.T) (*Store, *shim.MemoryShim) {
	t.Helper()
	cache := shim.NewMemoryShim()
	return newStoreOn(t, cache), cache
}

// newStoreOn builds a fresh store over an existing cache, simulating a
// process restart.
func newStoreOn(t *testing.T, cache *shim.MemoryShim) *Store {
	t.Helper()
	logger := zerolog.New(io.Discard)
	return New(testSnapshot(), cache, &logger)
}

func TestStoreDispatchPersists(t *testing.T) {
	st, cache := newTestStore(t)
	ctx := context.Background()

	action, err := NewAddBooking(testBooking("b1"))
	assert.NoError(t, err)
	st.Dispatch(action)

	raw, ok, err := cache.Get(ctx, KeyBookings)
	assert.NoError(t, err)
	assert.True(t, ok)

	var cached []models.Booking
	assert.NoError(t, json.Unmarshal([]byte(raw), &cached))
	assert.Len(t, cached, 1)
	assert.Equal(t, "b1", cached[0].ID)

	// Every section is rewritten, not just the changed one.
	for _, key := range []string{KeySession, KeyTours, KeyDestinations, KeyUsers, KeySettings} {
		_, ok, err := cache.Get(ctx, key)
		assert.NoError(t, err)
		assert.True(t, ok, "missing section %s", key)
	}
}

func TestStoreSubscribers(t *testing.T) {
	st, _ := newTestStore(t)

	var seen []string
	st.Subscribe(func(s Snapshot) {
		seen = append(seen, s.Bookings.IDs()...)
	})
	st.Subscribe(func(s Snapshot) {
		seen = append(seen, "second")
	})

	action, _ := NewAddBooking(testBooking("b1"))
	st.Dispatch(action)

	assert.Equal(t, []string{"b1", "second"}, seen)
}

func TestStoreNotificationExpiry(t *testing.T) {
	t.Run("notification clears after ttl", func(t *testing.T) {
		st, _ := newTestStore(t)
		st.SetNotificationTTL(30 * time.Millisecond)

		action, _ := NewSetNotification(models.NoticeSuccess, "saved")
		st.Dispatch(action)
		assert.NotNil(t, st.Snapshot().Notification)

		assert.Eventually(t, func() bool {
			return st.Snapshot().Notification == nil
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("superseding notification restarts the clock", func(t *testing.T) {
		st, _ := newTestStore(t)
		st.SetNotificationTTL(80 * time.Millisecond)

		first, _ := NewSetNotification(models.NoticeInfo, "first")
		st.Dispatch(first)

		time.Sleep(50 * time.Millisecond)
		second, _ := NewSetNotification(models.NoticeError, "second")
		st.Dispatch(second)

		// Past the first timer's deadline the second notification must
		// still be live.
		time.Sleep(50 * time.Millisecond)
		notification := st.Snapshot().Notification
		assert.NotNil(t, notification)
		assert.Equal(t, "second", notification.Text)

		assert.Eventually(t, func() bool {
			return st.Snapshot().Notification == nil
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("notification set at the expiry deadline survives", func(t *testing.T) {
		st, _ := newTestStore(t)
		st.SetNotificationTTL(20 * time.Millisecond)

		// Dispatch a replacement right when the previous timer fires; the
		// stale timer must never clear the fresh notification.
		for i := 0; i < 10; i++ {
			first, _ := NewSetNotification(models.NoticeInfo, "stale")
			st.Dispatch(first)
			time.Sleep(20 * time.Millisecond)

			second, _ := NewSetNotification(models.NoticeError, "fresh")
			st.Dispatch(second)
			time.Sleep(5 * time.Millisecond)

			notification := st.Snapshot().Notification
			if assert.NotNil(t, notification) {
				assert.Equal(t, "fresh", notification.Text)
			}
		}
	})
}
