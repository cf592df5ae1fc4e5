package database

import (
	"context"
	"io"
	"testing"
	"time"

	"sharik/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.New(io.Discard)
	db, err := NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// seedUsersAndItem создаёт владельца, арендатора и вещь владельца.
func seedUsersAndItem(t *testing.T, db *DB) (owner, booker *models.User, item *models.Item) {
	t.Helper()
	ctx := context.Background()

	owner = &models.User{Name: "owner", Email: "owner@example.com"}
	require.NoError(t, db.CreateUser(ctx, owner))

	booker = &models.User{Name: "booker", Email: "booker@example.com"}
	require.NoError(t, db.CreateUser(ctx, booker))

	item = &models.Item{OwnerID: owner.ID, Name: "drill", Description: "hammer drill", IsAvailable: true}
	require.NoError(t, db.CreateItem(ctx, item))
	return owner, booker, item
}

func makeBooking(item *models.Item, bookerID int64, start, end time.Time) *models.Booking {
	return &models.Booking{
		ItemID:   item.ID,
		ItemName: item.Name,
		OwnerID:  item.OwnerID,
		BookerID: bookerID,
		Start:    start,
		End:      end,
		Status:   models.StatusWaiting,
	}
}

func TestCreateBookingWithLock(t *testing.T) {
	db := newTestDB(t)
	_, booker, item := seedUsersAndItem(t, db)
	ctx := context.Background()

	base := time.Date(2030, 6, 1, 10, 0, 0, 0, time.UTC)

	first := makeBooking(item, booker.ID, base, base.Add(2*time.Hour))
	require.NoError(t, db.CreateBookingWithLock(ctx, first))
	assert.NotZero(t, first.ID)
	assert.Equal(t, int64(1), first.Version)

	t.Run("overlapping booking is rejected", func(t *testing.T) {
		overlap := makeBooking(item, booker.ID, base.Add(time.Hour), base.Add(3*time.Hour))
		err := db.CreateBookingWithLock(ctx, overlap)
		assert.ErrorIs(t, err, ErrSlotUnavailable)
	})

	t.Run("back-to-back booking is allowed", func(t *testing.T) {
		next := makeBooking(item, booker.ID, base.Add(2*time.Hour), base.Add(4*time.Hour))
		assert.NoError(t, db.CreateBookingWithLock(ctx, next))
	})

	t.Run("conflict with rejected booking is allowed", func(t *testing.T) {
		require.NoError(t, db.UpdateBookingStatusWithVersion(ctx, first.ID, 1, models.StatusRejected))

		retry := makeBooking(item, booker.ID, base, base.Add(2*time.Hour))
		assert.NoError(t, db.CreateBookingWithLock(ctx, retry))
	})
}

func TestGetBooking(t *testing.T) {
	db := newTestDB(t)
	owner, booker, item := seedUsersAndItem(t, db)
	ctx := context.Background()

	start := time.Date(2030, 6, 1, 10, 0, 0, 0, time.UTC)
	b := makeBooking(item, booker.ID, start, start.Add(time.Hour))
	require.NoError(t, db.CreateBookingWithLock(ctx, b))

	got, err := db.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, item.Name, got.ItemName)
	assert.Equal(t, owner.ID, got.OwnerID)
	assert.Equal(t, booker.ID, got.BookerID)
	assert.Equal(t, models.StatusWaiting, got.Status)
	assert.True(t, got.Start.Equal(start))

	_, err = db.GetBooking(ctx, 9999)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestUpdateBookingStatusWithVersion(t *testing.T) {
	db := newTestDB(t)
	_, booker, item := seedUsersAndItem(t, db)
	ctx := context.Background()

	start := time.Date(2030, 6, 1, 10, 0, 0, 0, time.UTC)
	b := makeBooking(item, booker.ID, start, start.Add(time.Hour))
	require.NoError(t, db.CreateBookingWithLock(ctx, b))

	require.NoError(t, db.UpdateBookingStatusWithVersion(ctx, b.ID, 1, models.StatusApproved))

	got, err := db.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
	assert.Equal(t, int64(2), got.Version)

	// Повторное обновление со старой версией — проигравший конкурент.
	err = db.UpdateBookingStatusWithVersion(ctx, b.ID, 1, models.StatusRejected)
	assert.ErrorIs(t, err, ErrConcurrentModification)

	got, err = db.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
}

func TestHasConflict(t *testing.T) {
	db := newTestDB(t)
	_, booker, item := seedUsersAndItem(t, db)
	ctx := context.Background()

	base := time.Date(2030, 6, 1, 10, 0, 0, 0, time.UTC)
	b := makeBooking(item, booker.ID, base, base.Add(2*time.Hour))
	require.NoError(t, db.CreateBookingWithLock(ctx, b))

	conflict, err := db.HasConflict(ctx, item.ID, base.Add(time.Hour), base.Add(3*time.Hour), 0)
	require.NoError(t, err)
	assert.True(t, conflict)

	// Сама бронь не конфликтует с собой при повторной проверке.
	conflict, err = db.HasConflict(ctx, item.ID, base, base.Add(2*time.Hour), b.ID)
	require.NoError(t, err)
	assert.False(t, conflict)

	conflict, err = db.HasConflict(ctx, item.ID, base.Add(2*time.Hour), base.Add(3*time.Hour), 0)
	require.NoError(t, err)
	assert.False(t, conflict)
}

func TestListBookingsOrdering(t *testing.T) {
	db := newTestDB(t)
	_, booker, item := seedUsersAndItem(t, db)
	ctx := context.Background()

	now := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)
	starts := []time.Time{
		now.Add(24 * time.Hour),
		now.Add(48 * time.Hour),
		now.Add(72 * time.Hour),
	}
	for _, s := range starts {
		b := makeBooking(item, booker.ID, s, s.Add(time.Hour))
		require.NoError(t, db.CreateBookingWithLock(ctx, b))
	}

	t.Run("ALL oldest first", func(t *testing.T) {
		got, err := db.ListBookingsByBooker(ctx, booker.ID, models.QueryAll, now)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.True(t, got[0].Start.Equal(starts[0]))
		assert.True(t, got[2].Start.Equal(starts[2]))
	})

	t.Run("FUTURE most recent first", func(t *testing.T) {
		got, err := db.ListBookingsByBooker(ctx, booker.ID, models.QueryFuture, now)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.True(t, got[0].Start.Equal(starts[2]))
		assert.True(t, got[2].Start.Equal(starts[0]))
	})
}

func TestListBookingsByState(t *testing.T) {
	db := newTestDB(t)
	owner, booker, item := seedUsersAndItem(t, db)
	ctx := context.Background()

	now := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)

	past := makeBooking(item, booker.ID, now.Add(-3*time.Hour), now.Add(-time.Hour))
	require.NoError(t, db.CreateBookingWithLock(ctx, past))
	require.NoError(t, db.UpdateBookingStatusWithVersion(ctx, past.ID, 1, models.StatusApproved))

	current := makeBooking(item, booker.ID, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, db.CreateBookingWithLock(ctx, current))
	require.NoError(t, db.UpdateBookingStatusWithVersion(ctx, current.ID, 1, models.StatusApproved))

	future := makeBooking(item, booker.ID, now.Add(2*time.Hour), now.Add(3*time.Hour))
	require.NoError(t, db.CreateBookingWithLock(ctx, future))

	rejected := makeBooking(item, booker.ID, now.Add(5*time.Hour), now.Add(6*time.Hour))
	require.NoError(t, db.CreateBookingWithLock(ctx, rejected))
	require.NoError(t, db.UpdateBookingStatusWithVersion(ctx, rejected.ID, 1, models.StatusRejected))

	tests := []struct {
		state models.QueryState
		want  []int64
	}{
		{state: models.QueryCurrent, want: []int64{current.ID}},
		{state: models.QueryPast, want: []int64{past.ID}},
		{state: models.QueryFuture, want: []int64{rejected.ID, future.ID}},
		{state: models.QueryWaiting, want: []int64{future.ID}},
		{state: models.QueryRejected, want: []int64{rejected.ID}},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			got, err := db.ListBookingsByBooker(ctx, booker.ID, tt.state, now)
			require.NoError(t, err)
			ids := make([]int64, 0, len(got))
			for _, b := range got {
				ids = append(ids, b.ID)
			}
			assert.Equal(t, tt.want, ids)

			// Владелец видит тот же срез по своим вещам.
			gotOwner, err := db.ListBookingsByOwner(ctx, owner.ID, tt.state, now)
			require.NoError(t, err)
			assert.Len(t, gotOwner, len(tt.want))
		})
	}
}

func TestHasFinishedApprovedBooking(t *testing.T) {
	db := newTestDB(t)
	_, booker, item := seedUsersAndItem(t, db)
	ctx := context.Background()

	now := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)

	b := makeBooking(item, booker.ID, now.Add(-3*time.Hour), now.Add(-time.Hour))
	require.NoError(t, db.CreateBookingWithLock(ctx, b))

	// WAITING в прошлом права на комментарий не даёт.
	ok, err := db.HasFinishedApprovedBooking(ctx, item.ID, booker.ID, now)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, db.UpdateBookingStatusWithVersion(ctx, b.ID, 1, models.StatusApproved))

	ok, err = db.HasFinishedApprovedBooking(ctx, item.ID, booker.ID, now)
	require.NoError(t, err)
	assert.True(t, ok)

	// Текущая аренда ещё не завершена.
	ok, err = db.HasFinishedApprovedBooking(ctx, item.ID, booker.ID, now.Add(-2*time.Hour))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = db.HasFinishedApprovedBooking(ctx, item.ID, 9999, now)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetBookingsByDateRange(t *testing.T) {
	db := newTestDB(t)
	_, booker, item := seedUsersAndItem(t, db)
	ctx := context.Background()

	base := time.Date(2030, 6, 1, 10, 0, 0, 0, time.UTC)
	inside := makeBooking(item, booker.ID, base, base.Add(time.Hour))
	require.NoError(t, db.CreateBookingWithLock(ctx, inside))

	outside := makeBooking(item, booker.ID, base.Add(72*time.Hour), base.Add(73*time.Hour))
	require.NoError(t, db.CreateBookingWithLock(ctx, outside))

	got, err := db.GetBookingsByDateRange(ctx, base.Add(-time.Hour), base.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, inside.ID, got[0].ID)
}
