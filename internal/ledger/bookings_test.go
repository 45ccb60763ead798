package ledger

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/langchou/parkpass/internal/models"
)

func TestCreateBookingDecrementsSlot(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	spot := newTestSpot(t, store, 5)

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	booking, err := store.CreateBooking(ctx, newTestBooking(spot.ID, start, start.Add(2*time.Hour)))
	require.NoError(t, err)

	require.Equal(t, models.BookingStatusPending, booking.Status)
	require.Equal(t, 4, store.GetSpot(spot.ID).AvailableSlots)
}

func TestCreateBookingOnFullSpotKeepsSlotCount(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	spot := newTestSpot(t, store, 1)

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	_, err := store.CreateBooking(ctx, newTestBooking(spot.ID, start, start.Add(time.Hour)))
	require.NoError(t, err)
	require.Equal(t, 0, store.GetSpot(spot.ID).AvailableSlots)

	// 车位已满时预订仍会创建，车位数保持为 0
	overbooked, err := store.CreateBooking(ctx, newTestBooking(spot.ID, start, start.Add(time.Hour)))
	require.NoError(t, err)
	require.NotNil(t, overbooked)
	require.Equal(t, 0, store.GetSpot(spot.ID).AvailableSlots)
	require.Len(t, store.ListAllBookings(), 2)
}

func TestCreateBookingRejectsInvalidTimeRange(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	spot := newTestSpot(t, store, 5)

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	_, err := store.CreateBooking(ctx, newTestBooking(spot.ID, start, start))
	require.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = store.CreateBooking(ctx, newTestBooking(spot.ID, start, start.Add(-time.Hour)))
	require.ErrorIs(t, err, ErrInvalidTimeRange)

	require.Empty(t, store.ListAllBookings())
	require.Equal(t, 5, store.GetSpot(spot.ID).AvailableSlots)
}

func TestBookingCodesFormat(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	store.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	spot := newTestSpot(t, store, 5)

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	booking, err := store.CreateBooking(ctx, newTestBooking(spot.ID, start, start.Add(time.Hour)))
	require.NoError(t, err)

	wantQR := fmt.Sprintf("QR_%s_%s_%d", booking.ID, spot.ID, store.now().UnixMilli())
	require.Equal(t, wantQR, booking.QRCode)
	require.Regexp(t, regexp.MustCompile(`^QR_booking_[0-9a-f-]+_spot_[0-9a-f-]+_\d+$`), booking.QRCode)

	require.Len(t, booking.PIN, 4)
	pin, err := strconv.Atoi(booking.PIN)
	require.NoError(t, err)
	require.GreaterOrEqual(t, pin, 1000)
	require.LessOrEqual(t, pin, 9999)
}

func TestDrawPINAvoidsLiveCollisions(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	spot := newTestSpot(t, store, 100)

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	pins := make(map[string]bool)
	for i := 0; i < 60; i++ {
		booking, err := store.CreateBooking(ctx, newTestBooking(spot.ID, start, start.Add(time.Hour)))
		require.NoError(t, err)
		require.False(t, pins[booking.PIN], "duplicate PIN %s among live bookings", booking.PIN)
		pins[booking.PIN] = true
	}
}

func TestFindBookingByQRCodeAndPIN(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	spot := newTestSpot(t, store, 5)

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	booking, err := store.CreateBooking(ctx, newTestBooking(spot.ID, start, start.Add(time.Hour)))
	require.NoError(t, err)

	found := store.FindBookingByQRCode(booking.QRCode)
	require.NotNil(t, found)
	require.Equal(t, booking.ID, found.ID)

	found = store.FindBookingByPIN(booking.PIN)
	require.NotNil(t, found)
	require.Equal(t, booking.ID, found.ID)

	// 从未签发过的令牌和 PIN 查不到任何预订
	require.Nil(t, store.FindBookingByQRCode("QR_never_issued_0"))
	require.Nil(t, store.FindBookingByPIN("0000"))
}

func TestSetBookingStatusReleasesSlot(t *testing.T) {
	tests := []struct {
		name      string
		from      string
		to        string
		wantDelta int
	}{
		{"pending to active keeps slot", models.BookingStatusPending, models.BookingStatusActive, 0},
		{"pending to cancelled releases slot", models.BookingStatusPending, models.BookingStatusCancelled, 1},
		{"active to completed releases slot", models.BookingStatusActive, models.BookingStatusCompleted, 1},
		{"active to cancelled releases slot", models.BookingStatusActive, models.BookingStatusCancelled, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := newTestStore(t)
			spot := newTestSpot(t, store, 5)

			start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
			b := newTestBooking(spot.ID, start, start.Add(time.Hour))
			b.Status = tt.from
			booking, err := store.CreateBooking(ctx, b)
			require.NoError(t, err)
			require.Equal(t, 4, store.GetSpot(spot.ID).AvailableSlots)

			updated, err := store.SetBookingStatus(ctx, booking.ID, tt.to)
			require.NoError(t, err)
			require.Equal(t, tt.to, updated.Status)
			require.Equal(t, 4+tt.wantDelta, store.GetSpot(spot.ID).AvailableSlots)
		})
	}
}

func TestSetBookingStatusTerminalToTerminalKeepsSlots(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	spot := newTestSpot(t, store, 5)

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	b := newTestBooking(spot.ID, start, start.Add(time.Hour))
	b.Status = models.BookingStatusActive
	booking, err := store.CreateBooking(ctx, b)
	require.NoError(t, err)

	_, err = store.SetBookingStatus(ctx, booking.ID, models.BookingStatusCompleted)
	require.NoError(t, err)
	require.Equal(t, 5, store.GetSpot(spot.ID).AvailableSlots)

	// 旧状态已是终态，再次改写不释放车位
	updated, err := store.SetBookingStatus(ctx, booking.ID, models.BookingStatusCancelled)
	require.NoError(t, err)
	require.Equal(t, models.BookingStatusCancelled, updated.Status)
	require.Equal(t, 5, store.GetSpot(spot.ID).AvailableSlots)
}

func TestSetBookingStatusUnknownID(t *testing.T) {
	store := newTestStore(t)

	booking, err := store.SetBookingStatus(context.Background(), "booking_missing", models.BookingStatusActive)
	require.NoError(t, err)
	require.Nil(t, booking)
}

func TestExtendBookingHourlyCost(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	spot := newTestSpot(t, store, 5) // 25/小时

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)
	booking, err := store.CreateBooking(ctx, newTestBooking(spot.ID, start, end))
	require.NoError(t, err)

	extended, err := store.ExtendBooking(ctx, booking.ID, 3)
	require.NoError(t, err)
	require.True(t, end.Add(3*time.Hour).Equal(extended.EndTime))
	require.Equal(t, 175.0, extended.TotalCost) // 100 + 3*25
}

func TestExtendBookingDailyCostRoundsUp(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	spot, err := store.CreateSpot(ctx, models.ParkingSpot{
		Name:       "Riverside Mall Parking",
		Price:      150,
		PriceType:  models.PriceTypeDay,
		TotalSlots: 5,
		OwnerID:    "owner1",
	})
	require.NoError(t, err)

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	booking, err := store.CreateBooking(ctx, newTestBooking(spot.ID, start, start.Add(24*time.Hour)))
	require.NoError(t, err)

	// 30 小时按 2 天计费
	extended, err := store.ExtendBooking(ctx, booking.ID, 30)
	require.NoError(t, err)
	require.Equal(t, 400.0, extended.TotalCost) // 100 + 2*150
}

func TestExtendBookingConflict(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	spot := newTestSpot(t, store, 1)

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	booking, err := store.CreateBooking(ctx, newTestBooking(spot.ID, start, end))
	require.NoError(t, err)

	// 另一预订在延长窗口内占用唯一车位
	other := newTestBooking(spot.ID, end, end.Add(2*time.Hour))
	other.Status = models.BookingStatusActive
	_, err = store.CreateBooking(ctx, other)
	require.NoError(t, err)

	_, err = store.ExtendBooking(ctx, booking.ID, 2)
	require.ErrorIs(t, err, ErrExtensionConflict)

	// 冲突时预订时间和费用保持不变
	unchanged := store.GetBooking(booking.ID)
	require.True(t, end.Equal(unchanged.EndTime))
	require.Equal(t, 100.0, unchanged.TotalCost)
}

func TestExtendBookingIgnoresTerminalConflicts(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	spot := newTestSpot(t, store, 1)

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	booking, err := store.CreateBooking(ctx, newTestBooking(spot.ID, start, end))
	require.NoError(t, err)

	// 已取消的预订不参与冲突统计
	cancelled := newTestBooking(spot.ID, end, end.Add(2*time.Hour))
	cancelled.Status = models.BookingStatusCancelled
	_, err = store.CreateBooking(ctx, cancelled)
	require.NoError(t, err)

	extended, err := store.ExtendBooking(ctx, booking.ID, 2)
	require.NoError(t, err)
	require.Equal(t, 150.0, extended.TotalCost)
}

func TestExtendBookingUnknownID(t *testing.T) {
	store := newTestStore(t)

	booking, err := store.ExtendBooking(context.Background(), "booking_missing", 2)
	require.NoError(t, err)
	require.Nil(t, booking)
}

func TestNextAvailableTime(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	t.Run("unknown spot", func(t *testing.T) {
		require.Nil(t, store.NextAvailableTime("spot_missing"))
	})

	spot := newTestSpot(t, store, 1)

	t.Run("available now", func(t *testing.T) {
		got := store.NextAvailableTime(spot.ID)
		require.NotNil(t, got)
		require.True(t, now.Equal(*got))
	})

	end := now.Add(3 * time.Hour)
	booking, err := store.CreateBooking(ctx, newTestBooking(spot.ID, now.Add(-time.Hour), end))
	require.NoError(t, err)

	t.Run("earliest live booking end", func(t *testing.T) {
		got := store.NextAvailableTime(spot.ID)
		require.NotNil(t, got)
		require.True(t, end.Equal(*got))
	})

	t.Run("later booking does not shadow earliest", func(t *testing.T) {
		later := newTestBooking(spot.ID, now, now.Add(6*time.Hour))
		later.Status = models.BookingStatusActive
		_, err := store.CreateBooking(ctx, later)
		require.NoError(t, err)

		got := store.NextAvailableTime(spot.ID)
		require.NotNil(t, got)
		require.True(t, end.Equal(*got))
	})

	t.Run("available again after completion", func(t *testing.T) {
		_, err := store.SetBookingStatus(ctx, booking.ID, models.BookingStatusCompleted)
		require.NoError(t, err)

		got := store.NextAvailableTime(spot.ID)
		require.NotNil(t, got)
		require.True(t, now.Equal(*got))
	})
}

func TestListBookingsByUser(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	spot := newTestSpot(t, store, 5)

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	mine := newTestBooking(spot.ID, start, start.Add(time.Hour))
	_, err := store.CreateBooking(ctx, mine)
	require.NoError(t, err)

	theirs := newTestBooking(spot.ID, start, start.Add(time.Hour))
	theirs.UserID = "user2"
	_, err = store.CreateBooking(ctx, theirs)
	require.NoError(t, err)

	require.Len(t, store.ListBookingsByUser("user1"), 1)
	require.Len(t, store.ListBookingsByUser("user2"), 1)
	require.Empty(t, store.ListBookingsByUser("user3"))
	require.Len(t, store.ListAllBookings(), 2)
}
