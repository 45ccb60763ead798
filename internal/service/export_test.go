package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/langchou/parkpass/internal/ledger"
	"github.com/langchou/parkpass/internal/models"
	"github.com/langchou/parkpass/internal/repository"
)

func newExportFixture(t *testing.T) (*ExportService, *ledger.Store, *models.User) {
	t.Helper()
	ctx := context.Background()

	store, err := ledger.New(ctx, zap.NewNop(), repository.NewMemoryStore())
	require.NoError(t, err)

	customer, err := store.CreateUser(ctx, models.User{
		Name:     "John Doe",
		Email:    "driver@demo.com",
		Password: "demo123",
		UserType: models.UserTypeCustomer,
	})
	require.NoError(t, err)

	return NewExportService(store), store, customer
}

func exportCSV(t *testing.T, svc *ExportService, ownerID, status, search string) [][]string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, svc.ExportOwnerBookings(&buf, ownerID, status, search))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	return records
}

func TestExportOwnerBookings(t *testing.T) {
	ctx := context.Background()
	svc, store, customer := newExportFixture(t)

	spot, err := store.CreateSpot(ctx, models.ParkingSpot{
		Name:       "Central Plaza Parking",
		Price:      25,
		PriceType:  models.PriceTypeHour,
		TotalSlots: 5,
		OwnerID:    "owner1",
	})
	require.NoError(t, err)

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	booking, err := store.CreateBooking(ctx, models.Booking{
		SpotID:    spot.ID,
		UserID:    customer.ID,
		StartTime: start,
		EndTime:   start.Add(8 * time.Hour),
		TotalCost: 200,
		Status:    models.BookingStatusActive,
	})
	require.NoError(t, err)

	// 其他业主的预订不应出现在导出中
	otherSpot, err := store.CreateSpot(ctx, models.ParkingSpot{
		Name:       "Riverside Mall Parking",
		Price:      150,
		PriceType:  models.PriceTypeDay,
		TotalSlots: 3,
		OwnerID:    "owner2",
	})
	require.NoError(t, err)
	_, err = store.CreateBooking(ctx, models.Booking{
		SpotID:    otherSpot.ID,
		UserID:    customer.ID,
		StartTime: start,
		EndTime:   start.Add(24 * time.Hour),
		TotalCost: 150,
	})
	require.NoError(t, err)

	records := exportCSV(t, svc, "owner1", "", "")
	require.Len(t, records, 2)
	require.Equal(t,
		[]string{"Booking ID", "Customer", "Parking Spot", "Date", "Time", "Duration", "Amount", "Status"},
		records[0])
	require.Equal(t,
		[]string{booking.ID, "John Doe", "Central Plaza Parking", "2026-03-01", "09:00 - 17:00", "8h", "$200.00", "active"},
		records[1])
}

func TestExportOwnerBookingsFilters(t *testing.T) {
	ctx := context.Background()
	svc, store, customer := newExportFixture(t)

	spot, err := store.CreateSpot(ctx, models.ParkingSpot{
		Name:       "Central Plaza Parking",
		Price:      25,
		PriceType:  models.PriceTypeHour,
		TotalSlots: 5,
		OwnerID:    "owner1",
	})
	require.NoError(t, err)

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for _, status := range []string{models.BookingStatusActive, models.BookingStatusCompleted} {
		_, err := store.CreateBooking(ctx, models.Booking{
			SpotID:    spot.ID,
			UserID:    customer.ID,
			StartTime: start,
			EndTime:   start.Add(2*time.Hour + 30*time.Minute),
			TotalCost: 62.5,
			Status:    status,
		})
		require.NoError(t, err)
	}

	// 状态过滤
	records := exportCSV(t, svc, "owner1", models.BookingStatusActive, "")
	require.Len(t, records, 2)
	require.Equal(t, "active", records[1][7])
	require.Equal(t, "2h 30m", records[1][5])

	// "all" 与空等价
	require.Len(t, exportCSV(t, svc, "owner1", "all", ""), 3)

	// 搜索匹配客户名（不区分大小写）
	require.Len(t, exportCSV(t, svc, "owner1", "", "john"), 3)
	require.Len(t, exportCSV(t, svc, "owner1", "", "plaza"), 3)
	require.Len(t, exportCSV(t, svc, "owner1", "", "nomatch"), 1)

	// 未知业主导出仅含表头
	require.Len(t, exportCSV(t, svc, "owner_missing", "", ""), 1)
}
