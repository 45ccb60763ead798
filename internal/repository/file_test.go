package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/langchou/parkpass/internal/models"
)

func sampleSnapshot() *models.Snapshot {
	snapshot := models.NewSnapshot()
	snapshot.Users = append(snapshot.Users, models.User{
		ID: "user1", Name: "John Doe", Email: "driver@demo.com", UserType: models.UserTypeCustomer,
		Vehicles: []models.Vehicle{},
	})
	snapshot.ParkingSpots = append(snapshot.ParkingSpots, models.ParkingSpot{
		ID: "spot_1", Name: "Central Plaza Parking", Price: 25, PriceType: models.PriceTypeHour,
		TotalSlots: 5, AvailableSlots: 4, IsActive: true,
		Images: []string{}, Amenities: []string{},
	})
	snapshot.Bookings = append(snapshot.Bookings, models.Booking{
		ID: "booking_1", SpotID: "spot_1", UserID: "user1",
		StartTime: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 1, 17, 0, 0, 0, time.UTC),
		Status:    models.BookingStatusPending,
		QRCode:    "QR_booking_1_spot_1_1740819600000",
		PIN:       "1234",
		TotalCost: 200,
		CreatedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	})
	return snapshot
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	store := NewFileStore(path)
	defer store.Close()

	want := sampleSnapshot()
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, want.Users, got.Users)
	require.Equal(t, want.ParkingSpots, got.ParkingSpots)
	require.Equal(t, want.Reviews, got.Reviews)

	require.Len(t, got.Bookings, 1)
	require.Equal(t, want.Bookings[0].QRCode, got.Bookings[0].QRCode)
	require.True(t, want.Bookings[0].StartTime.Equal(got.Bookings[0].StartTime))
}

func TestFileStoreLoadMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestFileStoreLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewFileStore(path).Load(context.Background())
	require.Error(t, err)
}

func TestFileStoreUsesCamelCaseKeys(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	store := NewFileStore(path)

	require.NoError(t, store.Save(ctx, sampleSnapshot()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// 快照字段名与既有数据格式保持一致
	require.Contains(t, string(data), `"parkingSpots"`)
	require.Contains(t, string(data), `"availableSlots"`)
	require.Contains(t, string(data), `"qrCode"`)
	require.Contains(t, string(data), `"spotId"`)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	defer store.Close()

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, got)

	want := sampleSnapshot()
	require.NoError(t, store.Save(ctx, want))

	got, err = store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, want.Users, got.Users)
	require.Equal(t, want.ParkingSpots, got.ParkingSpots)

	// 返回的是快照副本，修改不影响已存数据
	got.Users[0].Name = "mutated"
	again, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "John Doe", again.Users[0].Name)
}
