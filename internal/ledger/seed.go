package ledger

import (
	"context"
	"time"

	"github.com/langchou/parkpass/internal/models"
)

// SeedDemo 在快照为空时写入演示数据，已有数据时不做任何改动
func (s *Store) SeedDemo(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.data.Users) > 0 || len(s.data.ParkingSpots) > 0 {
		return nil
	}

	s.data.Users = []models.User{
		{
			ID:       "user1",
			Name:     "John Doe",
			Email:    "driver@demo.com",
			Phone:    "+1 (555) 123-4567",
			Password: "demo123",
			UserType: models.UserTypeCustomer,
			Vehicles: []models.Vehicle{
				{ID: "v1", Make: "Toyota", Model: "Camry", LicensePlate: "ABC-123", Color: "Silver"},
				{ID: "v2", Make: "Honda", Model: "Civic", LicensePlate: "XYZ-789", Color: "Blue"},
			},
		},
		{
			ID:       "owner1",
			Name:     "Sarah Wilson",
			Email:    "owner@demo.com",
			Phone:    "+1 (555) 987-6543",
			Password: "demo123",
			UserType: models.UserTypeOwner,
			Vehicles: []models.Vehicle{},
		},
	}

	s.data.ParkingSpots = []models.ParkingSpot{
		{
			ID:             "1",
			Name:           "Central Plaza Parking",
			Address:        "123 Main Street, Downtown",
			Price:          25,
			PriceType:      models.PriceTypeHour,
			TotalSlots:     50,
			AvailableSlots: 12,
			Rating:         4.5,
			ReviewCount:    128,
			Images:         []string{},
			Amenities:      []string{"CCTV Security", "EV Charging", "Covered Parking", "Elevator Access"},
			OpeningHours:   "24/7",
			Phone:          "+1 (555) 123-4567",
			Description:    "Premium parking facility in the heart of downtown with state-of-the-art security and amenities.",
			Lat:            40.7589,
			Lng:            -73.9851,
			OwnerID:        "owner1",
			IsActive:       true,
		},
		{
			ID:             "2",
			Name:           "Riverside Mall Parking",
			Address:        "456 River Road, Westside",
			Price:          150,
			PriceType:      models.PriceTypeDay,
			TotalSlots:     200,
			AvailableSlots: 45,
			Rating:         4.2,
			ReviewCount:    89,
			Images:         []string{},
			Amenities:      []string{"Shopping Access", "Food Court Nearby", "Valet Service", "Car Wash"},
			OpeningHours:   "6:00 AM - 11:00 PM",
			Phone:          "+1 (555) 987-6543",
			Description:    "Convenient mall parking with direct access to shopping and dining.",
			Lat:            40.7505,
			Lng:            -73.9934,
			OwnerID:        "owner1",
			IsActive:       true,
		},
	}

	s.data.Bookings = []models.Booking{
		{
			ID:        "b1",
			SpotID:    "1",
			UserID:    "user1",
			VehicleID: "v1",
			StartTime: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2024, 1, 15, 17, 0, 0, 0, time.UTC),
			TotalCost: 200,
			Status:    models.BookingStatusActive,
			QRCode:    "QR_b1_1_1737123456789",
			PIN:       "1234",
			CreatedAt: time.Date(2024, 1, 14, 10, 30, 0, 0, time.UTC),
		},
	}

	s.data.Reviews = []models.Review{
		{
			ID:        "r1",
			UserID:    "user1",
			SpotID:    "1",
			Rating:    5,
			Comment:   "Excellent parking facility with great security and easy access. Highly recommended!",
			CreatedAt: time.Date(2024, 1, 10, 15, 30, 0, 0, time.UTC),
			UserName:  "John D.",
		},
	}

	return s.persist(ctx)
}
