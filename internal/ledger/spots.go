package ledger

import (
	"context"

	"github.com/langchou/parkpass/internal/models"
)

// ListActiveSpots 列出所有上架中的停车场
func (s *Store) ListActiveSpots() []models.ParkingSpot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	spots := []models.ParkingSpot{}
	for _, spot := range s.data.ParkingSpots {
		if spot.IsActive {
			spots = append(spots, spot)
		}
	}
	return spots
}

// GetSpot 按 ID 查找停车场，不存在时返回 nil
func (s *Store) GetSpot(id string) *models.ParkingSpot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if spot := s.findSpot(id); spot != nil {
		out := *spot
		return &out
	}
	return nil
}

// CreateSpot 创建停车场
// 初始评分为 0、评价数为 0、可用车位等于总车位、默认上架
func (s *Store) CreateSpot(ctx context.Context, spot models.ParkingSpot) (*models.ParkingSpot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	spot.ID = newID("spot")
	spot.Rating = 0
	spot.ReviewCount = 0
	spot.AvailableSlots = spot.TotalSlots
	spot.IsActive = true
	if spot.Images == nil {
		spot.Images = []string{}
	}
	if spot.Amenities == nil {
		spot.Amenities = []string{}
	}

	s.data.ParkingSpots = append(s.data.ParkingSpots, spot)
	if err := s.persist(ctx); err != nil {
		return nil, err
	}

	out := spot
	return &out, nil
}

// UpdateSpot 合并部分字段到现有记录，ID 未知时返回 (nil, nil)
// 本方法不做跨字段校验，是预订/评价操作内部使用的唯一变更原语，
// 调用方负责保证 0 <= availableSlots <= totalSlots
func (s *Store) UpdateSpot(ctx context.Context, id string, update models.SpotUpdate) (*models.ParkingSpot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	spot := s.findSpot(id)
	if spot == nil {
		return nil, nil
	}

	applySpotUpdate(spot, update)
	if err := s.persist(ctx); err != nil {
		return nil, err
	}

	out := *spot
	return &out, nil
}

// ListSpotsByOwner 列出业主名下的全部停车场（含已下架）
func (s *Store) ListSpotsByOwner(ownerID string) []models.ParkingSpot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	spots := []models.ParkingSpot{}
	for _, spot := range s.data.ParkingSpots {
		if spot.OwnerID == ownerID {
			spots = append(spots, spot)
		}
	}
	return spots
}

// findSpot 返回指向内部记录的指针，调用方需持有锁
func (s *Store) findSpot(id string) *models.ParkingSpot {
	for i := range s.data.ParkingSpots {
		if s.data.ParkingSpots[i].ID == id {
			return &s.data.ParkingSpots[i]
		}
	}
	return nil
}

// applySpotUpdate 将非 nil 字段合并到记录
func applySpotUpdate(spot *models.ParkingSpot, u models.SpotUpdate) {
	if u.Name != nil {
		spot.Name = *u.Name
	}
	if u.Address != nil {
		spot.Address = *u.Address
	}
	if u.Price != nil {
		spot.Price = *u.Price
	}
	if u.PriceType != nil {
		spot.PriceType = *u.PriceType
	}
	if u.TotalSlots != nil {
		spot.TotalSlots = *u.TotalSlots
	}
	if u.AvailableSlots != nil {
		spot.AvailableSlots = *u.AvailableSlots
	}
	if u.Rating != nil {
		spot.Rating = *u.Rating
	}
	if u.ReviewCount != nil {
		spot.ReviewCount = *u.ReviewCount
	}
	if u.Images != nil {
		spot.Images = u.Images
	}
	if u.Amenities != nil {
		spot.Amenities = u.Amenities
	}
	if u.OpeningHours != nil {
		spot.OpeningHours = *u.OpeningHours
	}
	if u.Phone != nil {
		spot.Phone = *u.Phone
	}
	if u.Description != nil {
		spot.Description = *u.Description
	}
	if u.Lat != nil {
		spot.Lat = *u.Lat
	}
	if u.Lng != nil {
		spot.Lng = *u.Lng
	}
	if u.IsActive != nil {
		spot.IsActive = *u.IsActive
	}
}
