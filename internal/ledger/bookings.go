package ledger

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/langchou/parkpass/internal/models"
)

// pin 取值范围 [1000, 9999]
const (
	pinMin   = 1000
	pinSpace = 9000
)

// CreateBooking 创建预订并持久化
// 生成 ID、二维码令牌、PIN 和创建时间；目标停车场尚有可用车位时
// 扣减一个车位，已无车位时预订仍会创建且不调整车位数
func (s *Store) CreateBooking(ctx context.Context, booking models.Booking) (*models.Booking, error) {
	if !booking.StartTime.Before(booking.EndTime) {
		return nil, ErrInvalidTimeRange
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	booking.ID = newID("booking")
	booking.QRCode = fmt.Sprintf("QR_%s_%s_%d", booking.ID, booking.SpotID, now.UnixMilli())
	booking.PIN = s.drawPIN()
	booking.CreatedAt = now
	if booking.Status == "" {
		booking.Status = models.BookingStatusPending
	}

	s.data.Bookings = append(s.data.Bookings, booking)

	if spot := s.findSpot(booking.SpotID); spot != nil && spot.AvailableSlots > 0 {
		spot.AvailableSlots--
	}

	if err := s.persist(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("Booking created",
		zap.String("booking_id", booking.ID),
		zap.String("spot_id", booking.SpotID),
		zap.String("user_id", booking.UserID))

	out := booking
	return &out, nil
}

// ListBookingsByUser 列出用户的全部预订
func (s *Store) ListBookingsByUser(userID string) []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookings := []models.Booking{}
	for _, b := range s.data.Bookings {
		if b.UserID == userID {
			bookings = append(bookings, b)
		}
	}
	return bookings
}

// ListAllBookings 列出全部预订
func (s *Store) ListAllBookings() []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookings := make([]models.Booking, len(s.data.Bookings))
	copy(bookings, s.data.Bookings)
	return bookings
}

// GetBooking 按 ID 查找预订，不存在时返回 nil
func (s *Store) GetBooking(id string) *models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if b := s.findBooking(id); b != nil {
		out := *b
		return &out
	}
	return nil
}

// FindBookingByQRCode 按二维码令牌精确查找，用于扫码入场
func (s *Store) FindBookingByQRCode(code string) *models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.data.Bookings {
		if s.data.Bookings[i].QRCode == code {
			out := s.data.Bookings[i]
			return &out
		}
	}
	return nil
}

// FindBookingByPIN 按 PIN 精确查找，用于手动入场
func (s *Store) FindBookingByPIN(pin string) *models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.data.Bookings {
		if s.data.Bookings[i].PIN == pin {
			out := s.data.Bookings[i]
			return &out
		}
	}
	return nil
}

// SetBookingStatus 更新预订状态，ID 未知时返回 (nil, nil)
// 仅当旧状态为 pending/active 且新状态为 completed/cancelled 时
// 释放一个车位，其余新旧状态组合不调整车位数
func (s *Store) SetBookingStatus(ctx context.Context, id, status string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking := s.findBooking(id)
	if booking == nil {
		return nil, nil
	}

	wasLive := booking.IsLive()
	booking.Status = status

	if wasLive && booking.IsTerminal() {
		if spot := s.findSpot(booking.SpotID); spot != nil && spot.AvailableSlots < spot.TotalSlots {
			spot.AvailableSlots++
		}
	}

	if err := s.persist(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("Booking status updated",
		zap.String("booking_id", id),
		zap.String("status", status))

	out := *booking
	return &out, nil
}

// ExtendBooking 延长预订时段
// 统计同一停车场其他 pending/active 预订中与延长窗口重叠的数量，
// 加上本预订后超出车位总数时返回 ErrExtensionConflict，
// 预订时间和费用保持不变；ID 未知时返回 (nil, nil)
func (s *Store) ExtendBooking(ctx context.Context, id string, additionalHours int) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking := s.findBooking(id)
	if booking == nil {
		return nil, nil
	}

	spot := s.findSpot(booking.SpotID)
	if spot == nil {
		return nil, nil
	}

	newEndTime := booking.EndTime.Add(time.Duration(additionalHours) * time.Hour)

	conflicting := 0
	for i := range s.data.Bookings {
		other := &s.data.Bookings[i]
		if other.SpotID != booking.SpotID || other.ID == booking.ID || !other.IsLive() {
			continue
		}
		if other.StartTime.Before(newEndTime) && other.EndTime.After(booking.EndTime) {
			conflicting++
		}
	}

	// 延长窗口内需要的车位数，+1 为本预订自身
	if conflicting+1 > spot.TotalSlots {
		return nil, ErrExtensionConflict
	}

	var additionalCost float64
	switch spot.PriceType {
	case models.PriceTypeHour:
		additionalCost = float64(additionalHours) * spot.Price
	case models.PriceTypeDay:
		additionalDays := math.Ceil(float64(additionalHours) / 24)
		additionalCost = additionalDays * spot.Price
	}

	booking.EndTime = newEndTime
	booking.TotalCost += additionalCost

	if err := s.persist(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("Booking extended",
		zap.String("booking_id", id),
		zap.Int("additional_hours", additionalHours),
		zap.Float64("additional_cost", additionalCost))

	out := *booking
	return &out, nil
}

// NextAvailableTime 估算停车场最早可用时间
// 尚有车位或没有未结束的 pending/active 预订时即为当前时间，
// 否则取这些预订中最早的结束时间；停车场不存在时返回 nil
func (s *Store) NextAvailableTime(spotID string) *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	spot := s.findSpot(spotID)
	if spot == nil {
		return nil
	}

	now := s.now()
	if spot.AvailableSlots > 0 {
		return &now
	}

	var earliest *time.Time
	for i := range s.data.Bookings {
		b := &s.data.Bookings[i]
		if b.SpotID != spotID || !b.IsLive() || !b.EndTime.After(now) {
			continue
		}
		// 严格小于比较保证结束时间相同时保留先出现的记录
		if earliest == nil || b.EndTime.Before(*earliest) {
			end := b.EndTime
			earliest = &end
		}
	}

	if earliest == nil {
		return &now
	}
	return earliest
}

// drawPIN 生成 4 位数字 PIN
// 与未结束预订的 PIN 冲突时重抽，保证按 PIN 入场无歧义；
// 取值空间耗尽时接受重复
func (s *Store) drawPIN() string {
	taken := make(map[string]struct{})
	for i := range s.data.Bookings {
		if s.data.Bookings[i].IsLive() {
			taken[s.data.Bookings[i].PIN] = struct{}{}
		}
	}

	pin := fmt.Sprintf("%04d", pinMin+rand.IntN(pinSpace))
	if len(taken) >= pinSpace {
		return pin
	}
	for {
		if _, ok := taken[pin]; !ok {
			return pin
		}
		pin = fmt.Sprintf("%04d", pinMin+rand.IntN(pinSpace))
	}
}

// findBooking 返回指向内部记录的指针，调用方需持有锁
func (s *Store) findBooking(id string) *models.Booking {
	for i := range s.data.Bookings {
		if s.data.Bookings[i].ID == id {
			return &s.data.Bookings[i]
		}
	}
	return nil
}
