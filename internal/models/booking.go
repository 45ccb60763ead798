package models

import "time"

// BookingStatus 预订状态
// 状态机: pending -> {active, cancelled}, active -> {completed, cancelled}
// completed 和 cancelled 为终态
const (
	BookingStatusPending   = "pending"
	BookingStatusActive    = "active"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Booking 预订记录
type Booking struct {
	ID        string    `json:"id"`
	SpotID    string    `json:"spotId"`
	UserID    string    `json:"userId"`
	VehicleID string    `json:"vehicleId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	TotalCost float64   `json:"totalCost"`
	Status    string    `json:"status"`
	QRCode    string    `json:"qrCode"`
	PIN       string    `json:"pin"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsLive 是否占用车位（pending 或 active）
func (b *Booking) IsLive() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusActive
}

// IsTerminal 是否已到达终态
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCompleted || b.Status == BookingStatusCancelled
}
