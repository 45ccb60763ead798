package models

// Snapshot 全量持久化快照
// 四个集合作为一个 JSON 对象整体加载/保存，键名与历史数据保持一致
type Snapshot struct {
	Users        []User        `json:"users"`
	ParkingSpots []ParkingSpot `json:"parkingSpots"`
	Bookings     []Booking     `json:"bookings"`
	Reviews      []Review      `json:"reviews"`
}

// NewSnapshot 创建空快照
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Users:        []User{},
		ParkingSpots: []ParkingSpot{},
		Bookings:     []Booking{},
		Reviews:      []Review{},
	}
}
