package models

// PriceType 计价方式
const (
	PriceTypeHour = "hour" // 按小时计价
	PriceTypeDay  = "day"  // 按天计价
)

// ParkingSpot 停车场
type ParkingSpot struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	Price          float64  `json:"price"`
	PriceType      string   `json:"priceType"`
	TotalSlots     int      `json:"totalSlots"`
	AvailableSlots int      `json:"availableSlots"`
	Rating         float64  `json:"rating"`
	ReviewCount    int      `json:"reviewCount"`
	Images         []string `json:"images"`
	Amenities      []string `json:"amenities"`
	OpeningHours   string   `json:"openingHours"`
	Phone          string   `json:"phone"`
	Description    string   `json:"description"`
	Lat            float64  `json:"lat"`
	Lng            float64  `json:"lng"`
	OwnerID        string   `json:"ownerId"`
	IsActive       bool     `json:"isActive"`
}

// SpotUpdate 停车场部分字段更新
// 仅非 nil 字段会被合并到现有记录，不做跨字段校验，
// 调用方负责保证 0 <= availableSlots <= totalSlots 不变式
type SpotUpdate struct {
	Name           *string  `json:"name"`
	Address        *string  `json:"address"`
	Price          *float64 `json:"price"`
	PriceType      *string  `json:"priceType"`
	TotalSlots     *int     `json:"totalSlots"`
	AvailableSlots *int     `json:"availableSlots"`
	Rating         *float64 `json:"rating"`
	ReviewCount    *int     `json:"reviewCount"`
	Images         []string `json:"images"`
	Amenities      []string `json:"amenities"`
	OpeningHours   *string  `json:"openingHours"`
	Phone          *string  `json:"phone"`
	Description    *string  `json:"description"`
	Lat            *float64 `json:"lat"`
	Lng            *float64 `json:"lng"`
	IsActive       *bool    `json:"isActive"`
}
