package models

import "time"

// Review 评价
type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	SpotID    string    `json:"spotId"`
	Rating    int       `json:"rating"` // 1-5 星
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UserName  string    `json:"userName"` // 冗余存储的评价人昵称
}
