package models

import "time"

type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`

	DefaultDurationMin int     `json:"default_duration_min"`
	DefaultPrice       float64 `json:"default_price"`

	Active   bool   `gorm:"default:true" json:"active"`
	Category string `gorm:"size:50" json:"category"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
