package models

import "time"

type Review struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Rating     int       `json:"rating" gorm:"not null"`
	ReviewText string    `json:"reviewText"`
	Date       time.Time `json:"date"`
	UserID     uint      `json:"user" gorm:"index;not null"`
	DishID     uint      `json:"dish" gorm:"index;not null"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
