package models

import "time"

type Dish struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	DishName    string    `json:"dishName" gorm:"not null"`
	Description string    `json:"description"`
	Cuisine     string    `json:"cuisine" gorm:"index"`
	Price       float64   `json:"price" gorm:"not null"`
	IsAvailable bool      `json:"isAvailable" gorm:"not null"`
	CoverImage  string    `json:"coverImage" gorm:"type:text"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
