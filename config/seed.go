package config

import (
	"fmt"

	"food-ordering-api/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type demoUser struct {
	Username string
	Email    string
	Password string
	Role     models.UserRole
}

var demoUsers = []demoUser{
	{Username: "DemoAdmin", Email: "admin@gmail.com", Password: "admin123", Role: models.RoleAdmin},
	{Username: "DemoUser", Email: "user@gmail.com", Password: "user1234", Role: models.RoleUser},
}

var demoDishes = []models.Dish{
	{DishName: "Biryani", Description: "Fragrant rice layered with spiced chicken", Cuisine: "Indian", Price: 250, IsAvailable: true, CoverImage: "https://via.placeholder.com/300?text=Biryani"},
	{DishName: "Burger", Description: "Grilled beef patty with cheddar", Cuisine: "American", Price: 180, IsAvailable: true, CoverImage: "https://via.placeholder.com/300?text=Burger"},
	{DishName: "Salad", Description: "Greek salad with feta and olives", Cuisine: "Mediterranean", Price: 150, IsAvailable: true, CoverImage: "https://via.placeholder.com/300?text=Salad"},
	{DishName: "Sushi", Description: "Assorted nigiri and maki", Cuisine: "Japanese", Price: 400, IsAvailable: true, CoverImage: "https://via.placeholder.com/300?text=Sushi"},
}

// SeedDemo inserts the demo accounts and sample dishes. Rows that already
// exist are left alone, so it is safe to call on every start.
func SeedDemo(db *gorm.DB) error {
	for _, du := range demoUsers {
		var count int64
		db.Model(&models.User{}).Where("email = ?", du.Email).Count(&count)
		if count > 0 {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(du.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash demo password: %w", err)
		}
		user := models.User{Username: du.Username, Email: du.Email, PasswordHash: string(hash), Role: du.Role}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("seed user %s: %w", du.Email, err)
		}
	}

	var dishes int64
	db.Model(&models.Dish{}).Count(&dishes)
	if dishes > 0 {
		return nil
	}
	for _, d := range demoDishes {
		dish := d
		if err := db.Create(&dish).Error; err != nil {
			return fmt.Errorf("seed dish %s: %w", d.DishName, err)
		}
	}
	Logger.WithField("dishes", len(demoDishes)).Info("Demo data seeded")
	return nil
}
