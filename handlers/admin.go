package handlers

import (
	"net/http"

	"food-ordering-api/config"
	"food-ordering-api/models"
	"food-ordering-api/statemachine"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GetAllUsers returns every account, optionally filtered by role (admin only)
func GetAllUsers(c *gin.Context) {
	var users []models.User
	query := config.DB.Order("id")
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if err := query.Find(&users).Error; err != nil {
		respondInternal(c, err, "Failed to load users")
		return
	}
	respond(c, http.StatusOK, "", users)
}

// GetAllOrders returns all orders with items and history, newest first
// (admin only). ?status= narrows the list to one stage.
func GetAllOrders(c *gin.Context) {
	var orders []models.Order
	query := config.DB.Preload("OrderItems.Dish").Preload("StatusHistory")

	if raw := c.Query("status"); raw != "" {
		status, ok := statemachine.Parse(raw)
		if !ok {
			respondError(c, http.StatusBadRequest, "Unknown order status: "+raw)
			return
		}
		query = query.Where("order_status = ?", status)
	}
	if userID := c.Query("user"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	if err := query.Order("created_at desc").Order("id desc").Find(&orders).Error; err != nil {
		respondInternal(c, err, "Failed to load orders")
		return
	}
	respond(c, http.StatusOK, "", orders)
}

// GetOrderSummary aggregates orders per stage and sums revenue from delivered
// orders (admin dashboard).
func GetOrderSummary(c *gin.Context) {
	var orders []models.Order
	if err := config.DB.Select("id", "order_status", "total_amount").Find(&orders).Error; err != nil {
		respondInternal(c, err, "Failed to load orders")
		return
	}

	summary := models.OrderSummary{Count: len(orders), ByStatus: map[models.OrderStatus]int{}}
	for _, st := range statemachine.Stages {
		summary.ByStatus[st] = 0
	}
	revenue := decimal.Zero
	for _, o := range orders {
		summary.ByStatus[o.OrderStatus]++
		if o.OrderStatus == models.StatusDelivered {
			revenue = revenue.Add(decimal.NewFromFloat(o.TotalAmount))
		}
	}
	summary.TotalRevenue = revenue.Round(2).InexactFloat64()

	var users, dishes, reviews int64
	if err := config.DB.Model(&models.User{}).Where("role = ?", models.RoleUser).Count(&users).Error; err != nil {
		respondInternal(c, err, "Failed to count users")
		return
	}
	if err := config.DB.Model(&models.Dish{}).Count(&dishes).Error; err != nil {
		respondInternal(c, err, "Failed to count dishes")
		return
	}
	if err := config.DB.Model(&models.Review{}).Count(&reviews).Error; err != nil {
		respondInternal(c, err, "Failed to count reviews")
		return
	}
	summary.TotalUsers = int(users)
	summary.TotalDishes = int(dishes)
	summary.TotalReviews = int(reviews)

	respond(c, http.StatusOK, "", summary)
}
