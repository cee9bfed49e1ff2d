package routes

import (
	"food-ordering-api/handlers"
	"food-ordering-api/middleware"
	"food-ordering-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	auth := middleware.AuthRequired()
	admin := middleware.RoleRequired(models.RoleAdmin)

	// ── Users ──────────────────────────────────────────────────────
	user := r.Group("/user")
	{
		user.POST("/register", handlers.Register)
		user.POST("/login", handlers.Login)
		user.PUT("/resetPassword", handlers.ResetPassword)

		user.GET("/me", auth, handlers.GetProfile)
		user.GET("/getUserById/:id", auth, handlers.GetUserByID)
		user.GET("/getAllUsers", auth, admin, handlers.GetAllUsers)
	}

	// ── Dishes ─────────────────────────────────────────────────────
	dish := r.Group("/dish")
	{
		dish.GET("/getAllDishes", handlers.GetAllDishes)
		dish.GET("/getDishById/:id", handlers.GetDishByID)
		dish.GET("/search", handlers.SearchDishes)
		dish.GET("/cuisines", handlers.GetCuisines)

		dish.POST("/addDish", auth, admin, handlers.AddDish)
		dish.PUT("/updateDish/:id", auth, admin, handlers.UpdateDish)
		dish.DELETE("/deleteDish/:id", auth, admin, handlers.DeleteDish)
	}

	// ── Orders ─────────────────────────────────────────────────────
	order := r.Group("/order")
	{
		order.GET("/stages", handlers.GetOrderStages)

		order.POST("/addOrder", auth, handlers.AddOrder)
		order.GET("/getOrderById/:id", auth, handlers.GetOrderByID)
		order.GET("/getOrdersByUserId/:userId", auth, handlers.GetOrdersByUserID)
		order.DELETE("/deleteOrder/:id", auth, handlers.DeleteOrder)
		order.GET("/track", auth, handlers.TrackOrders)

		order.GET("/getAllOrders", auth, admin, handlers.GetAllOrders)
		order.GET("/summary", auth, admin, handlers.GetOrderSummary)
		order.PUT("/updateOrder/:id", auth, admin, handlers.UpdateOrder)
	}

	// ── Reviews ────────────────────────────────────────────────────
	review := r.Group("/review")
	{
		review.GET("/getAllReviews", handlers.GetAllReviews)
		review.GET("/getReviewById/:id", handlers.GetReviewByID)
		review.GET("/getReviewsByUserId/:id", handlers.GetReviewsByUserID)
		review.GET("/getReviewsByDishId/:id", handlers.GetReviewsByDishID)
		review.GET("/feed", handlers.GetReviewFeed)

		review.POST("/addReview", auth, handlers.AddReview)
		review.PUT("/updateReview/:id", auth, handlers.UpdateReview)
		review.DELETE("/deleteReview/:id", auth, handlers.DeleteReview)
	}
}
