package handlers

import (
	"net/http"
	"strings"
	"time"

	"food-ordering-api/config"
	"food-ordering-api/listing"
	"food-ordering-api/middleware"
	"food-ordering-api/models"

	"github.com/gin-gonic/gin"
)

func findReviews(c *gin.Context, query string, args ...interface{}) {
	var reviews []models.Review
	db := config.DB.Order("date desc").Order("id desc")
	if query != "" {
		db = db.Where(query, args...)
	}
	if err := db.Find(&reviews).Error; err != nil {
		respondInternal(c, err, "Failed to load reviews")
		return
	}
	respond(c, http.StatusOK, "", reviews)
}

// GetAllReviews returns every review, newest first
func GetAllReviews(c *gin.Context) {
	findReviews(c, "")
}

func GetReviewByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var review models.Review
	if err := config.DB.First(&review, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "Review not found")
		return
	}
	respond(c, http.StatusOK, "", review)
}

func GetReviewsByUserID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	findReviews(c, "user_id = ?", id)
}

func GetReviewsByDishID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	findReviews(c, "dish_id = ?", id)
}

// GetReviewFeed returns reviews joined with dish and author names.
// ?search= matches either name, ?sort=asc|desc orders by date (newest first
// by default), ?page= and ?limit= paginate.
func GetReviewFeed(c *gin.Context) {
	var (
		reviews []models.Review
		dishes  []models.Dish
		users   []models.User
	)
	if err := config.DB.Order("id").Find(&reviews).Error; err != nil {
		respondInternal(c, err, "Failed to load reviews")
		return
	}
	if err := config.DB.Select("id", "dish_name").Find(&dishes).Error; err != nil {
		respondInternal(c, err, "Failed to load dishes")
		return
	}
	if err := config.DB.Select("id", "username").Find(&users).Error; err != nil {
		respondInternal(c, err, "Failed to load users")
		return
	}

	feed := listing.NewReviewFeed(listing.JoinReviews(reviews, dishes, users), queryInt(c, "limit", listing.ReviewPageSize))
	feed.SetAscending(strings.EqualFold(c.Query("sort"), "asc"))
	feed.Search(c.Query("search"))
	respond(c, http.StatusOK, "", feed.SetPage(queryInt(c, "page", 1)))
}

// AddReview records a review by the authenticated user for an existing dish
func AddReview(c *gin.Context) {
	var req models.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	var dish models.Dish
	if err := config.DB.First(&dish, req.Dish).Error; err != nil {
		respondError(c, http.StatusNotFound, "Dish not found")
		return
	}

	review := models.Review{
		Rating:     req.Rating,
		ReviewText: strings.TrimSpace(req.ReviewText),
		Date:       time.Now(),
		UserID:     middleware.GetUserID(c),
		DishID:     dish.ID,
	}
	if err := config.DB.Create(&review).Error; err != nil {
		respondInternal(c, err, "Failed to add review")
		return
	}
	respond(c, http.StatusCreated, "Review added successfully", review)
}

// loadOwnReview fetches a review written by the caller.
func loadOwnReview(c *gin.Context) (models.Review, bool) {
	var review models.Review
	id, ok := paramID(c, "id")
	if !ok {
		return review, false
	}
	if err := config.DB.First(&review, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "Review not found")
		return review, false
	}
	if review.UserID != middleware.GetUserID(c) {
		respondError(c, http.StatusForbidden, "You can only change your own reviews")
		return review, false
	}
	return review, true
}

func UpdateReview(c *gin.Context) {
	review, ok := loadOwnReview(c)
	if !ok {
		return
	}
	var req models.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	review.Rating = req.Rating
	review.ReviewText = strings.TrimSpace(req.ReviewText)
	review.Date = time.Now()
	if err := config.DB.Save(&review).Error; err != nil {
		respondInternal(c, err, "Failed to update review")
		return
	}
	respond(c, http.StatusOK, "Review updated successfully", review)
}

func DeleteReview(c *gin.Context) {
	review, ok := loadOwnReview(c)
	if !ok {
		return
	}
	if err := config.DB.Delete(&review).Error; err != nil {
		respondInternal(c, err, "Failed to delete review")
		return
	}
	respond(c, http.StatusOK, "Review deleted successfully", nil)
}
