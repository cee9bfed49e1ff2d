package handlers

import (
	"errors"
	"net/http"
	"strings"

	"food-ordering-api/config"
	"food-ordering-api/models"

	"github.com/gin-gonic/gin"
)

// bindDish reads a dish from either a JSON body or a multipart form. In the
// multipart case a "coverImage" file part takes precedence over a text field.
func bindDish(c *gin.Context) (models.DishRequest, bool) {
	var req models.DishRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return req, false
	}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if fh, err := c.FormFile("coverImage"); err == nil {
			uri, err := coverImageFromUpload(fh)
			if err != nil {
				respondImageError(c, err)
				return req, false
			}
			req.CoverImage = uri
			return req, true
		}
	}

	if req.CoverImage != "" {
		img, err := normalizeCoverImage(req.CoverImage)
		if err != nil {
			respondImageError(c, err)
			return req, false
		}
		req.CoverImage = img
	}
	return req, true
}

func respondImageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrImageTooLarge):
		respondError(c, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, ErrImageType), errors.Is(err, ErrImageSource):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		respondInternal(c, err, "Failed to read cover image")
	}
}

// AddDish creates a dish (admin only). A cover image is required.
func AddDish(c *gin.Context) {
	req, ok := bindDish(c)
	if !ok {
		return
	}
	if req.CoverImage == "" {
		respondError(c, http.StatusBadRequest, "coverImage is required")
		return
	}

	dish := models.Dish{
		DishName:    strings.TrimSpace(req.DishName),
		Description: strings.TrimSpace(req.Description),
		Cuisine:     strings.TrimSpace(req.Cuisine),
		Price:       *req.Price,
		IsAvailable: true,
		CoverImage:  req.CoverImage,
	}
	if req.IsAvailable != nil {
		dish.IsAvailable = *req.IsAvailable
	}
	if err := config.DB.Create(&dish).Error; err != nil {
		respondInternal(c, err, "Failed to add dish")
		return
	}
	logEntry(c).WithField("dish_id", dish.ID).Info("Dish added")
	respond(c, http.StatusCreated, "Dish added successfully", dish)
}

// UpdateDish replaces a dish's details (admin only). The cover image is kept
// when none is supplied.
func UpdateDish(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var dish models.Dish
	if err := config.DB.First(&dish, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "Dish not found")
		return
	}

	req, ok := bindDish(c)
	if !ok {
		return
	}

	dish.DishName = strings.TrimSpace(req.DishName)
	dish.Description = strings.TrimSpace(req.Description)
	dish.Cuisine = strings.TrimSpace(req.Cuisine)
	dish.Price = *req.Price
	if req.IsAvailable != nil {
		dish.IsAvailable = *req.IsAvailable
	}
	if req.CoverImage != "" {
		dish.CoverImage = req.CoverImage
	}
	if err := config.DB.Save(&dish).Error; err != nil {
		respondInternal(c, err, "Failed to update dish")
		return
	}
	respond(c, http.StatusOK, "Dish updated successfully", dish)
}

// DeleteDish removes a dish (admin only). Orders and reviews that reference
// it are left in place and render it as an unknown dish.
func DeleteDish(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	result := config.DB.Delete(&models.Dish{}, id)
	if result.Error != nil {
		respondInternal(c, result.Error, "Failed to delete dish")
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, http.StatusNotFound, "Dish not found")
		return
	}
	logEntry(c).WithField("dish_id", id).Info("Dish deleted")
	respond(c, http.StatusOK, "Dish deleted successfully", nil)
}
