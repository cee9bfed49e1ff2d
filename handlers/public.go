package handlers

import (
	"net/http"
	"strings"

	"food-ordering-api/config"
	"food-ordering-api/listing"
	"food-ordering-api/models"
	"food-ordering-api/statemachine"

	"github.com/gin-gonic/gin"
)

// GetAllDishes returns every dish in store order (public)
func GetAllDishes(c *gin.Context) {
	var dishes []models.Dish
	if err := config.DB.Order("id").Find(&dishes).Error; err != nil {
		respondInternal(c, err, "Failed to load dishes")
		return
	}
	respond(c, http.StatusOK, "", dishes)
}

// GetDishByID returns a single dish
func GetDishByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var dish models.Dish
	if err := config.DB.First(&dish, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "Dish not found")
		return
	}
	respond(c, http.StatusOK, "", dish)
}

// SearchDishes runs the catalog query server-side: ?search= matches name or
// description, ?cuisine= filters exactly, ?page= and ?limit= paginate.
func SearchDishes(c *gin.Context) {
	var dishes []models.Dish
	query := config.DB.Order("id")
	if c.Query("available") == "true" {
		query = query.Where("is_available = ?", true)
	}
	if err := query.Find(&dishes).Error; err != nil {
		respondInternal(c, err, "Failed to load dishes")
		return
	}

	catalog := listing.NewCatalog(dishes, queryInt(c, "limit", listing.UserPageSize))
	catalog.Search(c.Query("search"), c.Query("cuisine"))
	respond(c, http.StatusOK, "", catalog.SetPage(queryInt(c, "page", 1)))
}

// GetCuisines lists the cuisines offered by the filter
func GetCuisines(c *gin.Context) {
	respond(c, http.StatusOK, "", listing.Cuisines)
}

// GetOrderStages describes the order lifecycle for clients and docs
func GetOrderStages(c *gin.Context) {
	stages := make([]string, len(statemachine.Stages))
	for i, s := range statemachine.Stages {
		stages[i] = string(s)
	}
	respond(c, http.StatusOK, "", gin.H{
		"stages":         statemachine.Stages,
		"transitions":    statemachine.GetAllTransitions(),
		"terminalStates": []models.OrderStatus{models.StatusDelivered},
		"cancellable":    []models.OrderStatus{models.StatusPending},
		"description":    "Order lifecycle: " + strings.Join(stages, " → "),
	})
}
