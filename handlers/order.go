package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"food-ordering-api/config"
	"food-ordering-api/events"
	"food-ordering-api/middleware"
	"food-ordering-api/models"
	"food-ordering-api/statemachine"
	"food-ordering-api/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"
)

// errOrderRejected marks a problem with the order contents, as opposed to a
// storage failure.
type errOrderRejected struct{ msg string }

func (e errOrderRejected) Error() string { return e.msg }

// priceOrder resolves each requested line against the dish table, capturing
// the current price, and returns the lines with their decimal total.
func priceOrder(tx *gorm.DB, lines []models.OrderLineRequest) ([]models.OrderItem, decimal.Decimal, error) {
	items := make([]models.OrderItem, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		var dish models.Dish
		if err := tx.First(&dish, line.Dish).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, total, errOrderRejected{fmt.Sprintf("Dish %d not found", line.Dish)}
			}
			return nil, total, err
		}
		if !dish.IsAvailable {
			return nil, total, errOrderRejected{"Dish '" + dish.DishName + "' is not available"}
		}
		total = total.Add(decimal.NewFromFloat(dish.Price).Mul(decimal.NewFromInt(int64(line.Quantity))))
		items = append(items, models.OrderItem{
			DishID:   dish.ID,
			Quantity: line.Quantity,
			Price:    dish.Price,
		})
	}
	return items, total.Round(2), nil
}

// publishOrderEvent hands an event to the broker without failing the request.
func publishOrderEvent(c *gin.Context, topic string, event events.OrderEvent) {
	if err := publisher.Publish(context.WithoutCancel(c.Request.Context()), topic, event); err != nil {
		logEntry(c).WithError(err).WithField("topic", topic).Warn("Failed to publish order event")
	}
}

// AddOrder places an order for the authenticated user. Prices come from the
// dish table, never from the request.
func AddOrder(c *gin.Context) {
	ctx, span := telemetry.Tracer().Start(c.Request.Context(), "order.place")
	defer span.End()

	userID := middleware.GetUserID(c)

	var req models.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		respondBindError(c, err)
		return
	}

	var order models.Order
	err := config.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items, total, err := priceOrder(tx, req.OrderItems)
		if err != nil {
			return err
		}
		order = models.Order{
			UserID:          userID,
			OrderItems:      items,
			TotalAmount:     total.InexactFloat64(),
			ShippingAddress: strings.TrimSpace(req.ShippingAddress),
			BillingAddress:  strings.TrimSpace(req.BillingAddress),
			OrderStatus:     models.StatusPending,
			OrderDate:       time.Now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:   order.ID,
			ToStatus:  models.StatusPending,
			ChangedBy: userID,
			Note:      "Order placed",
		}).Error
	})
	var rejected errOrderRejected
	if errors.As(err, &rejected) {
		span.SetStatus(codes.Error, rejected.msg)
		respondError(c, http.StatusBadRequest, rejected.msg)
		return
	}
	if err != nil {
		span.RecordError(err)
		respondInternal(c, err, "Failed to place order")
		return
	}

	config.DB.WithContext(ctx).Preload("OrderItems.Dish").First(&order, order.ID)

	span.SetAttributes(
		attribute.Int("order.id", int(order.ID)),
		attribute.Int("order.items", len(order.OrderItems)),
		attribute.Float64("order.total", order.TotalAmount),
	)
	telemetry.OrdersPlaced.Inc()
	publishOrderEvent(c, events.OrderCreatedTopic, events.OrderEvent{
		OrderID:     order.ID,
		UserID:      userID,
		Status:      order.OrderStatus,
		TotalAmount: order.TotalAmount,
		ChangedBy:   userID,
	})
	if orderHub != nil {
		orderHub.Broadcast(events.OrderCreatedTopic, order, order.UserID)
	}
	logEntry(c).WithField("order_id", order.ID).Info("Order placed")

	respond(c, http.StatusCreated, "Order placed successfully", order)
}

// loadOwnedOrder fetches an order the caller may see: their own, or any
// order for an admin.
func loadOwnedOrder(c *gin.Context, preload ...string) (models.Order, bool) {
	var order models.Order
	id, ok := paramID(c, "id")
	if !ok {
		return order, false
	}
	query := config.DB
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&order, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "Order not found")
		return order, false
	}
	if order.UserID != middleware.GetUserID(c) && !middleware.IsAdmin(c) {
		respondError(c, http.StatusForbidden, "This order does not belong to you")
		return order, false
	}
	return order, true
}

// GetOrderByID returns one order with its items and status history
func GetOrderByID(c *gin.Context) {
	order, ok := loadOwnedOrder(c, "OrderItems.Dish", "StatusHistory")
	if !ok {
		return
	}
	respond(c, http.StatusOK, "", order)
}

// GetOrdersByUserID returns a user's orders, newest first. Users may only
// list their own.
func GetOrdersByUserID(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	if userID != middleware.GetUserID(c) && !middleware.IsAdmin(c) {
		respondError(c, http.StatusForbidden, "You can only view your own orders")
		return
	}

	var orders []models.Order
	if err := config.DB.Preload("OrderItems.Dish").
		Where("user_id = ?", userID).
		Order("created_at desc").Order("id desc").
		Find(&orders).Error; err != nil {
		respondInternal(c, err, "Failed to load orders")
		return
	}
	respond(c, http.StatusOK, "", orders)
}

// DeleteOrder withdraws an order. Only its owner may do so, and only while
// it is still Pending.
func DeleteOrder(c *gin.Context) {
	ctx, span := telemetry.Tracer().Start(c.Request.Context(), "order.cancel")
	defer span.End()

	userID := middleware.GetUserID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("order.id", int(id)))

	var order models.Order
	if err := config.DB.WithContext(ctx).First(&order, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "Order not found")
		return
	}
	if order.UserID != userID {
		respondError(c, http.StatusForbidden, "This order does not belong to you")
		return
	}
	if err := statemachine.CanCancel(order.OrderStatus); err != nil {
		span.SetStatus(codes.Error, err.Error())
		respondNotCancellable(c, order.OrderStatus, err)
		return
	}

	err := cancelPending(ctx, order.ID)
	if errors.Is(err, statemachine.ErrNotCancellable) {
		// the order moved on after it was loaded
		span.SetStatus(codes.Error, err.Error())
		var current models.Order
		config.DB.WithContext(ctx).Select("order_status").First(&current, order.ID)
		respondNotCancellable(c, current.OrderStatus, err)
		return
	}
	if err != nil {
		span.RecordError(err)
		respondInternal(c, err, "Failed to cancel order")
		return
	}

	telemetry.OrdersCancelled.Inc()
	publishOrderEvent(c, events.OrderCancelledTopic, events.OrderEvent{
		OrderID:        order.ID,
		UserID:         order.UserID,
		PreviousStatus: order.OrderStatus,
		TotalAmount:    order.TotalAmount,
		ChangedBy:      userID,
	})
	if orderHub != nil {
		orderHub.Broadcast(events.OrderCancelledTopic, gin.H{"orderId": order.ID}, order.UserID)
	}
	logEntry(c).WithField("order_id", order.ID).Info("Order cancelled")

	respond(c, http.StatusOK, "Order cancelled successfully", gin.H{"orderId": order.ID})
}

func respondNotCancellable(c *gin.Context, status models.OrderStatus, err error) {
	c.JSON(http.StatusUnprocessableEntity, models.Response[gin.H]{
		Success: false,
		Message: "Cannot cancel order: " + err.Error(),
		Data:    gin.H{"orderStatus": status},
	})
}

// cancelPending deletes an order with its items and history, but only while
// it is still Pending; otherwise nothing is removed and ErrNotCancellable is
// returned.
func cancelPending(ctx context.Context, orderID uint) error {
	return config.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderStatusHistory{}).Error; err != nil {
			return err
		}
		res := tx.Where("order_status = ?", models.StatusPending).Delete(&models.Order{}, orderID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return statemachine.ErrNotCancellable
		}
		return nil
	})
}

// TrackOrders upgrades to a websocket that streams the caller's order
// updates (every order's, for an admin).
func TrackOrders(c *gin.Context) {
	if orderHub == nil {
		respondError(c, http.StatusServiceUnavailable, "Live tracking is not enabled")
		return
	}
	orderHub.HandleWebSocket(c.Writer, c.Request, middleware.GetUserID(c), middleware.IsAdmin(c))
}
