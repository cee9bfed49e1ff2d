package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"food-ordering-api/config"
	"food-ordering-api/events"
	"food-ordering-api/middleware"
	"food-ordering-api/models"
	"food-ordering-api/statemachine"
	"food-ordering-api/telemetry"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"
)

// UpdateOrder moves an order to a new stage (admin only). Normal moves go
// one stage forward; "force" skips the check and is recorded as an override.
func UpdateOrder(c *gin.Context) {
	ctx, span := telemetry.Tracer().Start(c.Request.Context(), "order.update_status")
	defer span.End()

	adminID := middleware.GetUserID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	next, ok := statemachine.Parse(req.OrderStatus)
	if !ok {
		respondError(c, http.StatusBadRequest, "Unknown order status: "+req.OrderStatus)
		return
	}

	var order models.Order
	if err := config.DB.WithContext(ctx).First(&order, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "Order not found")
		return
	}
	prevStatus := order.OrderStatus
	span.SetAttributes(
		attribute.Int("order.id", int(order.ID)),
		attribute.String("order.from", string(prevStatus)),
		attribute.String("order.to", string(next)),
		attribute.Bool("order.forced", req.Force),
	)

	if !req.Force {
		if err := statemachine.CanTransition(prevStatus, next, statemachine.ActorAdmin); err != nil {
			span.SetStatus(codes.Error, err.Error())
			c.JSON(http.StatusUnprocessableEntity, models.Response[gin.H]{
				Success: false,
				Message: err.Error(),
				Data: gin.H{
					"currentStatus":    prevStatus,
					"validTransitions": statemachine.ValidTransitionsFrom(prevStatus),
				},
			})
			return
		}
	}

	note := strings.TrimSpace(req.Note)
	if req.Force {
		note = strings.TrimSpace("[ADMIN OVERRIDE] " + note)
	}
	if note == "" {
		note = "Status changed to " + string(next)
	}

	err := config.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&order).Update("order_status", next).Error; err != nil {
			return err
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:    order.ID,
			FromStatus: prevStatus,
			ToStatus:   next,
			ChangedBy:  adminID,
			Note:       note,
		}).Error
	})
	if err != nil {
		span.RecordError(err)
		respondInternal(c, err, "Failed to update order status")
		return
	}

	config.DB.WithContext(ctx).Preload("OrderItems.Dish").Preload("StatusHistory").First(&order, order.ID)

	telemetry.StatusTransitions.WithLabelValues(string(next), strconv.FormatBool(req.Force)).Inc()
	publishOrderEvent(c, events.OrderStatusChangedTopic, events.OrderEvent{
		OrderID:        order.ID,
		UserID:         order.UserID,
		Status:         next,
		PreviousStatus: prevStatus,
		TotalAmount:    order.TotalAmount,
		ChangedBy:      adminID,
		Forced:         req.Force,
	})
	if orderHub != nil {
		orderHub.Broadcast(events.OrderStatusChangedTopic, gin.H{
			"orderId":        order.ID,
			"orderStatus":    next,
			"previousStatus": prevStatus,
			"tracker":        statemachine.Track(next),
		}, order.UserID)
	}
	logEntry(c).WithField("order_id", order.ID).
		WithField("from", prevStatus).
		WithField("to", next).
		WithField("forced", req.Force).
		Info("Order status changed")

	respond(c, http.StatusOK, "Order status updated", order)
}
