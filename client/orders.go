package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"food-ordering-api/listing"
	"food-ordering-api/models"
	"food-ordering-api/statemachine"

	"github.com/sirupsen/logrus"
)

// Checkout places an order for everything in the cart and empties the cart
// once the server accepts it. Missing session, empty cart and blank
// addresses are reported without contacting the server.
func (c *Client) Checkout(ctx context.Context, shipping, billing string) (models.Order, error) {
	var order models.Order
	if _, ok := c.Session(); !ok {
		return order, ErrNoSession
	}
	items := c.cart.Items()
	if len(items) == 0 {
		return order, ErrEmptyCart
	}

	req := models.PlaceOrderRequest{
		OrderItems:      make([]models.OrderLineRequest, len(items)),
		ShippingAddress: strings.TrimSpace(shipping),
		BillingAddress:  strings.TrimSpace(billing),
	}
	for i, it := range items {
		req.OrderItems[i] = models.OrderLineRequest{Dish: it.DishID, Quantity: it.Quantity}
	}
	if err := c.check(req); err != nil {
		return order, err
	}

	quote, err := c.Quote(ctx)
	if err != nil {
		return order, err
	}
	if err := c.do(ctx, http.MethodPost, "/order/addOrder", req, &order); err != nil {
		return order, err
	}

	if quote.Total != order.TotalAmount {
		c.logger.WithFields(logrus.Fields{
			"order_id": order.ID,
			"quoted":   quote.Total,
			"charged":  order.TotalAmount,
		}).Warn("Order total differs from the cart quote")
	}
	if err := c.cart.Clear(); err != nil {
		return order, fmt.Errorf("order %d placed but the cart could not be cleared: %w", order.ID, err)
	}
	c.logger.WithField("order_id", order.ID).Info("Order placed")
	return order, nil
}

// CancelOrder withdraws an order. Orders past Pending fail with
// ErrNotCancellable and no request is made.
func (c *Client) CancelOrder(ctx context.Context, order models.Order) error {
	return c.cancel(ctx, order.ID, order.OrderStatus)
}

// CancelListed withdraws the order with id from a list returned by MyOrders
// and returns the list without it. On failure the list comes back unchanged.
func (c *Client) CancelListed(ctx context.Context, views []listing.OrderView, id uint) ([]listing.OrderView, error) {
	for _, v := range views {
		if v.ID != id {
			continue
		}
		if err := c.cancel(ctx, v.ID, v.OrderStatus); err != nil {
			return views, err
		}
		return listing.RemoveOrder(views, id), nil
	}
	return views, fmt.Errorf("order %d is not in the list", id)
}

func (c *Client) cancel(ctx context.Context, id uint, status models.OrderStatus) error {
	if err := statemachine.CanCancel(status); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/order/deleteOrder/"+strconv.FormatUint(uint64(id), 10), nil, nil)
}

func (c *Client) Order(ctx context.Context, id uint) (models.Order, error) {
	var order models.Order
	err := c.do(ctx, http.MethodGet, "/order/getOrderById/"+strconv.FormatUint(uint64(id), 10), nil, &order)
	return order, err
}

// MyOrders returns the logged-in user's orders, newest first, ready for
// display.
func (c *Client) MyOrders(ctx context.Context) ([]listing.OrderView, error) {
	sess, ok := c.Session()
	if !ok {
		return nil, ErrNoSession
	}
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/order/getOrdersByUserId/"+strconv.FormatUint(uint64(sess.UserID), 10), nil, &orders); err != nil {
		return nil, err
	}
	return listing.ViewOrders(orders), nil
}
