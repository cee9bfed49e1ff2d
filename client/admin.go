package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"food-ordering-api/models"
)

func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	if err := c.RequireRole(models.RoleAdmin); err != nil {
		return nil, err
	}
	var users []models.User
	err := c.do(ctx, http.MethodGet, "/user/getAllUsers", nil, &users)
	return users, err
}

// AllOrders lists every order, optionally only those in one stage.
func (c *Client) AllOrders(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	if err := c.RequireRole(models.RoleAdmin); err != nil {
		return nil, err
	}
	path := "/order/getAllOrders"
	if status != "" {
		path += "?" + url.Values{"status": {string(status)}}.Encode()
	}
	var orders []models.Order
	err := c.do(ctx, http.MethodGet, path, nil, &orders)
	return orders, err
}

// SetOrderStatus moves an order to status. With force the server skips the
// transition check and records the change as an override.
func (c *Client) SetOrderStatus(ctx context.Context, id uint, status models.OrderStatus, note string, force bool) (models.Order, error) {
	var order models.Order
	if err := c.RequireRole(models.RoleAdmin); err != nil {
		return order, err
	}
	req := models.UpdateOrderRequest{OrderStatus: string(status), Note: note, Force: force}
	err := c.do(ctx, http.MethodPut, "/order/updateOrder/"+strconv.FormatUint(uint64(id), 10), req, &order)
	return order, err
}

func (c *Client) OrderSummary(ctx context.Context) (models.OrderSummary, error) {
	var summary models.OrderSummary
	if err := c.RequireRole(models.RoleAdmin); err != nil {
		return summary, err
	}
	err := c.do(ctx, http.MethodGet, "/order/summary", nil, &summary)
	return summary, err
}
