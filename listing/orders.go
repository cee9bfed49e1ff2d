package listing

import (
	"time"

	"food-ordering-api/models"
	"food-ordering-api/statemachine"
)

const (
	PlaceholderImage = "https://via.placeholder.com/100"
	NotAvailable     = "N/A"
)

type OrderItemView struct {
	DishID     uint    `json:"dishId"`
	DishName   string  `json:"dishName"`
	CoverImage string  `json:"coverImage"`
	Cuisine    string  `json:"cuisine"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
}

// OrderView is an order prepared for display, with every missing reference
// replaced by a placeholder.
type OrderView struct {
	ID              uint                `json:"id"`
	OrderDate       time.Time           `json:"orderDate"`
	OrderStatus     models.OrderStatus  `json:"orderStatus"`
	TotalAmount     float64             `json:"totalAmount"`
	ShippingAddress string              `json:"shippingAddress"`
	BillingAddress  string              `json:"billingAddress"`
	Items           []OrderItemView     `json:"items"`
	Tracker         []statemachine.Step `json:"tracker"`
	Cancellable     bool                `json:"cancellable"`
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func ViewOrder(o models.Order) OrderView {
	v := OrderView{
		ID:              o.ID,
		OrderDate:       o.OrderDate,
		OrderStatus:     o.OrderStatus,
		TotalAmount:     o.TotalAmount,
		ShippingAddress: orDefault(o.ShippingAddress, NotAvailable),
		BillingAddress:  orDefault(o.BillingAddress, NotAvailable),
		Items:           make([]OrderItemView, len(o.OrderItems)),
		Tracker:         statemachine.Track(o.OrderStatus),
		Cancellable:     statemachine.CanCancel(o.OrderStatus) == nil,
	}
	for i, it := range o.OrderItems {
		iv := OrderItemView{
			DishID:     it.DishID,
			DishName:   UnknownDish,
			CoverImage: PlaceholderImage,
			Cuisine:    NotAvailable,
			Quantity:   it.Quantity,
			Price:      it.Price,
		}
		if it.Dish != nil {
			iv.DishName = orDefault(it.Dish.DishName, UnknownDish)
			iv.CoverImage = orDefault(it.Dish.CoverImage, PlaceholderImage)
			iv.Cuisine = orDefault(it.Dish.Cuisine, NotAvailable)
		}
		v.Items[i] = iv
	}
	return v
}

func ViewOrders(orders []models.Order) []OrderView {
	out := make([]OrderView, len(orders))
	for i, o := range orders {
		out[i] = ViewOrder(o)
	}
	return out
}

// RemoveOrder drops the order with id from views, leaving the rest in their
// current order. views itself is not modified.
func RemoveOrder(views []OrderView, id uint) []OrderView {
	out := make([]OrderView, 0, len(views))
	for _, v := range views {
		if v.ID != id {
			out = append(out, v)
		}
	}
	return out
}
