package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"food-ordering-api/listing"
	"food-ordering-api/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func (c *Client) Dishes(ctx context.Context) ([]models.Dish, error) {
	var dishes []models.Dish
	err := c.do(ctx, http.MethodGet, "/dish/getAllDishes", nil, &dishes)
	return dishes, err
}

func (c *Client) Dish(ctx context.Context, id uint) (models.Dish, error) {
	var dish models.Dish
	err := c.do(ctx, http.MethodGet, "/dish/getDishById/"+strconv.FormatUint(uint64(id), 10), nil, &dish)
	return dish, err
}

// Catalog fetches every dish once and returns a browsing state over them.
// Searching and paging the result makes no further requests.
func (c *Client) Catalog(ctx context.Context, pageSize int) (*listing.Catalog, error) {
	dishes, err := c.Dishes(ctx)
	if err != nil {
		return nil, err
	}
	return listing.NewCatalog(dishes, pageSize), nil
}

// SearchDishes runs the catalog query on the server.
func (c *Client) SearchDishes(ctx context.Context, term, cuisine string, page, limit int) (listing.Page[models.Dish], error) {
	q := url.Values{}
	q.Set("search", term)
	if cuisine != "" && cuisine != listing.AllCuisine {
		q.Set("cuisine", cuisine)
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var result listing.Page[models.Dish]
	err := c.do(ctx, http.MethodGet, "/dish/search?"+q.Encode(), nil, &result)
	return result, err
}

func (c *Client) AddDish(ctx context.Context, req models.DishRequest) (models.Dish, error) {
	var dish models.Dish
	if err := c.RequireRole(models.RoleAdmin); err != nil {
		return dish, err
	}
	if err := c.check(req); err != nil {
		return dish, err
	}
	err := c.do(ctx, http.MethodPost, "/dish/addDish", req, &dish)
	return dish, err
}

func (c *Client) UpdateDish(ctx context.Context, id uint, req models.DishRequest) (models.Dish, error) {
	var dish models.Dish
	if err := c.RequireRole(models.RoleAdmin); err != nil {
		return dish, err
	}
	if err := c.check(req); err != nil {
		return dish, err
	}
	err := c.do(ctx, http.MethodPut, "/dish/updateDish/"+strconv.FormatUint(uint64(id), 10), req, &dish)
	return dish, err
}

func (c *Client) DeleteDish(ctx context.Context, id uint) error {
	if err := c.RequireRole(models.RoleAdmin); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/dish/deleteDish/"+strconv.FormatUint(uint64(id), 10), nil, nil)
}

// AddToCart puts quantity units of dish in the cart, merging with an
// existing line for the same dish.
func (c *Client) AddToCart(dish models.Dish, quantity int) error {
	if err := c.cart.Add(dish, quantity); err != nil {
		return err
	}
	c.logger.WithFields(logrus.Fields{
		"dish_id":  dish.ID,
		"quantity": quantity,
	}).Debug("Added to cart")
	return nil
}

type QuoteLine struct {
	DishID    uint    `json:"dishId"`
	DishName  string  `json:"dishName"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Subtotal  float64 `json:"subtotal"`
	Available bool    `json:"available"`
}

// Quote is the cart priced against the current menu.
type Quote struct {
	Lines []QuoteLine `json:"lines"`
	Total float64     `json:"total"`
}

// Orderable reports whether every line refers to a dish that can be ordered.
func (q Quote) Orderable() bool {
	for _, l := range q.Lines {
		if !l.Available {
			return false
		}
	}
	return len(q.Lines) > 0
}

// Quote prices the cart with freshly fetched dish prices. Lines whose dish
// is gone or unavailable are kept but contribute nothing to the total.
func (c *Client) Quote(ctx context.Context) (Quote, error) {
	var quote Quote
	items := c.cart.Items()
	if len(items) == 0 {
		return quote, ErrEmptyCart
	}
	dishes, err := c.Dishes(ctx)
	if err != nil {
		return quote, fmt.Errorf("fetch prices: %w", err)
	}
	byID := make(map[uint]models.Dish, len(dishes))
	for _, d := range dishes {
		byID[d.ID] = d
	}

	total := decimal.Zero
	for _, it := range items {
		line := QuoteLine{DishID: it.DishID, DishName: it.DishName, Quantity: it.Quantity}
		if d, ok := byID[it.DishID]; ok {
			line.DishName = d.DishName
			line.Price = d.Price
			line.Available = d.IsAvailable
		}
		if line.Available {
			sub := decimal.NewFromFloat(line.Price).Mul(decimal.NewFromInt(int64(line.Quantity)))
			line.Subtotal = sub.Round(2).InexactFloat64()
			total = total.Add(sub)
		}
		quote.Lines = append(quote.Lines, line)
	}
	quote.Total = total.Round(2).InexactFloat64()
	return quote, nil
}
