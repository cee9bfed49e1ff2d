// Package cart is the client-held shopping cart: one line per dish with an
// accumulated quantity, persisted through an appstate.Slot.
package cart

import (
	"errors"

	"food-ordering-api/appstate"
	"food-ordering-api/models"

	"github.com/sirupsen/logrus"
)

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

type Item struct {
	DishID   uint   `json:"dishId"`
	DishName string `json:"dishName"`
	Quantity int    `json:"quantity"`
}

type Store struct {
	slot *appstate.Slot[[]Item]
}

// Open returns a store backed by path, or an in-memory store when path is
// empty. Unreadable saved carts load as empty.
func Open(path string, logger *logrus.Logger) (*Store, error) {
	slot, err := appstate.Open[[]Item](path, logger)
	if err != nil {
		return nil, err
	}
	return &Store{slot: slot}, nil
}

// Add puts quantity units of dish in the cart. A dish already in the cart
// has its quantity increased instead of getting a second line.
func (s *Store) Add(dish models.Dish, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	return s.slot.Update(func(items []Item) ([]Item, error) {
		next := clone(items)
		for i := range next {
			if next[i].DishID == dish.ID {
				next[i].Quantity += quantity
				return next, nil
			}
		}
		return append(next, Item{DishID: dish.ID, DishName: dish.DishName, Quantity: quantity}), nil
	})
}

// Remove drops the line for dishID, if any.
func (s *Store) Remove(dishID uint) error {
	return s.slot.Update(func(items []Item) ([]Item, error) {
		next := make([]Item, 0, len(items))
		for _, it := range items {
			if it.DishID != dishID {
				next = append(next, it)
			}
		}
		return next, nil
	})
}

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items() []Item {
	return clone(s.slot.Get())
}

// Count is the total number of units across all lines.
func (s *Store) Count() int {
	n := 0
	for _, it := range s.slot.Get() {
		n += it.Quantity
	}
	return n
}

func (s *Store) Clear() error {
	return s.slot.Set([]Item{})
}

// Subscribe delivers the cart contents after every change.
func (s *Store) Subscribe() (<-chan []Item, func()) {
	return s.slot.Subscribe()
}

// Reload picks up a cart saved by another process.
func (s *Store) Reload() error {
	return s.slot.Reload()
}

func clone(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
