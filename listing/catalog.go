package listing

import (
	"strings"

	"food-ordering-api/models"
)

// AllCuisine is the filter value that disables cuisine filtering.
const AllCuisine = "All Cuisine"

const (
	UserPageSize  = 6
	AdminPageSize = 4
)

// Cuisines is the fixed set offered by the cuisine picker.
var Cuisines = []string{AllCuisine, "Indian", "American", "Mediterranean", "Japanese", "Italian", "Chinese"}

// MatchDish reports whether d passes the search term and cuisine filter.
// The term matches case-insensitively against the name or the description;
// the cuisine must match exactly unless it is AllCuisine or empty.
func MatchDish(d models.Dish, term, cuisine string) bool {
	if cuisine != "" && cuisine != AllCuisine && d.Cuisine != cuisine {
		return false
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(d.DishName), term) ||
		strings.Contains(strings.ToLower(d.Description), term)
}

// FilterDishes keeps the dishes that match, in their original order.
func FilterDishes(dishes []models.Dish, term, cuisine string) []models.Dish {
	out := make([]models.Dish, 0, len(dishes))
	for _, d := range dishes {
		if MatchDish(d, term, cuisine) {
			out = append(out, d)
		}
	}
	return out
}

// Catalog is the browsing state of a dish list: the fetched dishes plus the
// current search term, cuisine filter and page.
type Catalog struct {
	dishes   []models.Dish
	term     string
	cuisine  string
	page     int
	pageSize int
}

func NewCatalog(dishes []models.Dish, pageSize int) *Catalog {
	return &Catalog{dishes: dishes, cuisine: AllCuisine, page: 1, pageSize: pageSize}
}

// Search applies a new term and cuisine and goes back to the first page.
func (c *Catalog) Search(term, cuisine string) Page[models.Dish] {
	c.term = term
	if cuisine == "" {
		cuisine = AllCuisine
	}
	c.cuisine = cuisine
	c.page = 1
	return c.Page()
}

func (c *Catalog) SetPage(page int) Page[models.Dish] {
	if page < 1 {
		page = 1
	}
	c.page = page
	return c.Page()
}

// Replace swaps in a freshly fetched dish list, keeping the current filters.
func (c *Catalog) Replace(dishes []models.Dish) {
	c.dishes = dishes
}

func (c *Catalog) Page() Page[models.Dish] {
	return Paginate(FilterDishes(c.dishes, c.term, c.cuisine), c.page, c.pageSize)
}
