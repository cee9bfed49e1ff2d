package listing

import (
	"sort"
	"strings"
	"time"

	"food-ordering-api/models"
)

const ReviewPageSize = 5

const (
	UnknownDish = "Unknown Dish"
	UnknownUser = "Unknown User"
)

// ReviewView is a review joined with the names it refers to.
type ReviewView struct {
	ID         uint      `json:"id"`
	Rating     int       `json:"rating"`
	ReviewText string    `json:"reviewText"`
	Date       time.Time `json:"date"`
	UserID     uint      `json:"user"`
	DishID     uint      `json:"dish"`
	Username   string    `json:"username"`
	DishName   string    `json:"dishName"`
}

// JoinReviews resolves each review's dish and author names. A dangling
// reference gets a placeholder instead of dropping the review.
func JoinReviews(reviews []models.Review, dishes []models.Dish, users []models.User) []ReviewView {
	dishNames := make(map[uint]string, len(dishes))
	for _, d := range dishes {
		dishNames[d.ID] = d.DishName
	}
	userNames := make(map[uint]string, len(users))
	for _, u := range users {
		userNames[u.ID] = u.Username
	}

	out := make([]ReviewView, len(reviews))
	for i, r := range reviews {
		v := ReviewView{
			ID:         r.ID,
			Rating:     r.Rating,
			ReviewText: r.ReviewText,
			Date:       r.Date,
			UserID:     r.UserID,
			DishID:     r.DishID,
			DishName:   UnknownDish,
			Username:   UnknownUser,
		}
		if name, ok := dishNames[r.DishID]; ok {
			v.DishName = name
		}
		if name, ok := userNames[r.UserID]; ok {
			v.Username = name
		}
		out[i] = v
	}
	return out
}

// MatchReview reports whether term appears in the dish name or username.
func MatchReview(v ReviewView, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(v.DishName), term) ||
		strings.Contains(strings.ToLower(v.Username), term)
}

// SortReviews orders views by date, keeping ties in their input order.
func SortReviews(views []ReviewView, ascending bool) {
	sort.SliceStable(views, func(i, j int) bool {
		if ascending {
			return views[i].Date.Before(views[j].Date)
		}
		return views[i].Date.After(views[j].Date)
	})
}

// ReviewFeed is the searchable, sortable, paginated review list.
type ReviewFeed struct {
	views     []ReviewView
	term      string
	ascending bool
	page      int
	pageSize  int
}

// NewReviewFeed starts newest first on page 1.
func NewReviewFeed(views []ReviewView, pageSize int) *ReviewFeed {
	return &ReviewFeed{views: views, page: 1, pageSize: pageSize}
}

func (f *ReviewFeed) Search(term string) Page[ReviewView] {
	f.term = term
	f.page = 1
	return f.Page()
}

// ToggleSort flips between oldest-first and newest-first.
func (f *ReviewFeed) ToggleSort() Page[ReviewView] {
	f.ascending = !f.ascending
	return f.Page()
}

func (f *ReviewFeed) SetAscending(ascending bool) {
	f.ascending = ascending
}

func (f *ReviewFeed) Ascending() bool {
	return f.ascending
}

func (f *ReviewFeed) SetPage(page int) Page[ReviewView] {
	if page < 1 {
		page = 1
	}
	f.page = page
	return f.Page()
}

func (f *ReviewFeed) Page() Page[ReviewView] {
	matched := make([]ReviewView, 0, len(f.views))
	for _, v := range f.views {
		if MatchReview(v, f.term) {
			matched = append(matched, v)
		}
	}
	SortReviews(matched, f.ascending)
	return Paginate(matched, f.page, f.pageSize)
}
