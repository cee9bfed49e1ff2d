package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"food-ordering-api/listing"
	"food-ordering-api/models"
)

func (c *Client) AddReview(ctx context.Context, req models.ReviewRequest) (models.Review, error) {
	var review models.Review
	if _, ok := c.Session(); !ok {
		return review, ErrNoSession
	}
	if err := c.check(req); err != nil {
		return review, err
	}
	err := c.do(ctx, http.MethodPost, "/review/addReview", req, &review)
	return review, err
}

func (c *Client) UpdateReview(ctx context.Context, id uint, req models.UpdateReviewRequest) (models.Review, error) {
	var review models.Review
	if err := c.check(req); err != nil {
		return review, err
	}
	err := c.do(ctx, http.MethodPut, "/review/updateReview/"+strconv.FormatUint(uint64(id), 10), req, &review)
	return review, err
}

func (c *Client) DeleteReview(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, "/review/deleteReview/"+strconv.FormatUint(uint64(id), 10), nil, nil)
}

func (c *Client) DishReviews(ctx context.Context, dishID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := c.do(ctx, http.MethodGet, "/review/getReviewsByDishId/"+strconv.FormatUint(uint64(dishID), 10), nil, &reviews)
	return reviews, err
}

// MyReviews returns the reviews written by the logged-in user.
func (c *Client) MyReviews(ctx context.Context) ([]models.Review, error) {
	sess, ok := c.Session()
	if !ok {
		return nil, ErrNoSession
	}
	var reviews []models.Review
	err := c.do(ctx, http.MethodGet, "/review/getReviewsByUserId/"+strconv.FormatUint(uint64(sess.UserID), 10), nil, &reviews)
	return reviews, err
}

// ReviewFeed fetches one page of the joined review feed.
func (c *Client) ReviewFeed(ctx context.Context, term string, ascending bool, page, limit int) (listing.Page[listing.ReviewView], error) {
	q := url.Values{}
	q.Set("search", term)
	if ascending {
		q.Set("sort", "asc")
	} else {
		q.Set("sort", "desc")
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var result listing.Page[listing.ReviewView]
	err := c.do(ctx, http.MethodGet, "/review/feed?"+q.Encode(), nil, &result)
	return result, err
}
