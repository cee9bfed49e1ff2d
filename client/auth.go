package client

import (
	"context"
	"fmt"
	"net/http"

	"food-ordering-api/models"
)

// Register creates an account. The request is checked locally first and
// nothing is sent when a field fails.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	var user models.User
	if err := c.check(req); err != nil {
		return user, err
	}
	if err := c.do(ctx, http.MethodPost, "/user/register", req, &user); err != nil {
		return user, err
	}
	c.logger.WithField("user_id", user.ID).Info("Registered account")
	return user, nil
}

// Login authenticates and stores the returned session.
func (c *Client) Login(ctx context.Context, email, password string) (models.Session, error) {
	req := models.LoginRequest{Email: email, Password: password}
	var sess models.Session
	if err := c.check(req); err != nil {
		return sess, err
	}
	if err := c.do(ctx, http.MethodPost, "/user/login", req, &sess); err != nil {
		return sess, err
	}
	if err := c.session.Set(sess); err != nil {
		return sess, fmt.Errorf("save session: %w", err)
	}
	c.logger.WithField("user_id", sess.UserID).Info("Logged in")
	return sess, nil
}

// Logout forgets the session and empties the cart.
func (c *Client) Logout() error {
	if err := c.session.Clear(); err != nil {
		return err
	}
	return c.cart.Clear()
}

// Session returns the stored session and whether it is usable.
func (c *Client) Session() (models.Session, bool) {
	sess := c.session.Get()
	return sess, sess.Valid()
}

// SubscribeSession delivers the session after every login, logout or reload.
func (c *Client) SubscribeSession() (<-chan models.Session, func()) {
	return c.session.Subscribe()
}

// Reload picks up session and cart changes written by another process
// sharing the same files.
func (c *Client) Reload() error {
	if err := c.session.Reload(); err != nil {
		return err
	}
	return c.cart.Reload()
}

// RequireRole fails unless the session belongs to one of roles.
func (c *Client) RequireRole(roles ...models.UserRole) error {
	sess, ok := c.Session()
	if !ok {
		return ErrNoSession
	}
	for _, r := range roles {
		if sess.Role == r {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrForbidden, sess.Role)
}

// ResetPassword sets a new password for the account with the given email.
func (c *Client) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	if err := c.check(req); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, "/user/resetPassword", req, nil)
}

func (c *Client) Profile(ctx context.Context) (models.User, error) {
	var user models.User
	if _, ok := c.Session(); !ok {
		return user, ErrNoSession
	}
	err := c.do(ctx, http.MethodGet, "/user/me", nil, &user)
	return user, err
}
