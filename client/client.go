// Package client is a typed HTTP client for the food ordering API. Besides
// wrapping the endpoints it holds the caller's session and cart, and checks
// requests locally before they are sent.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"food-ordering-api/appstate"
	"food-ordering-api/cart"
	"food-ordering-api/models"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// Options configures where client state is kept. Empty paths keep the
// session and cart in memory.
type Options struct {
	SessionPath string
	CartPath    string
	HTTPClient  *http.Client
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
	validate   *validator.Validate
	session    *appstate.Slot[models.Session]
	cart       *cart.Store
}

func New(baseURL string, logger *logrus.Logger, opts Options) (*Client, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	session, err := appstate.Open[models.Session](opts.SessionPath, logger)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	store, err := cart.Open(opts.CartPath, logger)
	if err != nil {
		return nil, fmt.Errorf("open cart: %w", err)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
		validate:   models.NewValidator(),
		session:    session,
		cart:       store,
	}, nil
}

// Cart is the client's shopping cart.
func (c *Client) Cart() *cart.Store {
	return c.cart
}

// check runs the binding rules of a request type locally.
func (c *Client) check(req any) error {
	if err := c.validate.Struct(req); err != nil {
		if fields := models.FieldErrors(err); fields != nil {
			return &ValidationError{Fields: fields}
		}
		return err
	}
	return nil
}

// do sends one request and decodes the envelope's data into out. Nothing is
// retried.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess := c.session.Get(); sess.Valid() {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var env models.Response[json.RawMessage]
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: env.Message}
		if decodeErr != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		c.logger.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
		}).Debug(apiErr.Message)
		return apiErr
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode response: %w", decodeErr)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
