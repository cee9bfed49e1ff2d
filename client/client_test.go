package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"food-ordering-api/cart"
	"food-ordering-api/config"
	"food-ordering-api/handlers"
	"food-ordering-api/models"
	"food-ordering-api/routes"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type server struct {
	url    string
	calls  atomic.Int64
	before atomic.Pointer[func(*http.Request)]
}

func (s *server) reset() { s.calls.Store(0) }

// onRequest runs fn ahead of the router for every later request.
func (s *server) onRequest(fn func(*http.Request)) { s.before.Store(&fn) }

func (s *server) count() int64 { return s.calls.Load() }

// newServer runs the real router against a private in-memory database with
// the demo accounts and dishes loaded.
func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.Logger.SetOutput(io.Discard)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := config.OpenDB("sqlite", dsn)
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	if err := config.SeedDemo(db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	config.DB = db
	handlers.SetEventPublisher(nil)
	handlers.SetOrderHub(nil)

	s := &server{}
	router := routes.NewRouter(nil)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		if fn := s.before.Load(); fn != nil {
			(*fn)(r)
		}
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(func() {
		ts.Close()
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	s.url = ts.URL
	return s
}

func newClient(t *testing.T, s *server, opts Options) (*Client, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	c, err := New(s.url, logger, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, hook
}

func login(t *testing.T, c *Client, email, password string) models.Session {
	t.Helper()
	sess, err := c.Login(context.Background(), email, password)
	if err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	return sess
}

func findDish(t *testing.T, c *Client, name string) models.Dish {
	t.Helper()
	dishes, err := c.Dishes(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range dishes {
		if d.DishName == name {
			return d
		}
	}
	t.Fatalf("dish %q not found", name)
	return models.Dish{}
}

func validRegistration() models.RegisterRequest {
	return models.RegisterRequest{
		Username:        "Meera",
		Email:           "meera@test.io",
		Phone:           "9123456780",
		Password:        "supersecret",
		ConfirmPassword: "supersecret",
		Role:            models.RoleUser,
	}
}

func TestRegisterRejectedLocally(t *testing.T) {
	s := newServer(t)
	c, _ := newClient(t, s, Options{})

	tests := []struct {
		name   string
		mutate func(*models.RegisterRequest)
		field  string
	}{
		{"short phone", func(r *models.RegisterRequest) { r.Phone = "12345" }, "phone"},
		{"letters in phone", func(r *models.RegisterRequest) { r.Phone = "98765abcde" }, "phone"},
		{"short password", func(r *models.RegisterRequest) { r.Password, r.ConfirmPassword = "short", "short" }, "password"},
		{"six char password", func(r *models.RegisterRequest) { r.Password, r.ConfirmPassword = "short1", "short1" }, "password"},
		{"confirm mismatch", func(r *models.RegisterRequest) { r.ConfirmPassword = "different1" }, "confirmPassword"},
		{"blank username", func(r *models.RegisterRequest) { r.Username = "  " }, "username"},
		{"unknown role", func(r *models.RegisterRequest) { r.Role = "Chef" }, "role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.reset()
			req := validRegistration()
			tt.mutate(&req)
			_, err := c.Register(context.Background(), req)

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if verr.Fields[tt.field] == "" {
				t.Errorf("no message for %s: %v", tt.field, verr.Fields)
			}
			if n := s.count(); n != 0 {
				t.Errorf("%d requests sent, want 0", n)
			}
		})
	}
}

func TestRegisterRejectedByServer(t *testing.T) {
	s := newServer(t)
	c, _ := newClient(t, s, Options{})

	user, err := c.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Mobile != "9123456780" || user.Role != models.RoleUser {
		t.Errorf("user = %+v", user)
	}

	s.reset()
	_, err = c.Register(context.Background(), validRegistration())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if apiErr.Status != http.StatusConflict || apiErr.Message != "Email already registered" {
		t.Errorf("api error = %+v", apiErr)
	}
	if n := s.count(); n != 1 {
		t.Errorf("%d requests sent, want 1", n)
	}
}

func TestLoginAndLogout(t *testing.T) {
	s := newServer(t)
	c, _ := newClient(t, s, Options{})

	_, err := c.Login(context.Background(), "user@gmail.com", "wrongpass")
	if !IsStatus(err, http.StatusUnauthorized) || err.Error() != "Invalid credentials" {
		t.Fatalf("bad password: %v", err)
	}
	if _, ok := c.Session(); ok {
		t.Fatal("failed login left a session behind")
	}

	sess := login(t, c, "user@gmail.com", "user1234")
	if sess.Role != models.RoleUser || sess.Username != "DemoUser" {
		t.Errorf("session = %+v", sess)
	}
	profile, err := c.Profile(context.Background())
	if err != nil || profile.Email != "user@gmail.com" {
		t.Errorf("profile = %+v, %v", profile, err)
	}

	if err := c.AddToCart(findDish(t, c, "Burger"), 1); err != nil {
		t.Fatal(err)
	}
	if err := c.Logout(); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Session(); ok {
		t.Error("session survived logout")
	}
	if n := c.Cart().Count(); n != 0 {
		t.Errorf("cart count after logout = %d", n)
	}

	s.reset()
	if _, err := c.Profile(context.Background()); err != ErrNoSession {
		t.Errorf("profile without session: %v", err)
	}
	if n := s.count(); n != 0 {
		t.Errorf("%d requests sent, want 0", n)
	}
}

func TestAddToCart(t *testing.T) {
	s := newServer(t)
	c, _ := newClient(t, s, Options{})
	biryani := findDish(t, c, "Biryani")
	burger := findDish(t, c, "Burger")

	for _, step := range []struct {
		dish models.Dish
		qty  int
	}{{biryani, 2}, {burger, 1}, {biryani, 3}} {
		if err := c.AddToCart(step.dish, step.qty); err != nil {
			t.Fatal(err)
		}
	}
	items := c.Cart().Items()
	if len(items) != 2 || items[0].DishID != biryani.ID || items[0].Quantity != 5 || items[1].Quantity != 1 {
		t.Errorf("cart = %+v", items)
	}

	for _, qty := range []int{0, -1} {
		if err := c.AddToCart(burger, qty); !errors.Is(err, cart.ErrInvalidQuantity) {
			t.Errorf("qty %d: err = %v", qty, err)
		}
	}
	if c.Cart().Count() != 6 {
		t.Errorf("count = %d, want 6", c.Cart().Count())
	}
}

func TestCheckout(t *testing.T) {
	s := newServer(t)
	adminClient, _ := newClient(t, s, Options{})
	login(t, adminClient, "admin@gmail.com", "admin123")
	price := 100.0
	dish, err := adminClient.AddDish(context.Background(), models.DishRequest{
		DishName:    "Thali",
		Description: "Full meal",
		Cuisine:     "Indian",
		Price:       &price,
		CoverImage:  "https://img.test/thali.png",
	})
	if err != nil {
		t.Fatalf("add dish: %v", err)
	}

	c, hook := newClient(t, s, Options{})
	login(t, c, "user@gmail.com", "user1234")
	if err := c.AddToCart(dish, 1); err != nil {
		t.Fatal(err)
	}
	if err := c.AddToCart(dish, 1); err != nil {
		t.Fatal(err)
	}
	updates, stop := c.Cart().Subscribe()
	defer stop()

	quote, err := c.Quote(context.Background())
	if err != nil || quote.Total != 200 || !quote.Orderable() {
		t.Fatalf("quote = %+v, %v", quote, err)
	}

	order, err := c.Checkout(context.Background(), "4 Hill Street", "4 Hill Street")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if order.TotalAmount != 200 || order.OrderStatus != models.StatusPending || len(order.OrderItems) != 1 || order.OrderItems[0].Quantity != 2 {
		t.Errorf("order = %+v", order)
	}
	if n := c.Cart().Count(); n != 0 {
		t.Errorf("cart not cleared: %d", n)
	}
	select {
	case items := <-updates:
		if len(items) != 0 {
			t.Errorf("cart broadcast = %+v", items)
		}
	default:
		t.Error("cart clear was not broadcast")
	}
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			t.Errorf("unexpected warning: %s", e.Message)
		}
	}

	views, err := c.MyOrders(context.Background())
	if err != nil || len(views) != 1 {
		t.Fatalf("my orders = %+v, %v", views, err)
	}
	v := views[0]
	if !v.Cancellable || v.Items[0].DishName != "Thali" || !v.Tracker[0].Active {
		t.Errorf("order view = %+v", v)
	}
}

func TestCheckoutServerTotalWins(t *testing.T) {
	s := newServer(t)
	c, hook := newClient(t, s, Options{})
	login(t, c, "user@gmail.com", "user1234")
	burger := findDish(t, c, "Burger")
	if err := c.AddToCart(burger, 2); err != nil {
		t.Fatal(err)
	}
	quote, err := c.Quote(context.Background())
	if err != nil || quote.Total != 360 {
		t.Fatalf("quote = %+v, %v", quote, err)
	}

	s.onRequest(func(r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/order/addOrder" {
			config.DB.Model(&models.Dish{}).Where("id = ?", burger.ID).Update("price", 120)
		}
	})
	order, err := c.Checkout(context.Background(), "4 Hill Street", "4 Hill Street")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if order.TotalAmount != 240 {
		t.Errorf("TotalAmount = %v, want the server's 240", order.TotalAmount)
	}

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "Order total differs from the cart quote" {
			warned = true
			if e.Data["quoted"] != 360.0 || e.Data["charged"] != 240.0 {
				t.Errorf("warning fields = %v", e.Data)
			}
		}
	}
	if !warned {
		t.Error("no warning about the changed total")
	}
}

func TestCheckoutRejectedLocally(t *testing.T) {
	s := newServer(t)
	c, _ := newClient(t, s, Options{})
	burger := findDish(t, c, "Burger")

	s.reset()
	if err := c.AddToCart(burger, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Checkout(context.Background(), "a", "b"); err != ErrNoSession {
		t.Errorf("no session: %v", err)
	}

	login(t, c, "user@gmail.com", "user1234")
	s.reset()
	var verr *ValidationError
	if _, err := c.Checkout(context.Background(), "  ", "b"); !errors.As(err, &verr) || verr.Fields["shippingAddress"] == "" {
		t.Errorf("blank shipping: %v", err)
	}
	if _, err := c.Checkout(context.Background(), "a", ""); !errors.As(err, &verr) || verr.Fields["billingAddress"] == "" {
		t.Errorf("blank billing: %v", err)
	}
	if err := c.Cart().Clear(); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Checkout(context.Background(), "a", "b"); err != ErrEmptyCart {
		t.Errorf("empty cart: %v", err)
	}
	if n := s.count(); n != 0 {
		t.Errorf("%d requests sent, want 0", n)
	}
}

func TestCheckoutUnavailableDish(t *testing.T) {
	s := newServer(t)
	adminClient, _ := newClient(t, s, Options{})
	login(t, adminClient, "admin@gmail.com", "admin123")
	sushi := findDish(t, adminClient, "Sushi")
	off := false
	req := models.DishRequest{DishName: sushi.DishName, Description: sushi.Description, Cuisine: sushi.Cuisine, Price: &sushi.Price, IsAvailable: &off}

	c, _ := newClient(t, s, Options{})
	login(t, c, "user@gmail.com", "user1234")
	if err := c.AddToCart(sushi, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := adminClient.UpdateDish(context.Background(), sushi.ID, req); err != nil {
		t.Fatalf("mark unavailable: %v", err)
	}

	quote, err := c.Quote(context.Background())
	if err != nil || quote.Orderable() || quote.Total != 0 {
		t.Errorf("quote = %+v, %v", quote, err)
	}
	_, err = c.Checkout(context.Background(), "a", "b")
	if !IsStatus(err, http.StatusBadRequest) || !strings.Contains(err.Error(), "not available") {
		t.Errorf("checkout: %v", err)
	}
	if c.Cart().Count() != 1 {
		t.Error("failed checkout cleared the cart")
	}
}

func TestCancelOrder(t *testing.T) {
	s := newServer(t)
	adminClient, _ := newClient(t, s, Options{})
	login(t, adminClient, "admin@gmail.com", "admin123")
	c, _ := newClient(t, s, Options{})
	login(t, c, "user@gmail.com", "user1234")
	salad := findDish(t, c, "Salad")

	place := func() models.Order {
		t.Helper()
		if err := c.AddToCart(salad, 1); err != nil {
			t.Fatal(err)
		}
		order, err := c.Checkout(context.Background(), "a", "b")
		if err != nil {
			t.Fatalf("checkout: %v", err)
		}
		return order
	}

	accepted, err := adminClient.SetOrderStatus(context.Background(), place().ID, models.StatusAccepted, "", false)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	s.reset()
	if err := c.CancelOrder(context.Background(), accepted); !errors.Is(err, ErrNotCancellable) {
		t.Errorf("cancel accepted: %v", err)
	}
	if n := s.count(); n != 0 {
		t.Errorf("%d requests for a non-cancellable order, want 0", n)
	}

	pending := place()
	s.reset()
	if err := c.CancelOrder(context.Background(), pending); err != nil {
		t.Fatalf("cancel pending: %v", err)
	}
	if n := s.count(); n != 1 {
		t.Errorf("%d requests, want 1", n)
	}
	if _, err := c.Order(context.Background(), pending.ID); !IsStatus(err, http.StatusNotFound) {
		t.Errorf("cancelled order: %v", err)
	}
}

func TestCancelListed(t *testing.T) {
	s := newServer(t)
	c, _ := newClient(t, s, Options{})
	login(t, c, "user@gmail.com", "user1234")
	salad := findDish(t, c, "Salad")

	for i := 0; i < 3; i++ {
		if err := c.AddToCart(salad, i+1); err != nil {
			t.Fatal(err)
		}
		if _, err := c.Checkout(context.Background(), "a", "b"); err != nil {
			t.Fatalf("checkout: %v", err)
		}
	}
	views, err := c.MyOrders(context.Background())
	if err != nil {
		t.Fatalf("MyOrders: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("got %d orders, want 3", len(views))
	}
	before := []uint{views[0].ID, views[1].ID, views[2].ID}

	s.reset()
	left, err := c.CancelListed(context.Background(), views, before[1])
	if err != nil {
		t.Fatalf("CancelListed: %v", err)
	}
	if n := s.count(); n != 1 {
		t.Errorf("%d requests, want 1", n)
	}
	if len(left) != 2 || left[0].ID != before[0] || left[1].ID != before[2] {
		t.Errorf("remaining = %+v, want ids %d, %d", left, before[0], before[2])
	}

	s.reset()
	if _, err := c.CancelListed(context.Background(), left, before[1]); err == nil {
		t.Error("cancelling an order not in the list should fail")
	}
	if n := s.count(); n != 0 {
		t.Errorf("%d requests for an unlisted order, want 0", n)
	}
}

func TestAdminCalls(t *testing.T) {
	s := newServer(t)
	c, _ := newClient(t, s, Options{})
	login(t, c, "user@gmail.com", "user1234")

	s.reset()
	if _, err := c.Users(context.Background()); !errors.Is(err, ErrForbidden) {
		t.Errorf("users as user: %v", err)
	}
	if err := c.DeleteDish(context.Background(), 1); !errors.Is(err, ErrForbidden) {
		t.Errorf("delete dish as user: %v", err)
	}
	if n := s.count(); n != 0 {
		t.Errorf("%d requests sent, want 0", n)
	}

	admin, _ := newClient(t, s, Options{})
	login(t, admin, "admin@gmail.com", "admin123")
	users, err := admin.Users(context.Background())
	if err != nil || len(users) != 2 {
		t.Errorf("users = %d, %v", len(users), err)
	}

	if err := c.AddToCart(findDish(t, c, "Biryani"), 2); err != nil {
		t.Fatal(err)
	}
	order, err := c.Checkout(context.Background(), "a", "b")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := admin.SetOrderStatus(context.Background(), order.ID, models.StatusDelivered, "", false); !IsStatus(err, http.StatusUnprocessableEntity) {
		t.Errorf("skipping stages: %v", err)
	}
	delivered, err := admin.SetOrderStatus(context.Background(), order.ID, models.StatusDelivered, "customer picked up", true)
	if err != nil || delivered.OrderStatus != models.StatusDelivered {
		t.Fatalf("forced delivery: %+v, %v", delivered, err)
	}
	summary, err := admin.OrderSummary(context.Background())
	if err != nil || summary.TotalRevenue != 500 || summary.ByStatus[models.StatusDelivered] != 1 {
		t.Errorf("summary = %+v, %v", summary, err)
	}
	orders, err := admin.AllOrders(context.Background(), models.StatusPending)
	if err != nil || len(orders) != 0 {
		t.Errorf("pending orders = %d, %v", len(orders), err)
	}
}

func TestReviewFlow(t *testing.T) {
	s := newServer(t)
	c, _ := newClient(t, s, Options{})
	burger := findDish(t, c, "Burger")

	s.reset()
	if _, err := c.AddReview(context.Background(), models.ReviewRequest{Dish: burger.ID, Rating: 4, ReviewText: "ok"}); err != ErrNoSession {
		t.Errorf("anonymous review: %v", err)
	}
	if _, err := c.MyReviews(context.Background()); err != ErrNoSession {
		t.Errorf("anonymous MyReviews: %v", err)
	}
	if n := s.count(); n != 0 {
		t.Errorf("%d requests sent without a session, want 0", n)
	}
	login(t, c, "user@gmail.com", "user1234")
	s.reset()
	var verr *ValidationError
	if _, err := c.AddReview(context.Background(), models.ReviewRequest{Dish: burger.ID, Rating: 9, ReviewText: "ok"}); !errors.As(err, &verr) {
		t.Errorf("rating 9: %v", err)
	}
	if n := s.count(); n != 0 {
		t.Errorf("%d requests sent, want 0", n)
	}

	review, err := c.AddReview(context.Background(), models.ReviewRequest{Dish: burger.ID, Rating: 4, ReviewText: "Juicy"})
	if err != nil {
		t.Fatal(err)
	}
	other, _ := newClient(t, s, Options{})
	login(t, other, "admin@gmail.com", "admin123")
	if _, err := other.AddReview(context.Background(), models.ReviewRequest{Dish: findDish(t, other, "Salad").ID, Rating: 2, ReviewText: "Dry"}); err != nil {
		t.Fatal(err)
	}
	mine, err := c.MyReviews(context.Background())
	if err != nil || len(mine) != 1 || mine[0].ID != review.ID {
		t.Errorf("my reviews = %+v, %v", mine, err)
	}

	feed, err := c.ReviewFeed(context.Background(), "burger", false, 1, 5)
	if err != nil || feed.Total != 1 || feed.Items[0].Username != "DemoUser" {
		t.Errorf("feed = %+v, %v", feed, err)
	}
	if err := c.DeleteReview(context.Background(), review.ID); err != nil {
		t.Errorf("delete review: %v", err)
	}
	if reviews, err := c.DishReviews(context.Background(), burger.ID); err != nil || len(reviews) != 0 {
		t.Errorf("reviews after delete = %d, %v", len(reviews), err)
	}
}

func TestStateSharedBetweenClients(t *testing.T) {
	s := newServer(t)
	dir := t.TempDir()
	opts := Options{
		SessionPath: filepath.Join(dir, "session.json"),
		CartPath:    filepath.Join(dir, "cart.json"),
	}
	first, _ := newClient(t, s, opts)
	second, _ := newClient(t, s, opts)

	sessions, stop := second.SubscribeSession()
	defer stop()

	login(t, first, "user@gmail.com", "user1234")
	if err := first.AddToCart(findDish(t, first, "Salad"), 3); err != nil {
		t.Fatal(err)
	}
	if err := second.Reload(); err != nil {
		t.Fatal(err)
	}
	if sess, ok := second.Session(); !ok || sess.Username != "DemoUser" {
		t.Errorf("second client session = %+v", sess)
	}
	select {
	case sess := <-sessions:
		if !sess.Valid() {
			t.Errorf("broadcast session = %+v", sess)
		}
	default:
		t.Error("reload was not broadcast")
	}
	if second.Cart().Count() != 3 {
		t.Errorf("second client cart = %d", second.Cart().Count())
	}

	if err := second.Logout(); err != nil {
		t.Fatal(err)
	}
	if err := first.Reload(); err != nil {
		t.Fatal(err)
	}
	if _, ok := first.Session(); ok {
		t.Error("logout in one client did not reach the other")
	}

	third, _ := newClient(t, s, opts)
	if _, ok := third.Session(); ok || third.Cart().Count() != 0 {
		t.Error("new client picked up stale state")
	}
}
