package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"food-ordering-api/config"
	"food-ordering-api/events"
	"food-ordering-api/middleware"
	"food-ordering-api/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []events.OrderEvent
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, ev events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.topics...)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testEnv struct {
	router *gin.Engine
	pub    *recordingPublisher
	admin  string
	user   string
	other  string
	userID uint
}

// setupTest points config.DB at a private in-memory database and builds a
// router with the same groups the real server uses.
func setupTest(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.Logger.SetOutput(io.Discard)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := config.OpenDB("sqlite", dsn)
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	config.DB = db
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	pub := &recordingPublisher{}
	SetEventPublisher(pub)
	SetOrderHub(nil)
	SetAllowPasswordReset(true)

	env := &testEnv{pub: pub}
	var adminUser, regular, other models.User
	env.admin = seedUser(t, &adminUser, "admin@test.io", models.RoleAdmin)
	env.user = seedUser(t, &regular, "user@test.io", models.RoleUser)
	env.other = seedUser(t, &other, "other@test.io", models.RoleUser)
	env.userID = regular.ID

	r := gin.New()
	auth := middleware.AuthRequired()
	admin := middleware.RoleRequired(models.RoleAdmin)

	r.POST("/user/register", Register)
	r.POST("/user/login", Login)
	r.PUT("/user/resetPassword", ResetPassword)
	r.GET("/user/me", auth, GetProfile)
	r.GET("/user/getUserById/:id", auth, GetUserByID)
	r.GET("/user/getAllUsers", auth, admin, GetAllUsers)

	r.GET("/dish/getAllDishes", GetAllDishes)
	r.GET("/dish/getDishById/:id", GetDishByID)
	r.GET("/dish/search", SearchDishes)
	r.GET("/dish/cuisines", GetCuisines)
	r.POST("/dish/addDish", auth, admin, AddDish)
	r.PUT("/dish/updateDish/:id", auth, admin, UpdateDish)
	r.DELETE("/dish/deleteDish/:id", auth, admin, DeleteDish)

	r.GET("/order/stages", GetOrderStages)
	r.POST("/order/addOrder", auth, AddOrder)
	r.GET("/order/getOrderById/:id", auth, GetOrderByID)
	r.GET("/order/getOrdersByUserId/:userId", auth, GetOrdersByUserID)
	r.DELETE("/order/deleteOrder/:id", auth, DeleteOrder)
	r.GET("/order/getAllOrders", auth, admin, GetAllOrders)
	r.GET("/order/summary", auth, admin, GetOrderSummary)
	r.PUT("/order/updateOrder/:id", auth, admin, UpdateOrder)

	r.GET("/review/feed", GetReviewFeed)
	r.GET("/review/getReviewsByDishId/:id", GetReviewsByDishID)
	r.POST("/review/addReview", auth, AddReview)
	r.PUT("/review/updateReview/:id", auth, UpdateReview)
	r.DELETE("/review/deleteReview/:id", auth, DeleteReview)

	env.router = r
	return env
}

func seedUser(t *testing.T, u *models.User, email string, role models.UserRole) string {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	*u = models.User{Username: strings.Split(email, "@")[0], Email: email, PasswordHash: string(hash), Role: role}
	if err := config.DB.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	token, err := middleware.GenerateToken(u)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return token
}

func seedDish(t *testing.T, name string, price float64, available bool) models.Dish {
	t.Helper()
	d := models.Dish{DishName: name, Description: name + " special", Cuisine: "Indian", Price: price, IsAvailable: true, CoverImage: "https://img.test/" + name}
	if err := config.DB.Create(&d).Error; err != nil {
		t.Fatalf("seed dish: %v", err)
	}
	if !available {
		config.DB.Model(&d).Update("is_available", false)
	}
	return d
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rdr = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: body is not an envelope: %s", method, path, rec.Body.String())
	}
	return rec, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode data: %v (%s)", err, env.Data)
	}
	return v
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
