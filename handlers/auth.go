package handlers

import (
	"errors"
	"net/http"
	"strings"

	"food-ordering-api/config"
	"food-ordering-api/middleware"
	"food-ordering-api/models"
	"food-ordering-api/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const invalidCredentials = "Invalid credentials"

// Register creates a new user account
func Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Check email uniqueness
	var existing models.User
	if result := config.DB.Where("email = ?", email).First(&existing); result.Error == nil {
		respondError(c, http.StatusConflict, "Email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondInternal(c, err, "Failed to hash password")
		return
	}

	user := models.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        email,
		Mobile:       req.Phone,
		PasswordHash: string(hash),
		Role:         req.Role,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		respondInternal(c, err, "Failed to create user")
		return
	}

	logEntry(c).WithField("user_id", user.ID).Info("User registered")
	respond(c, http.StatusCreated, "Account created successfully", user)
}

// Login authenticates a user and returns a session with a JWT. Unknown email
// and wrong password answer identically.
func Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		telemetry.LoginRequestsByStatus.WithLabelValues("invalid").Inc()
		respondBindError(c, err)
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		telemetry.LoginRequestsByStatus.WithLabelValues("failure").Inc()
		respondError(c, http.StatusUnauthorized, invalidCredentials)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		telemetry.LoginRequestsByStatus.WithLabelValues("failure").Inc()
		respondError(c, http.StatusUnauthorized, invalidCredentials)
		return
	}

	token, err := middleware.GenerateToken(&user)
	if err != nil {
		respondInternal(c, err, "Failed to generate token")
		return
	}

	telemetry.LoginRequestsByStatus.WithLabelValues("success").Inc()
	respond(c, http.StatusOK, "Login successful", models.Session{
		UserID:   user.ID,
		Email:    user.Email,
		Role:     user.Role,
		Username: user.Username,
		Token:    token,
	})
}

// ResetPassword overwrites the password of the account with the given email.
// The caller does not prove ownership of the account; the endpoint can be
// switched off with ALLOW_PASSWORD_RESET and every use is logged.
func ResetPassword(c *gin.Context) {
	if !allowPasswordReset {
		respondError(c, http.StatusForbidden, "Password reset is disabled")
		return
	}

	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	var user models.User
	err := config.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		respondInternal(c, err, "Failed to load user")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondInternal(c, err, "Failed to hash password")
		return
	}
	if err := config.DB.Model(&user).Update("password_hash", string(hash)).Error; err != nil {
		respondInternal(c, err, "Failed to update password")
		return
	}

	logEntry(c).WithFields(logrus.Fields{
		"user_id":   user.ID,
		"client_ip": c.ClientIP(),
	}).Warn("Password reset without ownership verification")
	respond(c, http.StatusOK, "Password updated successfully", nil)
}

// GetProfile returns the authenticated user's profile
func GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	respond(c, http.StatusOK, "", user)
}

// GetUserByID returns one user; callers may only look themselves up unless
// they are an admin.
func GetUserByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if id != middleware.GetUserID(c) && !middleware.IsAdmin(c) {
		respondError(c, http.StatusForbidden, "You can only view your own account")
		return
	}
	var user models.User
	if err := config.DB.First(&user, id).Error; err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	respond(c, http.StatusOK, "", user)
}
