package models

import (
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleAdmin UserRole = "Admin"
	RoleUser  UserRole = "User"
)

// IsValid reports whether r is one of the two known roles.
func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	Mobile       string    `json:"mobile"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         UserRole  `json:"role" gorm:"not null;default:'User'"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Session is what a successful login hands back to the caller.
type Session struct {
	UserID   uint     `json:"userId"`
	Email    string   `json:"email"`
	Role     UserRole `json:"role"`
	Username string   `json:"username"`
	Token    string   `json:"token"`
}

// Valid reports whether the session carries an authenticated identity.
func (s Session) Valid() bool {
	return s.UserID != 0 && s.Token != ""
}
