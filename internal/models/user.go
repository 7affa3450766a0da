package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model `json:"-"`
	ID         uint   `json:"id" gorm:"primaryKey"`
	Name       string `json:"name"`
	Email      string `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Password   string `json:"-"`                        // Store hashed password, ignore for JSON serialization
	IsAdmin    bool   `json:"is_admin" gorm:"default:false"`
}

// Actor is the identity every interaction operation runs as.
type Actor struct {
	ID      uint
	Name    string
	IsAdmin bool
}

func (u *User) ToActor() Actor {
	return Actor{ID: u.ID, Name: u.Name, IsAdmin: u.IsAdmin}
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID  uint   `json:"user_id"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

func (c *JwtCustomClaims) Actor() Actor {
	return Actor{ID: c.UserID, Name: c.Name, IsAdmin: c.IsAdmin}
}
