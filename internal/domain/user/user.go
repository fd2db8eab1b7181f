package user

import (
	"errors"
	"time"
)

type Type string

const (
	TypeEmployee Type = "Employee"
	TypeAdmin    Type = "Admin"
)

func (t Type) IsValid() bool {
	return t == TypeEmployee || t == TypeAdmin
}

type User struct {
	ID           string    `json:"id"`
	Type         Type      `json:"type"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Session is the identity carried by the session cookie.
type Session struct {
	Type  Type   `json:"type"`
	Email string `json:"email"`
}

var (
	ErrNotFound         = errors.New("user not found")
	ErrEmailAlreadyUsed = errors.New("email already in use")
)

// LoginRequest is posted by either login form; Type says which one.
type LoginRequest struct {
	Type     Type   `form:"type" binding:"required,oneof=Employee Admin"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=3"`
}
