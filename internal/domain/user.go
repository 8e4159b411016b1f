package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("user with this email already exists")
)

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Name         string
	Disabled     bool
	CreatedAt    time.Time
}
