// Package users holds account storage and the register/login flows that
// issue access tokens for the learning API.
package users

import (
	"context"
	"errors"
	"time"
)

var (
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateUserParams struct {
	Email        string
	Username     string
	PasswordHash string
	Role         string
}

// UserRow pairs a user with its password hash for credential checks.
type UserRow struct {
	User         User
	PasswordHash string
}

type Store interface {
	CreateUser(ctx context.Context, p CreateUserParams) (User, error)
	FindUserByLogin(ctx context.Context, login string) (UserRow, error)
}
