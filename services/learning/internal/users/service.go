package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/learning-platform/internal/platform/auth"
)

const defaultRole = "student"

// Service implements register and login on top of a user store. Issued
// access tokens carry the subject and role the API middleware expects.
type Service struct {
	Store    Store
	Secret   []byte
	TokenTTL time.Duration
}

func (s Service) Register(ctx context.Context, email, username, password string) (User, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	if !strings.Contains(email, "@") || len(username) < 3 || len(password) < 8 {
		return User{}, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	return s.Store.CreateUser(ctx, CreateUserParams{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         defaultRole,
	})
}

// Login verifies credentials and returns the user with a signed access
// token. Unknown logins and wrong passwords are indistinguishable to the
// caller.
func (s Service) Login(ctx context.Context, login, password string) (User, string, time.Time, error) {
	row, err := s.Store.FindUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, "", time.Time{}, ErrUnauthorized
		}
		return User{}, "", time.Time{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)) != nil {
		return User{}, "", time.Time{}, ErrUnauthorized
	}

	token, exp, err := s.issueToken(row.User, time.Now().UTC())
	if err != nil {
		return User{}, "", time.Time{}, err
	}
	return row.User, token, exp, nil
}

func (s Service) issueToken(u User, now time.Time) (string, time.Time, error) {
	if len(s.Secret) == 0 {
		return "", time.Time{}, errors.New("missing jwt secret")
	}
	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	exp := now.Add(ttl)

	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Role: u.Role,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}
