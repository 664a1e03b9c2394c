package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/learning-platform/internal/platform/auth"
)

func newService() Service {
	return Service{
		Store:    NewInMemoryStore(),
		Secret:   []byte("test-secret"),
		TokenTTL: time.Hour,
	}
}

func TestRegister_Validation(t *testing.T) {
	s := newService()
	ctx := context.Background()

	cases := []struct {
		name            string
		email, username string
		password        string
	}{
		{"bad email", "not-an-email", "alice", "password123"},
		{"short username", "alice@example.com", "al", "password123"},
		{"short password", "alice@example.com", "alice", "short"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := s.Register(ctx, c.email, c.username, c.password); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestRegister_DuplicateConflicts(t *testing.T) {
	s := newService()
	ctx := context.Background()

	if _, err := s.Register(ctx, "alice@example.com", "alice", "password123"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := s.Register(ctx, "alice@example.com", "alice2", "password123"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate email, got %v", err)
	}
	if _, err := s.Register(ctx, "other@example.com", "alice", "password123"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate username, got %v", err)
	}
}

func TestLogin_IssuesParsableToken(t *testing.T) {
	s := newService()
	ctx := context.Background()

	u, err := s.Register(ctx, "alice@example.com", "alice", "password123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != "student" {
		t.Fatalf("expected default role student, got %q", u.Role)
	}

	got, token, exp, err := s.Login(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("expected user %s, got %s", u.ID, got.ID)
	}
	if !exp.After(time.Now()) {
		t.Fatal("expected expiry in the future")
	}

	claims, err := auth.JWTVerifier{Secret: s.Secret}.Parse(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Subject != u.ID || claims.Role != "student" {
		t.Fatalf("unexpected claims subject=%q role=%q", claims.Subject, claims.Role)
	}
}

func TestLogin_ByEmail(t *testing.T) {
	s := newService()
	ctx := context.Background()

	u, _ := s.Register(ctx, "alice@example.com", "alice", "password123")
	got, _, _, err := s.Login(ctx, "ALICE@example.com", "password123")
	if err != nil {
		t.Fatalf("login by email: %v", err)
	}
	if got.ID != u.ID {
		t.Fatal("expected same user via email login")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	s := newService()
	ctx := context.Background()
	_, _ = s.Register(ctx, "alice@example.com", "alice", "password123")

	if _, _, _, err := s.Login(ctx, "alice", "wrong-password"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for wrong password, got %v", err)
	}
	if _, _, _, err := s.Login(ctx, "nobody", "password123"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for unknown login, got %v", err)
	}
}
