package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/example/learning-platform/internal/platform/api"
	"github.com/example/learning-platform/services/learning/internal/users"
)

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	User        users.User `json:"user"`
	AccessToken string     `json:"access_token"`
	ExpiresAt   time.Time  `json:"expires_at"`
}

// Register handles POST /v1/auth/register
func Register(svc users.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", "", nil)
			return
		}

		u, err := svc.Register(r.Context(), req.Email, req.Username, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, users.ErrInvalidInput):
				api.BadRequest(w, "INVALID_INPUT", "email, username and password are required", "", nil)
			case errors.Is(err, users.ErrConflict):
				api.Conflict(w, "ALREADY_EXISTS", "email or username already taken", "", nil)
			default:
				api.Internal(w, "")
			}
			return
		}
		api.WriteJSON(w, http.StatusCreated, u)
	}
}

// Login handles POST /v1/auth/login
func Login(svc users.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", "", nil)
			return
		}

		u, token, exp, err := svc.Login(r.Context(), req.Login, req.Password)
		if err != nil {
			if errors.Is(err, users.ErrUnauthorized) {
				api.Unauthorized(w, "INVALID_CREDENTIALS", "invalid login or password", "")
				return
			}
			api.Internal(w, "")
			return
		}
		api.WriteJSON(w, http.StatusOK, loginResponse{User: u, AccessToken: token, ExpiresAt: exp})
	}
}
