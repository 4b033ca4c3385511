package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/roomfit/roomfit/internal/logging"
	"github.com/roomfit/roomfit/internal/rbac"
)

const defaultBcryptCost = 12

// Admin is the operator account configured through the environment.
type Admin struct {
	Username     string
	PasswordHash string // bcrypt; an empty hash disables the account
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned by login and register.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      string `json:"user_id"`
	Role        string `json:"role"`
}

// POST /auth/login  { "username": "...", "password": "..." }
func LoginHandler(a *AuthService, users Users, admin Admin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentials
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if admin.PasswordHash != "" && req.Username == admin.Username {
			if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
				http.Error(w, "invalid credentials", http.StatusUnauthorized)
				return
			}
			issue(w, r, a, req.Username, rbac.RoleAdmin, http.StatusOK)
			return
		}

		u, err := users.ByUsername(r.Context(), req.Username)
		if err != nil {
			if !errors.Is(err, ErrUserNotFound) {
				logging.FromContext(r.Context()).Error("login lookup", zap.Error(err))
			}
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		issue(w, r, a, u.ID, u.Role, http.StatusOK)
	}
}

// POST /auth/register  { "username": "...", "password": "..." }
// New accounts always get the member role.
func RegisterHandler(a *AuthService, users Users, bcryptCost int) http.HandlerFunc {
	if bcryptCost == 0 {
		bcryptCost = defaultBcryptCost
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentials
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		if req.Username == "" || len(req.Password) < 8 {
			http.Error(w, "username and a password of at least 8 characters required", http.StatusBadRequest)
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		u, err := users.Create(r.Context(), req.Username, string(hash), rbac.RoleMember)
		if err != nil {
			if errors.Is(err, ErrUserExists) {
				http.Error(w, err.Error(), http.StatusConflict)
				return
			}
			logging.FromContext(r.Context()).Error("register", zap.Error(err))
			http.Error(w, "register failed", http.StatusInternalServerError)
			return
		}
		issue(w, r, a, u.ID, u.Role, http.StatusCreated)
	}
}

func issue(w http.ResponseWriter, r *http.Request, a *AuthService, sub, role string, status int) {
	tok, err := a.IssueJWT(sub, role)
	if err != nil {
		logging.FromContext(r.Context()).Error("issue token", zap.Error(err))
		http.Error(w, "issue token", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(TokenResponse{AccessToken: tok, TokenType: "Bearer", UserID: sub, Role: role})
}
