package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/roomfit/roomfit/internal/logging"
)

type changePasswordReq struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// POST /auth/password  { "old_password": "...", "new_password": "..." }
func ChangePasswordHandler(users Users, bcryptCost int) http.HandlerFunc {
	if bcryptCost == 0 {
		bcryptCost = defaultBcryptCost
	}
	return func(w http.ResponseWriter, r *http.Request) {
		userID := SubjectFromContext(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req changePasswordReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if len(req.NewPassword) < 8 {
			http.Error(w, "new password of at least 8 characters required", http.StatusBadRequest)
			return
		}

		u, err := users.ByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				http.Error(w, "user not found", http.StatusNotFound)
				return
			}
			logging.FromContext(r.Context()).Error("password lookup", zap.Error(err))
			http.Error(w, "lookup failed", http.StatusInternalServerError)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.OldPassword)) != nil {
			http.Error(w, "incorrect old password", http.StatusForbidden)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := users.SetPasswordHash(r.Context(), userID, string(hash)); err != nil {
			logging.FromContext(r.Context()).Error("password update", zap.Error(err))
			http.Error(w, "update failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /admin/users[?role=member]
func ListUsersHandler(users Users) http.HandlerFunc {
	type userOut struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		us, err := users.List(r.Context(), r.URL.Query().Get("role"))
		if err != nil {
			logging.FromContext(r.Context()).Error("list users", zap.Error(err))
			http.Error(w, "list failed", http.StatusInternalServerError)
			return
		}
		out := make([]userOut, 0, len(us))
		for _, u := range us {
			out = append(out, userOut{ID: u.ID, Username: u.Username, Role: u.Role})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}
