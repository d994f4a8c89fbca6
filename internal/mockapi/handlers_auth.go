package mockapi

import (
	"context"
	"net/http"
	"net/mail"
	"strings"

	"github.com/utkarshverma439/SiteCraft-AI/pkg/types"
)

type contextKey int

const userIDKey contextKey = iota

func userID(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}

// requireAuth resolves the bearer token to a user.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeJWTError(w, "Missing Authorization Header")
			return
		}
		id, ok := s.state.userForToken(token)
		if !ok {
			writeJWTError(w, "Token has expired")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, id)))
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

type authResult struct {
	Message string     `json:"message"`
	Token   string     `json:"token"`
	User    types.User `json:"user"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
	}
	if !decodeBody(r, &req) {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)

	if req.Username == "" || req.Email == "" || req.Password == "" || req.FullName == "" {
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid email format")
		return
	}
	if len(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "Password must be at least 6 characters long")
		return
	}

	user, ok := s.state.createAccount(req.Username, req.Email, req.Password, req.FullName)
	if !ok {
		writeError(w, http.StatusConflict, "User with this email or username already exists")
		return
	}

	writeJSON(w, http.StatusCreated, authResult{
		Message: "User registered successfully",
		Token:   s.state.issueToken(user.ID),
		User:    user,
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(r, &req) {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, ok := s.state.authenticate(strings.TrimSpace(req.Email), req.Password)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	writeJSON(w, http.StatusOK, authResult{
		Message: "Login successful",
		Token:   s.state.issueToken(user.ID),
		User:    user,
	})
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := s.state.user(userID(r.Context()))
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
		FullName *string `json:"full_name"`
	}
	if !decodeBody(r, &req) {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	id := userID(r.Context())
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if _, err := mail.ParseAddress(email); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid email format")
			return
		}
		if s.state.emailTaken(email, id) {
			writeError(w, http.StatusConflict, "Email already in use")
			return
		}
	}

	user, ok := s.state.updateUser(id, func(u *types.User) {
		if req.Username != nil && strings.TrimSpace(*req.Username) != "" {
			u.Username = strings.TrimSpace(*req.Username)
		}
		if req.Email != nil {
			u.Email = strings.TrimSpace(*req.Email)
		}
		if req.FullName != nil && strings.TrimSpace(*req.FullName) != "" {
			u.FullName = strings.TrimSpace(*req.FullName)
		}
	})
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Profile updated successfully",
		"user":    user,
	})
}
