package server

import (
	"net/http"
	"strconv"

	apperrors "fundops/pkg/errors"

	"github.com/go-chi/chi/v5"
)

// POST /api/v1/auth/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := parseJSONBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := s.auth.Login(req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GET /api/v1/auth/me
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, apperrors.Unauthorized("authentication required"))
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// PUT /api/v1/auth/view-mode
func (s *Server) handleSetViewMode(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, apperrors.Unauthorized("authentication required"))
		return
	}

	var req struct {
		ViewMode string `json:"view_mode"`
	}
	if err := parseJSONBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	updated, err := s.auth.SetViewMode(user.ID, req.ViewMode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// POST /api/v1/auth/users
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string  `json:"username"`
		Email    string  `json:"email"`
		Password string  `json:"password"`
		FullName *string `json:"full_name"`
		IsActive *bool   `json:"is_active"`
		IsAdmin  bool    `json:"is_admin"`
		IsStaff  bool    `json:"is_staff"`
	}
	if err := parseJSONBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	user, err := s.auth.CreateUser(req.Username, req.Email, req.Password, req.FullName, isActive, req.IsAdmin, req.IsStaff)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// GET /api/v1/auth/users
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	users, err := s.auth.ListUsers(skip, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// PATCH /api/v1/auth/users/{id}/roles
func (s *Server) handleSetUserRoles(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, apperrors.Validation("invalid user id"))
		return
	}

	var req struct {
		IsActive *bool `json:"is_active"`
		IsAdmin  *bool `json:"is_admin"`
		IsStaff  *bool `json:"is_staff"`
	}
	if err := parseJSONBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := s.auth.SetUserRoles(uint(id), req.IsActive, req.IsAdmin, req.IsStaff)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	result := s.health.Check()
	status := http.StatusOK
	if result.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, result)
}
