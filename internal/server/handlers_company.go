package server

import (
	"net/http"
	"strconv"

	apperrors "fundops/pkg/errors"

	"github.com/go-chi/chi/v5"
)

// POST /api/v1/companies
func (s *Server) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string  `json:"name"`
		Website *string `json:"website"`
		Sector  *string `json:"sector"`
		Notes   string  `json:"notes"`
	}
	if err := parseJSONBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	company, err := s.companies.Create(req.Name, req.Website, req.Sector, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, company)
}

// GET /api/v1/companies/{id}
func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	access := s.auth.AccessFor(user)

	company, err := s.companies.Get(access, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, company)
}

// PATCH /api/v1/companies/{id}
func (s *Server) handleUpdateCompany(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	access := s.auth.AccessFor(user)

	var req struct {
		Name    *string `json:"name"`
		Website *string `json:"website"`
		Sector  *string `json:"sector"`
		Notes   *string `json:"notes"`
	}
	if err := parseJSONBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	company, err := s.companies.Update(access, chi.URLParam(r, "id"), req.Name, req.Website, req.Sector, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, company)
}

// POST /api/v1/companies/{id}/members
func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	access := s.auth.AccessFor(user)

	var req struct {
		UserID uint   `json:"user_id"`
		Role   string `json:"role"`
	}
	if err := parseJSONBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.UserID == 0 {
		writeError(w, apperrors.Validation("user_id is required"))
		return
	}

	member, err := s.companies.AddMember(access, chi.URLParam(r, "id"), req.UserID, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

// GET /api/v1/companies/{id}/members
func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	access := s.auth.AccessFor(user)

	members, err := s.companies.ListMembers(access, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

// POST /api/v1/companies/{id}/investors
func (s *Server) handleCreateInvestor(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	access := s.auth.AccessFor(user)

	var req struct {
		Name  string  `json:"name"`
		Email *string `json:"email"`
		Phone *string `json:"phone"`
		Firm  *string `json:"firm"`
		Notes string  `json:"notes"`
	}
	if err := parseJSONBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	investor, err := s.investors.Create(access, chi.URLParam(r, "id"), req.Name, req.Email, req.Phone, req.Firm, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, investor)
}

// GET /api/v1/companies/{id}/investors
func (s *Server) handleListInvestors(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	access := s.auth.AccessFor(user)

	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	investors, err := s.investors.List(access, chi.URLParam(r, "id"), skip, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, investors)
}

// GET /api/v1/investors/{id}
func (s *Server) handleGetInvestor(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	access := s.auth.AccessFor(user)

	investor, err := s.investors.Get(access, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, investor)
}

// PATCH /api/v1/investors/{id}
func (s *Server) handleUpdateInvestor(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	access := s.auth.AccessFor(user)

	var req struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
		Phone *string `json:"phone"`
		Firm  *string `json:"firm"`
		Notes *string `json:"notes"`
	}
	if err := parseJSONBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	investor, err := s.investors.Update(access, chi.URLParam(r, "id"), req.Name, req.Email, req.Phone, req.Firm, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, investor)
}
