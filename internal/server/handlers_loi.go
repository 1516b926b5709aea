package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// POST /api/v1/companies/{id}/lois
func (s *Server) handleCreateLOI(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	access := s.auth.AccessFor(user)

	var req struct {
		Title           string     `json:"title"`
		Status          string     `json:"status"`
		MasterExpiresAt *time.Time `json:"master_expires_at"`
	}
	if err := parseJSONBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	loi, err := s.lois.Create(access, chi.URLParam(r, "id"), req.Title, req.Status, req.MasterExpiresAt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, loi)
}

// GET /api/v1/companies/{id}/lois
func (s *Server) handleListLOIs(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	access := s.auth.AccessFor(user)

	lois, err := s.lois.List(access, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lois)
}

// GET /api/v1/lois/{id}
func (s *Server) handleGetLOI(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	access := s.auth.AccessFor(user)

	loi, err := s.lois.Get(access, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loi)
}

// PUT /api/v1/lois/{id}/expiry
func (s *Server) handleSetMasterExpiry(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	access := s.auth.AccessFor(user)

	var req struct {
		MasterExpiresAt *time.Time `json:"master_expires_at"`
	}
	if err := parseJSONBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	loi, err := s.lois.SetMasterExpiry(access, chi.URLParam(r, "id"), req.MasterExpiresAt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loi)
}

// POST /api/v1/lois/{id}/send
func (s *Server) handleSendLOI(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	access := s.auth.AccessFor(user)

	loi, err := s.lois.Send(access, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loi)
}

// POST /api/v1/lois/{id}/cancel
func (s *Server) handleCancelLOI(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	access := s.auth.AccessFor(user)

	loi, err := s.lois.Cancel(access, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loi)
}

// POST /api/v1/lois/{id}/distribute
func (s *Server) handleDistribute(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	access := s.auth.AccessFor(user)

	var req struct {
		InvestorIDs []string `json:"investor_ids"`
	}
	if err := parseJSONBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	signers, err := s.lois.Distribute(access, chi.URLParam(r, "id"), req.InvestorIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, signers)
}

// POST /api/v1/lois/{id}/sweep-expire
func (s *Server) handleSweepExpire(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	access := s.auth.AccessFor(user)

	result, err := s.signers.SweepExpire(access, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// POST /api/v1/lois/{id}/reminders
func (s *Server) handleRecordReminder(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	access := s.auth.AccessFor(user)

	number, err := s.reminders.RecordReminder(access, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"reminder_number": number})
}

// GET /api/v1/lois/{id}/events
func (s *Server) handleListLOIEvents(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	access := s.auth.AccessFor(user)

	events, err := s.reminders.ListEvents(access, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// GET /api/v1/lois/{id}/signers
func (s *Server) handleListSigners(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	access := s.auth.AccessFor(user)

	signers, err := s.signers.ListByLOI(access, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, signers)
}
