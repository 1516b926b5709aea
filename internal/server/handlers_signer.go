package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GET /api/v1/signers/{id}
func (s *Server) handleGetSigner(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	access := s.auth.AccessFor(user)

	signer, bucket, err := s.signers.Get(access, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"signer": signer,
		"expiry": bucket,
	})
}

// POST /api/v1/signers/{id}/accept
func (s *Server) handleAcceptSigner(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	access := s.auth.AccessFor(user)

	signer, err := s.signers.Accept(access, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, signer)
}

// POST /api/v1/signers/{id}/sign
func (s *Server) handleSignSigner(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	access := s.auth.AccessFor(user)

	signer, err := s.signers.Sign(access, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, signer)
}

// POST /api/v1/signers/{id}/revoke
func (s *Server) handleRevokeSigner(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	access := s.auth.AccessFor(user)

	signer, err := s.signers.Revoke(access, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, signer)
}

// PUT /api/v1/signers/{id}/amount
func (s *Server) handleSetAmount(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	access := s.auth.AccessFor(user)

	var req struct {
		Amount *float64 `json:"amount"`
	}
	if err := parseJSONBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	signer, err := s.signers.SetAmount(access, chi.URLParam(r, "id"), req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, signer)
}

// GET /api/v1/signers/{id}/events
func (s *Server) handleListSignerEvents(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	access := s.auth.AccessFor(user)

	events, err := s.signers.Events(access, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}
