package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// POST /api/v1/lois/{id}/documents
func (s *Server) handleRegisterDocument(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	access := s.auth.AccessFor(user)

	var req struct {
		FileName   string `json:"file_name"`
		StorageKey string `json:"storage_key"`
		SizeBytes  int64  `json:"size_bytes"`
	}
	if err := parseJSONBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	document, err := s.documents.Register(access, chi.URLParam(r, "id"), req.FileName, req.StorageKey, req.SizeBytes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, document)
}

// GET /api/v1/lois/{id}/documents
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	access := s.auth.AccessFor(user)

	documents, err := s.documents.List(access, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, documents)
}

// GET /api/v1/documents/{id}/signed-url
func (s *Server) handleSignedURL(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	access := s.auth.AccessFor(user)

	url, err := s.documents.SignedURL(access, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// DELETE /api/v1/documents/{id}
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	access := s.auth.AccessFor(user)

	if err := s.documents.Delete(access, chi.URLParam(r, "id"), s.lois); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
