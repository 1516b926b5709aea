package server

import (
	"encoding/json"
	"log"
	"net/http"

	apperrors "fundops/pkg/errors"
)

// errorBody is the structured error payload: code + message, never raw store
// error text.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Printf("[HTTP] response encode failed: %v", err)
		}
	}
}

// statusFor maps the error taxonomy onto transport status codes. One mapping
// for every endpoint; wrong-state conditions are always 409.
func statusFor(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeValidation:
		return http.StatusBadRequest
	case apperrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrCodeForbidden:
		return http.StatusForbidden
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeInvalidState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err)
	status := statusFor(code)

	message := "internal server error"
	if appErr, ok := err.(*apperrors.AppError); ok && status != http.StatusInternalServerError {
		message = appErr.Message
	}
	if status == http.StatusInternalServerError {
		log.Printf("[HTTP] internal error: %v", err)
	}

	writeJSON(w, status, errorBody{Code: string(code), Message: message})
}

func parseJSONBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		return apperrors.Validation("invalid request body")
	}
	return nil
}
