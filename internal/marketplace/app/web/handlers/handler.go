package handlers

import (
	"encoding/json"
	"errors"
	"farmmarket_api/internal/marketplace/internal/business"
	"log"
	"net/http"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeError converts a domain error into the structured response the
// operator API promises. Anything outside the taxonomy is a 500.
func writeError(w http.ResponseWriter, err error) {
	var validationErr *business.ValidationError
	var stateErr *business.StateError
	var notFoundErr *business.NotFoundError
	var conflictErr *business.ConflictError

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation_error", Details: validationErr.Reason})
	case errors.As(err, &stateErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "state_error", Details: stateErr.Reason})
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Details: notFoundErr.Error()})
	case errors.As(err, &conflictErr):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "conflict", Details: conflictErr.Reason})
	default:
		log.Printf("Internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal_error"})
	}
}
