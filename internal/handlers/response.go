package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/HammerMeetNail/pitchside/internal/logging"
	"github.com/HammerMeetNail/pitchside/internal/services"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Error("Failed to encode response", map[string]interface{}{"error": err.Error()})
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

type kindResponse struct {
	status  int
	message string
}

// kindResponses is the single place error kinds become user-facing text.
var kindResponses = map[error]kindResponse{
	services.ErrUnauthenticated:  {http.StatusUnauthorized, "Authentication required"},
	services.ErrInvalidTarget:    {http.StatusBadRequest, "Invalid target user"},
	services.ErrSelfRating:       {http.StatusBadRequest, "You cannot rate yourself"},
	services.ErrInvalidGrade:     {http.StatusBadRequest, "Grades must be one of S, A, B, C, D"},
	services.ErrForbidden:        {http.StatusForbidden, "You are not allowed to do that"},
	services.ErrNotFound:         {http.StatusNotFound, "Not found"},
	services.ErrAlreadyExists:    {http.StatusConflict, "Already exists"},
	services.ErrAlreadySubmitted: {http.StatusConflict, "Rating already submitted"},
	services.ErrBlocked:          {http.StatusConflict, "Not allowed while a block is in place"},
}

// writeServiceError maps a service error to a response. notFound, when set,
// replaces the generic not-found text for the resource being addressed.
func writeServiceError(w http.ResponseWriter, err error, op string, notFound string) {
	kind := services.ErrorKind(err)
	if kind == nil {
		logging.Error("Request failed", map[string]interface{}{
			"op":    op,
			"error": err.Error(),
		})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp := kindResponses[kind]
	if errors.Is(kind, services.ErrNotFound) && notFound != "" {
		resp.message = notFound
	}
	writeError(w, resp.status, resp.message)
}
