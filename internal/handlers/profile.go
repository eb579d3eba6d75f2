package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/pitchside/internal/models"
	"github.com/HammerMeetNail/pitchside/internal/services"
)

type ProfileHandler struct {
	aggregates services.AggregateServiceInterface
}

func NewProfileHandler(aggregates services.AggregateServiceInterface) *ProfileHandler {
	return &ProfileHandler{aggregates: aggregates}
}

type AggregateResponse struct {
	UserID    uuid.UUID         `json:"user_id"`
	Aggregate *models.Aggregate `json:"aggregate"`
}

func (h *ProfileHandler) Aggregate(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	userID, err := uuid.Parse(r.PathValue("userId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	aggregate, err := h.aggregates.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "get aggregate", "Profile not found")
		return
	}
	writeJSON(w, http.StatusOK, AggregateResponse{UserID: userID, Aggregate: aggregate})
}
