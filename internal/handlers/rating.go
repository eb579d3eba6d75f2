package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/pitchside/internal/models"
	"github.com/HammerMeetNail/pitchside/internal/services"
)

type RatingHandler struct {
	ratingService services.RatingServiceInterface
}

func NewRatingHandler(ratingService services.RatingServiceInterface) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

// SubmitRatingRequest carries letter grades keyed by attribute name. Omitted
// attributes are skipped by this rater.
type SubmitRatingRequest struct {
	RatedUserID string            `json:"rated_user_id"`
	Grades      map[string]string `json:"grades"`
	Suggestion  string            `json:"suggestion"`
}

type RatingResponse struct {
	Rating *models.Rating `json:"rating"`
}

type PlayersToRateResponse struct {
	Players []models.PlayerToRate `json:"players"`
}

func (h *RatingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	matchID, err := uuid.Parse(r.PathValue("matchId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid match ID")
		return
	}

	var req SubmitRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	ratedID, err := uuid.Parse(req.RatedUserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	grades := make(models.AttributeGrades, len(req.Grades))
	for attr, grade := range req.Grades {
		if grade == "" {
			continue
		}
		grades[models.Attribute(attr)] = models.Grade(grade)
	}

	rating, err := h.ratingService.SubmitRating(r.Context(), user.ID, models.SubmitRatingParams{
		MatchID:    matchID,
		RatedID:    ratedID,
		Grades:     grades,
		Suggestion: req.Suggestion,
	})
	if err != nil {
		writeServiceError(w, err, "submit rating", "")
		return
	}
	writeJSON(w, http.StatusCreated, RatingResponse{Rating: rating})
}

func (h *RatingHandler) PlayersToRate(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	matchID, err := uuid.Parse(r.PathValue("matchId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid match ID")
		return
	}

	players, err := h.ratingService.GetPlayersToRate(r.Context(), user.ID, matchID)
	if err != nil {
		writeServiceError(w, err, "get players to rate", "")
		return
	}
	writeJSON(w, http.StatusOK, PlayersToRateResponse{Players: players})
}
