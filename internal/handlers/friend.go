package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/pitchside/internal/models"
	"github.com/HammerMeetNail/pitchside/internal/services"
)

type FriendHandler struct {
	friendService services.FriendServiceInterface
}

func NewFriendHandler(friendService services.FriendServiceInterface) *FriendHandler {
	return &FriendHandler{friendService: friendService}
}

type UserTargetRequest struct {
	UserID string `json:"user_id"`
}

type FriendRequestResponse struct {
	Request *models.FriendRequest `json:"request"`
}

type FriendListResponse struct {
	Friends []models.Friend `json:"friends"`
}

func (h *FriendHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req UserTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	targetID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	request, err := h.friendService.SendRequest(r.Context(), user.ID, targetID)
	if err != nil {
		writeServiceError(w, err, "send friend request", "")
		return
	}
	writeJSON(w, http.StatusCreated, FriendRequestResponse{Request: request})
}

func (h *FriendHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "accept friend request", h.friendService.AcceptRequest)
}

// DeclineRequest serves both the requestee declining and the requester cancelling.
func (h *FriendHandler) DeclineRequest(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "decline friend request", h.friendService.DeclineRequest)
}

func (h *FriendHandler) Remove(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "remove friend", h.friendService.RemoveFriend)
}

type transitionFunc func(ctx context.Context, actorID, requestID uuid.UUID) (*models.FriendRequest, error)

func (h *FriendHandler) transition(w http.ResponseWriter, r *http.Request, op string, fn transitionFunc) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	requestID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid friend request ID")
		return
	}

	request, err := fn(r.Context(), user.ID, requestID)
	if err != nil {
		writeServiceError(w, err, op, "Friend request not found")
		return
	}
	writeJSON(w, http.StatusOK, FriendRequestResponse{Request: request})
}

func (h *FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	friends, err := h.friendService.ListFriends(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err, "list friends", "")
		return
	}
	writeJSON(w, http.StatusOK, FriendListResponse{Friends: friends})
}

func (h *FriendHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	pending, err := h.friendService.ListPending(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err, "list friend requests", "")
		return
	}
	writeJSON(w, http.StatusOK, pending)
}

func (h *FriendHandler) Status(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	otherID, err := uuid.Parse(r.PathValue("userId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	view, err := h.friendService.GetStatus(r.Context(), user.ID, otherID)
	if err != nil {
		writeServiceError(w, err, "get friendship status", "")
		return
	}
	writeJSON(w, http.StatusOK, view)
}
