package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/pitchside/internal/models"
	"github.com/HammerMeetNail/pitchside/internal/services"
)

type BlockHandler struct {
	blockService services.BlockServiceInterface
}

func NewBlockHandler(blockService services.BlockServiceInterface) *BlockHandler {
	return &BlockHandler{blockService: blockService}
}

type BlockResponse struct {
	Block *models.Block `json:"block"`
}

type BlockedListResponse struct {
	Blocked []models.BlockedUser `json:"blocked"`
}

func (h *BlockHandler) Block(w http.ResponseWriter, r *http.Request) {
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
	blockedID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	block, err := h.blockService.Block(r.Context(), user.ID, blockedID)
	if err != nil {
		writeServiceError(w, err, "block user", "")
		return
	}
	writeJSON(w, http.StatusCreated, BlockResponse{Block: block})
}

func (h *BlockHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	blockedID, err := uuid.Parse(r.PathValue("userId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.blockService.Unblock(r.Context(), user.ID, blockedID); err != nil {
		writeServiceError(w, err, "unblock user", "")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "User unblocked"})
}

func (h *BlockHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	blocked, err := h.blockService.ListBlocked(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err, "list blocked users", "")
		return
	}
	writeJSON(w, http.StatusOK, BlockedListResponse{Blocked: blocked})
}

func (h *BlockHandler) Status(w http.ResponseWriter, r *http.Request) {
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

	state, err := h.blockService.Status(r.Context(), user.ID, otherID)
	if err != nil {
		writeServiceError(w, err, "get block status", "")
		return
	}
	writeJSON(w, http.StatusOK, state)
}
