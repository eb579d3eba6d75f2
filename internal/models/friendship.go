package models

import (
	"time"

	"github.com/google/uuid"
)

type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestDeclined FriendRequestStatus = "declined"
	FriendRequestRemoved  FriendRequestStatus = "removed"
)

// Active reports whether the status occupies the pair's single active slot.
func (s FriendRequestStatus) Active() bool {
	return s == FriendRequestPending || s == FriendRequestAccepted
}

func (s FriendRequestStatus) Terminal() bool {
	return s == FriendRequestDeclined || s == FriendRequestRemoved
}

type FriendRequest struct {
	ID          uuid.UUID           `json:"id"`
	RequesterID uuid.UUID           `json:"requester_id"`
	RequesteeID uuid.UUID           `json:"requestee_id"`
	Status      FriendRequestStatus `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// Involves reports whether userID is the requester or the requestee.
func (r FriendRequest) Involves(userID uuid.UUID) bool {
	return r.RequesterID == userID || r.RequesteeID == userID
}

// Other returns the participant that is not userID.
func (r FriendRequest) Other(userID uuid.UUID) uuid.UUID {
	if r.RequesterID == userID {
		return r.RequesteeID
	}
	return r.RequesterID
}

// FriendshipState is the pair-level view: none, pending or accepted.
type FriendshipState string

const (
	FriendshipNone     FriendshipState = "none"
	FriendshipPending  FriendshipState = "pending"
	FriendshipAccepted FriendshipState = "accepted"
)

type FriendshipView struct {
	State   FriendshipState `json:"state"`
	Request *FriendRequest  `json:"request,omitempty"`
}

type Friend struct {
	UserID    uuid.UUID `json:"user_id"`
	RequestID uuid.UUID `json:"request_id"`
	Since     time.Time `json:"since"`
}

type PendingFriendRequests struct {
	Incoming []FriendRequest `json:"incoming"`
	Outgoing []FriendRequest `json:"outgoing"`
}
