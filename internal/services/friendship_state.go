package services

import (
	"github.com/google/uuid"

	"github.com/HammerMeetNail/pitchside/internal/models"
)

// FriendRequestEvent names an action applied to an existing friend request.
type FriendRequestEvent string

const (
	EventAccept  FriendRequestEvent = "accept"
	EventDecline FriendRequestEvent = "decline"
	EventRemove  FriendRequestEvent = "remove"
	EventBlock   FriendRequestEvent = "block"
)

// PartyRole describes who is acting on a request.
type PartyRole uint8

const (
	RoleNone      PartyRole = 0
	RoleRequester PartyRole = 1 << iota
	RoleRequestee
	RoleSystem
)

type transitionKey struct {
	from  models.FriendRequestStatus
	event FriendRequestEvent
}

type transitionRule struct {
	to      models.FriendRequestStatus
	allowed PartyRole
	// acrossBlock permits the transition while either user blocks the other.
	acrossBlock bool
}

// FriendRequestMachine is the closed set of friend request transitions.
// Anything not in the table is rejected.
type FriendRequestMachine struct {
	rules map[transitionKey]transitionRule
}

func NewFriendRequestMachine() *FriendRequestMachine {
	return &FriendRequestMachine{rules: map[transitionKey]transitionRule{
		{models.FriendRequestPending, EventAccept}: {
			to:      models.FriendRequestAccepted,
			allowed: RoleRequestee,
		},
		{models.FriendRequestPending, EventDecline}: {
			to:          models.FriendRequestDeclined,
			allowed:     RoleRequester | RoleRequestee,
			acrossBlock: true,
		},
		{models.FriendRequestAccepted, EventRemove}: {
			to:          models.FriendRequestRemoved,
			allowed:     RoleRequester | RoleRequestee,
			acrossBlock: true,
		},
		{models.FriendRequestAccepted, EventBlock}: {
			to:          models.FriendRequestRemoved,
			allowed:     RoleSystem,
			acrossBlock: true,
		},
	}}
}

// Next validates event against the current status and returns the new status.
// Non-parties are rejected before the table is consulted so that callers
// outside the pair learn nothing about the request's state.
func (m *FriendRequestMachine) Next(from models.FriendRequestStatus, event FriendRequestEvent, role PartyRole, blocked bool) (models.FriendRequestStatus, error) {
	if role == RoleNone {
		return "", ErrForbidden
	}
	rule, ok := m.rules[transitionKey{from: from, event: event}]
	if !ok {
		return "", ErrNotFound
	}
	if rule.allowed&role == 0 {
		return "", ErrForbidden
	}
	if blocked && !rule.acrossBlock {
		return "", ErrBlocked
	}
	return rule.to, nil
}

// CanCreate reports whether a new pending request may be opened for a pair.
func (m *FriendRequestMachine) CanCreate(blocked, activeExists bool) error {
	if blocked {
		return ErrBlocked
	}
	if activeExists {
		return ErrAlreadyExists
	}
	return nil
}

// RoleOf returns the role actorID holds on request.
func RoleOf(request models.FriendRequest, actorID uuid.UUID) PartyRole {
	switch actorID {
	case request.RequesterID:
		return RoleRequester
	case request.RequesteeID:
		return RoleRequestee
	}
	return RoleNone
}
