package models

import "github.com/google/uuid"

// User is the acting identity supplied by the identity provider. The core
// never creates or mutates users.
type User struct {
	ID uuid.UUID `json:"id"`
}
