package handlers

import (
	"context"

	"github.com/HammerMeetNail/pitchside/internal/models"
)

type contextKey string

const userContextKey contextKey = "user"

// SetUserInContext attaches the acting identity resolved by the auth middleware.
func SetUserInContext(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(userContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
