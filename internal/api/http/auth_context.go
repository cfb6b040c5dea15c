package httpapi

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const authUserKey contextKey = "authUser"

// AuthUser is the authenticated principal attached to the request context.
type AuthUser struct {
	UserID   uuid.UUID
	Username string
}

func withAuthUser(ctx context.Context, u *AuthUser) context.Context {
	return context.WithValue(ctx, authUserKey, u)
}

func authUserFromContext(ctx context.Context) *AuthUser {
	u, _ := ctx.Value(authUserKey).(*AuthUser)
	return u
}
