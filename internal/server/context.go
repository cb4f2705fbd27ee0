package server

import (
	"context"

	"github.com/coslynx/AI-Response-Wrapper-MVP/pkg/models"
)

type ctxKey int

const (
	userCtxKey ctxKey = iota
	requestIDCtxKey
)

// withUser attaches the authenticated user to the request context.
func withUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

// UserFromContext returns the authenticated user, or nil when the auth
// gate is disabled or has not run.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userCtxKey).(*models.User)
	return user
}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDCtxKey, id)
}

func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey).(string)
	return id
}
