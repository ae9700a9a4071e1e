package middleware

import (
	"context"

	"github.com/coloriginz/supplier-onboarding-backend/internal/lifecycle"
)

type contextKey string

const ctxActor contextKey = "actor"

// ActorFromContext returns the authenticated actor, or a zero Actor when the
// request was not authenticated.
func ActorFromContext(ctx context.Context) lifecycle.Actor {
	if ctx == nil {
		return lifecycle.Actor{}
	}
	if actor, ok := ctx.Value(ctxActor).(lifecycle.Actor); ok {
		return actor
	}
	return lifecycle.Actor{}
}

// WithActor injects the actor into the context.
func WithActor(ctx context.Context, actor lifecycle.Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActor, actor)
}
