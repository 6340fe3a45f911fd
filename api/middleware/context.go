package middleware

import "context"

type contextKey string

const (
	ctxActorID   contextKey = "actor_id"
	ctxActorName contextKey = "actor_name"
	ctxRole      contextKey = "actor_role"
)

func ActorIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxActorID).(string); ok {
		return v
	}
	return ""
}

func ActorNameFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxActorName).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

// WithActor injects the authenticated operator's identity into the context.
func WithActor(ctx context.Context, actorID, actorName, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxActorID, actorID)
	ctx = context.WithValue(ctx, ctxActorName, actorName)
	return context.WithValue(ctx, ctxRole, role)
}
