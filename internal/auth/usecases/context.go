package usecases

import (
	"context"

	"entrybase-server/internal/auth/domain"
)

type contextKey string

const identityContextKey contextKey = "auth_identity"

func ContextWithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(domain.Identity)
	return identity, ok
}
