package usecases

import (
	"context"
	"errors"
	"sync"

	"entrybase-server/internal/auth/domain"
)

var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrSessionNotFound  = errors.New("session not found")
	ErrIdentityNotFound = errors.New("identity not found")
)

// TokenResolver turns credentials into identities. Implementations own the
// source of truth for who holds which token.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (domain.Identity, error)
	Lookup(ctx context.Context, identityID string) (domain.Identity, error)
}

// StaticToken is one configured credential: the opaque token plus the
// identity it authenticates as.
type StaticToken struct {
	Token       string
	ID          string
	Name        string
	Permissions []string
}

func NewStaticTokenResolver(tokens []StaticToken) *StaticTokenResolver {
	byToken := make(map[string]domain.Identity, len(tokens))
	byID := make(map[string]domain.Identity, len(tokens))
	for _, entry := range tokens {
		identity := domain.Identity{
			ID:          entry.ID,
			Name:        entry.Name,
			Permissions: entry.Permissions,
		}
		byToken[entry.Token] = identity
		byID[entry.ID] = identity
	}

	return &StaticTokenResolver{
		byToken: byToken,
		byID:    byID,
	}
}

var _ TokenResolver = (*StaticTokenResolver)(nil)

// StaticTokenResolver resolves against the token list loaded from
// configuration at boot.
type StaticTokenResolver struct {
	mu      sync.RWMutex
	byToken map[string]domain.Identity
	byID    map[string]domain.Identity
}

func (r *StaticTokenResolver) Resolve(_ context.Context, token string) (domain.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identity, ok := r.byToken[token]
	if !ok {
		return domain.Identity{}, ErrUnauthenticated
	}
	return identity, nil
}

func (r *StaticTokenResolver) Lookup(_ context.Context, identityID string) (domain.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identity, ok := r.byID[identityID]
	if !ok {
		return domain.Identity{}, ErrIdentityNotFound
	}
	return identity, nil
}
