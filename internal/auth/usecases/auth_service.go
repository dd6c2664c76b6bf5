package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"entrybase-server/internal/auth/domain"
	"entrybase-server/internal/infra/cache"
	"entrybase-server/internal/infra/utils"
)

const (
	identityCacheTTL = 5 * time.Minute

	bearerCacheKeyPrefix  = "identity:token:"
	sessionCacheKeyPrefix = "identity:session:"
)

type AuthService interface {
	Authenticate(ctx context.Context, bearerToken, sessionToken string) (domain.Identity, error)
	Login(ctx context.Context, token string) (domain.Session, domain.Identity, error)
	Logout(ctx context.Context, sessionToken string) error
}

func NewAuthService(
	resolver TokenResolver,
	sessions SessionRepository,
	identityCache cache.Cache,
	sessionTTL time.Duration,
) *SimpleAuthService {
	return &SimpleAuthService{
		resolver:      resolver,
		sessions:      sessions,
		identityCache: identityCache,
		sessionTTL:    sessionTTL,
	}
}

var _ AuthService = (*SimpleAuthService)(nil)

// SimpleAuthService authenticates bearer tokens and session cookies.
// Resolved identities are cached as JSON so the same entry works across
// in-process and redis cache backends.
type SimpleAuthService struct {
	resolver      TokenResolver
	sessions      SessionRepository
	identityCache cache.Cache
	sessionTTL    time.Duration
}

func (s *SimpleAuthService) Authenticate(ctx context.Context, bearerToken, sessionToken string) (domain.Identity, error) {
	if bearerToken != "" {
		return s.authenticateBearer(ctx, bearerToken)
	}

	if sessionToken != "" {
		return s.authenticateSession(ctx, sessionToken)
	}

	return domain.Identity{}, ErrUnauthenticated
}

func (s *SimpleAuthService) authenticateBearer(ctx context.Context, token string) (domain.Identity, error) {
	return s.cachedIdentity(ctx, bearerCacheKeyPrefix+token, func() (domain.Identity, time.Time, error) {
		identity, err := s.resolver.Resolve(ctx, token)
		return identity, time.Time{}, err
	})
}

func (s *SimpleAuthService) authenticateSession(ctx context.Context, token string) (domain.Identity, error) {
	return s.cachedIdentity(ctx, sessionCacheKeyPrefix+token, func() (domain.Identity, time.Time, error) {
		session, err := s.sessions.GetByToken(ctx, token)
		if errors.Is(err, ErrSessionNotFound) {
			return domain.Identity{}, time.Time{}, ErrUnauthenticated
		}
		if err != nil {
			return domain.Identity{}, time.Time{}, fmt.Errorf("loading session: %w", err)
		}

		if session.Expired(time.Now().UTC()) {
			return domain.Identity{}, time.Time{}, ErrUnauthenticated
		}

		identity, err := s.resolver.Lookup(ctx, session.IdentityID)
		if errors.Is(err, ErrIdentityNotFound) {
			return domain.Identity{}, time.Time{}, ErrUnauthenticated
		}
		if err != nil {
			return domain.Identity{}, time.Time{}, err
		}

		return identity, session.ExpiresAt.UTC(), nil
	})
}

// cachedIdentityEntry is the cache value shape. ValidUntil carries the
// session expiry so every cache hit re-checks it; a cached session can never
// outlive its ExpiresAt. Bearer entries carry a zero ValidUntil.
type cachedIdentityEntry struct {
	Identity   domain.Identity `json:"identity"`
	ValidUntil time.Time       `json:"validUntil"`
}

// cachedIdentity loads an identity through the cache. Only successful
// resolutions are cached; failures fall through to the loader every time.
func (s *SimpleAuthService) cachedIdentity(ctx context.Context, key string, loader func() (domain.Identity, time.Time, error)) (domain.Identity, error) {
	value, err := s.identityCache.GetOrSet(ctx, key, identityCacheTTL, func() (any, error) {
		identity, validUntil, err := loader()
		if err != nil {
			return nil, err
		}
		return json.Marshal(cachedIdentityEntry{Identity: identity, ValidUntil: validUntil})
	})
	if err != nil {
		return domain.Identity{}, err
	}

	data, ok := value.([]byte)
	if !ok {
		return domain.Identity{}, errors.New("unexpected cache value type")
	}

	var entry cachedIdentityEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return domain.Identity{}, fmt.Errorf("decoding cached identity: %w", err)
	}

	if !entry.ValidUntil.IsZero() && !time.Now().UTC().Before(entry.ValidUntil) {
		s.identityCache.Delete(ctx, key)
		return domain.Identity{}, ErrUnauthenticated
	}

	return entry.Identity, nil
}

func (s *SimpleAuthService) Login(ctx context.Context, token string) (domain.Session, domain.Identity, error) {
	identity, err := s.resolver.Resolve(ctx, token)
	if err != nil {
		return domain.Session{}, domain.Identity{}, err
	}

	session := domain.Session{
		Token:      utils.GenerateHEX(32),
		IdentityID: identity.ID,
		ExpiresAt:  utils.Time{Time: time.Now().UTC().Add(s.sessionTTL)},
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return domain.Session{}, domain.Identity{}, fmt.Errorf("creating session: %w", err)
	}

	slog.Info("session created",
		slog.String("identity", identity.ID),
		slog.Time("expires_at", session.ExpiresAt.Time))

	return session, identity, nil
}

func (s *SimpleAuthService) Logout(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}

	s.identityCache.Delete(ctx, sessionCacheKeyPrefix+sessionToken)

	err := s.sessions.Delete(ctx, sessionToken)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	return nil
}
