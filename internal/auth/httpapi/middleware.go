package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"entrybase-server/internal/auth/usecases"
	"entrybase-server/internal/infra/httpserver"
)

const SessionCookieName = "entrybase_session"

// allowList holds the paths reachable without credentials: the probes and
// the login endpoint itself.
var allowList = map[string]bool{
	"/healthz":           true,
	"/metrics":           true,
	"/v1/api/auth/login": true,
}

// NewAuthGate authenticates every request outside the allow list and puts
// the resolved identity on the request context. Controllers downstream can
// rely on the identity being present.
func NewAuthGate(service usecases.AuthService) httpserver.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowList[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := service.Authenticate(r.Context(), BearerToken(r), SessionToken(r))
			if errors.Is(err, usecases.ErrUnauthenticated) {
				httpserver.ReplyWithError(w, http.StatusUnauthorized, httpserver.ErrorKindUnauthenticated, "missing or invalid credentials")
				return
			}
			if err != nil {
				httpserver.ReplyWithError(w, http.StatusInternalServerError, httpserver.ErrorKindInternal, "authentication failed")
				return
			}

			ctx := usecases.ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		return ""
	}
	return strings.TrimSpace(token)
}

func SessionToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
