package httpapi

import (
	"errors"
	"net/http"

	"entrybase-server/internal/auth/httpapi/internal"
	"entrybase-server/internal/auth/usecases"
	"entrybase-server/internal/infra/httpserver"
)

func NewAuthController(service usecases.AuthService) *AuthController {
	return &AuthController{
		service: service,
	}
}

var _ httpserver.Controller = (*AuthController)(nil)

type AuthController struct {
	service usecases.AuthService
}

func (c *AuthController) AddRoutes(router *http.ServeMux) {
	router.HandleFunc("POST /v1/api/auth/login", c.login())
	router.HandleFunc("POST /v1/api/auth/logout", c.logout())
}

func (c *AuthController) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internal.LoginRequest
		if err := httpserver.DecodeJSONBody(r, &body); err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, httpserver.ErrorKindValidationFailed, "invalid request body")
			return
		}

		if body.Token == "" {
			httpserver.ReplyWithFieldErrors(w, http.StatusBadRequest, httpserver.ErrorKindValidationFailed, "invalid request body",
				[]httpserver.FieldError{{Field: "token", Reason: "missing_required"}})
			return
		}

		session, identity, err := c.service.Login(r.Context(), body.Token)
		if errors.Is(err, usecases.ErrUnauthenticated) {
			httpserver.ReplyWithError(w, http.StatusUnauthorized, httpserver.ErrorKindUnauthenticated, "missing or invalid credentials")
			return
		}
		if err != nil {
			httpserver.ReplyWithError(w, http.StatusInternalServerError, httpserver.ErrorKindInternal, "login failed")
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookieName,
			Value:    session.Token,
			Path:     "/",
			Expires:  session.ExpiresAt.Time,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		httpserver.ReplyWithData(w, http.StatusOK, internal.LoginResponse{
			Identity:  internal.FromIdentity(identity),
			ExpiresAt: session.ExpiresAt,
		})
	}
}

func (c *AuthController) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := c.service.Logout(r.Context(), SessionToken(r)); err != nil {
			httpserver.ReplyWithError(w, http.StatusInternalServerError, httpserver.ErrorKindInternal, "logout failed")
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		httpserver.ReplyWithData(w, http.StatusOK, map[string]any{"loggedOut": true})
	}
}
