package httpserver

import "net/http"

type Controller interface {
	AddRoutes(*http.ServeMux)
}

// Middleware wraps an http.Handler with cross-cutting behavior.
type Middleware func(http.Handler) http.Handler
