package httpapi_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"entrybase-server/internal/auth/domain"
	authhttpapi "entrybase-server/internal/auth/httpapi"
	"entrybase-server/internal/auth/usecases"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AuthGate", func() {
	var service *stubAuthService
	var recorder *httptest.ResponseRecorder
	var handler http.Handler
	var reached bool
	var seenIdentity domain.Identity
	var identityPresent bool

	BeforeEach(func() {
		service = &stubAuthService{}
		recorder = httptest.NewRecorder()
		reached = false
		identityPresent = false

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
			seenIdentity, identityPresent = usecases.IdentityFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})
		handler = authhttpapi.NewAuthGate(service)(next)
	})

	It("lets allow-listed paths through untouched", func() {
		request := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		handler.ServeHTTP(recorder, request)

		Expect(reached).To(BeTrue())
		Expect(identityPresent).To(BeFalse())
		Expect(service.lastBearer).To(BeEmpty())
	})

	It("lets the login endpoint through untouched", func() {
		request := httptest.NewRequest(http.MethodPost, "/v1/api/auth/login", nil)
		handler.ServeHTTP(recorder, request)

		Expect(reached).To(BeTrue())
	})

	It("rejects protected paths without credentials", func() {
		service.err = usecases.ErrUnauthenticated

		request := httptest.NewRequest(http.MethodPost, "/v1/api/entry/getEntry", nil)
		handler.ServeHTTP(recorder, request)

		Expect(reached).To(BeFalse())
		Expect(recorder.Code).To(Equal(http.StatusUnauthorized))

		var envelope map[string]any
		Expect(json.Unmarshal(recorder.Body.Bytes(), &envelope)).To(Succeed())
		Expect(envelope["error"].(map[string]any)["kind"]).To(Equal("unauthenticated"))
	})

	It("passes the bearer token and stores the identity", func() {
		service.identity = domain.Identity{ID: "admin", Permissions: []string{domain.PermissionEntryWrite}}

		request := httptest.NewRequest(http.MethodPost, "/v1/api/entry/createEntry", nil)
		request.Header.Set("Authorization", "Bearer admin-token")
		handler.ServeHTTP(recorder, request)

		Expect(reached).To(BeTrue())
		Expect(identityPresent).To(BeTrue())
		Expect(seenIdentity.ID).To(Equal("admin"))
		Expect(service.lastBearer).To(Equal("admin-token"))
	})

	It("passes the session cookie", func() {
		service.identity = domain.Identity{ID: "admin"}

		request := httptest.NewRequest(http.MethodPost, "/v1/api/entry/getEntry", nil)
		request.AddCookie(&http.Cookie{Name: authhttpapi.SessionCookieName, Value: "session-token"})
		handler.ServeHTTP(recorder, request)

		Expect(reached).To(BeTrue())
		Expect(service.lastSessionToken).To(Equal("session-token"))
	})

	It("ignores malformed authorization headers", func() {
		service.err = usecases.ErrUnauthenticated

		request := httptest.NewRequest(http.MethodPost, "/v1/api/entry/getEntry", nil)
		request.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		handler.ServeHTTP(recorder, request)

		Expect(service.lastBearer).To(BeEmpty())
		Expect(recorder.Code).To(Equal(http.StatusUnauthorized))
	})

	It("maps backend failures to internal", func() {
		service.err = errors.New("database offline")

		request := httptest.NewRequest(http.MethodPost, "/v1/api/entry/getEntry", nil)
		request.Header.Set("Authorization", "Bearer admin-token")
		handler.ServeHTTP(recorder, request)

		Expect(reached).To(BeFalse())
		Expect(recorder.Code).To(Equal(http.StatusInternalServerError))

		var envelope map[string]any
		Expect(json.Unmarshal(recorder.Body.Bytes(), &envelope)).To(Succeed())
		Expect(envelope["error"].(map[string]any)["kind"]).To(Equal("internal"))
	})
})
