package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"entrybase-server/internal/auth/domain"
	authhttpapi "entrybase-server/internal/auth/httpapi"
	"entrybase-server/internal/auth/usecases"
	"entrybase-server/internal/infra/utils"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubAuthService struct {
	identity domain.Identity
	session  domain.Session
	err      error

	lastBearer       string
	lastSessionToken string
	loggedOutToken   string
}

func (s *stubAuthService) Authenticate(_ context.Context, bearerToken, sessionToken string) (domain.Identity, error) {
	s.lastBearer, s.lastSessionToken = bearerToken, sessionToken
	return s.identity, s.err
}

func (s *stubAuthService) Login(_ context.Context, token string) (domain.Session, domain.Identity, error) {
	s.lastBearer = token
	return s.session, s.identity, s.err
}

func (s *stubAuthService) Logout(_ context.Context, sessionToken string) error {
	s.loggedOutToken = sessionToken
	return s.err
}

var _ = Describe("AuthController", func() {
	var service *stubAuthService
	var router *http.ServeMux
	var recorder *httptest.ResponseRecorder

	BeforeEach(func() {
		service = &stubAuthService{}
		router = http.NewServeMux()
		authhttpapi.NewAuthController(service).AddRoutes(router)
		recorder = httptest.NewRecorder()
	})

	decodeEnvelope := func() map[string]any {
		var envelope map[string]any
		Expect(json.Unmarshal(recorder.Body.Bytes(), &envelope)).To(Succeed())
		return envelope
	}

	Context("login", func() {
		It("sets the session cookie and returns the identity", func() {
			expiry := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
			service.identity = domain.Identity{ID: "admin", Name: "Administrator", Permissions: []string{domain.PermissionEntryRead}}
			service.session = domain.Session{Token: "session-token", IdentityID: "admin", ExpiresAt: utils.Time{Time: expiry}}

			body, _ := json.Marshal(map[string]any{"token": "admin-token"})
			request := httptest.NewRequest(http.MethodPost, "/v1/api/auth/login", bytes.NewReader(body))
			router.ServeHTTP(recorder, request)

			Expect(recorder.Code).To(Equal(http.StatusOK))

			cookies := recorder.Result().Cookies()
			Expect(cookies).To(HaveLen(1))
			Expect(cookies[0].Name).To(Equal(authhttpapi.SessionCookieName))
			Expect(cookies[0].Value).To(Equal("session-token"))
			Expect(cookies[0].HttpOnly).To(BeTrue())

			data := decodeEnvelope()["data"].(map[string]any)
			identity := data["identity"].(map[string]any)
			Expect(identity["id"]).To(Equal("admin"))
			Expect(service.lastBearer).To(Equal("admin-token"))
		})

		It("rejects unknown tokens", func() {
			service.err = usecases.ErrUnauthenticated

			body, _ := json.Marshal(map[string]any{"token": "wrong"})
			request := httptest.NewRequest(http.MethodPost, "/v1/api/auth/login", bytes.NewReader(body))
			router.ServeHTTP(recorder, request)

			Expect(recorder.Code).To(Equal(http.StatusUnauthorized))
			Expect(decodeEnvelope()["error"].(map[string]any)["kind"]).To(Equal("unauthenticated"))
		})

		It("rejects a missing token field", func() {
			body, _ := json.Marshal(map[string]any{})
			request := httptest.NewRequest(http.MethodPost, "/v1/api/auth/login", bytes.NewReader(body))
			router.ServeHTTP(recorder, request)

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			errBody := decodeEnvelope()["error"].(map[string]any)
			Expect(errBody["kind"]).To(Equal("validation_failed"))
			fields := errBody["fields"].([]any)
			Expect(fields[0].(map[string]any)["field"]).To(Equal("token"))
		})
	})

	Context("logout", func() {
		It("deletes the session and expires the cookie", func() {
			request := httptest.NewRequest(http.MethodPost, "/v1/api/auth/logout", nil)
			request.AddCookie(&http.Cookie{Name: authhttpapi.SessionCookieName, Value: "session-token"})
			router.ServeHTTP(recorder, request)

			Expect(recorder.Code).To(Equal(http.StatusOK))
			Expect(service.loggedOutToken).To(Equal("session-token"))

			cookies := recorder.Result().Cookies()
			Expect(cookies).To(HaveLen(1))
			Expect(cookies[0].MaxAge).To(BeNumerically("<", 0))
		})
	})
})
