package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	authdomain "entrybase-server/internal/auth/domain"
	authusecases "entrybase-server/internal/auth/usecases"
	"entrybase-server/internal/entry/domain"
	entryhttpapi "entrybase-server/internal/entry/httpapi"
	"entrybase-server/internal/entry/usecases"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubEntryService struct {
	record  domain.Record
	records []domain.Record
	page    usecases.ListPage
	schema  domain.ResourceSchema
	err     error

	lastEntryType string
	lastID        string
	lastData      map[string]any
	lastOptions   usecases.ListOptions
}

func (s *stubEntryService) CreateEntry(_ context.Context, entryType string, data map[string]any) (domain.Record, error) {
	s.lastEntryType, s.lastData = entryType, data
	return s.record, s.err
}

func (s *stubEntryService) GetEntry(_ context.Context, entryType, id string) (domain.Record, error) {
	s.lastEntryType, s.lastID = entryType, id
	return s.record, s.err
}

func (s *stubEntryService) ListEntries(_ context.Context, entryType string, options usecases.ListOptions) ([]domain.Record, usecases.ListPage, error) {
	s.lastEntryType, s.lastOptions = entryType, options
	return s.records, s.page, s.err
}

func (s *stubEntryService) UpdateEntry(_ context.Context, entryType, id string, data map[string]any) (domain.Record, error) {
	s.lastEntryType, s.lastID, s.lastData = entryType, id, data
	return s.record, s.err
}

func (s *stubEntryService) DeleteEntry(_ context.Context, entryType, id string) error {
	s.lastEntryType, s.lastID = entryType, id
	return s.err
}

func (s *stubEntryService) TypeInfo(_ context.Context, entryType string) (domain.ResourceSchema, error) {
	s.lastEntryType = entryType
	return s.schema, s.err
}

type stubDispatcher struct {
	result any
	err    error

	lastEntryType string
	lastID        string
	lastAction    string
	lastParams    map[string]any
}

func (d *stubDispatcher) Run(_ context.Context, entryType, id, actionKey string, params map[string]any) (any, error) {
	d.lastEntryType, d.lastID, d.lastAction, d.lastParams = entryType, id, actionKey, params
	return d.result, d.err
}

var _ = Describe("EntryController", func() {
	var service *stubEntryService
	var dispatcher *stubDispatcher
	var router *http.ServeMux
	var recorder *httptest.ResponseRecorder

	writer := authdomain.Identity{ID: "admin", Permissions: []string{authdomain.PermissionEntryRead, authdomain.PermissionEntryWrite}}
	reader := authdomain.Identity{ID: "reader", Permissions: []string{authdomain.PermissionEntryRead}}

	BeforeEach(func() {
		service = &stubEntryService{}
		dispatcher = &stubDispatcher{}
		router = http.NewServeMux()
		entryhttpapi.NewEntryController(service, dispatcher).AddRoutes(router)
		recorder = httptest.NewRecorder()
	})

	perform := func(action string, body any, identity *authdomain.Identity) {
		payload, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())

		request := httptest.NewRequest(http.MethodPost, "/v1/api/entry/"+action, bytes.NewReader(payload))
		if identity != nil {
			request = request.WithContext(authusecases.ContextWithIdentity(request.Context(), *identity))
		}
		router.ServeHTTP(recorder, request)
	}

	decodeEnvelope := func() map[string]any {
		var envelope map[string]any
		Expect(json.Unmarshal(recorder.Body.Bytes(), &envelope)).To(Succeed())
		return envelope
	}

	errorBody := func() map[string]any {
		return decodeEnvelope()["error"].(map[string]any)
	}

	Context("dispatch", func() {
		It("rejects unknown operations", func() {
			perform("teleportEntry", map[string]any{"entryType": "tasks"}, &writer)

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			Expect(errorBody()["kind"]).To(Equal("unknown_action"))
		})

		It("rejects requests without an identity", func() {
			perform("getEntry", map[string]any{"entryType": "tasks", "id": "x"}, nil)

			Expect(recorder.Code).To(Equal(http.StatusUnauthorized))
			Expect(errorBody()["kind"]).To(Equal("unauthenticated"))
		})

		It("rejects writes from read-only identities", func() {
			perform("createEntry", map[string]any{"entryType": "tasks", "data": map[string]any{}}, &reader)

			Expect(recorder.Code).To(Equal(http.StatusForbidden))
			Expect(errorBody()["kind"]).To(Equal("unauthorized"))
		})

		It("allows reads from read-only identities", func() {
			perform("getEntry", map[string]any{"entryType": "tasks", "id": "x"}, &reader)

			Expect(recorder.Code).To(Equal(http.StatusOK))
		})
	})

	Context("createEntry", func() {
		It("returns the created record", func() {
			record := domain.NewRecord("tasks", map[string]any{"title": "hello"})
			record.ID = "id-1"
			service.record = record

			perform("createEntry", map[string]any{"entryType": "tasks", "data": map[string]any{"title": "hello"}}, &writer)

			Expect(recorder.Code).To(Equal(http.StatusCreated))
			data := decodeEnvelope()["data"].(map[string]any)
			Expect(data["id"]).To(Equal("id-1"))
			Expect(data["entryType"]).To(Equal("tasks"))
			Expect(service.lastEntryType).To(Equal("tasks"))
			Expect(service.lastData).To(HaveKeyWithValue("title", "hello"))
		})

		It("maps validation failures to field errors", func() {
			service.err = &domain.ValidationError{Fields: []domain.FieldError{
				{Field: "title", Reason: domain.ReasonMissingRequired},
			}}

			perform("createEntry", map[string]any{"entryType": "tasks", "data": map[string]any{}}, &writer)

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			body := errorBody()
			Expect(body["kind"]).To(Equal("validation_failed"))
			fields := body["fields"].([]any)
			Expect(fields).To(HaveLen(1))
			Expect(fields[0].(map[string]any)["field"]).To(Equal("title"))
			Expect(fields[0].(map[string]any)["reason"]).To(Equal("missing_required"))
		})

		It("rejects a missing entryType selector", func() {
			perform("createEntry", map[string]any{"data": map[string]any{}}, &writer)

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			body := errorBody()
			Expect(body["kind"]).To(Equal("validation_failed"))
			fields := body["fields"].([]any)
			Expect(fields[0].(map[string]any)["field"]).To(Equal("entryType"))
		})

		It("rejects malformed JSON", func() {
			request := httptest.NewRequest(http.MethodPost, "/v1/api/entry/createEntry", bytes.NewReader([]byte("{not json")))
			request = request.WithContext(authusecases.ContextWithIdentity(request.Context(), writer))
			router.ServeHTTP(recorder, request)

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			Expect(errorBody()["kind"]).To(Equal("validation_failed"))
		})

		It("maps unknown resource types", func() {
			service.err = usecases.ErrUnknownResourceType

			perform("createEntry", map[string]any{"entryType": "ghosts", "data": map[string]any{}}, &writer)

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			Expect(errorBody()["kind"]).To(Equal("unknown_resource_type"))
		})
	})

	Context("getEntry", func() {
		It("maps missing records to not_found", func() {
			service.err = usecases.ErrEntryNotFound

			perform("getEntry", map[string]any{"entryType": "tasks", "id": "missing"}, &reader)

			Expect(recorder.Code).To(Equal(http.StatusNotFound))
			Expect(errorBody()["kind"]).To(Equal("not_found"))
		})
	})

	Context("getEntryList", func() {
		It("returns records with the window the service applied", func() {
			record := domain.NewRecord("tasks", map[string]any{"title": "a"})
			record.ID = "id-1"
			service.records = []domain.Record{record}
			service.page = usecases.ListPage{Limit: 5, Offset: 10, Total: 42}

			perform("getEntryList", map[string]any{"entryType": "tasks", "limit": 5, "offset": 10, "orderBy": "title", "orderDirection": "ASC"}, &reader)

			Expect(recorder.Code).To(Equal(http.StatusOK))
			envelope := decodeEnvelope()
			meta := envelope["meta"].(map[string]any)
			Expect(meta["limit"]).To(BeEquivalentTo(5))
			Expect(meta["offset"]).To(BeEquivalentTo(10))
			Expect(meta["total"]).To(BeEquivalentTo(42))
			Expect(envelope["data"].([]any)).To(HaveLen(1))
			Expect(service.lastOptions.OrderBy).To(Equal("title"))
			Expect(service.lastOptions.OrderDirection).To(Equal(domain.SortAscending))
		})

		It("echoes the normalized window, not the request values", func() {
			service.page = usecases.ListPage{Limit: usecases.DefaultListLimit, Offset: 0, Total: 0}

			perform("getEntryList", map[string]any{"entryType": "tasks", "limit": -1, "offset": -9}, &reader)

			Expect(recorder.Code).To(Equal(http.StatusOK))
			meta := decodeEnvelope()["meta"].(map[string]any)
			Expect(meta["limit"]).To(BeEquivalentTo(usecases.DefaultListLimit))
			Expect(meta["offset"]).To(BeEquivalentTo(0))
		})

		It("maps invalid list options to validation_failed", func() {
			service.err = usecases.ErrInvalidListOptions

			perform("getEntryList", map[string]any{"entryType": "tasks", "orderBy": "bogus"}, &reader)

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			Expect(errorBody()["kind"]).To(Equal("validation_failed"))
		})
	})

	Context("deleteEntry", func() {
		It("acknowledges the deletion", func() {
			perform("deleteEntry", map[string]any{"entryType": "tasks", "id": "id-1"}, &writer)

			Expect(recorder.Code).To(Equal(http.StatusOK))
			Expect(decodeEnvelope()["data"].(map[string]any)["deleted"]).To(BeTrue())
			Expect(service.lastID).To(Equal("id-1"))
		})
	})

	Context("runEntryAction", func() {
		It("returns the handler result", func() {
			dispatcher.result = map[string]any{"closed": true}

			perform("runEntryAction", map[string]any{"entryType": "tasks", "id": "id-1", "action": "markComplete", "params": map[string]any{"a": 1}}, &writer)

			Expect(recorder.Code).To(Equal(http.StatusOK))
			Expect(decodeEnvelope()["data"].(map[string]any)["closed"]).To(BeTrue())
			Expect(dispatcher.lastAction).To(Equal("markComplete"))
			Expect(dispatcher.lastParams).To(HaveKey("a"))
		})

		It("maps unknown actions", func() {
			dispatcher.err = usecases.ErrUnknownAction

			perform("runEntryAction", map[string]any{"entryType": "tasks", "id": "id-1", "action": "fly"}, &writer)

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			Expect(errorBody()["kind"]).To(Equal("unknown_action"))
		})

		It("maps handler failures to action_failed", func() {
			dispatcher.err = usecases.ErrActionExecution

			perform("runEntryAction", map[string]any{"entryType": "tasks", "id": "id-1", "action": "markComplete"}, &writer)

			Expect(recorder.Code).To(Equal(http.StatusInternalServerError))
			Expect(errorBody()["kind"]).To(Equal("action_failed"))
		})

		It("requires all three selectors", func() {
			perform("runEntryAction", map[string]any{"entryType": "tasks"}, &writer)

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			fields := errorBody()["fields"].([]any)
			Expect(fields).To(HaveLen(2))
		})
	})

	Context("getEntryTypeInfo", func() {
		It("describes fields and actions without handlers", func() {
			schema, err := domain.NewResourceSchemaBuilder().
				WithName("tasks").
				WithFields([]domain.FieldDefinition{
					{Key: "title", Kind: domain.FieldKindShortText, Required: true},
				}).
				WithActions([]domain.ActionDefinition{{
					Key:     "markComplete",
					Handler: func(context.Context, domain.ActionHandle, map[string]any) (any, error) { return nil, nil },
				}}).
				Build()
			Expect(err).NotTo(HaveOccurred())
			service.schema = schema

			perform("getEntryTypeInfo", map[string]any{"entryType": "tasks"}, &reader)

			Expect(recorder.Code).To(Equal(http.StatusOK))
			data := decodeEnvelope()["data"].(map[string]any)
			Expect(data["name"]).To(Equal("tasks"))
			fields := data["fields"].([]any)
			Expect(fields[0].(map[string]any)["kind"]).To(Equal("short_text"))
			actions := data["actions"].([]any)
			Expect(actions[0].(map[string]any)["key"]).To(Equal("markComplete"))
			sort := data["defaultSort"].(map[string]any)
			Expect(sort["field"]).To(Equal("createdAt"))
			Expect(sort["order"]).To(Equal("DESC"))
		})
	})
})
