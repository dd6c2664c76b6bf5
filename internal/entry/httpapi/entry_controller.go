package httpapi

import (
	"errors"
	"net/http"

	authdomain "entrybase-server/internal/auth/domain"
	authusecases "entrybase-server/internal/auth/usecases"
	"entrybase-server/internal/entry/domain"
	"entrybase-server/internal/entry/httpapi/internal"
	"entrybase-server/internal/entry/usecases"
	"entrybase-server/internal/infra/httpserver"
)

func NewEntryController(service usecases.EntryService, dispatcher usecases.ActionDispatcher) *EntryController {
	c := &EntryController{
		service:    service,
		dispatcher: dispatcher,
	}

	c.operations = map[string]operation{
		"createEntry":      {handler: c.createEntry, permission: authdomain.PermissionEntryWrite},
		"getEntry":         {handler: c.getEntry, permission: authdomain.PermissionEntryRead},
		"getEntryList":     {handler: c.getEntryList, permission: authdomain.PermissionEntryRead},
		"updateEntry":      {handler: c.updateEntry, permission: authdomain.PermissionEntryWrite},
		"deleteEntry":      {handler: c.deleteEntry, permission: authdomain.PermissionEntryWrite},
		"runEntryAction":   {handler: c.runEntryAction, permission: authdomain.PermissionEntryWrite},
		"getEntryTypeInfo": {handler: c.getEntryTypeInfo, permission: authdomain.PermissionEntryRead},
	}

	return c
}

var _ httpserver.Controller = (*EntryController)(nil)

// EntryController exposes every record operation through one uniform route:
// POST /v1/api/entry/{action} with the entry type named in the body. Adding
// a resource type changes the registry, never the routing table.
type EntryController struct {
	service    usecases.EntryService
	dispatcher usecases.ActionDispatcher
	operations map[string]operation
}

type operation struct {
	handler    http.HandlerFunc
	permission string
}

func (c *EntryController) AddRoutes(router *http.ServeMux) {
	router.HandleFunc("POST /v1/api/entry/{action}", c.dispatch())
}

func (c *EntryController) dispatch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		op, ok := c.operations[r.PathValue("action")]
		if !ok {
			httpserver.ReplyWithError(w, http.StatusBadRequest, httpserver.ErrorKindUnknownAction, "unknown operation")
			return
		}

		identity, ok := authusecases.IdentityFromContext(r.Context())
		if !ok {
			httpserver.ReplyWithError(w, http.StatusUnauthorized, httpserver.ErrorKindUnauthenticated, "missing or invalid credentials")
			return
		}

		if !identity.Can(op.permission) {
			httpserver.ReplyWithError(w, http.StatusForbidden, httpserver.ErrorKindUnauthorized, "permission denied")
			return
		}

		op.handler(w, r)
	}
}

func (c *EntryController) createEntry(w http.ResponseWriter, r *http.Request) {
	var body internal.CreateEntryRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if !requireSelectors(w, map[string]string{"entryType": body.EntryType}) {
		return
	}

	record, err := c.service.CreateEntry(r.Context(), body.EntryType, body.Data)
	if err != nil {
		replyServiceError(w, err)
		return
	}

	httpserver.ReplyWithData(w, http.StatusCreated, internal.FromRecord(record))
}

func (c *EntryController) getEntry(w http.ResponseWriter, r *http.Request) {
	var body internal.GetEntryRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if !requireSelectors(w, map[string]string{"entryType": body.EntryType, "id": body.ID}) {
		return
	}

	record, err := c.service.GetEntry(r.Context(), body.EntryType, body.ID)
	if err != nil {
		replyServiceError(w, err)
		return
	}

	httpserver.ReplyWithData(w, http.StatusOK, internal.FromRecord(record))
}

func (c *EntryController) getEntryList(w http.ResponseWriter, r *http.Request) {
	var body internal.ListEntriesRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if !requireSelectors(w, map[string]string{"entryType": body.EntryType}) {
		return
	}

	options := usecases.ListOptions{
		Limit:          body.Limit,
		Offset:         body.Offset,
		OrderBy:        body.OrderBy,
		OrderDirection: domain.SortDirection(body.OrderDirection),
	}

	records, page, err := c.service.ListEntries(r.Context(), body.EntryType, options)
	if err != nil {
		replyServiceError(w, err)
		return
	}

	httpserver.ReplyWithListData(w, http.StatusOK, internal.FromRecords(records), httpserver.ListMeta{
		Limit:  page.Limit,
		Offset: page.Offset,
		Total:  page.Total,
	})
}

func (c *EntryController) updateEntry(w http.ResponseWriter, r *http.Request) {
	var body internal.UpdateEntryRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if !requireSelectors(w, map[string]string{"entryType": body.EntryType, "id": body.ID}) {
		return
	}

	record, err := c.service.UpdateEntry(r.Context(), body.EntryType, body.ID, body.Data)
	if err != nil {
		replyServiceError(w, err)
		return
	}

	httpserver.ReplyWithData(w, http.StatusOK, internal.FromRecord(record))
}

func (c *EntryController) deleteEntry(w http.ResponseWriter, r *http.Request) {
	var body internal.DeleteEntryRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if !requireSelectors(w, map[string]string{"entryType": body.EntryType, "id": body.ID}) {
		return
	}

	if err := c.service.DeleteEntry(r.Context(), body.EntryType, body.ID); err != nil {
		replyServiceError(w, err)
		return
	}

	httpserver.ReplyWithData(w, http.StatusOK, map[string]any{"deleted": true})
}

func (c *EntryController) runEntryAction(w http.ResponseWriter, r *http.Request) {
	var body internal.RunEntryActionRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if !requireSelectors(w, map[string]string{"entryType": body.EntryType, "id": body.ID, "action": body.Action}) {
		return
	}

	result, err := c.dispatcher.Run(r.Context(), body.EntryType, body.ID, body.Action, body.Params)
	if err != nil {
		replyServiceError(w, err)
		return
	}

	httpserver.ReplyWithData(w, http.StatusOK, result)
}

func (c *EntryController) getEntryTypeInfo(w http.ResponseWriter, r *http.Request) {
	var body internal.TypeInfoRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if !requireSelectors(w, map[string]string{"entryType": body.EntryType}) {
		return
	}

	schema, err := c.service.TypeInfo(r.Context(), body.EntryType)
	if err != nil {
		replyServiceError(w, err)
		return
	}

	httpserver.ReplyWithData(w, http.StatusOK, internal.FromSchema(schema))
}

func decodeBody(w http.ResponseWriter, r *http.Request, body any) bool {
	if err := httpserver.DecodeJSONBody(r, body); err != nil {
		httpserver.ReplyWithError(w, http.StatusBadRequest, httpserver.ErrorKindValidationFailed, "invalid request body")
		return false
	}
	return true
}

// requireSelectors rejects envelopes missing the fields that select what the
// operation works on, one failure entry per missing selector.
func requireSelectors(w http.ResponseWriter, selectors map[string]string) bool {
	var fields []httpserver.FieldError
	for _, name := range []string{"entryType", "id", "action"} {
		value, declared := selectors[name]
		if declared && value == "" {
			fields = append(fields, httpserver.FieldError{Field: name, Reason: "missing_required"})
		}
	}

	if len(fields) > 0 {
		httpserver.ReplyWithFieldErrors(w, http.StatusBadRequest, httpserver.ErrorKindValidationFailed, "invalid request body", fields)
		return false
	}
	return true
}

func replyServiceError(w http.ResponseWriter, err error) {
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		fields := make([]httpserver.FieldError, len(validation.Fields))
		for i, f := range validation.Fields {
			fields[i] = httpserver.FieldError{Field: f.Field, Reason: f.Reason}
		}
		httpserver.ReplyWithFieldErrors(w, http.StatusBadRequest, httpserver.ErrorKindValidationFailed, "validation failed", fields)
		return
	}

	switch {
	case errors.Is(err, usecases.ErrUnknownResourceType):
		httpserver.ReplyWithError(w, http.StatusBadRequest, httpserver.ErrorKindUnknownResourceType, err.Error())
	case errors.Is(err, usecases.ErrEntryNotFound):
		httpserver.ReplyWithError(w, http.StatusNotFound, httpserver.ErrorKindNotFound, "entry not found")
	case errors.Is(err, usecases.ErrUnknownAction):
		httpserver.ReplyWithError(w, http.StatusBadRequest, httpserver.ErrorKindUnknownAction, err.Error())
	case errors.Is(err, usecases.ErrInvalidListOptions):
		httpserver.ReplyWithError(w, http.StatusBadRequest, httpserver.ErrorKindValidationFailed, err.Error())
	case errors.Is(err, usecases.ErrActionExecution):
		httpserver.ReplyWithError(w, http.StatusInternalServerError, httpserver.ErrorKindActionFailed, err.Error())
	default:
		httpserver.ReplyWithError(w, http.StatusInternalServerError, httpserver.ErrorKindInternal, "internal error")
	}
}
