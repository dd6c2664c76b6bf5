package httpserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Error kinds are part of the wire contract: clients branch on the kind tag,
// never on the message text.
const (
	ErrorKindUnauthenticated     = "unauthenticated"
	ErrorKindUnauthorized        = "unauthorized"
	ErrorKindUnknownResourceType = "unknown_resource_type"
	ErrorKindValidationFailed    = "validation_failed"
	ErrorKindNotFound            = "not_found"
	ErrorKindUnknownAction       = "unknown_action"
	ErrorKindActionFailed        = "action_failed"
	ErrorKindInternal            = "internal"
)

// ErrorBody is the wire shape of every failure: a stable kind tag, a
// human-readable message and, for validation failures, one entry per field.
type ErrorBody struct {
	Kind    string       `json:"kind"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type DataResponse struct {
	Data any `json:"data"`
}

func ReplyWithError(w http.ResponseWriter, statusCode int, kind, errMsg string) {
	ReplyWithFieldErrors(w, statusCode, kind, errMsg, nil)
}

func ReplyWithFieldErrors(w http.ResponseWriter, statusCode int, kind, errMsg string, fields []FieldError) {
	errResponse := &ErrorResponse{
		Error: ErrorBody{
			Kind:    kind,
			Message: errMsg,
			Fields:  fields,
		},
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errResponse)
}

func ReplyJSONResponse(w http.ResponseWriter, statusCode int, output interface{}) {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(output)
}

// ReplyWithData wraps the result in the {"data": ...} success envelope.
func ReplyWithData(w http.ResponseWriter, statusCode int, output any) {
	ReplyJSONResponse(w, statusCode, DataResponse{Data: output})
}

// ListMeta describes the window a list response was cut from.
type ListMeta struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

type ListResponse struct {
	Data any      `json:"data"`
	Meta ListMeta `json:"meta"`
}

func ReplyWithListData(w http.ResponseWriter, statusCode int, data any, meta ListMeta) {
	ReplyJSONResponse(w, statusCode, ListResponse{Data: data, Meta: meta})
}

func DecodeJSONBody(r *http.Request, placeholder any) error {
	reqBody, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("reading request body: %w", err)
	}

	if err := json.Unmarshal(reqBody, placeholder); err != nil {
		return fmt.Errorf("unmarshaling json: %w", err)
	}

	return nil
}
