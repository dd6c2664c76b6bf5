package internal

import (
	"entrybase-server/internal/entry/domain"
)

// Request envelopes. Every operation rides the same POST protocol: the
// entry type is named in the body, never in the path.
type CreateEntryRequest struct {
	EntryType string         `json:"entryType"`
	Data      map[string]any `json:"data"`
}

type GetEntryRequest struct {
	EntryType string `json:"entryType"`
	ID        string `json:"id"`
}

type ListEntriesRequest struct {
	EntryType      string `json:"entryType"`
	Limit          int    `json:"limit"`
	Offset         int    `json:"offset"`
	OrderBy        string `json:"orderBy"`
	OrderDirection string `json:"orderDirection"`
}

type UpdateEntryRequest struct {
	EntryType string         `json:"entryType"`
	ID        string         `json:"id"`
	Data      map[string]any `json:"data"`
}

type DeleteEntryRequest struct {
	EntryType string `json:"entryType"`
	ID        string `json:"id"`
}

type RunEntryActionRequest struct {
	EntryType string         `json:"entryType"`
	ID        string         `json:"id"`
	Action    string         `json:"action"`
	Params    map[string]any `json:"params"`
}

type TypeInfoRequest struct {
	EntryType string `json:"entryType"`
}

type EntryResponse struct {
	ID        string         `json:"id"`
	EntryType string         `json:"entryType"`
	Fields    map[string]any `json:"fields"`
}

func FromRecord(value domain.Record) EntryResponse {
	return EntryResponse{
		ID:        value.ID,
		EntryType: value.EntryType,
		Fields:    value.FieldValues(),
	}
}

func FromRecords(values []domain.Record) []EntryResponse {
	result := make([]EntryResponse, len(values))
	for i, v := range values {
		result[i] = FromRecord(v)
	}
	return result
}

// Type metadata. Handlers are code, so actions surface only their key and
// declared parameters.
type FieldInfo struct {
	Key          string          `json:"key"`
	Kind         string          `json:"kind"`
	Required     bool            `json:"required"`
	DefaultValue any             `json:"defaultValue,omitempty"`
	Choices      []domain.Choice `json:"choices,omitempty"`
}

type ActionInfo struct {
	Key    string      `json:"key"`
	Params []FieldInfo `json:"params"`
}

type SortInfo struct {
	Field string `json:"field"`
	Order string `json:"order"`
}

type TypeInfoResponse struct {
	Name              string       `json:"name"`
	Fields            []FieldInfo  `json:"fields"`
	Actions           []ActionInfo `json:"actions"`
	SearchableFields  []string     `json:"searchableFields"`
	DefaultListFields []string     `json:"defaultListFields"`
	DefaultSort       SortInfo     `json:"defaultSort"`
}

func FromSchema(value domain.ResourceSchema) TypeInfoResponse {
	actions := make([]ActionInfo, len(value.Actions))
	for i, a := range value.Actions {
		actions[i] = ActionInfo{
			Key:    a.Key,
			Params: fieldInfos(a.Params),
		}
	}

	return TypeInfoResponse{
		Name:              value.Name,
		Fields:            fieldInfos(value.Fields),
		Actions:           actions,
		SearchableFields:  value.SearchableFields,
		DefaultListFields: value.DefaultListFields,
		DefaultSort: SortInfo{
			Field: value.DefaultSortField,
			Order: string(value.DefaultSortOrder),
		},
	}
}

func fieldInfos(fields []domain.FieldDefinition) []FieldInfo {
	result := make([]FieldInfo, len(fields))
	for i, f := range fields {
		result[i] = FieldInfo{
			Key:          f.Key,
			Kind:         string(f.Kind),
			Required:     f.Required,
			DefaultValue: f.DefaultValue,
			Choices:      f.Choices,
		}
	}
	return result
}
