package domain

import (
	"context"
	"errors"
	"fmt"
)

type SortDirection string

const (
	SortAscending  SortDirection = "ASC"
	SortDescending SortDirection = "DESC"
)

// ActionHandle is the mutation-capable loan an action handler receives for
// the single record it was dispatched against. Changes stay in memory until
// Save; a handler that fails without saving leaves the stored record
// untouched.
type ActionHandle interface {
	Record() Record
	SetField(key string, value any) error
	Save(ctx context.Context) error
	Reload(ctx context.Context) error
}

type ActionHandler func(ctx context.Context, handle ActionHandle, params map[string]any) (any, error)

type ActionDefinition struct {
	Key     string
	Params  []FieldDefinition
	Handler ActionHandler
}

// ResourceSchema is the immutable declarative definition of one entry type.
type ResourceSchema struct {
	Name              string
	Fields            []FieldDefinition
	Actions           []ActionDefinition
	SearchableFields  []string
	DefaultListFields []string
	DefaultSortField  string
	DefaultSortOrder  SortDirection
}

// Field returns the definition for key, if declared.
func (s ResourceSchema) Field(key string) (FieldDefinition, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return FieldDefinition{}, false
}

// Action returns the action definition for key, if declared.
func (s ResourceSchema) Action(key string) (ActionDefinition, bool) {
	for _, a := range s.Actions {
		if a.Key == key {
			return a, true
		}
	}
	return ActionDefinition{}, false
}

func NewResourceSchemaBuilder() *resourceSchemaBuilder {
	return &resourceSchemaBuilder{}
}

type resourceSchemaBuilder struct {
	actions []resourceSchemaHandler
}

type resourceSchemaHandler func(s *ResourceSchema) error

func (b *resourceSchemaBuilder) WithName(value string) *resourceSchemaBuilder {
	b.actions = append(b.actions, func(s *ResourceSchema) error {
		s.Name = value
		return nil
	})
	return b
}

func (b *resourceSchemaBuilder) WithFields(value []FieldDefinition) *resourceSchemaBuilder {
	b.actions = append(b.actions, func(s *ResourceSchema) error {
		s.Fields = value
		return nil
	})
	return b
}

func (b *resourceSchemaBuilder) WithActions(value []ActionDefinition) *resourceSchemaBuilder {
	b.actions = append(b.actions, func(s *ResourceSchema) error {
		s.Actions = value
		return nil
	})
	return b
}

func (b *resourceSchemaBuilder) WithSearchableFields(value ...string) *resourceSchemaBuilder {
	b.actions = append(b.actions, func(s *ResourceSchema) error {
		s.SearchableFields = value
		return nil
	})
	return b
}

func (b *resourceSchemaBuilder) WithDefaultListFields(value ...string) *resourceSchemaBuilder {
	b.actions = append(b.actions, func(s *ResourceSchema) error {
		s.DefaultListFields = value
		return nil
	})
	return b
}

func (b *resourceSchemaBuilder) WithDefaultSort(field string, direction SortDirection) *resourceSchemaBuilder {
	b.actions = append(b.actions, func(s *ResourceSchema) error {
		s.DefaultSortField = field
		s.DefaultSortOrder = direction
		return nil
	})
	return b
}

func (b *resourceSchemaBuilder) Build() (ResourceSchema, error) {
	result := ResourceSchema{
		Fields:           make([]FieldDefinition, 0),
		Actions:          make([]ActionDefinition, 0),
		DefaultSortField: FieldKeyCreatedAt,
		DefaultSortOrder: SortDescending,
	}

	for _, a := range b.actions {
		if err := a(&result); err != nil {
			return ResourceSchema{}, err
		}
	}

	if result.Name == "" {
		return ResourceSchema{}, errors.New("name is required")
	}

	if err := result.Validate(); err != nil {
		return ResourceSchema{}, err
	}

	return result, nil
}

// Validate enforces the structural invariants of a schema definition. The
// registry runs it again at registration time so hand-assembled schemas get
// the same treatment as built ones.
func (s ResourceSchema) Validate() error {
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.Key == "" {
			return errors.New("field key must not be empty")
		}
		if f.Key == FieldKeyCreatedAt || f.Key == FieldKeyUpdatedAt {
			return fmt.Errorf("field key %q is reserved", f.Key)
		}
		if seen[f.Key] {
			return fmt.Errorf("duplicate field key %q", f.Key)
		}
		seen[f.Key] = true

		if f.Kind == FieldKindEnum {
			if len(f.Choices) == 0 {
				return fmt.Errorf("enum field %q must declare choices", f.Key)
			}
			values := make(map[string]bool, len(f.Choices))
			for _, c := range f.Choices {
				if values[c.Value] {
					return fmt.Errorf("enum field %q has duplicate choice %q", f.Key, c.Value)
				}
				values[c.Value] = true
			}
		} else if len(f.Choices) > 0 {
			return fmt.Errorf("field %q declares choices but is not an enum", f.Key)
		}

		if f.DefaultValue != nil {
			if f.Required {
				return fmt.Errorf("field %q is required and cannot carry a default", f.Key)
			}
			if _, reason := CoerceValue(f, f.DefaultValue); reason != "" {
				return fmt.Errorf("default value for field %q is invalid: %s", f.Key, reason)
			}
		}
	}

	actionKeys := make(map[string]bool, len(s.Actions))
	for _, a := range s.Actions {
		if a.Key == "" {
			return errors.New("action key must not be empty")
		}
		if actionKeys[a.Key] {
			return fmt.Errorf("duplicate action key %q", a.Key)
		}
		actionKeys[a.Key] = true
		if a.Handler == nil {
			return fmt.Errorf("action %q has no handler", a.Key)
		}
	}

	if s.DefaultSortField != FieldKeyCreatedAt && s.DefaultSortField != FieldKeyUpdatedAt {
		if _, ok := s.Field(s.DefaultSortField); !ok {
			return fmt.Errorf("default sort field %q is not declared", s.DefaultSortField)
		}
	}

	for _, key := range s.SearchableFields {
		if _, ok := s.Field(key); !ok {
			return fmt.Errorf("searchable field %q is not declared", key)
		}
	}

	return nil
}
