package usecases

import (
	"fmt"
	"sync"

	"entrybase-server/internal/entry/domain"
)

type SchemaRegistry interface {
	Register(schema domain.ResourceSchema) error
	Resolve(name string) (domain.ResourceSchema, error)
	All() []domain.ResourceSchema
}

func NewSchemaRegistry() *SimpleSchemaRegistry {
	return &SimpleSchemaRegistry{
		schemas: make(map[string]domain.ResourceSchema),
	}
}

var _ SchemaRegistry = (*SimpleSchemaRegistry)(nil)

// SimpleSchemaRegistry holds one schema per resource type name. Registration
// is append-only for the process lifetime, mirroring a boot-time-configured
// deployment.
type SimpleSchemaRegistry struct {
	mu      sync.RWMutex
	schemas map[string]domain.ResourceSchema
	order   []string
}

func (r *SimpleSchemaRegistry) Register(schema domain.ResourceSchema) error {
	if err := schema.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schemas[schema.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateSchema, schema.Name)
	}

	r.schemas[schema.Name] = schema
	r.order = append(r.order, schema.Name)
	return nil
}

func (r *SimpleSchemaRegistry) Resolve(name string) (domain.ResourceSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, exists := r.schemas[name]
	if !exists {
		return domain.ResourceSchema{}, fmt.Errorf("%w: %s", ErrUnknownResourceType, name)
	}

	return schema, nil
}

func (r *SimpleSchemaRegistry) All() []domain.ResourceSchema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.ResourceSchema, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.schemas[name])
	}
	return result
}
