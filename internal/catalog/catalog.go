// Package catalog holds the resource schemas this deployment serves. The
// engine itself is schema-agnostic; everything product-specific lives here.
package catalog

import (
	"fmt"

	"entrybase-server/internal/entry/domain"
	"entrybase-server/internal/entry/usecases"
)

// Bundle is the set of schemas registered at boot. Extension points stay
// empty until a deployment needs them.
type Bundle struct {
	Schemas []domain.ResourceSchema
}

func DefaultBundle() (Bundle, error) {
	tasks, err := TaskSchema()
	if err != nil {
		return Bundle{}, fmt.Errorf("building tasks schema: %w", err)
	}

	return Bundle{
		Schemas: []domain.ResourceSchema{tasks},
	}, nil
}

func (b Bundle) Apply(registry usecases.SchemaRegistry) error {
	for _, schema := range b.Schemas {
		if err := registry.Register(schema); err != nil {
			return fmt.Errorf("registering schema %q: %w", schema.Name, err)
		}
	}
	return nil
}
