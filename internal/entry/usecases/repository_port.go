package usecases

import (
	"context"
	"errors"

	"entrybase-server/internal/entry/domain"
)

var (
	ErrEntryNotFound       = errors.New("entry not found")
	ErrUnknownResourceType = errors.New("unknown resource type")
	ErrDuplicateSchema     = errors.New("schema already registered")
	ErrInvalidSchema       = errors.New("invalid schema")
	ErrUnknownAction       = errors.New("unknown action")
	ErrActionExecution     = errors.New("action execution failed")
	ErrInvalidListOptions  = errors.New("invalid list options")
)

const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

// ListOptions selects a window of records. Zero values fall back to the
// schema defaults inside the service.
type ListOptions struct {
	Limit          int
	Offset         int
	OrderBy        string
	OrderDirection domain.SortDirection
}

// ListPage reports the window a listing was actually cut from, after
// normalization. The service is the only place that derives it, so callers
// cannot drift from the applied limits.
type ListPage struct {
	Limit  int
	Offset int
	Total  int
}

// EntryRepository is the minimal persistence contract of the engine. The
// store owns id minting and timestamp stamping; mutations on a given id are
// serialized by the implementation.
type EntryRepository interface {
	Create(ctx context.Context, entryType string, fields map[string]any) (domain.Record, error)
	GetByID(ctx context.Context, entryType, id string) (domain.Record, error)
	FindAll(ctx context.Context, entryType string, options ListOptions) ([]domain.Record, int, error)
	Update(ctx context.Context, entryType, id string, fields map[string]any) (domain.Record, error)
	Delete(ctx context.Context, entryType, id string) error
}
