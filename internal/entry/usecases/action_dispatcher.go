package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"entrybase-server/internal/entry/domain"
)

type ActionDispatcher interface {
	Run(ctx context.Context, entryType, id, actionKey string, params map[string]any) (any, error)
}

func NewActionDispatcher(registry SchemaRegistry, repository EntryRepository) *SimpleActionDispatcher {
	return &SimpleActionDispatcher{
		registry:   registry,
		repository: repository,
	}
}

var _ ActionDispatcher = (*SimpleActionDispatcher)(nil)

type SimpleActionDispatcher struct {
	registry   SchemaRegistry
	repository EntryRepository
}

// Run resolves and invokes a named custom action against one record. The
// handler works on a loaned copy through an ActionHandle; the stored record
// only changes when the handler calls Save.
func (d *SimpleActionDispatcher) Run(ctx context.Context, entryType, id, actionKey string, params map[string]any) (any, error) {
	schema, err := d.registry.Resolve(entryType)
	if err != nil {
		return nil, err
	}

	action, ok := schema.Action(actionKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no action %q", ErrUnknownAction, entryType, actionKey)
	}

	coercedParams, err := domain.CoerceFields(action.Params, params)
	if err != nil {
		return nil, err
	}

	record, err := d.repository.GetByID(ctx, entryType, id)
	if err != nil {
		return nil, err
	}

	handle := &entryHandle{
		schema:     schema,
		repository: d.repository,
		record:     record,
	}

	result, err := action.Handler(ctx, handle, coercedParams)
	if err != nil {
		// Uncommitted handle state dies with the handle; anything the
		// handler already saved stays saved.
		slog.Error("action handler failed",
			slog.String("entry_type", entryType),
			slog.String("id", id),
			slog.String("action", actionKey),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrActionExecution, err)
	}

	slog.Info("action executed",
		slog.String("entry_type", entryType),
		slog.String("id", id),
		slog.String("action", actionKey))

	return result, nil
}

var _ domain.ActionHandle = (*entryHandle)(nil)

// entryHandle is the single-record mutation handle loaned to action
// handlers. Field writes are validated against the resource's own
// definitions and buffered until Save, which commits them in one atomic
// store update.
type entryHandle struct {
	schema     domain.ResourceSchema
	repository EntryRepository
	record     domain.Record
	pending    map[string]any
}

func (h *entryHandle) Record() domain.Record {
	return h.record
}

func (h *entryHandle) SetField(key string, value any) error {
	def, ok := h.schema.Field(key)
	if !ok {
		return fmt.Errorf("field %q is not declared on %s", key, h.schema.Name)
	}

	coerced, reason := domain.CoerceValue(def, value)
	if reason != "" {
		return &domain.ValidationError{Fields: []domain.FieldError{{Field: key, Reason: reason}}}
	}

	if h.pending == nil {
		h.pending = make(map[string]any)
	}
	h.pending[key] = coerced
	h.record.SetField(key, coerced)
	return nil
}

func (h *entryHandle) Save(ctx context.Context) error {
	if len(h.pending) == 0 {
		return nil
	}

	record, err := h.repository.Update(ctx, h.record.EntryType, h.record.ID, h.pending)
	if err != nil {
		return fmt.Errorf("persisting action changes: %w", err)
	}

	h.record = record
	h.pending = nil
	return nil
}

func (h *entryHandle) Reload(ctx context.Context) error {
	record, err := h.repository.GetByID(ctx, h.record.EntryType, h.record.ID)
	if err != nil {
		return fmt.Errorf("reloading record: %w", err)
	}

	h.record = record
	h.pending = nil
	return nil
}
