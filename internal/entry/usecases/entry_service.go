package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"entrybase-server/internal/entry/domain"
)

type EntryService interface {
	CreateEntry(ctx context.Context, entryType string, data map[string]any) (domain.Record, error)
	GetEntry(ctx context.Context, entryType, id string) (domain.Record, error)
	ListEntries(ctx context.Context, entryType string, options ListOptions) ([]domain.Record, ListPage, error)
	UpdateEntry(ctx context.Context, entryType, id string, data map[string]any) (domain.Record, error)
	DeleteEntry(ctx context.Context, entryType, id string) error
	TypeInfo(ctx context.Context, entryType string) (domain.ResourceSchema, error)
}

func NewEntryService(registry SchemaRegistry, repository EntryRepository) *SimpleEntryService {
	return &SimpleEntryService{
		registry:   registry,
		repository: repository,
	}
}

var _ EntryService = (*SimpleEntryService)(nil)

type SimpleEntryService struct {
	registry   SchemaRegistry
	repository EntryRepository
}

func (s *SimpleEntryService) CreateEntry(ctx context.Context, entryType string, data map[string]any) (domain.Record, error) {
	schema, err := s.registry.Resolve(entryType)
	if err != nil {
		return domain.Record{}, err
	}

	fields, err := domain.CoerceFields(schema.Fields, data)
	if err != nil {
		return domain.Record{}, err
	}

	record, err := s.repository.Create(ctx, entryType, fields)
	if err != nil {
		slog.Error("creating entry", slog.String("entry_type", entryType), slog.String("error", err.Error()))
		return domain.Record{}, fmt.Errorf("creating entry: %w", err)
	}

	slog.Info("entry created",
		slog.String("entry_type", entryType),
		slog.String("id", record.ID))

	return record, nil
}

func (s *SimpleEntryService) GetEntry(ctx context.Context, entryType, id string) (domain.Record, error) {
	if _, err := s.registry.Resolve(entryType); err != nil {
		return domain.Record{}, err
	}

	record, err := s.repository.GetByID(ctx, entryType, id)
	if err != nil {
		return domain.Record{}, err
	}

	return record, nil
}

func (s *SimpleEntryService) ListEntries(ctx context.Context, entryType string, options ListOptions) ([]domain.Record, ListPage, error) {
	schema, err := s.registry.Resolve(entryType)
	if err != nil {
		return nil, ListPage{}, err
	}

	options, err = normalizeListOptions(schema, options)
	if err != nil {
		return nil, ListPage{}, err
	}

	records, total, err := s.repository.FindAll(ctx, entryType, options)
	if err != nil {
		slog.Error("listing entries", slog.String("entry_type", entryType), slog.String("error", err.Error()))
		return nil, ListPage{}, fmt.Errorf("listing entries: %w", err)
	}

	return records, ListPage{Limit: options.Limit, Offset: options.Offset, Total: total}, nil
}

func (s *SimpleEntryService) UpdateEntry(ctx context.Context, entryType, id string, data map[string]any) (domain.Record, error) {
	schema, err := s.registry.Resolve(entryType)
	if err != nil {
		return domain.Record{}, err
	}

	fields, err := domain.CoercePartialFields(schema.Fields, data)
	if err != nil {
		return domain.Record{}, err
	}

	record, err := s.repository.Update(ctx, entryType, id, fields)
	if err != nil {
		return domain.Record{}, err
	}

	slog.Info("entry updated",
		slog.String("entry_type", entryType),
		slog.String("id", id))

	return record, nil
}

func (s *SimpleEntryService) DeleteEntry(ctx context.Context, entryType, id string) error {
	if _, err := s.registry.Resolve(entryType); err != nil {
		return err
	}

	if err := s.repository.Delete(ctx, entryType, id); err != nil {
		return err
	}

	slog.Info("entry deleted",
		slog.String("entry_type", entryType),
		slog.String("id", id))

	return nil
}

func (s *SimpleEntryService) TypeInfo(ctx context.Context, entryType string) (domain.ResourceSchema, error) {
	return s.registry.Resolve(entryType)
}

func normalizeListOptions(schema domain.ResourceSchema, options ListOptions) (ListOptions, error) {
	if options.Limit <= 0 {
		options.Limit = DefaultListLimit
	}
	if options.Limit > MaxListLimit {
		options.Limit = MaxListLimit
	}
	if options.Offset < 0 {
		options.Offset = 0
	}

	if options.OrderBy == "" {
		options.OrderBy = schema.DefaultSortField
	} else if options.OrderBy != domain.FieldKeyCreatedAt && options.OrderBy != domain.FieldKeyUpdatedAt {
		if _, ok := schema.Field(options.OrderBy); !ok {
			return ListOptions{}, fmt.Errorf("%w: order by %q is not declared", ErrInvalidListOptions, options.OrderBy)
		}
	}

	switch options.OrderDirection {
	case "":
		options.OrderDirection = schema.DefaultSortOrder
	case domain.SortAscending, domain.SortDescending:
	default:
		return ListOptions{}, fmt.Errorf("%w: order direction %q", ErrInvalidListOptions, options.OrderDirection)
	}

	return options, nil
}
