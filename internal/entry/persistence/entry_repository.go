package persistence

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"entrybase-server/internal/entry/domain"
	"entrybase-server/internal/entry/persistence/internal"
	"entrybase-server/internal/entry/usecases"
	"entrybase-server/internal/infra/sql"
	"entrybase-server/internal/infra/utils"
)

func NewEntryRepository(orm sql.ORM) (*SimpleEntryRepository, error) {
	err := orm.AutoMigrate(&internal.Entry{})
	if err != nil {
		return nil, fmt.Errorf("auto migrating: %w", err)
	}

	return &SimpleEntryRepository{
		orm: orm,
	}, nil
}

var _ usecases.EntryRepository = (*SimpleEntryRepository)(nil)

// SimpleEntryRepository persists records of every registered resource type
// in a single table. Mutations on one record id are serialized through an
// id-keyed lock plus a transaction, so concurrent writers can never
// interleave partial field writes and updatedAt is strictly monotonic per
// record. Deletes are hard deletes.
type SimpleEntryRepository struct {
	orm   sql.ORM
	locks keyedLocks
}

func (r *SimpleEntryRepository) Create(ctx context.Context, entryType string, fields map[string]any) (domain.Record, error) {
	now := time.Now().UTC()
	entity := internal.Entry{
		ID:        utils.GenerateSortableUUID(),
		EntryType: entryType,
		Fields:    internal.FieldsMap(fields),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.orm.WithContext(ctx).Create(&entity).Error()
	if err != nil {
		return domain.Record{}, fmt.Errorf("creating entry in database: %w", err)
	}

	return entity.ToDomain(), nil
}

func (r *SimpleEntryRepository) GetByID(ctx context.Context, entryType, id string) (domain.Record, error) {
	var entity internal.Entry
	err := r.orm.
		WithContext(ctx).
		First(&entity, "id = ? AND entry_type = ?", id, entryType).
		Error()

	if errors.Is(err, sql.ErrRecordNotFound) {
		return domain.Record{}, usecases.ErrEntryNotFound
	}

	if err != nil {
		return domain.Record{}, fmt.Errorf("database query: %w", err)
	}

	return entity.ToDomain(), nil
}

func (r *SimpleEntryRepository) FindAll(ctx context.Context, entryType string, options usecases.ListOptions) ([]domain.Record, int, error) {
	var total int64
	err := r.orm.
		WithContext(ctx).
		Model(&internal.Entry{}).
		Where("entry_type = ?", entryType).
		Count(&total).
		Error()
	if err != nil {
		return nil, 0, fmt.Errorf("count query: %w", err)
	}

	if options.OrderBy == domain.FieldKeyCreatedAt || options.OrderBy == domain.FieldKeyUpdatedAt {
		return r.findAllByColumn(ctx, entryType, options, int(total))
	}

	return r.findAllByField(ctx, entryType, options, int(total))
}

// findAllByColumn orders on a framework-managed column, pushing the window
// down into SQL.
func (r *SimpleEntryRepository) findAllByColumn(ctx context.Context, entryType string, options usecases.ListOptions, total int) ([]domain.Record, int, error) {
	column := "created_at"
	if options.OrderBy == domain.FieldKeyUpdatedAt {
		column = "updated_at"
	}

	var entities []internal.Entry
	err := r.orm.
		WithContext(ctx).
		Where("entry_type = ?", entryType).
		Order(fmt.Sprintf("%s %s, id %s", column, options.OrderDirection, options.OrderDirection)).
		Limit(options.Limit).
		Offset(options.Offset).
		Find(&entities).
		Error()
	if err != nil {
		return nil, 0, fmt.Errorf("database query: %w", err)
	}

	result := make([]domain.Record, len(entities))
	for i, entity := range entities {
		result[i] = entity.ToDomain()
	}

	return result, total, nil
}

// findAllByField orders on a declared field living inside the JSON document
// column. The records of one type are loaded and sorted in memory; list
// windows are capped, and this keeps the ordering semantics identical across
// sqlite and postgres.
func (r *SimpleEntryRepository) findAllByField(ctx context.Context, entryType string, options usecases.ListOptions, total int) ([]domain.Record, int, error) {
	var entities []internal.Entry
	err := r.orm.
		WithContext(ctx).
		Where("entry_type = ?", entryType).
		Order("id ASC").
		Find(&entities).
		Error()
	if err != nil {
		return nil, 0, fmt.Errorf("database query: %w", err)
	}

	ascending := options.OrderDirection != domain.SortDescending
	sort.SliceStable(entities, func(i, j int) bool {
		cmp := compareFieldValues(entities[i].Fields[options.OrderBy], entities[j].Fields[options.OrderBy])
		if ascending {
			return cmp < 0
		}
		return cmp > 0
	})

	start := options.Offset
	if start > len(entities) {
		start = len(entities)
	}
	end := start + options.Limit
	if end > len(entities) {
		end = len(entities)
	}

	result := make([]domain.Record, 0, end-start)
	for _, entity := range entities[start:end] {
		result = append(result, entity.ToDomain())
	}

	return result, total, nil
}

func (r *SimpleEntryRepository) Update(ctx context.Context, entryType, id string, fields map[string]any) (domain.Record, error) {
	unlock := r.locks.lock(id)
	defer unlock()

	var updated internal.Entry
	err := r.orm.WithContext(ctx).Transaction(func(tx sql.ORM) error {
		var entity internal.Entry
		err := tx.First(&entity, "id = ? AND entry_type = ?", id, entryType).Error()
		if errors.Is(err, sql.ErrRecordNotFound) {
			return usecases.ErrEntryNotFound
		}
		if err != nil {
			return fmt.Errorf("database query: %w", err)
		}

		if entity.Fields == nil {
			entity.Fields = internal.FieldsMap{}
		}
		for key, value := range fields {
			if value == nil {
				delete(entity.Fields, key)
				continue
			}
			entity.Fields[key] = value
		}

		entity.UpdatedAt = nextUpdateTime(entity.UpdatedAt)

		if err := tx.Save(&entity).Error(); err != nil {
			return fmt.Errorf("updating entry in database: %w", err)
		}

		updated = entity
		return nil
	})
	if err != nil {
		return domain.Record{}, err
	}

	return updated.ToDomain(), nil
}

func (r *SimpleEntryRepository) Delete(ctx context.Context, entryType, id string) error {
	unlock := r.locks.lock(id)
	defer unlock()

	return r.orm.WithContext(ctx).Transaction(func(tx sql.ORM) error {
		var entity internal.Entry
		err := tx.First(&entity, "id = ? AND entry_type = ?", id, entryType).Error()
		if errors.Is(err, sql.ErrRecordNotFound) {
			return usecases.ErrEntryNotFound
		}
		if err != nil {
			return fmt.Errorf("database query: %w", err)
		}

		if err := tx.Delete(&internal.Entry{}, "id = ?", id).Error(); err != nil {
			return fmt.Errorf("deleting entry in database: %w", err)
		}

		return nil
	})
}

// nextUpdateTime guarantees updatedAt strictly increases per record even
// when two commits land inside the clock resolution.
func nextUpdateTime(previous time.Time) time.Time {
	now := time.Now().UTC()
	if !now.After(previous) {
		return previous.Add(time.Microsecond)
	}
	return now
}

func compareFieldValues(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	if fa, oka := asFloat(a); oka {
		if fb, okb := asFloat(b); okb {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}

	sa := fmt.Sprint(a)
	sb := fmt.Sprint(b)
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	default:
		return 0
	}
}

func asFloat(v any) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	default:
		return 0, false
	}
}

// keyedLocks hands out one mutex per record id.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *keyedLocks) lock(key string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := l.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[key] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
