package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"entrybase-server/internal/auth/domain"
	"entrybase-server/internal/auth/persistence/internal"
	"entrybase-server/internal/auth/usecases"
	"entrybase-server/internal/infra/sql"
)

func NewSessionRepository(orm sql.ORM) (*SimpleSessionRepository, error) {
	err := orm.AutoMigrate(&internal.Session{})
	if err != nil {
		return nil, fmt.Errorf("auto migrating: %w", err)
	}

	return &SimpleSessionRepository{
		orm: orm,
	}, nil
}

var _ usecases.SessionRepository = (*SimpleSessionRepository)(nil)

type SimpleSessionRepository struct {
	orm sql.ORM
}

func (r *SimpleSessionRepository) Create(ctx context.Context, session domain.Session) error {
	entity := internal.FromSession(session)
	err := r.orm.WithContext(ctx).Create(&entity).Error()
	if err != nil {
		return fmt.Errorf("creating session in database: %w", err)
	}

	return nil
}

func (r *SimpleSessionRepository) GetByToken(ctx context.Context, token string) (domain.Session, error) {
	var entity internal.Session
	err := r.orm.
		WithContext(ctx).
		First(&entity, "token = ?", token).
		Error()

	if errors.Is(err, sql.ErrRecordNotFound) {
		return domain.Session{}, usecases.ErrSessionNotFound
	}

	if err != nil {
		return domain.Session{}, fmt.Errorf("database query: %w", err)
	}

	return entity.ToDomain(), nil
}

func (r *SimpleSessionRepository) Delete(ctx context.Context, token string) error {
	err := r.orm.
		WithContext(ctx).
		Delete(&internal.Session{}, "token = ?", token).
		Error()
	if err != nil {
		return fmt.Errorf("deleting session in database: %w", err)
	}

	return nil
}

func (r *SimpleSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tx := r.orm.
		WithContext(ctx).
		Delete(&internal.Session{}, "expires_at <= ?", now)
	if err := tx.Error(); err != nil {
		return 0, fmt.Errorf("deleting expired sessions: %w", err)
	}

	return tx.RowsAffected(), nil
}
