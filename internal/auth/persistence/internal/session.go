package internal

import (
	"time"

	"entrybase-server/internal/auth/domain"
	"entrybase-server/internal/infra/utils"
)

type Session struct {
	Token      string    `json:"token" gorm:"primaryKey"`
	IdentityID string    `json:"identity_id" gorm:"index;not null"`
	ExpiresAt  time.Time `json:"expires_at" gorm:"index"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Session) TableName() string {
	return "sessions"
}

func (m Session) ToDomain() domain.Session {
	return domain.Session{
		Token:      m.Token,
		IdentityID: m.IdentityID,
		ExpiresAt:  utils.Time{Time: m.ExpiresAt},
	}
}

func FromSession(value domain.Session) Session {
	return Session{
		Token:      value.Token,
		IdentityID: value.IdentityID,
		ExpiresAt:  value.ExpiresAt.Time,
	}
}
