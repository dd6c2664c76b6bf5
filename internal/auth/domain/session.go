package domain

import (
	"time"

	"entrybase-server/internal/infra/utils"
)

// Session is a cookie-backed login: an opaque token bound to one identity
// with an absolute expiry.
type Session struct {
	Token      string
	IdentityID string
	ExpiresAt  utils.Time
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
