package internal

import (
	"entrybase-server/internal/auth/domain"
	"entrybase-server/internal/infra/utils"
)

type LoginRequest struct {
	Token string `json:"token"`
}

type Identity struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

type LoginResponse struct {
	Identity  Identity   `json:"identity"`
	ExpiresAt utils.Time `json:"expiresAt"`
}

func FromIdentity(value domain.Identity) Identity {
	return Identity{
		ID:          value.ID,
		Name:        value.Name,
		Permissions: value.Permissions,
	}
}
