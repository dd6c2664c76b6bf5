package domain

const (
	PermissionEntryRead  = "entry:read"
	PermissionEntryWrite = "entry:write"
)

// Identity is an authenticated caller: a stable id, a display name and the
// set of permissions granted to it.
type Identity struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

func (i Identity) Can(permission string) bool {
	for _, granted := range i.Permissions {
		if granted == permission {
			return true
		}
	}
	return false
}
