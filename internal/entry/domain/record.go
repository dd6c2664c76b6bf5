package domain

import (
	"entrybase-server/internal/infra/utils"
)

// Record is one persisted instance of a resource schema. At rest it is owned
// by the store; during action execution it is loaned out through an
// ActionHandle. Mutations go through SetField so the dirty flag always
// reflects unpersisted changes.
type Record struct {
	ID        string
	EntryType string
	Fields    map[string]any
	CreatedAt utils.Time
	UpdatedAt utils.Time

	dirty bool
}

func NewRecord(entryType string, fields map[string]any) Record {
	if fields == nil {
		fields = make(map[string]any)
	}
	return Record{
		EntryType: entryType,
		Fields:    fields,
	}
}

func (r *Record) SetField(key string, value any) {
	if r.Fields == nil {
		r.Fields = make(map[string]any)
	}
	r.Fields[key] = value
	r.dirty = true
}

func (r Record) IsDirty() bool {
	return r.dirty
}

// MarkClean is called by the store after a successful persist.
func (r *Record) MarkClean() {
	r.dirty = false
}

// FieldValues returns the field map extended with the framework-managed
// timestamps, the shape callers see on the wire.
func (r Record) FieldValues() map[string]any {
	result := make(map[string]any, len(r.Fields)+2)
	for k, v := range r.Fields {
		result[k] = v
	}
	result[FieldKeyCreatedAt] = r.CreatedAt
	result[FieldKeyUpdatedAt] = r.UpdatedAt
	return result
}
