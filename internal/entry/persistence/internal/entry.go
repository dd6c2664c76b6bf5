package internal

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"entrybase-server/internal/entry/domain"
	"entrybase-server/internal/infra/utils"
)

// Entry is the persistence shape of a record: the declared fields live in
// one JSON document column, the framework-managed columns stay relational so
// the store can index and order on them.
type Entry struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	EntryType string    `json:"entry_type" gorm:"index;not null"`
	Fields    FieldsMap `json:"fields"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime:false"`
}

func (Entry) TableName() string {
	return "entries"
}

type FieldsMap map[string]any

func (f FieldsMap) Value() (driver.Value, error) {
	if len(f) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(map[string]any(f))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (f *FieldsMap) Scan(src any) error {
	var data []byte

	switch val := src.(type) {
	case string:
		data = []byte(val)
	case []byte:
		data = val
	case nil:
		*f = FieldsMap{}
		return nil
	default:
		return errors.New("invalid type for fields")
	}

	return json.Unmarshal(data, f)
}

func (m Entry) ToDomain() domain.Record {
	fields := make(map[string]any, len(m.Fields))
	for k, v := range m.Fields {
		fields[k] = v
	}

	record := domain.NewRecord(m.EntryType, fields)
	record.ID = m.ID
	record.CreatedAt = utils.Time{Time: m.CreatedAt}
	record.UpdatedAt = utils.Time{Time: m.UpdatedAt}
	return record
}

func FromRecord(value domain.Record) Entry {
	return Entry{
		ID:        value.ID,
		EntryType: value.EntryType,
		Fields:    FieldsMap(value.Fields),
		CreatedAt: value.CreatedAt.Time,
		UpdatedAt: value.UpdatedAt.Time,
	}
}
