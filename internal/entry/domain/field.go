package domain

// FieldKind tags the value shape a field accepts. Validation and coercion
// are table-driven on this tag, so new resource types never need new code.
type FieldKind string

const (
	FieldKindShortText FieldKind = "short_text"
	FieldKindLongText  FieldKind = "long_text"
	FieldKindBoolean   FieldKind = "boolean"
	FieldKindInteger   FieldKind = "integer"
	FieldKindDecimal   FieldKind = "decimal"
	FieldKindEnum      FieldKind = "enum"
	FieldKindDate      FieldKind = "date"
	FieldKindTimestamp FieldKind = "timestamp"
	FieldKindJson      FieldKind = "json"
	FieldKindArray     FieldKind = "array"
	FieldKindReference FieldKind = "reference"
)

// Choice is one admissible value of an enum field.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type FieldDefinition struct {
	Key          string    `json:"key"`
	Kind         FieldKind `json:"kind"`
	Required     bool      `json:"required"`
	DefaultValue any       `json:"default_value,omitempty"`
	Choices      []Choice  `json:"choices,omitempty"`
}

// Framework-managed field keys, stamped by the store and never writable by
// callers.
const (
	FieldKeyCreatedAt = "createdAt"
	FieldKeyUpdatedAt = "updatedAt"
)
