package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceValue(t *testing.T) {
	enumField := FieldDefinition{Key: "priority", Kind: FieldKindEnum, Choices: []Choice{
		{Value: "low", Label: "Low"},
		{Value: "high", Label: "High"},
	}}

	tests := []struct {
		name       string
		def        FieldDefinition
		raw        any
		want       any
		wantReason string
	}{
		{"short text accepts string", FieldDefinition{Key: "title", Kind: FieldKindShortText}, "hello", "hello", ""},
		{"short text rejects number", FieldDefinition{Key: "title", Kind: FieldKindShortText}, 42, nil, ReasonWrongType},
		{"long text accepts string", FieldDefinition{Key: "notes", Kind: FieldKindLongText}, "body", "body", ""},
		{"boolean accepts bool", FieldDefinition{Key: "done", Kind: FieldKindBoolean}, true, true, ""},
		{"boolean rejects string", FieldDefinition{Key: "done", Kind: FieldKindBoolean}, "true", nil, ReasonWrongType},
		{"integer accepts integral float", FieldDefinition{Key: "count", Kind: FieldKindInteger}, float64(7), int64(7), ""},
		{"integer rejects fractional float", FieldDefinition{Key: "count", Kind: FieldKindInteger}, 7.5, nil, ReasonWrongType},
		{"integer accepts int", FieldDefinition{Key: "count", Kind: FieldKindInteger}, 7, int64(7), ""},
		{"decimal accepts float", FieldDefinition{Key: "price", Kind: FieldKindDecimal}, 9.99, 9.99, ""},
		{"decimal accepts int", FieldDefinition{Key: "price", Kind: FieldKindDecimal}, 9, float64(9), ""},
		{"decimal rejects string", FieldDefinition{Key: "price", Kind: FieldKindDecimal}, "9.99", nil, ReasonWrongType},
		{"enum accepts declared choice", enumField, "low", "low", ""},
		{"enum rejects undeclared choice", enumField, "urgent", nil, ReasonNotInChoices},
		{"enum rejects non string", enumField, 1, nil, ReasonWrongType},
		{"date accepts iso day", FieldDefinition{Key: "due", Kind: FieldKindDate}, "2026-08-23", "2026-08-23", ""},
		{"date rejects garbage", FieldDefinition{Key: "due", Kind: FieldKindDate}, "23/08/2026", nil, ReasonMalformedDate},
		{"date rejects non string", FieldDefinition{Key: "due", Kind: FieldKindDate}, 20260823, nil, ReasonWrongType},
		{"timestamp normalizes to utc", FieldDefinition{Key: "at", Kind: FieldKindTimestamp}, "2026-08-23T10:00:00+02:00", "2026-08-23T08:00:00Z", ""},
		{"timestamp rejects date only", FieldDefinition{Key: "at", Kind: FieldKindTimestamp}, "2026-08-23", nil, ReasonMalformedDate},
		{"json passes through", FieldDefinition{Key: "meta", Kind: FieldKindJson}, map[string]any{"a": 1}, map[string]any{"a": 1}, ""},
		{"array accepts slice", FieldDefinition{Key: "tags", Kind: FieldKindArray}, []any{"a", "b"}, []any{"a", "b"}, ""},
		{"array rejects scalar", FieldDefinition{Key: "tags", Kind: FieldKindArray}, "a", nil, ReasonWrongType},
		{"reference accepts string id", FieldDefinition{Key: "owner", Kind: FieldKindReference}, "user-1", "user-1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := CoerceValue(tt.def, tt.raw)
			assert.Equal(t, tt.wantReason, reason)
			if tt.wantReason == "" {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func taskFields() []FieldDefinition {
	return []FieldDefinition{
		{Key: "title", Kind: FieldKindShortText, Required: true},
		{Key: "description", Kind: FieldKindLongText},
		{Key: "isCompleted", Kind: FieldKindBoolean, DefaultValue: false},
		{Key: "priority", Kind: FieldKindEnum, DefaultValue: "medium", Choices: []Choice{
			{Value: "low"}, {Value: "medium"}, {Value: "high"},
		}},
	}
}

func TestCoerceFields(t *testing.T) {
	t.Run("applies defaults for omitted optional fields", func(t *testing.T) {
		result, err := CoerceFields(taskFields(), map[string]any{"title": "write report"})
		require.NoError(t, err)

		assert.Equal(t, "write report", result["title"])
		assert.Equal(t, false, result["isCompleted"])
		assert.Equal(t, "medium", result["priority"])
		assert.NotContains(t, result, "description")
	})

	t.Run("drops undeclared keys silently", func(t *testing.T) {
		result, err := CoerceFields(taskFields(), map[string]any{"title": "x", "bogus": "y"})
		require.NoError(t, err)
		assert.NotContains(t, result, "bogus")
	})

	t.Run("explicit null does not trigger default", func(t *testing.T) {
		result, err := CoerceFields(taskFields(), map[string]any{"title": "x", "priority": nil})
		require.NoError(t, err)
		assert.NotContains(t, result, "priority")
	})

	t.Run("collects every failure in one pass sorted by field", func(t *testing.T) {
		_, err := CoerceFields(taskFields(), map[string]any{
			"isCompleted": "yes",
			"priority":    "urgent",
		})
		require.Error(t, err)

		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		require.Len(t, validation.Fields, 3)
		assert.Equal(t, FieldError{Field: "isCompleted", Reason: ReasonWrongType}, validation.Fields[0])
		assert.Equal(t, FieldError{Field: "priority", Reason: ReasonNotInChoices}, validation.Fields[1])
		assert.Equal(t, FieldError{Field: "title", Reason: ReasonMissingRequired}, validation.Fields[2])
	})

	t.Run("null on required field is missing", func(t *testing.T) {
		_, err := CoerceFields(taskFields(), map[string]any{"title": nil})
		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, []FieldError{{Field: "title", Reason: ReasonMissingRequired}}, validation.Fields)
	})
}

func TestCoercePartialFields(t *testing.T) {
	t.Run("touches only named fields and skips defaults", func(t *testing.T) {
		result, err := CoercePartialFields(taskFields(), map[string]any{"description": "updated"})
		require.NoError(t, err)

		assert.Equal(t, map[string]any{"description": "updated"}, result)
	})

	t.Run("null clears an optional field", func(t *testing.T) {
		result, err := CoercePartialFields(taskFields(), map[string]any{"description": nil})
		require.NoError(t, err)

		value, present := result["description"]
		assert.True(t, present)
		assert.Nil(t, value)
	})

	t.Run("null on required field fails", func(t *testing.T) {
		_, err := CoercePartialFields(taskFields(), map[string]any{"title": nil})
		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, []FieldError{{Field: "title", Reason: ReasonMissingRequired}}, validation.Fields)
	})

	t.Run("bad values are rejected with reasons", func(t *testing.T) {
		_, err := CoercePartialFields(taskFields(), map[string]any{"priority": "urgent"})
		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, []FieldError{{Field: "priority", Reason: ReasonNotInChoices}}, validation.Fields)
	})
}
