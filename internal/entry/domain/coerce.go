package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Validation failure reasons, stable wire vocabulary.
const (
	ReasonMissingRequired = "missing_required"
	ReasonWrongType       = "wrong_type"
	ReasonNotInChoices    = "not_in_choices"
	ReasonMalformedDate   = "malformed_date"
)

type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError aggregates every field failure of a single request so the
// caller sees all problems in one round trip.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Reason)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

const dateLayout = "2006-01-02"

// CoerceValue normalizes a raw JSON value against a field definition. An
// empty reason means success.
func CoerceValue(def FieldDefinition, raw any) (any, string) {
	switch def.Kind {
	case FieldKindShortText, FieldKindLongText, FieldKindReference:
		value, ok := raw.(string)
		if !ok {
			return nil, ReasonWrongType
		}
		return value, ""

	case FieldKindBoolean:
		value, ok := raw.(bool)
		if !ok {
			return nil, ReasonWrongType
		}
		return value, ""

	case FieldKindInteger:
		switch value := raw.(type) {
		case int:
			return int64(value), ""
		case int64:
			return value, ""
		case float64:
			if value != math.Trunc(value) {
				return nil, ReasonWrongType
			}
			return int64(value), ""
		case json.Number:
			parsed, err := value.Int64()
			if err != nil {
				return nil, ReasonWrongType
			}
			return parsed, ""
		default:
			return nil, ReasonWrongType
		}

	case FieldKindDecimal:
		switch value := raw.(type) {
		case float64:
			return value, ""
		case int:
			return float64(value), ""
		case int64:
			return float64(value), ""
		case json.Number:
			parsed, err := value.Float64()
			if err != nil {
				return nil, ReasonWrongType
			}
			return parsed, ""
		default:
			return nil, ReasonWrongType
		}

	case FieldKindEnum:
		value, ok := raw.(string)
		if !ok {
			return nil, ReasonWrongType
		}
		for _, c := range def.Choices {
			if c.Value == value {
				return value, ""
			}
		}
		return nil, ReasonNotInChoices

	case FieldKindDate:
		value, ok := raw.(string)
		if !ok {
			return nil, ReasonWrongType
		}
		parsed, err := time.Parse(dateLayout, value)
		if err != nil {
			return nil, ReasonMalformedDate
		}
		return parsed.Format(dateLayout), ""

	case FieldKindTimestamp:
		value, ok := raw.(string)
		if !ok {
			return nil, ReasonWrongType
		}
		parsed, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return nil, ReasonMalformedDate
		}
		return parsed.UTC().Format(time.RFC3339), ""

	case FieldKindJson:
		return raw, ""

	case FieldKindArray:
		value, ok := raw.([]any)
		if !ok {
			return nil, ReasonWrongType
		}
		return value, ""

	default:
		return nil, ReasonWrongType
	}
}

// CoerceFields validates a full creation payload against the declared
// fields: required fields must be present and non-null, defaults fill
// omitted optional fields, and keys not declared on the schema are silently
// dropped so forward-compatible payloads stay accepted.
func CoerceFields(fields []FieldDefinition, payload map[string]any) (map[string]any, error) {
	result := make(map[string]any, len(fields))
	var failures []FieldError

	for _, def := range fields {
		raw, present := payload[def.Key]
		if !present || raw == nil {
			if def.Required {
				failures = append(failures, FieldError{Field: def.Key, Reason: ReasonMissingRequired})
				continue
			}
			if !present && def.DefaultValue != nil {
				value, _ := CoerceValue(def, def.DefaultValue)
				result[def.Key] = value
			}
			continue
		}

		value, reason := CoerceValue(def, raw)
		if reason != "" {
			failures = append(failures, FieldError{Field: def.Key, Reason: reason})
			continue
		}
		result[def.Key] = value
	}

	if len(failures) > 0 {
		sortFieldErrors(failures)
		return nil, &ValidationError{Fields: failures}
	}

	return result, nil
}

// CoercePartialFields validates an update payload: only the named fields are
// checked, absent fields stay untouched, defaults never apply, and a
// required field explicitly set to null is rejected.
func CoercePartialFields(fields []FieldDefinition, payload map[string]any) (map[string]any, error) {
	result := make(map[string]any, len(payload))
	var failures []FieldError

	for _, def := range fields {
		raw, present := payload[def.Key]
		if !present {
			continue
		}
		if raw == nil {
			if def.Required {
				failures = append(failures, FieldError{Field: def.Key, Reason: ReasonMissingRequired})
				continue
			}
			result[def.Key] = nil
			continue
		}

		value, reason := CoerceValue(def, raw)
		if reason != "" {
			failures = append(failures, FieldError{Field: def.Key, Reason: reason})
			continue
		}
		result[def.Key] = value
	}

	if len(failures) > 0 {
		sortFieldErrors(failures)
		return nil, &ValidationError{Fields: failures}
	}

	return result, nil
}

func sortFieldErrors(failures []FieldError) {
	sort.Slice(failures, func(i, j int) bool {
		return failures[i].Field < failures[j].Field
	})
}
