package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// RawJSON holds JSON text that is not guaranteed to be well formed.
// Hyperparameter blocks arrive as free text from registration forms, so
// consumers must ask for the parsed object and handle the invalid case
// instead of assuming validity.
type RawJSON string

// Object parses the text as a JSON object. Empty text yields an empty
// object. The error describes the first syntax failure with its offset.
func (r RawJSON) Object() (map[string]interface{}, error) {
	if r == "" {
		return map[string]interface{}{}, nil
	}
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(r), &obj); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return obj, nil
}

// ObjectOrEmpty parses the text, falling back to an empty object when the
// text is malformed. Callers that can degrade gracefully use this form.
func (r RawJSON) ObjectOrEmpty() map[string]interface{} {
	obj, err := r.Object()
	if err != nil {
		return map[string]interface{}{}
	}
	return obj
}

// Valid reports whether the text parses as JSON.
func (r RawJSON) Valid() bool {
	return r == "" || json.Valid([]byte(r))
}

// Value implements driver.Valuer so RawJSON persists as plain text.
func (r RawJSON) Value() (driver.Value, error) {
	return string(r), nil
}

// Scan implements sql.Scanner.
func (r *RawJSON) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*r = ""
	case string:
		*r = RawJSON(v)
	case []byte:
		*r = RawJSON(v)
	default:
		return fmt.Errorf("RawJSON: cannot scan %T", value)
	}
	return nil
}
