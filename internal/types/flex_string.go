package types

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexString is a string that can be unmarshaled from either a JSON string
// or a JSON number. Trigger hyperparameters (fadingFactor, sensitivity) and
// time-window amounts appear in both forms in uploaded configs.
type FlexString string

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}

	return fmt.Errorf("FlexString: unexpected type, expected string or number")
}

// MarshalJSON implements the json.Marshaler interface. Values that parse as
// numbers round-trip as numbers so exported configs keep their original form.
func (f FlexString) MarshalJSON() ([]byte, error) {
	if f == "" {
		return []byte(`""`), nil
	}
	if _, err := strconv.ParseFloat(string(f), 64); err == nil {
		return []byte(f), nil
	}
	return json.Marshal(string(f))
}

// String converts FlexString back to string.
func (f FlexString) String() string {
	return string(f)
}
