package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID identifies a backend entity. The backend emits identifiers as JSON
// numbers for some resources and strings for others; both decode into the
// same textual form.
type ID string

// UnmarshalJSON accepts a JSON string or a JSON number.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }
