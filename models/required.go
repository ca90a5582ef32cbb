package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// MissingFieldsError reports required object fields that were absent or null.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required field(s): %s", strings.Join(e.Fields, ", "))
}

// RequireFields checks that data is a JSON object carrying every named field with a non-null value.
func RequireFields(data []byte, fields ...string) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj == nil {
		return fmt.Errorf("expected object, got null")
	}

	var missing []string
	for _, f := range fields {
		raw, ok := obj[f]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}
