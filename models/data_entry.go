package models

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// BinaryPrefix marks base64-encoded binary values in the Waves REST APIs.
const BinaryPrefix = "base64:"

// DataEntry is one key/value record of an account's data storage.
type DataEntry struct {
	Address string `json:"address,omitempty"`
	Key     string `json:"key"`
	Value   Value  `json:"value"`
}

// Value is the typed value of a data entry: StringValue, IntegerValue, BooleanValue or BinaryValue.
type Value interface {
	// Type returns the value's wire type name.
	Type() string
	isValue()
}

type (
	StringValue  string
	IntegerValue int64
	BooleanValue bool
	BinaryValue  []byte
)

func (StringValue) Type() string { return "string" }
func (IntegerValue) Type() string { return "integer" }
func (BooleanValue) Type() string { return "boolean" }
func (BinaryValue) Type() string { return "binary" }

func (StringValue) isValue() {}
func (IntegerValue) isValue() {}
func (BooleanValue) isValue() {}
func (BinaryValue) isValue() {}

// String renders binary values with the base64 prefix used on the wire
func (v BinaryValue) String() string {
	return BinaryPrefix + base64.StdEncoding.EncodeToString(v)
}

// MarshalJSON writes binary values as prefixed base64 strings
func (v BinaryValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// ParseBinary decodes a "base64:"-prefixed string.
func ParseBinary(s string) (BinaryValue, error) {
	if !strings.HasPrefix(s, BinaryPrefix) {
		return nil, fmt.Errorf("binary value %q lacks %q prefix", s, BinaryPrefix)
	}
	b, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(s, BinaryPrefix))
	if err != nil {
		return nil, fmt.Errorf("invalid binary value: %w", err)
	}
	return BinaryValue(b), nil
}

// UnmarshalJSON infers the value type from the JSON kind of "value".
// Strings carrying the base64 prefix become BinaryValue when the payload decodes,
// and stay StringValue otherwise.
func (e *DataEntry) UnmarshalJSON(data []byte) error {
	if err := RequireFields(data, "key"); err != nil {
		return fmt.Errorf("data entry: %w", err)
	}

	var raw struct {
		Address string          `json:"address"`
		Key     string          `json:"key"`
		Value   json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Value) == 0 {
		return fmt.Errorf("data entry %q: missing value", raw.Key)
	}

	value, err := parseValue(raw.Value)
	if err != nil {
		return fmt.Errorf("data entry %q: %w", raw.Key, err)
	}

	*e = DataEntry{Address: raw.Address, Key: raw.Key, Value: value}
	return nil
}

func parseValue(raw json.RawMessage) (Value, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty value")
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, err
		}
		if strings.HasPrefix(s, BinaryPrefix) {
			if b, err := ParseBinary(s); err == nil {
				return b, nil
			}
		}
		return StringValue(s), nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return nil, err
		}
		return BooleanValue(b), nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n int64
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return nil, fmt.Errorf("integer value: %w", err)
		}
		return IntegerValue(n), nil
	default:
		return nil, fmt.Errorf("unsupported value %s", trimmed)
	}
}
