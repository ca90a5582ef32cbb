package node

import (
	"encoding/json"
	"fmt"
)

// Value is a script evaluation result. Concrete types are ArrayValue,
// TupleValue, IntegerEntryValue, StringValue and IntValue.
type Value interface {
	// Type returns the discriminator the node uses for this variant.
	Type() string
	isValue()
}

type (
	ArrayValue  []Value
	TupleValue  map[string]Value
	StringValue string
	IntValue    int64
)

// IntegerEntryValue is a ledger IntegerEntry(key, value) returned from a script.
type IntegerEntryValue struct {
	Key   string
	Value int64
}

func (ArrayValue) Type() string { return "Array" }
func (TupleValue) Type() string { return "Tuple" }
func (IntegerEntryValue) Type() string { return "IntegerEntry" }
func (StringValue) Type() string { return "String" }
func (IntValue) Type() string { return "Int" }

func (ArrayValue) isValue() {}
func (TupleValue) isValue() {}
func (IntegerEntryValue) isValue() {}
func (StringValue) isValue() {}
func (IntValue) isValue() {}

// UnknownTypeError reports a discriminator with no matching variant.
type UnknownTypeError struct {
	Union string
	Type  string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown %s type %q", e.Union, e.Type)
}

type taggedValue struct {
	Type  *string         `json:"type"`
	Value json.RawMessage `json:"value"`
}

func decodeTagged(union string, data []byte) (string, json.RawMessage, error) {
	var t taggedValue
	if err := json.Unmarshal(data, &t); err != nil {
		return "", nil, err
	}
	if t.Type == nil {
		return "", nil, fmt.Errorf("%s: missing type discriminator", union)
	}
	if len(t.Value) == 0 {
		return "", nil, fmt.Errorf("%s %q: missing value", union, *t.Type)
	}
	return *t.Type, t.Value, nil
}

// DecodeValue decodes one evaluation value by its "type" discriminator.
// Unknown discriminators are an error.
func DecodeValue(data []byte) (Value, error) {
	typ, raw, err := decodeTagged("value", data)
	if err != nil {
		return nil, err
	}

	switch typ {
	case "Array":
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("Array: %w", err)
		}
		arr := make(ArrayValue, 0, len(items))
		for i, item := range items {
			v, err := DecodeValue(item)
			if err != nil {
				return nil, fmt.Errorf("Array[%d]: %w", i, err)
			}
			arr = append(arr, v)
		}
		return arr, nil
	case "Tuple":
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("Tuple: %w", err)
		}
		tuple := make(TupleValue, len(fields))
		for name, field := range fields {
			v, err := DecodeValue(field)
			if err != nil {
				return nil, fmt.Errorf("Tuple.%s: %w", name, err)
			}
			tuple[name] = v
		}
		return tuple, nil
	case "IntegerEntry":
		var entry struct {
			Key struct {
				Value *string `json:"value"`
			} `json:"key"`
			Value struct {
				Value *int64 `json:"value"`
			} `json:"value"`
		}
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, fmt.Errorf("IntegerEntry: %w", err)
		}
		if entry.Key.Value == nil || entry.Value.Value == nil {
			return nil, fmt.Errorf("IntegerEntry: key and value are required")
		}
		return IntegerEntryValue{Key: *entry.Key.Value, Value: *entry.Value.Value}, nil
	case "String":
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("String: %w", err)
		}
		return StringValue(s), nil
	case "Int":
		var n int64
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, fmt.Errorf("Int: %w", err)
		}
		return IntValue(n), nil
	default:
		return nil, &UnknownTypeError{Union: "value", Type: typ}
	}
}

// EvaluateResponse is the body of a script evaluation call.
type EvaluateResponse struct {
	Result Value
}

// UnmarshalJSON decodes the tagged "result" field
func (r *EvaluateResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Result) == 0 {
		return fmt.Errorf("evaluate response: missing result")
	}
	v, err := DecodeValue(raw.Result)
	if err != nil {
		return fmt.Errorf("evaluate response: %w", err)
	}
	r.Result = v
	return nil
}
