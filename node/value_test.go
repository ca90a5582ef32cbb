package node

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeValue(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Value
		wantErr bool
	}{
		{name: "int", input: `{"type":"Int","value":-7}`, want: IntValue(-7)},
		{name: "string", input: `{"type":"String","value":"hello"}`, want: StringValue("hello")},
		{
			name:  "integer entry",
			input: `{"type":"IntegerEntry","value":{"key":{"type":"String","value":"%s__rate"},"value":{"type":"Int","value":1500}}}`,
			want:  IntegerEntryValue{Key: "%s__rate", Value: 1500},
		},
		{
			name:  "array",
			input: `{"type":"Array","value":[{"type":"Int","value":1},{"type":"String","value":"x"}]}`,
			want:  ArrayValue{IntValue(1), StringValue("x")},
		},
		{
			name:  "tuple",
			input: `{"type":"Tuple","value":{"_1":{"type":"Int","value":1},"_2":{"type":"Array","value":[]}}}`,
			want:  TupleValue{"_1": IntValue(1), "_2": ArrayValue{}},
		},
		{name: "missing type", input: `{"value":1}`, wantErr: true},
		{name: "missing value", input: `{"type":"Int"}`, wantErr: true},
		{name: "wrong payload", input: `{"type":"Int","value":"1"}`, wantErr: true},
		{name: "integer entry without key", input: `{"type":"IntegerEntry","value":{"value":{"value":1}}}`, wantErr: true},
		{name: "nested unknown", input: `{"type":"Array","value":[{"type":"ByteVector","value":"AQ=="}]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeValue([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeValueUnknownType(t *testing.T) {
	_, err := DecodeValue([]byte(`{"type":"Boolean","value":true}`))

	var unknown *UnknownTypeError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "Boolean", unknown.Type)
	assert.Equal(t, "value", unknown.Union)
}

func TestEvaluateResponseUnmarshal(t *testing.T) {
	var resp EvaluateResponse
	err := json.Unmarshal([]byte(`{"result":{"type":"Int","value":42},"complexity":3,"expr":"f()"}`), &resp)
	require.NoError(t, err)
	assert.Equal(t, IntValue(42), resp.Result)

	assert.Error(t, json.Unmarshal([]byte(`{"complexity":3}`), &resp))
}
