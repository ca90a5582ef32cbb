package node

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/s0up4200/wxapis/models"
)

// LastHeight is the current chain height
type LastHeight struct {
	Height int32 `json:"height"`
}

// UnmarshalJSON rejects a body without a height
func (h *LastHeight) UnmarshalJSON(data []byte) error {
	type plain LastHeight
	return decodeRequired(data, "last height", (*plain)(h), "height")
}

// decodeRequired checks the required fields of an object before decoding it into v.
// v must not have an UnmarshalJSON method of its own.
func decodeRequired(data []byte, what string, v any, fields ...string) error {
	if err := models.RequireFields(data, fields...); err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return json.Unmarshal(data, v)
}

type dataRequest struct {
	Keys []string `json:"keys"`
}

type evaluateRequest struct {
	Expr string `json:"expr"`
}

type idsRequest struct {
	IDs []string `json:"ids"`
}

// DataEntryResponse is an account data entry as returned by the node.
// The value is one of models.StringValue, IntegerValue, BooleanValue or BinaryValue.
type DataEntryResponse struct {
	Key   string
	Value models.Value
}

// UnmarshalJSON decodes the entry strictly by its "type" discriminator
func (d *DataEntryResponse) UnmarshalJSON(data []byte) error {
	if err := models.RequireFields(data, "key"); err != nil {
		return fmt.Errorf("data entry: %w", err)
	}

	var raw struct {
		Type  *string         `json:"type"`
		Key   string          `json:"key"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Type == nil {
		return fmt.Errorf("data entry %q: missing type discriminator", raw.Key)
	}

	value, err := decodeEntryValue("data entry", *raw.Type, raw.Value, true)
	if err != nil {
		return fmt.Errorf("data entry %q: %w", raw.Key, err)
	}

	*d = DataEntryResponse{Key: raw.Key, Value: value}
	return nil
}

// MarshalJSON writes the entry back in the node's tagged form
func (d DataEntryResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string       `json:"type"`
		Key   string       `json:"key"`
		Value models.Value `json:"value"`
	}{Type: d.Value.Type(), Key: d.Key, Value: d.Value})
}

// ToDataEntry converts to the shared data entry model, attributing it to address.
func (d DataEntryResponse) ToDataEntry(address string) models.DataEntry {
	return models.DataEntry{Address: address, Key: d.Key, Value: d.Value}
}

func decodeEntryValue(union, typ string, raw json.RawMessage, allowExtended bool) (models.Value, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("missing value")
	}

	switch typ {
	case "string":
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return models.StringValue(s), nil
	case "integer":
		var n int64
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return models.IntegerValue(n), nil
	}

	if allowExtended {
		switch typ {
		case "boolean":
			var b bool
			if err := json.Unmarshal(raw, &b); err != nil {
				return nil, err
			}
			return models.BooleanValue(b), nil
		case "binary":
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return nil, err
			}
			return models.ParseBinary(s)
		}
	}

	return nil, &UnknownTypeError{Union: union, Type: typ}
}

// Argument is a dApp invocation argument. Only integer and string arguments are modeled.
type Argument struct {
	Value models.Value
}

// UnmarshalJSON decodes the argument strictly by its "type" discriminator
func (a *Argument) UnmarshalJSON(data []byte) error {
	typ, raw, err := decodeTagged("argument", data)
	if err != nil {
		return err
	}
	v, err := decodeEntryValue("argument", typ, raw, false)
	if err != nil {
		return err
	}
	a.Value = v
	return nil
}

// MarshalJSON writes the argument in the node's tagged form
func (a Argument) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string       `json:"type"`
		Value models.Value `json:"value"`
	}{Type: a.Value.Type(), Value: a.Value})
}

// WavesBalance holds the balance details of an address
type WavesBalance struct {
	Address    string          `json:"address"`
	Regular    decimal.Decimal `json:"regular"`
	Generating decimal.Decimal `json:"generating"`
	Available  decimal.Decimal `json:"available"`
	Effective  decimal.Decimal `json:"effective"`
}

func (b *WavesBalance) UnmarshalJSON(data []byte) error {
	type plain WavesBalance
	return decodeRequired(data, "balance details", (*plain)(b),
		"address", "regular", "generating", "available", "effective")
}

// Balances lists the asset balances of an address
type Balances struct {
	Address  string        `json:"address"`
	Balances []BalanceItem `json:"balances"`
}

func (b *Balances) UnmarshalJSON(data []byte) error {
	type plain Balances
	return decodeRequired(data, "balances", (*plain)(b), "address", "balances")
}

// BalanceItem is the balance of one asset
type BalanceItem struct {
	AssetID  string  `json:"assetId"`
	Balance  uint64  `json:"balance"`
	Quantity *uint64 `json:"quantity,omitempty"`
}

func (b *BalanceItem) UnmarshalJSON(data []byte) error {
	type plain BalanceItem
	return decodeRequired(data, "balance item", (*plain)(b), "assetId", "balance")
}

// AssetDetailItem describes an issued asset
type AssetDetailItem struct {
	AssetID     string `json:"assetId"`
	Decimals    uint8  `json:"decimals"`
	Description string `json:"description"`
	Name        string `json:"name"`
}

func (a *AssetDetailItem) UnmarshalJSON(data []byte) error {
	type plain AssetDetailItem
	return decodeRequired(data, "asset detail", (*plain)(a), "assetId", "decimals", "description", "name")
}

// AssetDetailError is returned in place of details for an unknown or invalid id
type AssetDetailError struct {
	Error   int    `json:"error"`
	Message string `json:"message"`
}

func (a *AssetDetailError) UnmarshalJSON(data []byte) error {
	type plain AssetDetailError
	return decodeRequired(data, "asset detail error", (*plain)(a), "error", "message")
}

// AssetDetail is either an AssetDetailItem or an AssetDetailError.
// Exactly one of Item and Err is set.
type AssetDetail struct {
	Item *AssetDetailItem
	Err  *AssetDetailError
}

// IsError checks if the node reported an error for this id
func (a AssetDetail) IsError() bool {
	return a.Err != nil
}

// UnmarshalJSON picks the variant by the presence of the "error" field
func (a *AssetDetail) UnmarshalJSON(data []byte) error {
	var variant struct {
		Error   *int    `json:"error"`
		AssetID *string `json:"assetId"`
	}
	if err := json.Unmarshal(data, &variant); err != nil {
		return err
	}

	switch {
	case variant.Error != nil:
		var e AssetDetailError
		if err := json.Unmarshal(data, &e); err != nil {
			return err
		}
		*a = AssetDetail{Err: &e}
	case variant.AssetID != nil:
		var item AssetDetailItem
		if err := json.Unmarshal(data, &item); err != nil {
			return err
		}
		*a = AssetDetail{Item: &item}
	default:
		return fmt.Errorf("asset detail: neither assetId nor error present")
	}
	return nil
}

// MarshalJSON writes whichever variant is set
func (a AssetDetail) MarshalJSON() ([]byte, error) {
	if a.Err != nil {
		return json.Marshal(a.Err)
	}
	return json.Marshal(a.Item)
}

// StateChanges describes a transaction and the state changes its invocation produced.
type StateChanges struct {
	TransactionID   string            `json:"id"`
	Height          int32             `json:"height"`
	Timestamp       uint64            `json:"timestamp"`
	Sender          string            `json:"sender"`
	TransactionType uint8             `json:"type"`
	StateChanges    *StateChangesData `json:"stateChanges"`
	DApp            *string           `json:"dApp"`
	Call            *Call             `json:"call"`
}

// UnmarshalJSON requires the transaction header. The invocation parts stay optional.
func (s *StateChanges) UnmarshalJSON(data []byte) error {
	type plain StateChanges
	return decodeRequired(data, "state changes", (*plain)(s), "id", "height", "timestamp", "sender", "type")
}

// Call is the invoked dApp function and its arguments
type Call struct {
	Function string     `json:"function"`
	Args     []Argument `json:"args"`
}

func (c *Call) UnmarshalJSON(data []byte) error {
	type plain Call
	return decodeRequired(data, "call", (*plain)(c), "function", "args")
}

// StateChangesData lists the data writes and transfers of an invocation
type StateChangesData struct {
	Data      []DataEntryResponse `json:"data"`
	Transfers []Transfer          `json:"transfers"`
}

func (d *StateChangesData) UnmarshalJSON(data []byte) error {
	type plain StateChangesData
	return decodeRequired(data, "state changes data", (*plain)(d), "data", "transfers")
}

// Transfer is a payment made by a dApp. A nil Asset means WAVES.
type Transfer struct {
	Address string  `json:"address"`
	Asset   *string `json:"asset"`
	Amount  int64   `json:"amount"`
}

func (t *Transfer) UnmarshalJSON(data []byte) error {
	type plain Transfer
	return decodeRequired(data, "transfer", (*plain)(t), "address", "amount")
}
