package filter

import (
	"time"

	"github.com/s0up4200/wxapis/models"
	"github.com/s0up4200/wxapis/node"
)

// WavesAsset is the asset name used for transfers without an asset id
const WavesAsset = node.WavesAssetID

// DataItem is a data write exposed to expressions as an element of Data.
type DataItem struct {
	Key   string
	Type  string
	Value any
}

// TransferItem is a transfer exposed to expressions as an element of Transfers.
type TransferItem struct {
	Address string
	Asset   string
	Amount  int64
}

func plainValue(v models.Value) any {
	switch val := v.(type) {
	case models.StringValue:
		return string(val)
	case models.IntegerValue:
		return int64(val)
	case models.BooleanValue:
		return bool(val)
	case models.BinaryValue:
		return val.String()
	default:
		return nil
	}
}

// addRecordFields exposes the record as top-level variables
func addRecordFields(env map[string]any, sc node.StateChanges) {
	env["ID"] = sc.TransactionID
	env["Height"] = int(sc.Height)
	env["Timestamp"] = int64(sc.Timestamp)
	env["Time"] = time.UnixMilli(int64(sc.Timestamp))
	env["Sender"] = sc.Sender
	env["Type"] = int(sc.TransactionType)

	env["DApp"] = ""
	if sc.DApp != nil {
		env["DApp"] = *sc.DApp
	}

	env["Function"] = ""
	args := []any{}
	if sc.Call != nil {
		env["Function"] = sc.Call.Function
		for _, arg := range sc.Call.Args {
			args = append(args, plainValue(arg.Value))
		}
	}
	env["Args"] = args

	data := []DataItem{}
	transfers := []TransferItem{}
	if sc.StateChanges != nil {
		for _, d := range sc.StateChanges.Data {
			data = append(data, DataItem{Key: d.Key, Type: d.Value.Type(), Value: plainValue(d.Value)})
		}
		for _, t := range sc.StateChanges.Transfers {
			asset := WavesAsset
			if t.Asset != nil {
				asset = *t.Asset
			}
			transfers = append(transfers, TransferItem{Address: t.Address, Asset: asset, Amount: t.Amount})
		}
	}
	env["Data"] = data
	env["Transfers"] = transfers

	env["hasKey"] = createHasKeyFunc(data)
	env["dataValue"] = createDataValueFunc(data)
	env["transferredTo"] = createTransferredToFunc(transfers)
	env["totalTransferred"] = createTotalTransferredFunc(transfers)
}

func createHasKeyFunc(data []DataItem) func(string) bool {
	return func(key string) bool {
		for _, d := range data {
			if d.Key == key {
				return true
			}
		}
		return false
	}
}

// The last write wins when a key is written more than once.
func createDataValueFunc(data []DataItem) func(string) any {
	return func(key string) any {
		var found any
		for _, d := range data {
			if d.Key == key {
				found = d.Value
			}
		}
		return found
	}
}

func createTransferredToFunc(transfers []TransferItem) func(string) bool {
	return func(address string) bool {
		for _, t := range transfers {
			if t.Address == address {
				return true
			}
		}
		return false
	}
}

func createTotalTransferredFunc(transfers []TransferItem) func(string) int64 {
	return func(asset string) int64 {
		var total int64
		for _, t := range transfers {
			if t.Asset == asset {
				total += t.Amount
			}
		}
		return total
	}
}
