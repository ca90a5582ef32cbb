package assets

import (
	"encoding/json"
	"fmt"

	"github.com/s0up4200/wxapis/models"
)

// AssetResponse is the body returned by the assets service lookup
type AssetResponse struct {
	Data []AssetData `json:"data"`
}

func (r *AssetResponse) UnmarshalJSON(data []byte) error {
	type plain AssetResponse
	return decodeRequired(data, "asset response", (*plain)(r), "data")
}

// AssetData wraps a single asset record
type AssetData struct {
	Data Asset `json:"data"`
}

func (d *AssetData) UnmarshalJSON(data []byte) error {
	type plain AssetData
	return decodeRequired(data, "asset data", (*plain)(d), "data")
}

// Asset holds the asset id and its circulating quantity
type Asset struct {
	ID       string `json:"id"`
	Quantity int64  `json:"quantity"`
}

func (a *Asset) UnmarshalJSON(data []byte) error {
	type plain Asset
	return decodeRequired(data, "asset", (*plain)(a), "id", "quantity")
}

// Assets flattens the response into its asset records
func (r *AssetResponse) Assets() []Asset {
	out := make([]Asset, 0, len(r.Data))
	for _, d := range r.Data {
		out = append(out, d.Data)
	}
	return out
}

func decodeRequired(data []byte, what string, v any, fields ...string) error {
	if err := models.RequireFields(data, fields...); err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return json.Unmarshal(data, v)
}
