package statesvc

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/s0up4200/wxapis/models"
)

// HistoryPeg pins a point lookup to a past chain state: either a block height
// or a block timestamp. Build one with AtHeight or AtTimestamp.
type HistoryPeg struct {
	Height         *uint32 `url:"height,omitempty"`
	BlockTimestamp string  `url:"block_timestamp,omitempty"`
}

// AtHeight pegs a lookup to the given block height
func AtHeight(height uint32) *HistoryPeg {
	return &HistoryPeg{Height: &height}
}

// AtTimestamp pegs a lookup to the block at timestamp, passed through verbatim.
func AtTimestamp(timestamp string) *HistoryPeg {
	return &HistoryPeg{BlockTimestamp: timestamp}
}

// String describes the peg for logs
func (p *HistoryPeg) String() string {
	switch {
	case p == nil:
		return "latest"
	case p.Height != nil:
		return "height " + strconv.FormatUint(uint64(*p.Height), 10)
	default:
		return "timestamp " + p.BlockTimestamp
	}
}

type searchResult struct {
	Entries []models.DataEntry `json:"entries"`
}

func (r *searchResult) UnmarshalJSON(data []byte) error {
	type plain searchResult
	if err := models.RequireFields(data, "entries"); err != nil {
		return fmt.Errorf("search result: %w", err)
	}
	return json.Unmarshal(data, (*plain)(r))
}
