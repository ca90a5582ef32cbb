package statesvc

import (
	"context"
	"fmt"

	"github.com/google/go-querystring/query"

	"github.com/s0up4200/wxapis/apiclient"
	"github.com/s0up4200/wxapis/models"
)

// Client wraps the state service REST API
type Client struct {
	api *apiclient.Client
}

// NewClient creates a new state service client
func NewClient(baseURL string, opts ...apiclient.Option) (*Client, error) {
	api, err := apiclient.NewClient(apiclient.ServiceStateService, baseURL, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{api: api}, nil
}

// GetState returns a single data entry of address, or nil if it does not exist.
// A nil peg reads the latest state.
func (c *Client) GetState(ctx context.Context, address, key string, peg *HistoryPeg) (*models.DataEntry, error) {
	endpoint := fmt.Sprintf("entries/%s/%s", apiclient.EscapeComponent(address), apiclient.EscapeComponent(key))

	if peg != nil {
		values, err := query.Values(peg)
		if err != nil {
			return nil, fmt.Errorf("failed to encode history peg: %w", err)
		}
		if encoded := values.Encode(); encoded != "" {
			endpoint += "?" + encoded
		}
	}

	logger := c.api.Logger()
	logger.Trace().
		Str("address", address).
		Str("key", key).
		Stringer("peg", peg).
		Msg("Fetching data entry")

	return apiclient.Execute(c.api, c.api.Get(ctx, endpoint), "state_service::get_state",
		apiclient.NotFoundAsEmpty[*models.DataEntry](),
	)
}

// Search posts a query document and returns the matching entries.
// doc is sent as JSON unchanged; see the state service docs for its filter grammar.
func (c *Client) Search(ctx context.Context, doc any) ([]models.DataEntry, error) {
	res, err := apiclient.Execute[*searchResult](c.api, c.api.PostJSON(ctx, "search", doc), "state_service::search")
	if err != nil {
		return nil, err
	}
	return res.Entries, nil
}
