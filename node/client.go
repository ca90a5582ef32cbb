package node

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/go-querystring/query"

	"github.com/s0up4200/wxapis/apiclient"
)

// WavesAssetID is the pseudo id of the native token. It has no asset details entry.
const WavesAssetID = "WAVES"

// Client wraps the Waves node REST API
type Client struct {
	api *apiclient.Client
}

// NewClient creates a new node client
func NewClient(baseURL string, opts ...apiclient.Option) (*Client, error) {
	api, err := apiclient.NewClient(apiclient.ServiceNode, baseURL, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{api: api}, nil
}

// DataEntries reads the given keys from an account's data storage.
func (c *Client) DataEntries(ctx context.Context, address string, keys []string) ([]DataEntryResponse, error) {
	if keys == nil {
		keys = []string{}
	}
	endpoint := "addresses/data/" + apiclient.EscapeComponent(address)
	req := c.api.PostJSON(ctx, endpoint, dataRequest{Keys: keys})

	return apiclient.Execute[[]DataEntryResponse](c.api, req, "node::data_entries")
}

// Evaluate runs expression against the dApp's script and returns the tagged result.
func (c *Client) Evaluate(ctx context.Context, dapp, expression string) (*EvaluateResponse, error) {
	endpoint := "utils/script/evaluate/" + apiclient.EscapeComponent(dapp)
	req := c.api.PostJSON(ctx, endpoint, evaluateRequest{Expr: expression})

	return apiclient.Execute[*EvaluateResponse](c.api, req, "node::evaluate")
}

// LastHeight returns the current blockchain height
func (c *Client) LastHeight(ctx context.Context) (*LastHeight, error) {
	return apiclient.Execute[*LastHeight](c.api, c.api.Get(ctx, "blocks/height"), "node::get_last_height")
}

// AddrBalanceDetails returns the WAVES balance details of an address, or nil if the node has none.
func (c *Client) AddrBalanceDetails(ctx context.Context, address string) (*WavesBalance, error) {
	endpoint := "addresses/balance/details/" + apiclient.EscapeComponent(address)

	return apiclient.Execute(c.api, c.api.Get(ctx, endpoint), "node::addr_balance_details",
		apiclient.NotFoundAsEmpty[*WavesBalance](),
	)
}

// AssetsBalance returns the balances of the given assets for an address, or nil if the node has none.
func (c *Client) AssetsBalance(ctx context.Context, address string, assetIDs []string) (*Balances, error) {
	if assetIDs == nil {
		assetIDs = []string{}
	}
	endpoint := "assets/balance/" + apiclient.EscapeComponent(address)
	req := c.api.PostJSON(ctx, endpoint, idsRequest{IDs: assetIDs})

	return apiclient.Execute(c.api, req, "node::assets_balance",
		apiclient.NotFoundAsEmpty[*Balances](),
	)
}

// AssetsDetails returns details for the given assets. WAVES is skipped since it is not an issued asset.
// A nil slice with a nil error means the node answered 404.
func (c *Client) AssetsDetails(ctx context.Context, assetIDs []string) ([]AssetDetail, error) {
	ids := make([]string, 0, len(assetIDs))
	for _, id := range assetIDs {
		if id == WavesAssetID {
			continue
		}
		ids = append(ids, apiclient.EscapeComponent(id))
	}
	endpoint := "assets/details?id=" + strings.Join(ids, "&id=")

	return apiclient.Execute(c.api, c.api.Get(ctx, endpoint), "node::assets_details",
		apiclient.NotFoundAsEmpty[[]AssetDetail](),
	)
}

// TransactionBroadcast submits a signed transaction given as raw JSON and returns the node's reply.
// It is never retried.
func (c *Client) TransactionBroadcast(ctx context.Context, transaction string) (json.RawMessage, error) {
	req := c.api.PostRaw(ctx, "transactions/broadcast", []byte(transaction), "application/json")

	return apiclient.Execute[json.RawMessage](c.api, req, "node::transaction_broadcast")
}

type stateChangesQuery struct {
	After string `url:"after,omitempty"`
}

// StateChangesByAddress lists invoke state changes for an address, newest first.
// cursor is the id of the last transaction of the previous page.
func (c *Client) StateChangesByAddress(ctx context.Context, address string, limit int, cursor *string) ([]StateChanges, error) {
	endpoint := fmt.Sprintf("debug/stateChanges/address/%s/limit/%d", apiclient.EscapeComponent(address), limit)

	var q stateChangesQuery
	if cursor != nil {
		q.After = *cursor
	}
	values, err := query.Values(q)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}
	if encoded := values.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	return apiclient.Execute[[]StateChanges](c.api, c.api.Get(ctx, endpoint), "node::state_changes_by_address")
}

// StateChangesByTransactionID returns the state changes of a single invoke transaction.
func (c *Client) StateChangesByTransactionID(ctx context.Context, transactionID string) (*StateChanges, error) {
	endpoint := "debug/stateChanges/info/" + apiclient.EscapeComponent(transactionID)

	return apiclient.Execute[*StateChanges](c.api, c.api.Get(ctx, endpoint), "node::state_changes_by_transaction_id")
}
