package assets

import (
	"context"
	"strconv"
	"strings"

	"github.com/s0up4200/wxapis/apiclient"
)

// Client queries the assets service
type Client struct {
	api *apiclient.Client
}

// NewClient creates a new assets service client
func NewClient(baseURL string, opts ...apiclient.Option) (*Client, error) {
	api, err := apiclient.NewClient(apiclient.ServiceAssets, baseURL, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{api: api}, nil
}

// Get looks up assets by id, optionally restricted to records at or above height.
// An empty id list returns an empty response without calling the service.
func (c *Client) Get(ctx context.Context, ids []string, height *uint32) (*AssetResponse, error) {
	url, ok := buildURL(c.api.BaseURL(), ids, height)
	if !ok {
		return &AssetResponse{Data: []AssetData{}}, nil
	}

	return apiclient.Execute[*AssetResponse](c.api, c.api.Get(ctx, url), "assets::get_assets")
}

// buildURL returns {root}?ids=a&ids=b[&height__gte=h], or false when there is nothing to filter on.
func buildURL(root string, ids []string, height *uint32) (string, bool) {
	escaped := make([]string, len(ids))
	for i, id := range ids {
		escaped[i] = apiclient.EscapeComponent(id)
	}
	joined := strings.Join(escaped, "&ids=")
	if joined == "" {
		return "", false
	}

	var b strings.Builder
	b.WriteString(root)
	b.WriteString("?ids=")
	b.WriteString(joined)
	if height != nil {
		b.WriteString("&height__gte=")
		b.WriteString(strconv.FormatUint(uint64(*height), 10))
	}
	return b.String(), true
}
