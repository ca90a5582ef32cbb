// Package assets provides a client for the assets service, which reports
// asset ids and circulating quantities, optionally as of a minimum height.
//
//	client, err := assets.NewClient("https://api.wavesplatform.com/v0/assets")
//	resp, err := client.Get(ctx, []string{"WAVES"}, nil)
package assets
