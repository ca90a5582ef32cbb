// Package statesvc provides a client for the state service, which indexes
// account data entries across the chain and serves point lookups and searches.
//
// Point lookups may be pinned to a past height or block timestamp:
//
//	entry, err := client.GetState(ctx, address, "%s%s__price__UAH", statesvc.AtHeight(3000000))
//	if err != nil {
//	    return err
//	}
//	if entry == nil {
//	    // no such key
//	}
//
// Search takes the service's JSON filter document as any value that marshals to it:
//
//	entries, err := client.Search(ctx, map[string]any{
//	    "filter": map[string]any{"address": map[string]any{"value": address}},
//	})
package statesvc
