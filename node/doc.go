// Package node provides a client for the Waves node REST API.
//
// It covers account data storage, script evaluation, balances, asset details,
// transaction broadcast and invoke state changes. Tagged unions returned by the
// node (data entries, evaluation results, call arguments) are decoded strictly:
// an unknown "type" discriminator fails the call with a decode error.
//
// Endpoints that answer 404 for unknown accounts or assets return a nil result
// and a nil error:
//
//	balance, err := client.AddrBalanceDetails(ctx, address)
//	if err != nil {
//	    return err
//	}
//	if balance == nil {
//	    // the node has no record for address
//	}
package node
