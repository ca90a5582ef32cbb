// Package apiclient is the shared request-execution layer behind every
// service client in this module.
//
// Each service package (assets, node, statesvc) wraps a *Client and builds
// its requests with the verb helpers, then hands them to Execute together
// with an operation name and an optional list of status-code overrides.
//
// # Usage
//
//	c, err := apiclient.NewClient(apiclient.ServiceNode, "https://nodes.wavesnodes.com",
//		apiclient.WithLogger(logger),
//		apiclient.WithTimeout(10*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	req := c.Get(ctx, "addresses/balance/details/"+address)
//	balance, err := apiclient.Execute[*Balance](c, req, "node::addr_balance_details",
//		apiclient.NotFoundAsEmpty[*Balance](),
//	)
//
// # Error Handling
//
// Every failure is an *Error of one of three kinds:
//
//   - KindTransport: no response was obtained
//   - KindStatus: unexpected status code, with the response body captured
//   - KindDecode: a success body did not match the expected shape
//
// The kinds can be matched with errors.Is against ErrTransport, ErrStatus
// and ErrDecode:
//
//	if errors.Is(err, apiclient.ErrStatus) {
//		var apiErr *apiclient.Error
//		errors.As(err, &apiErr)
//		log.Printf("status %d: %s", apiErr.StatusCode, apiErr.Body)
//	}
//
// A status code registered as an override is not an error: its resolver
// decides the result. Calls are attempted once and never retried.
package apiclient
