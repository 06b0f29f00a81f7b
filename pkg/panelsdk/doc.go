// Package panelsdk is the Go client for the RENART vendor API.
//
// Every outbound call goes through Do, which attaches the bearer token from
// a TokenSource, decodes the {success, message, data} envelope and turns
// failures into *APIError values. The client never mutates session state:
// a 401 is reported as an error matching ErrUnauthorized and it is up to
// the caller to tear the session down.
//
// Basic usage:
//
//	c := panelsdk.NewClient("http://localhost:3002")
//	c.Tokens = panelsdk.StaticToken(accessToken)
//
//	env, err := c.ListProducts(ctx, panelsdk.ProductQuery{Search: "ring"})
//	switch {
//	case errors.Is(err, panelsdk.ErrUnauthorized):
//		// session expired
//	case err != nil:
//		var apiErr *panelsdk.APIError
//		if errors.As(err, &apiErr) {
//			fmt.Println(apiErr.StatusCode, apiErr.Message)
//		}
//	default:
//		fmt.Println(env.Data.Pagination.Total)
//	}
package panelsdk
