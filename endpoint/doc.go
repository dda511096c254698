// Package endpoint declares what a request looks like before it is built:
// the Endpoint and Server capabilities the router consumes, the Task variants
// that say which parameters and headers apply, and stock value types for both.
//
//	ep := endpoint.New(endpoint.GET, "users", endpoint.WithParameters{
//	    Query: param.Params{"page": 2, "tags": []string{"a", "b"}},
//	})
//	srv := endpoint.NewServer("https://api.example.com", "v1")
package endpoint
