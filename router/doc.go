// Package router compiles endpoint descriptions into outbound requests.
//
// A Router resolves the endpoint path against a server's base URL and
// version, applies headers, and runs the encoders the endpoint's task asks
// for:
//
//	r := router.New[endpoint.Spec]()
//	draft, err := r.Build(endpoint.NewServer("https://api.example.com", "v1"),
//		endpoint.New(endpoint.GET, "users", endpoint.WithParameters{
//			Query: param.Params{"page": 2},
//		}))
//	// draft.URL: https://api.example.com/v1/users?page=2
//
// Build is the strict entry point and returns a typed *errors.AppError;
// TryBuild collapses any failure to ok=false. Neither performs I/O. Request
// additionally hands the result to a transport.Transport.
package router
