// Package environment names the servers a client can talk to and builds
// requests against the selected one.
//
//	reg := environment.NewRegistry()
//	_ = reg.Register("staging", endpoint.NewServer("https://staging.example.com", "v1"))
//	mgr := environment.NewManager(reg, router.New[endpoint.Spec]())
//	_ = mgr.Use("staging")
//	draft, err := mgr.Build(ep)
package environment
