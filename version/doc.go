// Package version carries reqkit build information.
//
// Version, commit and build time are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/reqkit/version.Version=1.0.0" ./cmd/reqkit
//
// Unset values fall back to the VCS stamps in the binary's build info.
package version
