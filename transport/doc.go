// Package transport executes built requests.
//
// Transport is the collaborator contract the router hands descriptors to;
// HTTP is the net/http implementation. A transport performs exactly one
// round trip per Dispatch and reports the outcome through a Completion. It
// does not retry, classify status codes, or parse bodies.
package transport
