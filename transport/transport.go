package transport

import (
	"context"

	"github.com/kbukum/reqkit/request"
)

// StatusInfo describes the response status line and headers.
type StatusInfo struct {
	Code    int               `json:"code"`
	Headers map[string]string `json:"headers"`
}

// Completion receives the outcome of a dispatch. It is called exactly once,
// with either a response (data and status) or a non-nil err.
type Completion func(data []byte, status *StatusInfo, err error)

// Task is the handle of one in-flight dispatch.
type Task interface {
	ID() string
	Cancel()
}

// Transport executes request descriptors.
type Transport interface {
	Dispatch(ctx context.Context, desc *request.Descriptor, done Completion) Task
}

// Func adapts a function to the Transport interface.
type Func func(ctx context.Context, desc *request.Descriptor, done Completion) Task

// Dispatch calls f(ctx, desc, done).
func (f Func) Dispatch(ctx context.Context, desc *request.Descriptor, done Completion) Task {
	return f(ctx, desc, done)
}
