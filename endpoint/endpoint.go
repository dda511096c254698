package endpoint

import (
	"net/http"
	"strings"
)

// Method is an HTTP method token.
type Method string

// Supported methods. Any other non-empty token is passed through as-is.
const (
	GET    Method = http.MethodGet
	POST   Method = http.MethodPost
	PUT    Method = http.MethodPut
	PATCH  Method = http.MethodPatch
	DELETE Method = http.MethodDelete
	HEAD   Method = http.MethodHead
)

// String returns the method token.
func (m Method) String() string { return string(m) }

// ParseMethod normalizes s to an upper-case method token.
func ParseMethod(s string) Method {
	return Method(strings.ToUpper(strings.TrimSpace(s)))
}

// Endpoint describes the shape of one API call.
type Endpoint interface {
	// Path is appended to the server's versioned base URL.
	Path() string
	// Method is the HTTP method.
	Method() Method
	// Task selects how parameters and extra headers are applied.
	Task() Task
	// Headers are endpoint-level headers, nil if none.
	Headers() map[string]string
}

// Spec is an immutable Endpoint value.
type Spec struct {
	path    string
	method  Method
	task    Task
	headers map[string]string
}

var _ Endpoint = Spec{}

// New creates a Spec. A nil task is treated as Plain.
func New(method Method, path string, task Task, opts ...Option) Spec {
	if task == nil {
		task = Plain{}
	}
	s := Spec{path: path, method: method, task: task}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Option configures a Spec.
type Option func(*Spec)

// WithHeader adds an endpoint-level header.
func WithHeader(key, value string) Option {
	return func(s *Spec) {
		if s.headers == nil {
			s.headers = make(map[string]string)
		}
		s.headers[key] = value
	}
}

// WithHeaders adds endpoint-level headers.
func WithHeaders(headers map[string]string) Option {
	return func(s *Spec) {
		for k, v := range headers {
			WithHeader(k, v)(s)
		}
	}
}

// Path implements Endpoint.
func (s Spec) Path() string { return s.path }

// Method implements Endpoint.
func (s Spec) Method() Method { return s.method }

// Task implements Endpoint.
func (s Spec) Task() Task {
	if s.task == nil {
		return Plain{}
	}
	return s.task
}

// Headers implements Endpoint. The returned map is a copy.
func (s Spec) Headers() map[string]string {
	if s.headers == nil {
		return nil
	}
	cp := make(map[string]string, len(s.headers))
	for k, v := range s.headers {
		cp[k] = v
	}
	return cp
}
