package endpoint

import "github.com/kbukum/reqkit/param"

// TaskKind names a Task variant.
type TaskKind string

const (
	KindPlain                    TaskKind = "plain"
	KindWithParameters           TaskKind = "parameters"
	KindWithParametersAndHeaders TaskKind = "parameters_and_headers"
)

// Task is the closed set of parameter/header combinations an endpoint can
// require: Plain, WithParameters or WithParametersAndHeaders.
type Task interface {
	Kind() TaskKind
	sealed()
}

// Plain carries no parameters.
type Plain struct{}

// WithParameters carries optional body and query parameters.
type WithParameters struct {
	Body  param.Params
	Query param.Params
}

// WithParametersAndHeaders carries optional body and query parameters and
// extra headers that take precedence over encoder defaults.
type WithParametersAndHeaders struct {
	Body    param.Params
	Query   param.Params
	Headers map[string]string
}

func (Plain) Kind() TaskKind                    { return KindPlain }
func (WithParameters) Kind() TaskKind           { return KindWithParameters }
func (WithParametersAndHeaders) Kind() TaskKind { return KindWithParametersAndHeaders }

func (Plain) sealed()                    {}
func (WithParameters) sealed()           {}
func (WithParametersAndHeaders) sealed() {}
