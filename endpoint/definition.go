package endpoint

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/kbukum/reqkit/param"
	"github.com/kbukum/reqkit/validation"
)

// Definition is the file form of an endpoint.
//
//	method: POST
//	path: users
//	headers:
//	  Accept: application/json
//	task:
//	  kind: parameters
//	  body:
//	    name: ada
//	  query:
//	    tags: [a, b]
//
// An omitted task kind is inferred: extra headers select
// parameters_and_headers, a body or query selects parameters, otherwise plain.
// An omitted map stays absent; an explicit empty map (`body: {}`) is present.
type Definition struct {
	Name    string            `yaml:"name"`
	Method  string            `yaml:"method" validate:"required,http_method"`
	Path    string            `yaml:"path"`
	Headers map[string]string `yaml:"headers"`
	Task    TaskDefinition    `yaml:"task"`
}

// TaskDefinition is the file form of a Task.
type TaskDefinition struct {
	Kind    TaskKind          `yaml:"kind" validate:"omitempty,oneof=plain parameters parameters_and_headers"`
	Body    map[string]any    `yaml:"body"`
	Query   map[string]any    `yaml:"query"`
	Headers map[string]string `yaml:"headers"`
}

// LoadDefinition reads and compiles an endpoint definition file.
func LoadDefinition(path string) (Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, fmt.Errorf("endpoint: read %s: %w", path, err)
	}
	spec, err := ParseDefinition(data)
	if err != nil {
		return Spec{}, fmt.Errorf("endpoint: %s: %w", path, err)
	}
	return spec, nil
}

// ParseDefinition decodes a YAML definition and compiles it.
func ParseDefinition(data []byte) (Spec, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Spec{}, fmt.Errorf("parse definition: %w", err)
	}
	return def.Spec()
}

// Spec validates the definition and compiles it into a Spec.
func (d Definition) Spec() (Spec, error) {
	d.Method = string(ParseMethod(d.Method))
	if err := validation.Validate(d); err != nil {
		return Spec{}, err
	}

	var task Task
	switch d.Task.kind() {
	case KindWithParametersAndHeaders:
		task = WithParametersAndHeaders{
			Body:    toParams(d.Task.Body),
			Query:   toParams(d.Task.Query),
			Headers: d.Task.Headers,
		}
	case KindWithParameters:
		task = WithParameters{Body: toParams(d.Task.Body), Query: toParams(d.Task.Query)}
	default:
		task = Plain{}
	}
	return New(Method(d.Method), d.Path, task, WithHeaders(d.Headers)), nil
}

func (t TaskDefinition) kind() TaskKind {
	switch {
	case t.Kind != "":
		return t.Kind
	case t.Headers != nil:
		return KindWithParametersAndHeaders
	case t.Body != nil || t.Query != nil:
		return KindWithParameters
	default:
		return KindPlain
	}
}

func toParams(m map[string]any) param.Params {
	if m == nil {
		return nil
	}
	return param.Params(m)
}
