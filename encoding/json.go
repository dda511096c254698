package encoding

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/kbukum/reqkit/errors"
	"github.com/kbukum/reqkit/param"
	"github.com/kbukum/reqkit/request"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONEncoder writes parameters as a JSON object body.
type JSONEncoder struct{}

// Encode serializes p into d.Body and defaults Content-Type to application/json.
func (JSONEncoder) Encode(d *request.Draft, p param.Params) error {
	if p == nil {
		p = param.Params{}
	}
	data, err := json.Marshal(map[string]any(p))
	if err != nil {
		return errors.EncodingFailed(err)
	}
	d.Body = data
	d.SetHeaderIfAbsent(request.HeaderContentType, request.ContentTypeJSON)
	return nil
}
