package encoding

import (
	"fmt"
	"strings"

	"github.com/kbukum/reqkit/errors"
	"github.com/kbukum/reqkit/param"
	"github.com/kbukum/reqkit/request"
)

// Encoder embeds a parameter map into a draft in place.
type Encoder interface {
	Encode(d *request.Draft, p param.Params) error
}

// EncoderFunc adapts a function to the Encoder interface.
type EncoderFunc func(d *request.Draft, p param.Params) error

// Encode calls f(d, p).
func (f EncoderFunc) Encode(d *request.Draft, p param.Params) error { return f(d, p) }

// Stock encoders.
var (
	JSON Encoder = JSONEncoder{}
	URL  Encoder = URLEncoder{}
)

// NonEmpty wraps enc so that nil or empty parameters fail with PARAMETERS_NIL.
func NonEmpty(enc Encoder) Encoder {
	return EncoderFunc(func(d *request.Draft, p param.Params) error {
		if len(p) == 0 {
			return errors.ParametersNil()
		}
		return enc.Encode(d, p)
	})
}

// Mode selects which encoders the coordinator applies.
type Mode int

const (
	// URLOnly applies the query encoder.
	URLOnly Mode = iota
	// JSONOnly applies the body encoder.
	JSONOnly
	// URLAndJSON applies the query encoder, then the body encoder.
	URLAndJSON
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case URLOnly:
		return "url"
	case JSONOnly:
		return "json"
	case URLAndJSON:
		return "url_and_json"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode name as produced by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "url", "query":
		return URLOnly, nil
	case "json", "body":
		return JSONOnly, nil
	case "url_and_json", "both":
		return URLAndJSON, nil
	default:
		return 0, fmt.Errorf("encoding: unknown mode %q", s)
	}
}

// Encode applies the encoders selected by mode. Absent (nil) maps are skipped.
//
// URLAndJSON writes the query before the body, so when neither encoder finds a
// Content-Type the form content type wins. The router's own task dispatch runs
// the body first; the two orders are deliberately kept apart.
func Encode(mode Mode, d *request.Draft, body, query param.Params) error {
	switch mode {
	case URLOnly:
		return encodeIfPresent(URL, d, query)
	case JSONOnly:
		return encodeIfPresent(JSON, d, body)
	case URLAndJSON:
		if err := encodeIfPresent(URL, d, query); err != nil {
			return err
		}
		return encodeIfPresent(JSON, d, body)
	default:
		return fmt.Errorf("encoding: unknown mode %d", int(mode))
	}
}

func encodeIfPresent(enc Encoder, d *request.Draft, p param.Params) error {
	if p == nil {
		return nil
	}
	return enc.Encode(d, p)
}
