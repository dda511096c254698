package encoding

import (
	"net/url"
	"strings"

	"github.com/kbukum/reqkit/errors"
	"github.com/kbukum/reqkit/param"
	"github.com/kbukum/reqkit/request"
)

// URLEncoder appends parameters to the draft's query string.
type URLEncoder struct{}

// Encode appends one query item per scalar and one `key[]` item per array
// element. Existing query items are kept. Keys are written in sorted order.
func (URLEncoder) Encode(d *request.Draft, p param.Params) error {
	if d.URL == nil {
		return errors.MissingURL()
	}

	var b strings.Builder
	b.WriteString(d.URL.RawQuery)
	for _, key := range p.Keys() {
		value := p[key]
		if param.IsArray(value) {
			for _, elem := range param.Elements(value) {
				appendItem(&b, key+"[]", param.Stringify(elem))
			}
			continue
		}
		appendItem(&b, key, param.Stringify(value))
	}
	d.URL.RawQuery = b.String()

	d.SetHeaderIfAbsent(request.HeaderContentType, request.ContentTypeForm)
	return nil
}

func appendItem(b *strings.Builder, key, value string) {
	if b.Len() > 0 {
		b.WriteByte('&')
	}
	b.WriteString(url.QueryEscape(key))
	b.WriteByte('=')
	b.WriteString(url.QueryEscape(value))
}
