// Package request holds the in-progress outbound request assembled by the
// router and the transport-facing descriptor it compiles into.
package request

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Header names and values set by the router and encoders.
const (
	HeaderContentType  = "Content-Type"
	HeaderCacheControl = "Cache-Control"
	HeaderPragma       = "Pragma"

	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded; charset=utf-8"
)

// DefaultTimeout is the timeout hint attached to every built request.
const DefaultTimeout = 30 * time.Second

// CachePolicy tells the transport how to treat local and remote caches.
type CachePolicy int

const (
	// CacheDefault leaves caching to the transport.
	CacheDefault CachePolicy = iota
	// CacheBypass ignores local and remote cache data.
	CacheBypass
)

// String returns the policy name.
func (p CachePolicy) String() string {
	switch p {
	case CacheDefault:
		return "default"
	case CacheBypass:
		return "bypass"
	default:
		return "unknown"
	}
}

// Draft is the mutable accumulator for one outbound request.
// A Draft is owned by a single build call and must not be shared.
type Draft struct {
	// URL is the fully resolved request URL. Encoders that write the query require it.
	URL *url.URL
	// Method is the HTTP method.
	Method string
	// Header holds request headers keyed canonically.
	Header http.Header
	// Body is the raw request body, nil when no body is sent.
	Body []byte
	// Timeout is a hint for the transport.
	Timeout time.Duration
	// Cache is the cache directive for the transport.
	Cache CachePolicy
}

// NewDraft creates a draft for method and u with empty headers.
func NewDraft(method string, u *url.URL) *Draft {
	return &Draft{
		URL:    u,
		Method: method,
		Header: make(http.Header),
	}
}

// SetHeader sets a header, replacing any existing value.
func (d *Draft) SetHeader(key, value string) {
	d.header().Set(key, value)
}

// SetHeaderIfAbsent sets a header only if it has no value yet.
// It reports whether the header was written.
func (d *Draft) SetHeaderIfAbsent(key, value string) bool {
	if d.HasHeader(key) {
		return false
	}
	d.header().Set(key, value)
	return true
}

// HasHeader reports whether key is present.
func (d *Draft) HasHeader(key string) bool {
	_, ok := d.Header[http.CanonicalHeaderKey(key)]
	return ok
}

// HeaderValue returns the first value for key.
func (d *Draft) HeaderValue(key string) string {
	return d.Header.Get(key)
}

// MergeHeaders sets every entry of headers on the draft.
func (d *Draft) MergeHeaders(headers map[string]string) {
	for k, v := range headers {
		d.SetHeader(k, v)
	}
}

// Headers flattens the header set to single values.
func (d *Draft) Headers() map[string]string {
	return flattenHeaders(d.Header)
}

// Descriptor compiles the draft into a transport-facing request descriptor.
func (d *Draft) Descriptor() *Descriptor {
	desc := &Descriptor{
		Method:  d.Method,
		Headers: d.Headers(),
		Timeout: d.Timeout,
		Cache:   d.Cache,
	}
	if d.URL != nil {
		desc.URL = d.URL.String()
	}
	if d.Body != nil {
		desc.Body = append([]byte(nil), d.Body...)
	}
	return desc
}

// HTTPRequest converts the draft into an *http.Request bound to ctx.
func (d *Draft) HTTPRequest(ctx context.Context) (*http.Request, error) {
	return d.Descriptor().HTTPRequest(ctx)
}

func (d *Draft) header() http.Header {
	if d.Header == nil {
		d.Header = make(http.Header)
	}
	return d.Header
}

// Descriptor is the finished request handed to a transport.
type Descriptor struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
	Body    []byte            `json:"body,omitempty"`
	Timeout time.Duration     `json:"timeout"`
	Cache   CachePolicy       `json:"cache"`
}

// HTTPRequest builds an *http.Request bound to ctx from the descriptor.
func (d *Descriptor) HTTPRequest(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if d.Body != nil {
		body = bytes.NewReader(d.Body)
	}
	req, err := http.NewRequestWithContext(ctx, d.Method, d.URL, body)
	if err != nil {
		return nil, fmt.Errorf("request: create http request: %w", err)
	}
	for k, v := range d.Headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
