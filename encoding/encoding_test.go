package encoding

import (
	stdjson "encoding/json"
	"net/http"
	"net/url"
	"reflect"
	"testing"

	"github.com/kbukum/reqkit/errors"
	"github.com/kbukum/reqkit/param"
	"github.com/kbukum/reqkit/request"
)

func newDraft(t *testing.T, raw string) *request.Draft {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return request.NewDraft(http.MethodGet, u)
}

func TestJSONEncoder_Body(t *testing.T) {
	d := newDraft(t, "https://api.example.com/v1/users")
	if err := JSON.Encode(d, param.Params{"name": "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got map[string]any
	if err := stdjson.Unmarshal(d.Body, &got); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if !reflect.DeepEqual(got, map[string]any{"name": "x"}) {
		t.Errorf("unexpected body %v", got)
	}
	if ct := d.HeaderValue(request.HeaderContentType); ct != request.ContentTypeJSON {
		t.Errorf("expected %q, got %q", request.ContentTypeJSON, ct)
	}
}

func TestJSONEncoder_KeepsExistingContentType(t *testing.T) {
	d := newDraft(t, "https://api.example.com")
	d.SetHeader(request.HeaderContentType, "text/plain")
	if err := JSON.Encode(d, param.Params{"a": 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ct := d.HeaderValue(request.HeaderContentType); ct != "text/plain" {
		t.Errorf("expected text/plain to survive, got %q", ct)
	}
}

func TestJSONEncoder_Unencodable(t *testing.T) {
	d := newDraft(t, "https://api.example.com")
	err := JSON.Encode(d, param.Params{"ch": make(chan int)})
	if !errors.Is(err, errors.ErrCodeEncodingFailed) {
		t.Fatalf("expected ENCODING_FAILED, got %v", err)
	}
	if d.Body != nil {
		t.Error("expected body to stay unset on failure")
	}
}

func TestJSONEncoder_NilParamsEncodesEmptyObject(t *testing.T) {
	d := newDraft(t, "https://api.example.com")
	if err := JSON.Encode(d, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(d.Body) != "{}" {
		t.Errorf("expected {}, got %s", d.Body)
	}
}

func TestURLEncoder_ScalarRoundTrip(t *testing.T) {
	d := newDraft(t, "https://api.example.com/v1/search")
	in := param.Params{"q": "hello world", "page": 2, "exact": true, "ratio": 0.5}
	if err := URL.Encode(d, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	values, err := url.ParseQuery(d.URL.RawQuery)
	if err != nil {
		t.Fatalf("query does not parse: %v", err)
	}
	if len(values) != len(in) {
		t.Fatalf("expected %d keys, got %v", len(in), values)
	}
	for k, v := range in {
		if got := values.Get(k); got != param.Stringify(v) {
			t.Errorf("key %q: expected %q, got %q", k, param.Stringify(v), got)
		}
	}
	if ct := d.HeaderValue(request.HeaderContentType); ct != request.ContentTypeForm {
		t.Errorf("expected %q, got %q", request.ContentTypeForm, ct)
	}
}

func TestURLEncoder_Array(t *testing.T) {
	d := newDraft(t, "https://api.example.com/v1/items")
	if err := URL.Encode(d, param.Params{"tags": []string{"a", "b"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	values, _ := url.ParseQuery(d.URL.RawQuery)
	got := values["tags[]"]
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("expected tags[]=a&tags[]=b in order, got %v", got)
	}
	if _, ok := values["tags"]; ok {
		t.Error("expected no unsuffixed tags key")
	}
}

func TestURLEncoder_AppendsToExistingQuery(t *testing.T) {
	d := newDraft(t, "https://api.example.com/v1/items?fixed=1")
	if err := URL.Encode(d, param.Params{"extra": "2"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	values, _ := url.ParseQuery(d.URL.RawQuery)
	if values.Get("fixed") != "1" || values.Get("extra") != "2" {
		t.Errorf("expected both items, got %v", values)
	}
}

func TestURLEncoder_EmptyParamsLeavesQuery(t *testing.T) {
	d := newDraft(t, "https://api.example.com/v1/items?fixed=1")
	if err := URL.Encode(d, param.Params{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.URL.RawQuery != "fixed=1" {
		t.Errorf("expected query unchanged, got %q", d.URL.RawQuery)
	}
}

func TestURLEncoder_MissingURL(t *testing.T) {
	d := request.NewDraft(http.MethodGet, nil)
	err := URL.Encode(d, param.Params{"a": 1})
	if !errors.Is(err, errors.ErrCodeMissingURL) {
		t.Fatalf("expected MISSING_URL, got %v", err)
	}
	if d.HasHeader(request.HeaderContentType) {
		t.Error("expected no header write on failure")
	}
}

func TestURLEncoder_KeepsExistingContentType(t *testing.T) {
	d := newDraft(t, "https://api.example.com")
	d.SetHeader(request.HeaderContentType, "text/plain")
	if err := URL.Encode(d, param.Params{"a": 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ct := d.HeaderValue(request.HeaderContentType); ct != "text/plain" {
		t.Errorf("expected text/plain to survive, got %q", ct)
	}
}

func TestURLEncoder_Deterministic(t *testing.T) {
	in := param.Params{"z": 1, "a": []int{3, 1}, "m": "x"}
	first := newDraft(t, "https://api.example.com")
	second := newDraft(t, "https://api.example.com")
	if err := URL.Encode(first, in); err != nil {
		t.Fatal(err)
	}
	if err := URL.Encode(second, in); err != nil {
		t.Fatal(err)
	}
	if first.URL.RawQuery != second.URL.RawQuery {
		t.Errorf("expected identical queries, got %q and %q", first.URL.RawQuery, second.URL.RawQuery)
	}
}

func TestNonEmpty(t *testing.T) {
	enc := NonEmpty(JSON)
	tests := []struct {
		name string
		in   param.Params
	}{
		{"nil", nil},
		{"empty", param.Params{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := enc.Encode(newDraft(t, "https://api.example.com"), tc.in)
			if !errors.Is(err, errors.ErrCodeParametersNil) {
				t.Errorf("expected PARAMETERS_NIL, got %v", err)
			}
		})
	}

	d := newDraft(t, "https://api.example.com")
	if err := enc.Encode(d, param.Params{"a": 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Body == nil {
		t.Error("expected wrapped encoder to run")
	}
}

func TestEncode_Modes(t *testing.T) {
	body := param.Params{"name": "x"}
	query := param.Params{"page": 1}

	tests := []struct {
		name      string
		mode      Mode
		body      param.Params
		query     param.Params
		wantBody  bool
		wantQuery bool
		wantCT    string
	}{
		{"url only", URLOnly, body, query, false, true, request.ContentTypeForm},
		{"url only without query is a no-op", URLOnly, body, nil, false, false, ""},
		{"json only", JSONOnly, body, query, true, false, request.ContentTypeJSON},
		{"json only without body is a no-op", JSONOnly, nil, query, false, false, ""},
		{"url and json", URLAndJSON, body, query, true, true, request.ContentTypeForm},
		{"url and json body only", URLAndJSON, body, nil, true, false, request.ContentTypeJSON},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := newDraft(t, "https://api.example.com/v1/x")
			if err := Encode(tc.mode, d, tc.body, tc.query); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if (d.Body != nil) != tc.wantBody {
				t.Errorf("body present = %v, want %v", d.Body != nil, tc.wantBody)
			}
			if (d.URL.RawQuery != "") != tc.wantQuery {
				t.Errorf("query present = %v, want %v", d.URL.RawQuery != "", tc.wantQuery)
			}
			if got := d.HeaderValue(request.HeaderContentType); got != tc.wantCT {
				t.Errorf("content type = %q, want %q", got, tc.wantCT)
			}
		})
	}
}

// URLAndJSON runs the query encoder first, so the form content type is the
// one that sticks. The router dispatch runs the body first instead.
func TestEncode_URLAndJSON_QueryWinsContentType(t *testing.T) {
	d := newDraft(t, "https://api.example.com")
	if err := Encode(URLAndJSON, d, param.Params{"a": 1}, param.Params{"b": 2}); err != nil {
		t.Fatal(err)
	}
	if got := d.HeaderValue(request.HeaderContentType); got != request.ContentTypeForm {
		t.Errorf("expected form content type, got %q", got)
	}
}

func TestEncode_PropagatesErrors(t *testing.T) {
	d := request.NewDraft(http.MethodGet, nil)
	err := Encode(URLAndJSON, d, param.Params{"a": 1}, param.Params{"b": 2})
	if !errors.Is(err, errors.ErrCodeMissingURL) {
		t.Fatalf("expected MISSING_URL, got %v", err)
	}
	if d.Body != nil {
		t.Error("expected body encoder not to run after query failure")
	}
}

func TestEncode_UnknownMode(t *testing.T) {
	if err := Encode(Mode(42), newDraft(t, "https://a.example"), nil, nil); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestMode_StringAndParse(t *testing.T) {
	modes := []Mode{URLOnly, JSONOnly, URLAndJSON}
	for _, m := range modes {
		parsed, err := ParseMode(m.String())
		if err != nil {
			t.Fatalf("ParseMode(%q): %v", m.String(), err)
		}
		if parsed != m {
			t.Errorf("round trip of %v gave %v", m, parsed)
		}
	}
	if _, err := ParseMode("xml"); err == nil {
		t.Error("expected error for unknown mode name")
	}
	if Mode(9).String() != "unknown" {
		t.Error("expected unknown for out-of-range mode")
	}
}
