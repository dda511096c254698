package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/http2"

	"github.com/kbukum/reqkit/logger"
	"github.com/kbukum/reqkit/observability"
	"github.com/kbukum/reqkit/request"
	"github.com/kbukum/reqkit/version"
)

// Outcomes recorded on dispatch metrics.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeCanceled = "canceled"
)

// HTTP is a Transport backed by net/http.
type HTTP struct {
	client    *http.Client
	config    Config
	log       *logger.Logger
	tracer    trace.Tracer
	metrics   *observability.BuildMetrics
	userAgent string
}

// Option configures an HTTP transport.
type Option func(*HTTP)

// WithLogger sets the logger. Defaults to the "transport" component logger.
func WithLogger(l *logger.Logger) Option {
	return func(h *HTTP) { h.log = l }
}

// WithTracer sets the tracer used for dispatch spans.
func WithTracer(t trace.Tracer) Option {
	return func(h *HTTP) { h.tracer = t }
}

// WithMetrics records dispatch counters and latency on m.
func WithMetrics(m *observability.BuildMetrics) Option {
	return func(h *HTTP) { h.metrics = m }
}

// WithHTTPClient replaces the underlying client. Config.TLS and Config.HTTP2
// are ignored when a client is supplied.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTP) { h.client = c }
}

var _ Transport = (*HTTP)(nil)

// NewHTTP creates an HTTP transport from cfg.
func NewHTTP(cfg Config, opts ...Option) (*HTTP, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	h := &HTTP{
		config:    cfg,
		log:       logger.Get("transport"),
		tracer:    observability.Tracer(observability.InstrumentationName),
		userAgent: cfg.UserAgent,
	}
	if h.userAgent == "" {
		h.userAgent = version.UserAgent()
	}
	for _, opt := range opts {
		opt(h)
	}

	if h.client == nil {
		rt, err := newRoundTripper(cfg)
		if err != nil {
			return nil, err
		}
		// Per-request deadlines come from the descriptor, so the client itself has none.
		h.client = &http.Client{Transport: rt}
	}
	return h, nil
}

func newRoundTripper(cfg Config) (*http.Transport, error) {
	rt := http.DefaultTransport.(*http.Transport).Clone()

	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		rt.TLSClientConfig = tlsCfg
	}

	if cfg.HTTP2 {
		h2, err := http2.ConfigureTransports(rt)
		if err != nil {
			return nil, fmt.Errorf("transport: configure http2: %w", err)
		}
		h2.ReadIdleTimeout = cfg.ReadIdleTimeout
	}
	return rt, nil
}

// Client returns the underlying *http.Client.
func (h *HTTP) Client() *http.Client {
	return h.client
}

// Dispatch sends desc on its own goroutine and reports through done. The
// request is bounded by the descriptor's timeout hint, or Config.Timeout when
// the hint is zero.
func (h *HTTP) Dispatch(ctx context.Context, desc *request.Descriptor, done Completion) Task {
	timeout := h.config.Timeout
	if desc != nil && desc.Timeout > 0 {
		timeout = desc.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)

	t := &httpTask{id: uuid.NewString(), cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(t.done)
		defer cancel()
		data, status, err := h.roundTrip(ctx, t.id, desc)
		if done != nil {
			done(data, status, err)
		}
	}()
	return t
}

func (h *HTTP) roundTrip(ctx context.Context, id string, desc *request.Descriptor) ([]byte, *StatusInfo, error) {
	if desc == nil {
		return nil, nil, fmt.Errorf("transport: nil request descriptor")
	}

	ctx, span := h.tracer.Start(ctx, observability.SpanTransportDispatch, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String(observability.AttrHTTPMethod, desc.Method),
		attribute.String(observability.AttrURLFull, desc.URL),
		attribute.String(observability.AttrTaskID, id),
	)

	log := h.log.WithContext(ctx).WithFields(logger.Fields(
		logger.FieldTaskID, id,
		logger.FieldMethod, desc.Method,
		logger.FieldURL, desc.URL,
	))

	start := time.Now()
	data, status, err := h.send(ctx, desc)
	elapsed := time.Since(start)

	outcome := OutcomeOK
	switch {
	case err != nil && errors.Is(err, context.Canceled):
		outcome = OutcomeCanceled
	case err != nil:
		outcome = OutcomeError
	}
	h.metrics.RecordDispatch(ctx, desc.Method, outcome, elapsed)

	if err != nil {
		observability.SetSpanError(span, err)
		log.WithError(err).Debug("dispatch failed", logger.Fields(logger.FieldDuration, elapsed.Milliseconds()))
		return nil, nil, err
	}
	span.SetAttributes(attribute.Int(observability.AttrHTTPStatus, status.Code))
	log.Debug("dispatch completed", logger.Fields(
		logger.FieldStatus, status.Code,
		logger.FieldDuration, elapsed.Milliseconds(),
	))
	return data, status, nil
}

func (h *HTTP) send(ctx context.Context, desc *request.Descriptor) ([]byte, *StatusInfo, error) {
	req, err := desc.HTTPRequest(ctx)
	if err != nil {
		return nil, nil, err
	}
	if desc.Cache == request.CacheBypass {
		setIfAbsent(req.Header, request.HeaderCacheControl, "no-cache")
		setIfAbsent(req.Header, request.HeaderPragma, "no-cache")
	}
	setIfAbsent(req.Header, "User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("transport: send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("transport: read response body: %w", err)
	}
	return data, &StatusInfo{Code: resp.StatusCode, Headers: flattenHeaders(resp.Header)}, nil
}

func setIfAbsent(h http.Header, key, value string) {
	if _, ok := h[http.CanonicalHeaderKey(key)]; !ok {
		h.Set(key, value)
	}
}

func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}

type httpTask struct {
	id     string
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (t *httpTask) ID() string { return t.id }

func (t *httpTask) Cancel() {
	t.once.Do(t.cancel)
}

// Done is closed after the completion has returned.
func (t *httpTask) Done() <-chan struct{} { return t.done }
