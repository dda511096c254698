package router

import (
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/reqkit/logger"
	"github.com/kbukum/reqkit/observability"
	"github.com/kbukum/reqkit/transport"
)

type options struct {
	log       *logger.Logger
	transport transport.Transport
	tracer    trace.Tracer
	metrics   *observability.BuildMetrics
	timeout   time.Duration
}

// Option configures a Router.
type Option func(*options)

// WithLogger sets the logger. Defaults to the "router" component logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithTransport sets the transport used by Request.
func WithTransport(t transport.Transport) Option {
	return func(o *options) { o.transport = t }
}

// WithTracer sets the tracer for build spans. Defaults to the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// WithMetrics records build counters on m.
func WithMetrics(m *observability.BuildMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTimeout overrides the timeout hint placed on built requests.
// Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}
