package router

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/reqkit/encoding"
	"github.com/kbukum/reqkit/endpoint"
	"github.com/kbukum/reqkit/errors"
	"github.com/kbukum/reqkit/logger"
	"github.com/kbukum/reqkit/observability"
	"github.com/kbukum/reqkit/param"
	"github.com/kbukum/reqkit/request"
	"github.com/kbukum/reqkit/transport"
)

// Router builds requests for the endpoint family E.
//
// Building is stateless and safe for concurrent use. The only mutable state
// is the handle of the last dispatch started by Request.
type Router[E endpoint.Endpoint] struct {
	opts options

	mu      sync.Mutex
	current transport.Task
}

// New creates a Router.
func New[E endpoint.Endpoint](opts ...Option) *Router[E] {
	o := options{timeout: request.DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Get("router")
	}
	if o.tracer == nil {
		o.tracer = observability.Tracer(observability.InstrumentationName)
	}
	return &Router[E]{opts: o}
}

// Build compiles ep against server into a request draft. Failures are
// *errors.AppError values; no partially built draft is ever returned.
func (r *Router[E]) Build(server endpoint.Server, ep E) (*request.Draft, error) {
	return r.BuildContext(context.Background(), server, ep)
}

// BuildContext is Build with ctx as the parent of the build span.
func (r *Router[E]) BuildContext(ctx context.Context, server endpoint.Server, ep E) (*request.Draft, error) {
	method := string(ep.Method())
	task := taskKind(ep.Task())

	ctx, span := r.opts.tracer.Start(ctx, observability.SpanRouterBuild, trace.WithAttributes(
		attribute.String(observability.AttrHTTPMethod, method),
		attribute.String(observability.AttrEndpointPath, ep.Path()),
		attribute.String(observability.AttrTaskKind, task),
	))
	defer span.End()

	start := time.Now()
	d, err := r.build(server, ep)
	if err != nil {
		code := errors.CodeOf(err).String()
		span.SetAttributes(attribute.String(observability.AttrErrorCode, code))
		observability.SetSpanError(span, err)
		r.opts.metrics.RecordBuildError(ctx, method, code)
		return nil, err
	}

	span.SetAttributes(attribute.String(observability.AttrURLFull, d.URL.String()))
	r.opts.metrics.RecordBuild(ctx, method, task, time.Since(start))
	return d, nil
}

// TryBuild is the lenient form of Build: any failure is logged at debug level
// and reported as ok=false.
func (r *Router[E]) TryBuild(server endpoint.Server, ep E) (*request.Draft, bool) {
	d, err := r.Build(server, ep)
	if err != nil {
		r.opts.log.WithError(err).Debug("request build failed", logger.Fields(
			logger.FieldMethod, string(ep.Method()),
			logger.FieldPath, ep.Path(),
			logger.FieldErrorCode, errors.CodeOf(err).String(),
		))
		return nil, false
	}
	return d, true
}

// Request builds ep and dispatches it on the configured transport, keeping
// the returned task as the handle Cancel acts on. A build failure, or a
// Router without a transport, completes done with the error and never
// reaches the transport.
func (r *Router[E]) Request(ctx context.Context, server endpoint.Server, ep E, done transport.Completion) {
	if done == nil {
		done = func([]byte, *transport.StatusInfo, error) {}
	}

	d, err := r.BuildContext(ctx, server, ep)
	if err != nil {
		done(nil, nil, err)
		return
	}
	if r.opts.transport == nil {
		done(nil, nil, fmt.Errorf("router: no transport configured"))
		return
	}

	task := r.opts.transport.Dispatch(ctx, d.Descriptor(), done)

	r.mu.Lock()
	r.current = task
	r.mu.Unlock()

	if task != nil {
		r.opts.log.WithContext(ctx).Debug("request dispatched", logger.Fields(
			logger.FieldTaskID, task.ID(),
			logger.FieldMethod, d.Method,
			logger.FieldURL, d.URL.String(),
		))
	}
}

// Cancel cancels the most recently dispatched request, if any.
func (r *Router[E]) Cancel() {
	r.mu.Lock()
	task := r.current
	r.current = nil
	r.mu.Unlock()

	if task != nil {
		task.Cancel()
	}
}

func (r *Router[E]) build(server endpoint.Server, ep E) (*request.Draft, error) {
	u, err := resolveURL(server.BaseURL(), server.Version(), ep.Path())
	if err != nil {
		return nil, err
	}

	d := request.NewDraft(string(ep.Method()), u)
	d.Timeout = r.opts.timeout
	d.Cache = request.CacheBypass
	d.MergeHeaders(ep.Headers())

	if err := applyTask(d, ep.Task()); err != nil {
		return nil, err
	}
	return d, nil
}

// applyTask runs the encoders for task. Body goes before query, so when both
// are present the JSON content type is the one that sticks. encoding.Encode
// with URLAndJSON runs them the other way round.
func applyTask(d *request.Draft, task endpoint.Task) error {
	task, err := derefTask(task)
	if err != nil {
		return err
	}
	switch t := task.(type) {
	case nil, endpoint.Plain:
		d.SetHeader(request.HeaderContentType, request.ContentTypeJSON)
		return nil
	case endpoint.WithParameters:
		return encodeParameters(d, t.Body, t.Query)
	case endpoint.WithParametersAndHeaders:
		d.MergeHeaders(t.Headers)
		return encodeParameters(d, t.Body, t.Query)
	default:
		return errors.EncodingFailed(fmt.Errorf("unsupported task %T", task))
	}
}

// derefTask turns pointer variants into their values. A nil pointer carries
// no task data and is rejected.
func derefTask(task endpoint.Task) (endpoint.Task, error) {
	switch t := task.(type) {
	case *endpoint.Plain:
		if t == nil {
			return nil, errors.EncodingFailed(fmt.Errorf("nil task %T", task))
		}
		return *t, nil
	case *endpoint.WithParameters:
		if t == nil {
			return nil, errors.EncodingFailed(fmt.Errorf("nil task %T", task))
		}
		return *t, nil
	case *endpoint.WithParametersAndHeaders:
		if t == nil {
			return nil, errors.EncodingFailed(fmt.Errorf("nil task %T", task))
		}
		return *t, nil
	}
	return task, nil
}

func encodeParameters(d *request.Draft, body, query param.Params) error {
	if body != nil {
		if err := encoding.JSON.Encode(d, body); err != nil {
			return err
		}
	}
	if query != nil {
		if err := encoding.URL.Encode(d, query); err != nil {
			return err
		}
	}
	return nil
}

func taskKind(t endpoint.Task) string {
	t, err := derefTask(t)
	switch {
	case err != nil:
		return "invalid"
	case t == nil:
		return string(endpoint.KindPlain)
	}
	return string(t.Kind())
}
