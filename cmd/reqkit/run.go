package main

import (
	"context"
	"fmt"
	"io"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/kbukum/reqkit/config"
	"github.com/kbukum/reqkit/endpoint"
	"github.com/kbukum/reqkit/environment"
	"github.com/kbukum/reqkit/logger"
	"github.com/kbukum/reqkit/observability"
	"github.com/kbukum/reqkit/request"
	"github.com/kbukum/reqkit/router"
	"github.com/kbukum/reqkit/transport"
	"github.com/kbukum/reqkit/version"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// requestView is the printed form of a built request.
type requestView struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body,omitempty"`
	Timeout string            `json:"timeout"`
	Cache   string            `json:"cache"`
}

// responseView is the printed form of a transport result.
type responseView struct {
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body,omitempty"`
}

func run(ctx context.Context, flags cliFlags, stdout io.Writer) error {
	if flags.endpointPath == "" {
		return fmt.Errorf("-endpoint is required")
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	initLogging(cfg)
	log := logger.Get("cli")

	shutdown, metrics, err := initTelemetry(ctx, cfg)
	if err != nil {
		return err
	}
	defer shutdown()

	registry := environment.NewRegistry()
	if err := registry.RegisterAll(cfg.Servers); err != nil {
		return err
	}

	tr, err := transport.NewHTTP(cfg.Transport, transport.WithMetrics(metrics))
	if err != nil {
		return err
	}
	r := router.New[endpoint.Spec](
		router.WithTransport(tr),
		router.WithMetrics(metrics),
		router.WithTimeout(cfg.RequestTimeout),
	)
	mgr := environment.NewManager(registry, r)

	env := flags.environment
	if env == "" {
		env = cfg.DefaultEnvironment
	}
	if err := mgr.Use(env); err != nil {
		return err
	}

	ep, err := endpoint.LoadDefinition(flags.endpointPath)
	if err != nil {
		return err
	}

	if !flags.send {
		d, err := mgr.BuildContext(ctx, ep)
		if err != nil {
			return err
		}
		return writeJSON(stdout, viewRequest(d))
	}

	log.Info("sending request", logger.Fields(
		logger.FieldEnvironment, env,
		logger.FieldMethod, ep.Method().String(),
		logger.FieldPath, ep.Path(),
	))
	resp, err := send(ctx, mgr, ep)
	if err != nil {
		return err
	}
	return writeJSON(stdout, resp)
}

func loadConfig(flags cliFlags) (*cliConfig, error) {
	var opts []config.LoaderOption
	if flags.configPath != "" {
		opts = append(opts, config.WithConfigFile(flags.configPath))
	}
	if flags.envFile != "" {
		opts = append(opts, config.WithEnvFile(flags.envFile))
	}

	var cfg cliConfig
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// componentLoggers are the loggers the CLI wires into its components.
var componentLoggers = []string{"router", "transport", "environment", "cli"}

func initLogging(cfg *cliConfig) {
	logger.Init(cfg.Logging, cfg.Name)
	logger.RegisterDefaults(componentLoggers...)
}

// send dispatches ep and waits for the completion. Interrupting ctx cancels
// the in-flight request through the manager.
func send(ctx context.Context, mgr *environment.Manager[endpoint.Spec], ep endpoint.Spec) (*responseView, error) {
	type result struct {
		resp *responseView
		err  error
	}
	ch := make(chan result, 1)
	mgr.Request(ctx, ep, func(data []byte, status *transport.StatusInfo, err error) {
		if err != nil {
			ch <- result{err: err}
			return
		}
		ch <- result{resp: &responseView{Status: status.Code, Headers: status.Headers, Body: string(data)}}
	})

	select {
	case res := <-ch:
		return res.resp, res.err
	case <-ctx.Done():
		mgr.Cancel()
		res := <-ch
		if res.err == nil {
			return res.resp, nil
		}
		return nil, fmt.Errorf("request interrupted: %w", res.err)
	}
}

func initTelemetry(ctx context.Context, cfg *cliConfig) (func(), *observability.BuildMetrics, error) {
	var shutdowns []func(context.Context) error
	shutdown := func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for _, fn := range shutdowns {
			_ = fn(sctx)
		}
	}

	if cfg.Telemetry.Tracing {
		tp, err := observability.InitTracer(ctx, observability.TracerConfig{
			ServiceName:    cfg.Name,
			ServiceVersion: version.Short(),
			Environment:    cfg.Environment,
			Endpoint:       cfg.Telemetry.Endpoint,
			Insecure:       cfg.Telemetry.Insecure,
			SampleRate:     cfg.Telemetry.SampleRate,
		})
		if err != nil {
			return nil, nil, err
		}
		shutdowns = append(shutdowns, tp.Shutdown)
	}
	if cfg.Telemetry.Metrics {
		mp, err := observability.InitMeter(ctx, observability.MeterConfig{
			ServiceName:    cfg.Name,
			ServiceVersion: version.Short(),
			Environment:    cfg.Environment,
			Endpoint:       cfg.Telemetry.Endpoint,
			Insecure:       cfg.Telemetry.Insecure,
		})
		if err != nil {
			shutdown()
			return nil, nil, err
		}
		shutdowns = append(shutdowns, mp.Shutdown)
	}

	metrics, err := observability.NewBuildMetrics(observability.Meter(observability.InstrumentationName))
	if err != nil {
		shutdown()
		return nil, nil, err
	}
	return shutdown, metrics, nil
}

func viewRequest(d *request.Draft) requestView {
	desc := d.Descriptor()
	return requestView{
		URL:     desc.URL,
		Method:  desc.Method,
		Headers: desc.Headers,
		Body:    string(desc.Body),
		Timeout: desc.Timeout.String(),
		Cache:   desc.Cache.String(),
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
