// Package app wires configuration, storage, engines and the HTTP surface into
// one runnable unit shared by the server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/atomic"

	"regdesk/internal/platform/config"
	"regdesk/internal/platform/httpserver"
	"regdesk/internal/platform/metrics"
	"regdesk/internal/registration/events"
	"regdesk/internal/registration/handler"
	"regdesk/internal/registration/photo"
	"regdesk/internal/registration/service"
	"regdesk/internal/schemes"
	"regdesk/internal/storage"
	"regdesk/pkg/platform/circuit"
)

const tracerName = "regdesk"

// App holds every long-lived component.
type App struct {
	Config    config.Server
	Logger    *slog.Logger
	Registry  *prometheus.Registry
	Metrics   *metrics.Metrics
	Storage   storage.Local
	Publisher *events.Publisher
	Sink      events.Sink
	Worker    *events.Worker
	Ready     *httpserver.Readiness
	Handler   *handler.Handler

	engines    []*service.Engine
	bySlug     map[string]*service.Engine
	workerDone chan struct{}
	workerRun  atomic.Bool
}

// Option adjusts how New builds the App.
type Option func(*buildOptions)

type buildOptions struct {
	storage    storage.Local
	sink       events.Sink
	engineOpts []service.Option
}

// WithStorage uses local instead of opening the configured driver.
func WithStorage(local storage.Local) Option {
	return func(o *buildOptions) { o.storage = local }
}

// WithSink uses sink instead of the configured one.
func WithSink(sink events.Sink) Option {
	return func(o *buildOptions) { o.sink = sink }
}

// WithEngineOptions appends options to every engine.
func WithEngineOptions(opts ...service.Option) Option {
	return func(o *buildOptions) { o.engineOpts = append(o.engineOpts, opts...) }
}

// New builds the App. On error everything opened so far is closed.
func New(ctx context.Context, cfg config.Server, logger *slog.Logger, opts ...Option) (_ *App, err error) {
	var bo buildOptions
	for _, opt := range opts {
		opt(&bo)
	}

	overrides, err := config.LoadSchemeOverrides(cfg.SchemesFile)
	if err != nil {
		return nil, err
	}
	enabled, err := schemes.Load(overrides)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
		Ready:    &httpserver.Readiness{},
		bySlug:   make(map[string]*service.Engine),

		workerDone: make(chan struct{}),
	}
	a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.Metrics = metrics.New(a.Registry)

	defer func() {
		if err != nil {
			_ = a.Close(context.WithoutCancel(ctx))
		}
	}()

	a.Storage = bo.storage
	if a.Storage == nil {
		if a.Storage, err = storage.Open(ctx, cfg, logger); err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
	}

	a.Sink = bo.sink
	if a.Sink == nil {
		if a.Sink, err = events.NewSink(cfg.Events, logger); err != nil {
			return nil, fmt.Errorf("open event sink: %w", err)
		}
	}
	a.Publisher = events.NewPublisher(cfg.Events.BufferSize, events.WithLogger(logger), events.WithMetrics(a.Metrics))
	a.Worker = events.NewWorker(a.Sink, a.Publisher.Events(), logger, a.Metrics,
		events.WithBreaker(circuit.New("events:"+cfg.Events.Sink)),
	)

	photos := photo.NewCache(photoTTL(cfg.Engine))
	engineOpts := append([]service.Option{
		service.WithLogger(logger),
		service.WithMetrics(a.Metrics),
		service.WithPublisher(a.Publisher),
		service.WithPhotoCache(photos),
		service.WithSubmitDelay(cfg.Engine.SubmitDelay),
		service.WithDraftDebounce(cfg.Engine.DraftDebounce),
		service.WithLocation(cfg.Engine.Location),
		service.WithTracer(otel.Tracer(tracerName)),
	}, bo.engineOpts...)

	services := make([]handler.Service, 0, len(enabled))
	for _, s := range enabled {
		engine, err := service.New(s, a.Storage, engineOpts...)
		if err != nil {
			return nil, err
		}
		a.engines = append(a.engines, engine)
		a.bySlug[s.Slug.String()] = engine
		services = append(services, engine)
		logger.InfoContext(ctx, "scheme enabled",
			"scheme", s.Slug.String(),
			"id_prefix", s.IDPrefix,
			"min_age", s.MinAge,
			"max_age", s.MaxAge,
		)
	}

	a.Handler = handler.New(services, logger, a.Metrics,
		handler.WithHealth(a.Ready.Handler()),
		handler.WithMetricsPage(a.MetricsHandler()),
	)
	return a, nil
}

func photoTTL(cfg config.EngineConfig) time.Duration {
	if cfg.PhotoCacheTTL > 0 {
		return cfg.PhotoCacheTTL
	}
	return service.DefaultPhotoTTL
}

// Engines returns the engines in scheme order.
func (a *App) Engines() []*service.Engine {
	return append([]*service.Engine(nil), a.engines...)
}

// Engine returns the engine of one scheme.
func (a *App) Engine(slug string) (*service.Engine, bool) {
	e, ok := a.bySlug[slug]
	return e, ok
}

// Router returns the HTTP handler with every route registered.
func (a *App) Router() http.Handler {
	return a.Handler.Router()
}

// MetricsHandler serves the App's registry.
func (a *App) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{Registry: a.Registry})
}

// Flush writes every pending debounced draft.
func (a *App) Flush(ctx context.Context) error {
	var errs []error
	for _, e := range a.engines {
		if err := e.Flush(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RunWorker delivers queued events until Close closes the publisher. It
// ignores cancellation of ctx so nothing already queued is lost.
func (a *App) RunWorker(ctx context.Context) error {
	if !a.workerRun.CompareAndSwap(false, true) {
		return errors.New("event worker already running")
	}
	defer close(a.workerDone)
	return a.Worker.Run(context.WithoutCancel(ctx))
}

// Close flushes drafts, waits for the worker to drain the queue and releases
// the sink and storage.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if err := a.Flush(ctx); err != nil {
		errs = append(errs, err)
	}
	if a.Publisher != nil {
		a.Publisher.Close()
	}
	if a.workerRun.Load() {
		select {
		case <-a.workerDone:
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("drain events: %w", ctx.Err()))
		}
	}
	if a.Sink != nil {
		if err := a.Sink.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close sink: %w", err))
		}
	}
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
	}
	return errors.Join(errs...)
}
