// Package service runs one scheme's registration engine: drafts, photo
// uploads, the submission pipeline and admin operations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"regdesk/internal/platform/metrics"
	"regdesk/internal/registration/draft"
	"regdesk/internal/registration/events"
	"regdesk/internal/registration/models"
	"regdesk/internal/registration/photo"
	"regdesk/internal/registration/store"
	"regdesk/internal/registration/validation"
	"regdesk/internal/storage"
	id "regdesk/pkg/domain"
	"regdesk/pkg/requestcontext"
)

// DefaultSubmitDelay is the latency every submission waits before
// validation runs.
const DefaultSubmitDelay = 600 * time.Millisecond

// DefaultPhotoTTL bounds how long an accepted upload waits for its submit.
const DefaultPhotoTTL = 30 * time.Minute

const tracerName = "regdesk/internal/registration/service"

// EventPublisher receives lifecycle events. *events.Publisher implements it.
type EventPublisher interface {
	Publish(ctx context.Context, e events.Event)
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the real Sleeper.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, events.Event) {}

// Engine is one scheme's registration engine. It owns the scheme's pipeline
// states and debounce timers; nothing is shared between engines except the
// storage and photo cache they are given.
type Engine struct {
	scheme    models.Scheme
	records   *store.Store
	drafts    *draft.Store
	debouncer *draft.Debouncer
	photos    *photo.Cache
	validator validation.Set

	publisher EventPublisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	tracer    trace.Tracer

	sleep       Sleeper
	submitDelay time.Duration
	debounce    time.Duration
	afterFunc   draft.AfterFunc
	location    *time.Location
	captcha     func() string

	mu     sync.Mutex
	states map[id.DeviceID]State

	// seqMu serializes counter increment and append.
	seqMu sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

func WithPublisher(p EventPublisher) Option {
	return func(e *Engine) {
		if p != nil {
			e.publisher = p
		}
	}
}

// WithPhotoCache shares a photo cache between engines.
func WithPhotoCache(c *photo.Cache) Option {
	return func(e *Engine) {
		e.photos = c
	}
}

// WithSleeper replaces the submission delay clock, for tests.
func WithSleeper(s Sleeper) Option {
	return func(e *Engine) {
		e.sleep = s
	}
}

func WithSubmitDelay(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.submitDelay = d
		}
	}
}

func WithDraftDebounce(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.debounce = d
		}
	}
}

// WithAfterFunc replaces the debounce timer source, for tests.
func WithAfterFunc(f draft.AfterFunc) Option {
	return func(e *Engine) {
		e.afterFunc = f
	}
}

// WithLocation sets the zone used for display times and the "today" count.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.location = loc
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		e.tracer = t
	}
}

// WithCaptchaSource replaces the captcha generator, for tests.
func WithCaptchaSource(f func() string) Option {
	return func(e *Engine) {
		e.captcha = f
	}
}

// New validates the scheme and builds its engine over local.
func New(scheme models.Scheme, local storage.Local, opts ...Option) (*Engine, error) {
	if err := scheme.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		scheme:      scheme,
		validator:   validation.NewSet(scheme.MinAge, scheme.MaxAge),
		publisher:   nopPublisher{},
		logger:      slog.Default(),
		sleep:       Sleep,
		submitDelay: DefaultSubmitDelay,
		debounce:    draft.DefaultDelay,
		afterFunc:   draft.RealAfterFunc,
		location:    time.Local,
		captcha:     NewCaptcha,
		states:      make(map[id.DeviceID]State),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.tracer == nil {
		e.tracer = otel.Tracer(tracerName)
	}
	if e.photos == nil {
		e.photos = photo.NewCache(DefaultPhotoTTL)
	}

	slug := scheme.Slug.String()
	e.records = store.New(local, scheme.StorageKey, scheme.CounterKey,
		store.WithLogger(e.logger),
		store.WithCorruptHook(func() { e.countCorrupt(slug, "records") }),
	)
	e.drafts = draft.NewStore(local, scheme.DraftKey,
		draft.WithLogger(e.logger),
		draft.WithPhotoCache(scheme.Slug, e.photos),
		draft.WithCorruptHook(func() { e.countCorrupt(slug, "draft") }),
	)
	e.debouncer = draft.NewDebouncer(e.saveDebounced,
		draft.WithDelay(e.debounce),
		draft.WithAfterFunc(e.afterFunc),
		draft.WithDebounceLogger(e.logger),
	)
	return e, nil
}

// Scheme returns the configuration the engine runs.
func (e *Engine) Scheme() models.Scheme { return e.scheme }

// Location returns the display zone.
func (e *Engine) Location() *time.Location { return e.location }

// localNow is the request time in the configured zone. Ages, date limits and
// the "today" count all use its calendar date.
func (e *Engine) localNow(ctx context.Context) time.Time {
	return requestcontext.Now(ctx).In(e.location)
}

// Flush writes every pending debounced draft. Call it on shutdown.
func (e *Engine) Flush(ctx context.Context) error {
	if err := e.debouncer.Flush(ctx); err != nil {
		return fmt.Errorf("flush drafts for %s: %w", e.scheme.Slug, err)
	}
	return nil
}

func (e *Engine) slug() string { return e.scheme.Slug.String() }

func (e *Engine) countCorrupt(scheme, kind string) {
	if e.metrics != nil {
		e.metrics.IncrementCorrupt(scheme, kind)
	}
}
