// Package handler exposes the registration engines over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"regdesk/internal/platform/metrics"
	"regdesk/internal/platform/middleware"
	"regdesk/internal/registration/admin"
	"regdesk/internal/registration/models"
	"regdesk/internal/registration/service"
	id "regdesk/pkg/domain"
	dErrors "regdesk/pkg/domain-errors"
	"regdesk/pkg/platform/httputil"
	"regdesk/pkg/platform/middleware/device"
	"regdesk/pkg/platform/middleware/metadata"
	"regdesk/pkg/platform/middleware/requesttime"
	"regdesk/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/service-mocks.go -package=mocks Service

// Service is one scheme's registration engine as the HTTP layer uses it.
// *service.Engine implements it.
type Service interface {
	Info() service.SchemeInfo
	Captcha() string
	Page(ctx context.Context, dev id.DeviceID) (service.Page, error)
	Input(ctx context.Context, dev id.DeviceID, values models.FormValues) service.Progress
	ValidateField(ctx context.Context, field, value string) (service.FieldCheck, error)
	Age(ctx context.Context, dob string) service.AgeBadge
	SaveDraft(ctx context.Context, dev id.DeviceID, values models.FormValues) (service.Notice, error)
	RestoreDraft(ctx context.Context, dev id.DeviceID) (service.Restored, error)
	DiscardDraft(ctx context.Context, dev id.DeviceID) (service.Notice, error)
	UploadPhoto(ctx context.Context, dev id.DeviceID, contentType string, data []byte) (service.Notice, error)
	RemovePhoto(ctx context.Context, dev id.DeviceID)
	Submit(ctx context.Context, dev id.DeviceID, values models.FormValues) (service.Outcome, error)
	Admin(ctx context.Context) (admin.Table, error)
	Export(ctx context.Context, format string) (service.Export, error)
	Delete(ctx context.Context, regID id.RegistrationID, confirmed bool) (service.Deleted, error)
	Clear(ctx context.Context, confirmed bool) (service.Cleared, error)
	Receipt(ctx context.Context, regID id.RegistrationID) (service.Receipt, error)
}

var _ Service = (*service.Engine)(nil)

// DefaultRequestTimeout bounds every scheme request.
const DefaultRequestTimeout = 30 * time.Second

// Handler routes /schemes/{scheme}/... to the matching engine.
type Handler struct {
	logger        *slog.Logger
	metrics       *metrics.Metrics
	services      map[string]Service
	order         []string
	secureCookies bool
	timeout       time.Duration
	health        http.Handler
	metricsPage   http.Handler
}

// Option configures a Handler.
type Option func(*Handler)

// WithSecureCookies marks the device cookie Secure.
func WithSecureCookies(secure bool) Option {
	return func(h *Handler) { h.secureCookies = secure }
}

// WithTimeout overrides DefaultRequestTimeout.
func WithTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithHealth serves /healthz with the given handler.
func WithHealth(health http.Handler) Option {
	return func(h *Handler) { h.health = health }
}

// WithMetricsPage serves /metrics with the given handler.
func WithMetricsPage(page http.Handler) Option {
	return func(h *Handler) { h.metricsPage = page }
}

// New creates a Handler over one service per scheme. Later services with a
// duplicate slug are ignored.
func New(services []Service, logger *slog.Logger, m *metrics.Metrics, opts ...Option) *Handler {
	h := &Handler{
		logger:   logger,
		metrics:  m,
		services: make(map[string]Service, len(services)),
		timeout:  DefaultRequestTimeout,
	}
	for _, svc := range services {
		slug := svc.Info().Slug.String()
		if _, dup := h.services[slug]; dup {
			continue
		}
		h.services[slug] = svc
		h.order = append(h.order, slug)
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register registers the routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Use(middleware.Recovery(h.logger))
	r.Use(middleware.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(middleware.Logger(h.logger))
	if h.metrics != nil {
		r.Use(middleware.Latency(h.metrics))
	}

	r.Get("/schemes", h.handleListSchemes)
	if h.health != nil {
		r.Method(http.MethodGet, "/healthz", h.health)
	}
	if h.metricsPage != nil {
		r.Method(http.MethodGet, "/metrics", h.metricsPage)
	}

	r.Route("/schemes/{scheme}", func(r chi.Router) {
		r.Use(chimw.Timeout(h.timeout))
		r.Use(device.Middleware(h.secureCookies))
		r.Use(h.resolveScheme)

		r.Get("/", h.handlePage)
		r.Get("/captcha", h.handleCaptcha)
		r.Post("/input", h.handleInput)
		r.Post("/validate/{field}", h.handleValidateField)
		r.Post("/age", h.handleAge)

		r.Post("/draft", h.handleSaveDraft)
		r.Post("/draft/restore", h.handleRestoreDraft)
		r.Delete("/draft", h.handleDiscardDraft)

		r.Post("/photo", h.handleUploadPhoto)
		r.Delete("/photo", h.handleRemovePhoto)

		r.Post("/submit", h.handleSubmit)

		r.Get("/admin", h.handleAdmin)
		r.Get("/admin/export.csv", h.handleExport(admin.FormatCSV))
		r.Get("/admin/export.xlsx", h.handleExport(admin.FormatXLSX))
		r.Delete("/registrations", h.handleClear)
		r.Delete("/registrations/{id}", h.handleDelete)
		r.Get("/registrations/{id}/receipt", h.handleReceipt)
	})
}

// Router builds a chi router with every route registered.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	h.Register(r)
	return r
}

type serviceKey struct{}

func (h *Handler) resolveScheme(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "scheme")
		svc, ok := h.services[slug]
		if !ok {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "unknown scheme: "+slug))
			return
		}
		ctx := context.WithValue(r.Context(), serviceKey{}, svc)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func serviceFrom(ctx context.Context) Service {
	svc, _ := ctx.Value(serviceKey{}).(Service)
	return svc
}

func (h *Handler) handleListSchemes(w http.ResponseWriter, _ *http.Request) {
	out := make([]service.SchemeInfo, 0, len(h.order))
	for _, slug := range h.order {
		out = append(out, h.services[slug].Info())
	}
	httputil.WriteJSON(w, http.StatusOK, SchemesResponse{Schemes: out})
}

// writeFailure logs err at a level matching its code and writes the error
// response.
func (h *Handler) writeFailure(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	attrs := []any{
		"error", err.Error(),
		"request_id", requestcontext.RequestID(ctx),
	}
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg, attrs...)
	} else {
		h.logger.WarnContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}
