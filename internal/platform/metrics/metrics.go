package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeBusy     = "busy"
	OutcomeError    = "error"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	Submissions      *prometheus.CounterVec
	SubmitDuration   *prometheus.HistogramVec
	DraftsSaved      *prometheus.CounterVec
	RecordsDeleted   *prometheus.CounterVec
	Exports          *prometheus.CounterVec
	PhotosRejected   *prometheus.CounterVec
	EventsPublished  *prometheus.CounterVec
	EventsDropped    *prometheus.CounterVec
	HTTPRequestDur   *prometheus.HistogramVec
	CorruptDocuments *prometheus.CounterVec
}

// New creates and registers all metrics on reg. Pass prometheus.DefaultRegisterer
// in the server and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Submissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "regdesk_submissions_total",
			Help: "Form submissions by scheme and outcome",
		}, []string{"scheme", "outcome"}),
		SubmitDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "regdesk_submit_duration_seconds",
			Help:    "Time spent in the submission pipeline, including the simulated latency",
			Buckets: []float64{.1, .25, .5, .75, 1, 2, 5},
		}, []string{"scheme"}),
		DraftsSaved: f.NewCounterVec(prometheus.CounterOpts{
			Name: "regdesk_drafts_saved_total",
			Help: "Draft saves by scheme and trigger (debounce or manual)",
		}, []string{"scheme", "trigger"}),
		RecordsDeleted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "regdesk_records_deleted_total",
			Help: "Records removed from a scheme store",
		}, []string{"scheme"}),
		Exports: f.NewCounterVec(prometheus.CounterOpts{
			Name: "regdesk_exports_total",
			Help: "Admin exports by scheme and format",
		}, []string{"scheme", "format"}),
		PhotosRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "regdesk_photos_rejected_total",
			Help: "Photo uploads rejected by reason",
		}, []string{"scheme", "reason"}),
		EventsPublished: f.NewCounterVec(prometheus.CounterOpts{
			Name: "regdesk_events_published_total",
			Help: "Registration events delivered to the sink",
		}, []string{"type"}),
		EventsDropped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "regdesk_events_dropped_total",
			Help: "Registration events dropped because the buffer was full or the sink failed",
		}, []string{"type", "reason"}),
		HTTPRequestDur: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "regdesk_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		CorruptDocuments: f.NewCounterVec(prometheus.CounterOpts{
			Name: "regdesk_corrupt_documents_total",
			Help: "Stored JSON documents that failed to parse and were treated as absent",
		}, []string{"scheme", "kind"}),
	}
}

// IncrementSubmission records a pipeline outcome.
func (m *Metrics) IncrementSubmission(scheme, outcome string) {
	m.Submissions.WithLabelValues(scheme, outcome).Inc()
}

// ObserveSubmit records pipeline latency.
func (m *Metrics) ObserveSubmit(scheme string, d time.Duration) {
	m.SubmitDuration.WithLabelValues(scheme).Observe(d.Seconds())
}

// IncrementDraftSaved records a draft write.
func (m *Metrics) IncrementDraftSaved(scheme, trigger string) {
	m.DraftsSaved.WithLabelValues(scheme, trigger).Inc()
}

// AddRecordsDeleted records removed records.
func (m *Metrics) AddRecordsDeleted(scheme string, n int) {
	m.RecordsDeleted.WithLabelValues(scheme).Add(float64(n))
}

// IncrementExport records an admin export.
func (m *Metrics) IncrementExport(scheme, format string) {
	m.Exports.WithLabelValues(scheme, format).Inc()
}

// IncrementPhotoRejected records a rejected upload.
func (m *Metrics) IncrementPhotoRejected(scheme, reason string) {
	m.PhotosRejected.WithLabelValues(scheme, reason).Inc()
}

// IncrementEventPublished records a delivered event.
func (m *Metrics) IncrementEventPublished(eventType string) {
	m.EventsPublished.WithLabelValues(eventType).Inc()
}

// IncrementEventDropped records a lost event.
func (m *Metrics) IncrementEventDropped(eventType, reason string) {
	m.EventsDropped.WithLabelValues(eventType, reason).Inc()
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	m.HTTPRequestDur.WithLabelValues(method, route, status).Observe(d.Seconds())
}

// IncrementCorrupt records a stored document that failed to parse.
func (m *Metrics) IncrementCorrupt(scheme, kind string) {
	m.CorruptDocuments.WithLabelValues(scheme, kind).Inc()
}
