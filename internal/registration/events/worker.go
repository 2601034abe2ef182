package events

import (
	"context"
	"log/slog"

	"regdesk/internal/platform/metrics"
	"regdesk/pkg/platform/circuit"
)

// DropReasonCircuitOpen labels events skipped while the sink is failing.
const DropReasonCircuitOpen = "circuit_open"

// Sink delivers one event.
type Sink interface {
	Deliver(ctx context.Context, e Event) error
	Close() error
}

// Worker drains a publisher's queue into a sink. Delivery failures are
// logged and counted; they never stop the worker. With a breaker, a sink
// that keeps failing is skipped until its cooldown passes.
type Worker struct {
	sink    Sink
	inbox   <-chan Event
	logger  *slog.Logger
	metrics *metrics.Metrics
	breaker *circuit.Breaker
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithBreaker guards the sink with b.
func WithBreaker(b *circuit.Breaker) WorkerOption {
	return func(w *Worker) {
		w.breaker = b
	}
}

// NewWorker builds a worker. logger and m may be nil.
func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger, m *metrics.Metrics, opts ...WorkerOption) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Worker{sink: sink, inbox: inbox, logger: logger, metrics: m}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run delivers events until ctx is done or the queue is closed. Events still
// queued when the queue closes are delivered before returning.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			w.deliver(ctx, event)
		}
	}
}

func (w *Worker) deliver(ctx context.Context, e Event) {
	if w.breaker != nil && !w.breaker.Allow() {
		if w.metrics != nil {
			w.metrics.IncrementEventDropped(e.Type.String(), DropReasonCircuitOpen)
		}
		return
	}
	if err := w.sink.Deliver(ctx, e); err != nil {
		w.recordFailure(ctx)
		w.logger.ErrorContext(ctx, "failed to deliver registration event",
			"type", e.Type.String(),
			"scheme", e.Scheme,
			"request_id", e.RequestID,
			"error", err,
		)
		if w.metrics != nil {
			w.metrics.IncrementEventDropped(e.Type.String(), "delivery_failed")
		}
		return
	}
	w.recordSuccess(ctx)
	if w.metrics != nil {
		w.metrics.IncrementEventPublished(e.Type.String())
	}
}

func (w *Worker) recordFailure(ctx context.Context) {
	if w.breaker == nil {
		return
	}
	if _, change := w.breaker.RecordFailure(); change.Opened {
		w.logger.WarnContext(ctx, "event sink circuit opened", "sink", w.breaker.Name())
	}
}

func (w *Worker) recordSuccess(ctx context.Context) {
	if w.breaker == nil {
		return
	}
	if _, change := w.breaker.RecordSuccess(); change.Closed {
		w.logger.InfoContext(ctx, "event sink circuit closed", "sink", w.breaker.Name())
	}
}
