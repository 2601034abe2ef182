package events

import (
	"context"
	"log/slog"
	"sync"

	"regdesk/internal/platform/metrics"
	"regdesk/pkg/requestcontext"
)

// DefaultBuffer is the queue size when none is configured.
const DefaultBuffer = 256

// DropReasonFull labels events lost to a full queue.
const DropReasonFull = "buffer_full"

// Publisher enqueues events for a Worker. Publish never blocks and never
// fails the caller: a full queue drops the event.
type Publisher struct {
	mu      sync.RWMutex
	queue   chan Event
	closed  bool
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithLogger sets the logger for dropped events.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithMetrics counts dropped events.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// NewPublisher builds a publisher with a queue of size buffer.
func NewPublisher(buffer int, opts ...Option) *Publisher {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	p := &Publisher{
		queue:  make(chan Event, buffer),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish stamps the event with the request time and ID when missing and
// queues it.
func (p *Publisher) Publish(ctx context.Context, e Event) {
	if e.At.IsZero() {
		e.At = requestcontext.Now(ctx)
	}
	if e.RequestID == "" {
		e.RequestID = requestcontext.RequestID(ctx)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.drop(ctx, e, "closed")
		return
	}
	select {
	case p.queue <- e:
	default:
		p.drop(ctx, e, DropReasonFull)
	}
}

func (p *Publisher) drop(ctx context.Context, e Event, reason string) {
	p.logger.WarnContext(ctx, "dropping registration event",
		"type", e.Type.String(),
		"scheme", e.Scheme,
		"reason", reason,
		"request_id", e.RequestID,
	)
	if p.metrics != nil {
		p.metrics.IncrementEventDropped(e.Type.String(), reason)
	}
}

// Events is the queue a Worker drains.
func (p *Publisher) Events() <-chan Event {
	return p.queue
}

// Close stops accepting events and closes the queue so a Worker can drain
// what is left and return.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.queue)
}
