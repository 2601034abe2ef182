package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/twmb/franz-go/pkg/kgo"

	"regdesk/internal/platform/config"
)

// LogSink writes events to the structured log.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink builds a sink over logger.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Deliver(ctx context.Context, e Event) error {
	s.logger.InfoContext(ctx, "registration event",
		"type", e.Type.String(),
		"scheme", e.Scheme,
		"registration_id", e.RegistrationID,
		"count", e.Count,
		"request_id", e.RequestID,
	)
	return nil
}

func (s *LogSink) Close() error { return nil }

// DiscardSink drops every event.
type DiscardSink struct{}

func (DiscardSink) Deliver(context.Context, Event) error { return nil }
func (DiscardSink) Close() error                         { return nil }

// MemorySink keeps delivered events, for tests and the CLI.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

func (s *MemorySink) Deliver(_ context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *MemorySink) Close() error { return nil }

// Events returns a copy of what was delivered.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

// KafkaSink produces events to one topic, keyed by scheme.
type KafkaSink struct {
	client *kgo.Client
	topic  string
}

// NewKafkaSink connects to the brokers.
func NewKafkaSink(brokers []string, topic string) (*KafkaSink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaSink{client: client, topic: topic}, nil
}

func (s *KafkaSink) Deliver(ctx context.Context, e Event) error {
	value, err := e.Encode()
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(e.Key()),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "type", Value: []byte(e.Type.String())},
		},
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce event: %w", err)
	}
	return nil
}

func (s *KafkaSink) Close() error {
	s.client.Close()
	return nil
}

// NATSSink publishes events to one subject.
type NATSSink struct {
	conn    *nats.Conn
	subject string
}

// NewNATSSink connects to the server.
func NewNATSSink(url, subject string) (*NATSSink, error) {
	conn, err := nats.Connect(url, nats.Name("regdesk"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSSink{conn: conn, subject: subject}, nil
}

func (s *NATSSink) Deliver(_ context.Context, e Event) error {
	value, err := e.Encode()
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	msg := nats.NewMsg(s.subject)
	msg.Header.Set("type", e.Type.String())
	msg.Data = value
	if err := s.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

func (s *NATSSink) Close() error {
	return s.conn.Drain()
}

// NewSink builds the sink selected by configuration.
func NewSink(cfg config.EventsConfig, logger *slog.Logger) (Sink, error) {
	switch cfg.Sink {
	case config.SinkKafka:
		return NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
	case config.SinkNATS:
		return NewNATSSink(cfg.NATSURL, cfg.NATSSubject)
	case config.SinkNone:
		return DiscardSink{}, nil
	case config.SinkLog, "":
		return NewLogSink(logger), nil
	default:
		return nil, fmt.Errorf("unknown events sink %q", cfg.Sink)
	}
}
