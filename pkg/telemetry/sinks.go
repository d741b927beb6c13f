package telemetry

import (
	"context"

	"hotelbooking/pkg/kafka"
	"hotelbooking/pkg/logger"
)

// LogSink writes reports to the structured log.
type LogSink struct {
	log *logger.Logger
}

func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Send(_ context.Context, r Report) error {
	attrs := []any{
		"kind", r.Kind,
		"name", r.Name,
		"request_id", r.RequestID,
		"timestamp", r.Timestamp,
	}
	for k, v := range r.Attributes {
		attrs = append(attrs, k, v)
	}

	if r.Kind == KindError {
		s.log.Error("Telemetry error report", append(attrs, "error", r.Error)...)
		return nil
	}
	s.log.Info("Telemetry event", append(attrs, "key", r.Key)...)
	return nil
}

func (s *LogSink) Close() error { return nil }

// Publisher is the producer surface used by KafkaSink.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

// KafkaSink routes error reports and events to their own topics.
type KafkaSink struct {
	errors Publisher
	events Publisher
}

func NewKafkaSink(errors, events Publisher) *KafkaSink {
	return &KafkaSink{errors: errors, events: events}
}

func (s *KafkaSink) Send(ctx context.Context, r Report) error {
	p := s.events
	if r.Kind == KindError {
		p = s.errors
	}
	if p == nil {
		return nil
	}

	msg := kafka.NewMessage().
		WithKey(r.Key).
		WithEventType(r.Name).
		WithSource(r.Service).
		WithCorrelationID(r.RequestID).
		WithValue(r).
		Build()

	return p.Publish(ctx, msg)
}

func (s *KafkaSink) Close() error {
	var err error
	for _, p := range []Publisher{s.errors, s.events} {
		if p == nil {
			continue
		}
		if cerr := p.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
