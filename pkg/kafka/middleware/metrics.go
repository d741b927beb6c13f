package kafka_middleware

import (
	"context"
	"time"

	"hotelbooking/pkg/kafka"
	"hotelbooking/pkg/metrics"
)

// MetricsProducerMiddleware records publish counts and latency per topic.
func MetricsProducerMiddleware(m *metrics.Metrics) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()

		err := next(ctx, msg)

		m.KafkaPublishDuration.WithLabelValues(msg.Topic).Observe(time.Since(start).Seconds())

		status := "success"
		if err != nil {
			status = "failure"
		}
		m.KafkaPublished.WithLabelValues(msg.Topic, status).Inc()

		return err
	}
}
