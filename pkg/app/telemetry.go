package app

import (
	"hotelbooking/pkg/config"
	"hotelbooking/pkg/kafka"
	kafka_config "hotelbooking/pkg/kafka/config"
	kafka_middleware "hotelbooking/pkg/kafka/middleware"
	"hotelbooking/pkg/metrics"
	"hotelbooking/pkg/telemetry"
)

// newDispatcher returns nil when telemetry is disabled. Reports always go to
// the log; Kafka is added when brokers are configured.
func newDispatcher(cfg *config.Config, service string, m *metrics.Metrics) *telemetry.Dispatcher {
	if !cfg.TelemetryEnabled {
		cfg.Log.Info("Telemetry disabled")
		return nil
	}

	sinks := []telemetry.Sink{telemetry.NewLogSink(cfg.Log)}
	if sink := newKafkaSink(cfg, m); sink != nil {
		sinks = append(sinks, sink)
	}

	return telemetry.NewDispatcher(telemetry.Options{
		Service:   service,
		QueueSize: cfg.TelemetryQueueSize,
		Log:       cfg.Log,
		Metrics:   m,
	}, sinks...)
}

func newKafkaSink(cfg *config.Config, m *metrics.Metrics) telemetry.Sink {
	if len(cfg.KafkaBrokers) == 0 {
		return nil
	}

	kcfg := kafka_config.Load(cfg.KafkaBrokers)

	errorsProducer, err := kafka.NewProducer(kcfg, cfg.KafkaTelemetryTopic, cfg.Log)
	if err != nil {
		cfg.Log.Error("Kafka telemetry disabled", "topic", cfg.KafkaTelemetryTopic, "error", err)
		return nil
	}
	eventsProducer, err := kafka.NewProducer(kcfg, cfg.KafkaEventsTopic, cfg.Log)
	if err != nil {
		_ = errorsProducer.Close()
		cfg.Log.Error("Kafka telemetry disabled", "topic", cfg.KafkaEventsTopic, "error", err)
		return nil
	}

	for _, p := range []*kafka.Producer{errorsProducer, eventsProducer} {
		p.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
		p.Use(kafka_middleware.MetricsProducerMiddleware(m))
	}

	cfg.Log.Info("Kafka telemetry enabled",
		"brokers", cfg.KafkaBrokers,
		"telemetry_topic", cfg.KafkaTelemetryTopic,
		"events_topic", cfg.KafkaEventsTopic,
	)
	return telemetry.NewKafkaSink(errorsProducer, eventsProducer)
}
