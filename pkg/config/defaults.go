package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "hotel_booking"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort      = "3000"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultRecaptchaVerifyURL = "https://www.google.com/recaptcha/api/siteverify"
	DefaultRecaptchaMinScore  = 0.5
	DefaultRecaptchaTimeout   = 5 * time.Second

	DefaultSessionLoggingEnabled = true

	DefaultTelemetryEnabled    = true
	DefaultTelemetryQueueSize  = 256
	DefaultKafkaTelemetryTopic = "booking.errors"
	DefaultKafkaEventsTopic    = "booking.events"

	DefaultPhoneRegion = "IN"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)
