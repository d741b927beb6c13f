package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	EnvCORSAllowedOrigins = "CORS_ALLOWED_ORIGINS"

	EnvRecaptchaSecretKey  = "RECAPTCHA_SECRET_KEY"
	EnvVerificationEnabled = "VERIFICATION_ENABLED"
	EnvRecaptchaVerifyURL  = "RECAPTCHA_VERIFY_URL"
	EnvRecaptchaMinScore   = "RECAPTCHA_MIN_SCORE"
	EnvRecaptchaTimeout    = "RECAPTCHA_TIMEOUT"

	EnvSessionLoggingEnabled = "SESSION_LOGGING_ENABLED"

	EnvTelemetryEnabled    = "TELEMETRY_ENABLED"
	EnvTelemetryQueueSize  = "TELEMETRY_QUEUE_SIZE"
	EnvKafkaBrokers        = "KAFKA_BROKERS"
	EnvKafkaTelemetryTopic = "KAFKA_TELEMETRY_TOPIC"
	EnvKafkaEventsTopic    = "KAFKA_EVENTS_TOPIC"

	EnvDefaultPhoneRegion = "DEFAULT_PHONE_REGION"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
