package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"hotelbooking/pkg/client"
	"hotelbooking/pkg/logger"

	"github.com/joho/godotenv"
)

var (
	mongoURIRegex   = regexp.MustCompile(`^mongodb(\+srv)?://`)
	credentialRegex = regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	regionRegex     = regexp.MustCompile(`^[A-Z]{2}$`)
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port      string
	LogLevel  string
	LogFormat string

	// CORSAllowedOrigins restricts cross-origin callers. Empty means any origin.
	CORSAllowedOrigins []string

	RecaptchaSecretKey  string
	VerificationEnabled bool
	RecaptchaVerifyURL  string
	RecaptchaMinScore   float64
	RecaptchaTimeout    time.Duration

	SessionLoggingEnabled bool

	TelemetryEnabled    bool
	TelemetryQueueSize  int
	KafkaBrokers        []string
	KafkaTelemetryTopic string
	KafkaEventsTopic    string

	DefaultPhoneRegion string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

// Load reads the environment (and a .env file when present), validates the
// result and exits the process on invalid configuration.
func Load(serviceName string) *Config {
	_ = godotenv.Load()

	cfg := FromEnv(serviceName)
	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// FromEnv builds a Config from the current environment without validating it.
func FromEnv(serviceName string) *Config {
	secret := getEnvStr(EnvRecaptchaSecretKey, "")

	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port:      getEnvStr(EnvPort, DefaultPort),
		LogLevel:  getEnvStr(EnvLogLevel, DefaultLogLevel),
		LogFormat: getEnvStr(EnvLogFormat, DefaultLogFormat),

		CORSAllowedOrigins: getEnvList(EnvCORSAllowedOrigins),

		RecaptchaSecretKey:  secret,
		VerificationEnabled: getEnvBool(EnvVerificationEnabled, secret != ""),
		RecaptchaVerifyURL:  getEnvStr(EnvRecaptchaVerifyURL, DefaultRecaptchaVerifyURL),
		RecaptchaMinScore:   getEnvFloat(EnvRecaptchaMinScore, DefaultRecaptchaMinScore),
		RecaptchaTimeout:    getEnvDuration(EnvRecaptchaTimeout, DefaultRecaptchaTimeout),

		SessionLoggingEnabled: getEnvBool(EnvSessionLoggingEnabled, DefaultSessionLoggingEnabled),

		TelemetryEnabled:    getEnvBool(EnvTelemetryEnabled, DefaultTelemetryEnabled),
		TelemetryQueueSize:  getEnvNum(EnvTelemetryQueueSize, DefaultTelemetryQueueSize),
		KafkaBrokers:        getEnvList(EnvKafkaBrokers),
		KafkaTelemetryTopic: getEnvStr(EnvKafkaTelemetryTopic, DefaultKafkaTelemetryTopic),
		KafkaEventsTopic:    getEnvStr(EnvKafkaEventsTopic, DefaultKafkaEventsTopic),

		DefaultPhoneRegion: strings.ToUpper(getEnvStr(EnvDefaultPhoneRegion, DefaultPhoneRegion)),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Client: client.NewClient(),
	}

	cfg.Log = logger.New(logger.Config{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		AddSource: true,
		Service:   serviceName,
	})

	return cfg
}

// SetMongo connects the shared store handle. Until it returns nil the handle
// reports not ready and request handlers answer 503.
func (cfg *Config) SetMongo(ctx context.Context) error {
	return cfg.Client.SetMongo(ctx, cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !mongoURIRegex.MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}

	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	for _, origin := range cfg.CORSAllowedOrigins {
		if origin == "*" {
			continue
		}
		if u, err := url.Parse(origin); err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, fmt.Sprintf("CORS origin must be an absolute URL, got: %s", origin))
		}
	}

	if cfg.VerificationEnabled {
		if cfg.RecaptchaSecretKey == "" {
			errors = append(errors, "RecaptchaSecretKey is required when verification is enabled")
		}
		if u, err := url.Parse(cfg.RecaptchaVerifyURL); err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, fmt.Sprintf("RecaptchaVerifyURL must be an absolute URL, got: %s", cfg.RecaptchaVerifyURL))
		}
	}
	if cfg.RecaptchaMinScore < 0 || cfg.RecaptchaMinScore > 1 {
		errors = append(errors, fmt.Sprintf("RecaptchaMinScore must be within [0, 1], got: %g", cfg.RecaptchaMinScore))
	}
	if cfg.RecaptchaTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RecaptchaTimeout must be positive, got: %s", cfg.RecaptchaTimeout))
	}

	if cfg.TelemetryQueueSize <= 0 {
		errors = append(errors, fmt.Sprintf("TelemetryQueueSize must be positive, got: %d", cfg.TelemetryQueueSize))
	}
	if len(cfg.KafkaBrokers) > 0 && (cfg.KafkaTelemetryTopic == "" || cfg.KafkaEventsTopic == "") {
		errors = append(errors, "Kafka topics cannot be empty when KafkaBrokers is set")
	}

	if !regionRegex.MatchString(cfg.DefaultPhoneRegion) {
		errors = append(errors, fmt.Sprintf("DefaultPhoneRegion must be a two-letter region code, got: %s", cfg.DefaultPhoneRegion))
	}

	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"log_level", cfg.LogLevel,
		"cors_allowed_origins", cfg.CORSAllowedOrigins,
		"verification_enabled", cfg.VerificationEnabled,
		"recaptcha_secret_set", cfg.RecaptchaSecretKey != "",
		"recaptcha_min_score", cfg.RecaptchaMinScore,
		"session_logging_enabled", cfg.SessionLoggingEnabled,
		"telemetry_enabled", cfg.TelemetryEnabled,
		"telemetry_queue_size", cfg.TelemetryQueueSize,
		"kafka_brokers", cfg.KafkaBrokers,
		"default_phone_region", cfg.DefaultPhoneRegion,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

// CORSUnrestricted reports whether any origin may call the API.
func (cfg *Config) CORSUnrestricted() bool {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return true
	}
	for _, origin := range cfg.CORSAllowedOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

func redactMongoURI(uri string) string {
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (cfg *Config) GracefulShutdown(ctx context.Context) {
	cfg.Client.GracefulShutdown(ctx, cfg.Log)
}
