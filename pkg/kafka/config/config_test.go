package kafka_config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		EnvKafkaProducerMaxAttempts, EnvKafkaProducerBatchTimeout, EnvKafkaProducerWriteTimeout,
		EnvKafkaProducerRequireAcks, EnvKafkaProducerCompression,
	} {
		t.Setenv(key, "")
	}

	cfg := Load([]string{" kafka-1:9092 ", "", "kafka-2:9092"})

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Brokers)
	assert.Equal(t, DefaultProducerMaxAttempts, cfg.ProducerMaxAttempts)
	assert.Equal(t, DefaultProducerWriteTimeout, cfg.ProducerWriteTimeout)
	assert.Equal(t, "snappy", cfg.ProducerCompression)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv(EnvKafkaProducerMaxAttempts, "5")
	t.Setenv(EnvKafkaProducerBatchTimeout, "50ms")
	t.Setenv(EnvKafkaProducerCompression, "ZSTD")
	t.Setenv(EnvKafkaProducerRequireAcks, "-1")

	cfg := Load([]string{"kafka:9092"})

	assert.Equal(t, 5, cfg.ProducerMaxAttempts)
	assert.Equal(t, 50*time.Millisecond, cfg.ProducerBatchTimeout)
	assert.Equal(t, "zstd", cfg.ProducerCompression)
	assert.Equal(t, -1, cfg.ProducerRequireAcks)
}

func TestValidate_Failures(t *testing.T) {
	cfg := &Config{
		ProducerMaxAttempts:  0,
		ProducerBatchTimeout: time.Millisecond,
		ProducerWriteTimeout: time.Second,
		ProducerRequireAcks:  2,
		ProducerCompression:  "brotli",
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "At least one Kafka broker is required")
	assert.Contains(t, err.Error(), "ProducerMaxAttempts must be positive")
	assert.Contains(t, err.Error(), "ProducerRequireAcks must be -1, 0, or 1")
	assert.Contains(t, err.Error(), "ProducerCompression must be one of")
}
