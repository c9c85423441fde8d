package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	require.Empty(t, cfg.TelegramToken, "token has no default")
	require.Equal(t, "postgres", cfg.Storage)
	require.Equal(t, ":9090", cfg.MetricsAddress)
	require.Equal(t, 30, cfg.PollTimeoutSeconds)
	require.Empty(t, cfg.KafkaBrokers, "events disabled unless brokers set")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("STORAGE", "memory")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092 ,")
	t.Setenv("POLL_TIMEOUT_SECONDS", "5")

	cfg := Load()
	require.Equal(t, "123:abc", cfg.TelegramToken)
	require.Equal(t, "memory", cfg.Storage)
	require.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	require.Equal(t, 5, cfg.PollTimeoutSeconds)
}
