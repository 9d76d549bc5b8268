package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("ESSAY_DATABASE_URL", "")
	t.Setenv("ESSAY_EVALUATOR_API_KEY", "sk-test")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "database url")
}

func TestLoadRequiresEvaluatorAPIKey(t *testing.T) {
	t.Setenv("ESSAY_DATABASE_URL", "postgres://localhost/essays")
	t.Setenv("ESSAY_EVALUATOR_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "api key")
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("ESSAY_DATABASE_URL", "postgres://localhost/essays")
	t.Setenv("ESSAY_EVALUATOR_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.AppPort)
	require.Equal(t, "gpt-4o-mini", cfg.EvaluatorModel)
	require.Equal(t, 30*time.Second, cfg.EvaluatorTimeout)
	require.Equal(t, 3, cfg.EvaluatorMaxAttempts)
	require.Equal(t, 24*time.Hour, cfg.EvaluationCacheTTL)
	require.Equal(t, ":8080", cfg.HTTPAddress())
}

func TestLoadReadsOverrides(t *testing.T) {
	t.Setenv("ESSAY_DATABASE_URL", "postgres://localhost/essays")
	t.Setenv("ESSAY_EVALUATOR_API_KEY", "sk-test")
	t.Setenv("ESSAY_APP_PORT", ":9090")
	t.Setenv("ESSAY_EVALUATOR_TIMEOUT", "10s")
	t.Setenv("ESSAY_REDIS_URL", "redis://localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddress())
	require.Equal(t, 10*time.Second, cfg.EvaluatorTimeout)
	require.Equal(t, "redis://localhost:6379", cfg.RedisURL)
}
