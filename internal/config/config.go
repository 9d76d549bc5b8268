package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName              string
	AppEnv               string
	AppPort              string
	DatabaseURL          string
	RedisURL             string
	JWTSecret            string
	EvaluatorAPIKey      string
	EvaluatorBaseURL     string
	EvaluatorModel       string
	EvaluatorTimeout     time.Duration
	EvaluatorMaxAttempts int
	EvaluationCacheTTL   time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration from environment variables and an optional
// .env file. Startup fails loudly when the database URL or the
// evaluator API key is missing.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ESSAY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Essay Practice API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("evaluator.model", "gpt-4o-mini")
	v.SetDefault("evaluator.timeout", "30s")
	v.SetDefault("evaluator.max_attempts", 3)
	v.SetDefault("evaluation.cache_ttl", "24h")

	timeout, err := time.ParseDuration(v.GetString("evaluator.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid evaluator timeout: %w", err)
	}

	ttl, err := time.ParseDuration(v.GetString("evaluation.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid evaluation cache ttl: %w", err)
	}

	cfg := Config{
		AppName:              v.GetString("app.name"),
		AppEnv:               v.GetString("app.env"),
		AppPort:              v.GetString("app.port"),
		DatabaseURL:          v.GetString("database.url"),
		RedisURL:             v.GetString("redis.url"),
		JWTSecret:            v.GetString("jwt.secret"),
		EvaluatorAPIKey:      v.GetString("evaluator.api_key"),
		EvaluatorBaseURL:     v.GetString("evaluator.base_url"),
		EvaluatorModel:       v.GetString("evaluator.model"),
		EvaluatorTimeout:     timeout,
		EvaluatorMaxAttempts: v.GetInt("evaluator.max_attempts"),
		EvaluationCacheTTL:   ttl,
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("database url must be provided")
	}

	if cfg.EvaluatorAPIKey == "" {
		return Config{}, fmt.Errorf("evaluator api key must be provided")
	}

	if cfg.EvaluatorMaxAttempts <= 0 {
		cfg.EvaluatorMaxAttempts = 3
	}

	return cfg, nil
}
