package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Market  MarketConfig
	Events  EventsConfig
	Archive ArchiveConfig
	Phrase  PhraseConfig
	OTel    OTelConfig
	Env     string
	Port    string
}

// MarketConfig bounds the negotiation engine.
type MarketConfig struct {
	MaxConcurrentNegotiations int
	MaxRounds                 int
	RoundDelay                time.Duration
	ReaperInterval            time.Duration
	DefaultListingDuration    time.Duration
	DealConfirmWindow         time.Duration
}

type EventsConfig struct {
	RedisURL string
	Stream   string
}

type ArchiveConfig struct {
	DSN      string
	MaxConns int32
	MinConns int32
}

type PhraseConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
}

// Load loads configuration from environment variables.
// In development a .env file is consulted first.
func Load() (Config, error) {
	if getEnv("DEALYARD_ENV", "development") == "development" {
		_ = godotenv.Load(".env")
	}

	cfg := Config{
		Env:  getEnv("DEALYARD_ENV", "development"),
		Port: getEnv("PORT", "8080"),
		Market: MarketConfig{
			MaxConcurrentNegotiations: getEnvInt("MARKET_MAX_CONCURRENT", 100),
			MaxRounds:                 getEnvInt("MARKET_MAX_ROUNDS", 8),
			RoundDelay:                getEnvDuration("MARKET_ROUND_DELAY", 100*time.Millisecond),
			ReaperInterval:            getEnvDuration("MARKET_REAPER_INTERVAL", time.Minute),
			DefaultListingDuration:    getEnvDuration("MARKET_LISTING_DURATION", 7*24*time.Hour),
			DealConfirmWindow:         getEnvDuration("MARKET_DEAL_CONFIRM_WINDOW", 24*time.Hour),
		},
		Events: EventsConfig{
			RedisURL: getEnv("REDIS_URL", ""),
			Stream:   getEnv("REDIS_STREAM", "dealyard_events"),
		},
		Archive: ArchiveConfig{
			DSN:      getEnv("ARCHIVE_DATABASE_URL", ""),
			MaxConns: getEnvInt32("ARCHIVE_DB_MAX_CONNS", 4),
			MinConns: getEnvInt32("ARCHIVE_DB_MIN_CONNS", 1),
		},
		Phrase: PhraseConfig{
			APIKey:    getEnv("PHRASE_LLM_API_KEY", ""),
			BaseURL:   getEnv("PHRASE_LLM_BASE_URL", ""),
			Model:     getEnv("PHRASE_LLM_MODEL", "gpt-4o-mini"),
			MaxTokens: getEnvInt("PHRASE_LLM_MAX_TOKENS", 300),
		},
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "dealyard"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
		},
	}

	if cfg.Market.MaxConcurrentNegotiations < 1 {
		return Config{}, fmt.Errorf("MARKET_MAX_CONCURRENT must be at least 1")
	}
	if cfg.Market.MaxRounds < 1 {
		return Config{}, fmt.Errorf("MARKET_MAX_ROUNDS must be at least 1")
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c EventsConfig) Enabled() bool {
	return c.RedisURL != ""
}

func (c ArchiveConfig) Enabled() bool {
	return c.DSN != ""
}

func (c PhraseConfig) Enabled() bool {
	return c.APIKey != ""
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvInt32(key string, fallback int32) int32 {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(i)
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
