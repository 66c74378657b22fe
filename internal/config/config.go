package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"medicine-verify/internal/ai"
	"medicine-verify/internal/store"
)

const (
	EnvPort            = "PORT"
	EnvAllowedOrigins  = "ALLOWED_ORIGINS"
	EnvGinMode         = "GIN_MODE"
	EnvStoreBackend    = "STORE_BACKEND"
	EnvDatabaseURL     = "DATABASE_URL"
	EnvDBPath          = "MEDVERIFY_DB_PATH"
	EnvStoreSeed       = "STORE_SEED"
	EnvFixturePath     = "FIXTURE_PATH"
	EnvAIProvider      = "AI_PROVIDER"
	EnvGeminiAPIKey    = "GEMINI_API_KEY"
	EnvGeminiModel     = "GEMINI_MODEL"
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvOpenAIModel     = "OPENAI_MODEL"
	EnvOpenAIBaseURL   = "OPENAI_BASE_URL"
	EnvAITemperature   = "AI_TEMPERATURE"
	EnvAIMaxTokens     = "AI_MAX_TOKENS"
	EnvClassifierLimit = "CLASSIFIER_TIMEOUT"
	EnvAMQPURL         = "AMQP_URL"
	EnvAMQPExchange    = "AMQP_EXCHANGE"
	EnvAMQPRoutingKey  = "AMQP_ROUTING_KEY"
	EnvSentryDSN       = "SENTRY_DSN"
	EnvLogLevel        = "LOG_LEVEL"
	EnvLogFormat       = "LOG_FORMAT"
)

// Config is the root configuration for the verification service.
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	AI     AIConfig
	Sinks  SinkConfig
	Engine EngineConfig
}

// ServerConfig covers the HTTP surface and process-wide logging.
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	GinMode        string
	SentryDSN      string
	LogLevel       string
	LogFormat      string
}

// StoreConfig selects the registry strategy.
type StoreConfig struct {
	Backend     store.Backend
	DatabaseURL string
	DBPath      string
	Seed        bool
	FixturePath string
}

// AIConfig holds classifier provider settings.
type AIConfig struct {
	Provider      ai.Provider
	GeminiAPIKey  string
	GeminiModel   string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	Temperature   float64
	MaxTokens     int
}

// SinkConfig configures the optional verification-log publishers.
type SinkConfig struct {
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string
}

// EngineConfig tunes the decision engine.
type EngineConfig struct {
	ClassifierTimeout time.Duration
}

// Settings converts the AI section into classifier factory settings.
func (c AIConfig) Settings() ai.Settings {
	return ai.Settings{
		Provider: c.Provider,
		Gemini: ai.GeminiConfig{
			APIKey:      c.GeminiAPIKey,
			Model:       c.GeminiModel,
			Temperature: c.Temperature,
			MaxTokens:   c.MaxTokens,
		},
		OpenAI: ai.Config{
			APIKey:      c.OpenAIAPIKey,
			Model:       c.OpenAIModel,
			BaseURL:     c.OpenAIBaseURL,
			Temperature: c.Temperature,
			MaxTokens:   c.MaxTokens,
		},
	}
}

// AMQPEnabled reports whether the broker publisher should be wired.
func (c SinkConfig) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

// Load builds the configuration from defaults and environment variables, then validates it.
// Callers load any .env file before calling Load.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.loadDefaults()
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadDefaults() {
	c.Server.Port = "2000"
	c.Server.LogLevel = "info"
	c.Server.LogFormat = "text"
	c.Store.Backend = store.BackendSQLite
	c.Store.DBPath = "data/medverify.db"
	c.Store.Seed = true
	c.AI.Provider = ai.ProviderAuto
	c.AI.GeminiModel = "gemini-flash-latest"
	c.Sinks.AMQPExchange = "medverify"
	c.Sinks.AMQPRoutingKey = "verification.logged"
	c.Engine.ClassifierTimeout = 10 * time.Second
}

func (c *Config) loadEnv() error {
	setString(&c.Server.Port, EnvPort)
	if v, ok := lookup(EnvAllowedOrigins); ok {
		c.Server.AllowedOrigins = splitList(v)
	}
	setString(&c.Server.GinMode, EnvGinMode)
	setString(&c.Server.SentryDSN, EnvSentryDSN)
	setString(&c.Server.LogLevel, EnvLogLevel)
	setString(&c.Server.LogFormat, EnvLogFormat)

	if v, ok := lookup(EnvStoreBackend); ok {
		backend, err := store.ParseBackend(v)
		if err != nil {
			return err
		}
		c.Store.Backend = backend
	}
	setString(&c.Store.DatabaseURL, EnvDatabaseURL)
	setString(&c.Store.DBPath, EnvDBPath)
	setString(&c.Store.FixturePath, EnvFixturePath)
	if v, ok := lookup(EnvStoreSeed); ok {
		seed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvStoreSeed, err)
		}
		c.Store.Seed = seed
	}

	if v, ok := lookup(EnvAIProvider); ok {
		provider, err := ai.ParseProvider(v)
		if err != nil {
			return err
		}
		c.AI.Provider = provider
	}
	setString(&c.AI.GeminiAPIKey, EnvGeminiAPIKey)
	setString(&c.AI.GeminiModel, EnvGeminiModel)
	setString(&c.AI.OpenAIAPIKey, EnvOpenAIAPIKey)
	setString(&c.AI.OpenAIModel, EnvOpenAIModel)
	setString(&c.AI.OpenAIBaseURL, EnvOpenAIBaseURL)
	if v, ok := lookup(EnvAITemperature); ok {
		temp, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvAITemperature, err)
		}
		c.AI.Temperature = temp
	}
	if v, ok := lookup(EnvAIMaxTokens); ok {
		tokens, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvAIMaxTokens, err)
		}
		c.AI.MaxTokens = tokens
	}

	setString(&c.Sinks.AMQPURL, EnvAMQPURL)
	setString(&c.Sinks.AMQPExchange, EnvAMQPExchange)
	setString(&c.Sinks.AMQPRoutingKey, EnvAMQPRoutingKey)

	if v, ok := lookup(EnvClassifierLimit); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvClassifierLimit, err)
		}
		c.Engine.ClassifierTimeout = d
	}
	return nil
}

func (c *Config) validate() error {
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("invalid port %q", c.Server.Port)
	}
	if _, err := logrus.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	switch c.Server.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.Server.LogFormat)
	}
	switch c.Store.Backend {
	case store.BackendPostgres, store.BackendMySQL:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("%s required for %s backend", EnvDatabaseURL, c.Store.Backend)
		}
	case store.BackendSQLite:
		if c.Store.DBPath == "" {
			return fmt.Errorf("%s required for sqlite backend", EnvDBPath)
		}
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("ai temperature %.2f out of range", c.AI.Temperature)
	}
	if c.AI.MaxTokens < 0 {
		return errors.New("ai max tokens must not be negative")
	}
	if c.Engine.ClassifierTimeout <= 0 {
		return errors.New("classifier timeout must be positive")
	}
	if c.Sinks.AMQPEnabled() && c.Sinks.AMQPExchange == "" {
		return errors.New("amqp exchange required when AMQP_URL is set")
	}
	return nil
}

// ConfigureLogging applies the level and format to the standard logrus logger.
func (c ServerConfig) ConfigureLogging() {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if c.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

func lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
