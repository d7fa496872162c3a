package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every variable, e.g. SUPPORTHUB_PORT.
const EnvPrefix = "SUPPORTHUB"

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	// Without a database the service runs on in-memory repositories.
	DatabaseURL             string        `envconfig:"DATABASE_URL"`
	DatabaseMaxConns        int32         `envconfig:"DATABASE_MAX_CONNS" default:"10"`
	DatabaseConnectAttempts int           `envconfig:"DATABASE_CONNECT_ATTEMPTS" default:"5"`
	DatabaseRetryDelay      time.Duration `envconfig:"DATABASE_RETRY_DELAY" default:"1s"`

	SeedKnowledge        bool          `envconfig:"SEED_KNOWLEDGE" default:"true"`
	IndexRefreshInterval time.Duration `envconfig:"INDEX_REFRESH_INTERVAL" default:"30s"`

	// Assistant selection: backend proxy, then OpenAI, then the local knowledge assistant.
	AssistantBackendURL string        `envconfig:"ASSISTANT_BACKEND_URL"`
	AssistantTimeout    time.Duration `envconfig:"ASSISTANT_TIMEOUT" default:"30s"`

	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel   string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"supporthub-uploads"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`

	MaxUploadBytes int64 `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`

	RedisURL       string   `envconfig:"REDIS_URL"`
	RateLimitQPS   int      `envconfig:"RATE_LIMIT_QPS" default:"5"`
	// Proxies (CIDRs or addresses) whose X-Forwarded-For the rate limiter believes.
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES"`

	KafkaBrokers     []string `envconfig:"KAFKA_BROKERS"`
	KafkaTicketTopic string   `envconfig:"KAFKA_TICKET_TOPIC" default:"support.tickets"`

	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.RateLimitQPS < 0 {
		return nil, fmt.Errorf("RATE_LIMIT_QPS must not be negative")
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}

	return &cfg, nil
}

func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) HasAssistantBackend() bool {
	return c.AssistantBackendURL != ""
}

func (c *Config) HasRedis() bool {
	return c.RedisURL != "" && c.RateLimitQPS > 0
}

func (c *Config) HasKafka() bool {
	return len(c.KafkaBrokers) > 0 && c.KafkaTicketTopic != ""
}

func (c *Config) HasSentry() bool {
	return c.SentryDSN != ""
}

// TracesSampleRate samples everything in development and 10% elsewhere.
func (c *Config) TracesSampleRate() float64 {
	if c.Environment == "development" {
		return 1.0
	}
	return 0.1
}
