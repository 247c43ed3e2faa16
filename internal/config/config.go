package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration loaded from the environment.
type Config struct {
	// Server
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Upload limits
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"` // 10MB in bytes

	// Store
	StoreProvider string `env:"STORE_PROVIDER" envDefault:"memory"` // "memory" or "postgres"
	DBURL         string `env:"DB_URL"`

	// Cache
	CacheProvider       string        `env:"CACHE_PROVIDER" envDefault:"none"` // "none" or "redis"
	RedisAddr           string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword       string        `env:"REDIS_PASSWORD"`
	SearchCacheTTL      time.Duration `env:"SEARCH_CACHE_TTL" envDefault:"10m"`
	TranslationCacheTTL time.Duration `env:"TRANSLATION_CACHE_TTL" envDefault:"24h"`

	// Events
	EventsProvider string `env:"EVENTS_PROVIDER" envDefault:"local"` // "local" or "nats"
	NATSURL        string `env:"NATS_URL"`

	// LLM providers
	OpenAIKey             string        `env:"OPENAI_API_KEY"`
	GeminiKey             string        `env:"GEMINI_API_KEY"`
	AnthropicKey          string        `env:"ANTHROPIC_API_KEY"`
	OllamaURL             string        `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
	LLMTimeout            time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`
	LLMConcurrentRequests int           `env:"LLM_CONCURRENT_REQUESTS" envDefault:"4"`

	// Web search
	SearchURL     string        `env:"SEARCH_URL" envDefault:"https://api.duckduckgo.com/"`
	SearchTimeout time.Duration `env:"SEARCH_TIMEOUT" envDefault:"10s"`

	// Session lifecycle; a zero TTL keeps sessions for the process lifetime.
	SessionTTL           time.Duration `env:"SESSION_TTL" envDefault:"0s"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"5m"`

	Defaults Defaults
}

// Defaults are the chat settings applied when a client sends none.
type Defaults struct {
	FileContentLimit      int    `env:"DEFAULT_FILE_CONTENT_LIMIT" envDefault:"5000"`
	TranslationLimit      int    `env:"DEFAULT_TRANSLATION_LIMIT" envDefault:"5000"`
	EnableTranslation     bool   `env:"DEFAULT_ENABLE_TRANSLATION" envDefault:"true"`
	EnableWebSearch       bool   `env:"DEFAULT_ENABLE_WEB_SEARCH" envDefault:"false"`
	WebSearchResultsLimit int    `env:"DEFAULT_WEB_SEARCH_RESULTS_LIMIT" envDefault:"5"`
	SystemPrompt          string `env:"DEFAULT_SYSTEM_PROMPT" envDefault:"You are AIO Travel Itinerary assistant. You help users create, analyze, and manage travel itineraries. You can translate content, extract detailed information, generate quotations, and provide comprehensive travel planning assistance."`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}
