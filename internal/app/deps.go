package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"aio-chat/internal/cache"
	"aio-chat/internal/chat"
	"aio-chat/internal/config"
	"aio-chat/internal/events"
	"aio-chat/internal/extract"
	"aio-chat/internal/llm"
	"aio-chat/internal/logger"
	"aio-chat/internal/search"
	"aio-chat/internal/store"
	"aio-chat/internal/translate"
)

// Deps bundles common runtime dependencies for the server.
type Deps struct {
	Config     config.Config
	Log        *slog.Logger
	Store      store.Store
	Cache      cache.Cache
	Events     events.Bus
	LLM        llm.Client
	Searcher   search.Searcher
	Translator translate.Translator
	Chat       *chat.Service
	Uploads    *chat.UploadProcessor
	Defaults   chat.Settings

	closers []io.Closer
}

// Component constructors used by Build.
var (
	openStore  = buildStore
	openCache  = buildCache
	openEvents = buildEvents
	openLLM    = buildLLM
)

// Build loads env, config, and shared components. A missing .env file is fine.
// On failure every component opened so far is closed.
func Build(ctx context.Context) (Deps, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Deps{}, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg := config.Load()
	return build(ctx, cfg, logger.New(cfg.LogLevel))
}

func build(ctx context.Context, cfg config.Config, log *slog.Logger) (deps Deps, err error) {
	deps = Deps{Config: cfg, Log: log}
	defer func() {
		if err == nil {
			return
		}
		if cerr := deps.Close(); cerr != nil {
			log.Warn("cleanup after failed build", "err", cerr)
		}
		deps = Deps{}
	}()

	if deps.Store, err = openStore(ctx, cfg, log); err != nil {
		return deps, fmt.Errorf("failed to initialize store: %w", err)
	}
	if deps.Cache, err = openCache(cfg, log); err != nil {
		return deps, fmt.Errorf("failed to initialize cache: %w", err)
	}
	if deps.Events, err = openEvents(cfg, log); err != nil {
		return deps, fmt.Errorf("failed to initialize events: %w", err)
	}
	router, closers, err := openLLM(ctx, cfg, log)
	deps.closers = closers
	if err != nil {
		return deps, fmt.Errorf("failed to initialize LLM: %w", err)
	}

	deps.LLM = router
	deps.Searcher = search.NewDuckDuckGo(log, cfg.SearchURL, cfg.SearchTimeout, deps.Cache, cfg.SearchCacheTTL)
	deps.Translator = translate.NewPhraseTranslator(log, deps.Cache, cfg.TranslationCacheTTL)
	deps.Defaults = chat.DefaultSettings(cfg.Defaults)
	deps.Wire()
	return deps, nil
}

// Wire builds the chat services from the components already set on d.
func (d *Deps) Wire() {
	d.Chat = chat.NewService(d.Log, d.Store, d.LLM, d.Searcher)
	d.Uploads = chat.NewUploadProcessor(d.Log, extract.New(), d.Translator)
}

// Close releases every component and reports all failures together.
func (d Deps) Close() error {
	var result *multierror.Error
	if d.Events != nil {
		if err := d.Events.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("events: %w", err))
		}
	}
	if d.Cache != nil {
		if err := d.Cache.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("cache: %w", err))
		}
	}
	if d.Store != nil {
		if err := d.Store.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("store: %w", err))
		}
	}
	for _, c := range d.closers {
		if err := c.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func buildStore(ctx context.Context, cfg config.Config, log *slog.Logger) (store.Store, error) {
	switch cfg.StoreProvider {
	case "memory", "":
		log.Info("using in-memory store")
		return store.NewMemory(), nil
	case "postgres":
		if cfg.DBURL == "" {
			return nil, fmt.Errorf("DB_URL is required when STORE_PROVIDER=postgres")
		}
		db, err := store.NewPostgres(ctx, cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres: %w", err)
		}
		log.Info("using Postgres store")
		return db, nil
	default:
		return nil, fmt.Errorf("invalid STORE_PROVIDER: %s (valid options: memory, postgres)", cfg.StoreProvider)
	}
}

func buildCache(cfg config.Config, log *slog.Logger) (cache.Cache, error) {
	switch cfg.CacheProvider {
	case "none", "":
		return cache.NewNoOpCache(), nil
	case "redis":
		c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("using Redis cache", "addr", cfg.RedisAddr)
		return c, nil
	default:
		return nil, fmt.Errorf("invalid CACHE_PROVIDER: %s (valid options: none, redis)", cfg.CacheProvider)
	}
}

func buildEvents(cfg config.Config, log *slog.Logger) (events.Bus, error) {
	switch cfg.EventsProvider {
	case "local", "":
		return events.NewLocal(), nil
	case "nats":
		if cfg.NATSURL == "" {
			return nil, fmt.Errorf("NATS_URL is required when EVENTS_PROVIDER=nats")
		}
		nc, err := nats.Connect(cfg.NATSURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		log.Info("using NATS events")
		return events.NewNATS(log, nc), nil
	default:
		return nil, fmt.Errorf("invalid EVENTS_PROVIDER: %s (valid options: local, nats)", cfg.EventsProvider)
	}
}

// buildLLM registers one client per provider. Gemini and Claude fall back to
// canned replies without a key; Ollama falls back on its own when unreachable.
// The returned closers are valid even when err is set.
func buildLLM(ctx context.Context, cfg config.Config, log *slog.Logger) (*llm.Router, []io.Closer, error) {
	router := llm.NewRouter(log, cfg.LLMTimeout, cfg.LLMConcurrentRequests)
	var closers []io.Closer

	if cfg.OpenAIKey != "" {
		client, err := llm.NewOpenAIClient(cfg.OpenAIKey)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
		}
		router.Register(llm.ProviderOpenAI, client)
	} else {
		log.Warn("OPENAI_API_KEY not set; OpenAI models will fail")
		router.Register(llm.ProviderOpenAI, llm.NewUnconfiguredClient("OPENAI_API_KEY"))
	}

	if cfg.GeminiKey != "" {
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiKey)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
		}
		router.Register(llm.ProviderGemini, client)
		closers = append(closers, client)
	} else {
		log.Info("GEMINI_API_KEY not set; Gemini models answer offline")
		router.Register(llm.ProviderGemini, llm.NewOfflineClient(llm.ProviderGemini))
	}

	if cfg.AnthropicKey != "" {
		client, err := llm.NewClaudeClient(cfg.AnthropicKey)
		if err != nil {
			return nil, closers, fmt.Errorf("failed to initialize Claude client: %w", err)
		}
		router.Register(llm.ProviderClaude, client)
	} else {
		log.Info("ANTHROPIC_API_KEY not set; Claude models answer offline")
		router.Register(llm.ProviderClaude, llm.NewOfflineClient(llm.ProviderClaude))
	}

	router.Register(llm.ProviderOllama, llm.NewOllamaClient(log, cfg.OllamaURL))
	log.Info("LLM providers registered", "ollama_url", cfg.OllamaURL, "timeout", cfg.LLMTimeout)
	return router, closers, nil
}
