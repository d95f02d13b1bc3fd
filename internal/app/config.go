package app

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"

	StoreMemory    = "memory"
	StorePostgres  = "postgres"
	StoreLibSQL    = "libsql"
	StoreRedis     = "redis"
	StorePostgREST = "postgrest"
)

type AIConfig struct {
	Provider        string
	AnthropicApiKey string
	AnthropicModel  string
	OAIApiKey       string
	OAIModel        string
	OAIBaseUrl      string
	OllamaHost      string
	OllamaModel     string
	RateLimit       float64
}

type StoreConfig struct {
	Type            string
	DatabaseUrl     string
	LibSQLUrl       string
	LibSQLAuthToken string
	RedisAddr       string
	RedisPrefix     string
	PostgRESTUrl    string
	PostgRESTApiKey string
}

type EventsConfig struct {
	NatsUrl       string
	PostHogApiKey string
	PostHogUrl    string
}

type Config struct {
	Port                string
	LogLevel            string
	LogFormat           string
	OTelEndpoint        string
	PlaceholderInterval time.Duration
	AI                  AIConfig
	Store               StoreConfig
	Events              EventsConfig
}

// LoadConfig reads config.yaml from the given directories (default "." and
// "./config") when present. Environment variables named after the upper-cased
// keys, such as GOPORT or ANTHROPIC_API_KEY, take precedence.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	setDefaults(v)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:                v.GetString("goport"),
		LogLevel:            v.GetString("log_level"),
		LogFormat:           v.GetString("log_format"),
		OTelEndpoint:        v.GetString("otel_endpoint"),
		PlaceholderInterval: v.GetDuration("placeholder_interval"),
		AI: AIConfig{
			Provider:        v.GetString("ai_provider"),
			AnthropicApiKey: v.GetString("anthropic_api_key"),
			AnthropicModel:  v.GetString("anthropic_model"),
			OAIApiKey:       v.GetString("oai_api_key"),
			OAIModel:        v.GetString("oai_model"),
			OAIBaseUrl:      v.GetString("oai_base_url"),
			OllamaHost:      v.GetString("ollama_host"),
			OllamaModel:     v.GetString("ollama_model"),
			RateLimit:       v.GetFloat64("ai_rate_limit"),
		},
		Store: StoreConfig{
			Type:            v.GetString("store"),
			DatabaseUrl:     v.GetString("database_url"),
			LibSQLUrl:       v.GetString("libsql_url"),
			LibSQLAuthToken: v.GetString("libsql_auth_token"),
			RedisAddr:       v.GetString("redis_addr"),
			RedisPrefix:     v.GetString("redis_prefix"),
			PostgRESTUrl:    v.GetString("postgrest_url"),
			PostgRESTApiKey: v.GetString("postgrest_api_key"),
		},
		Events: EventsConfig{
			NatsUrl:       v.GetString("nats_url"),
			PostHogApiKey: v.GetString("posthog_api_key"),
			PostHogUrl:    v.GetString("posthog_url"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("goport", "8000")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("placeholder_interval", 6*time.Second)

	v.SetDefault("ai_provider", ProviderAnthropic)
	v.SetDefault("anthropic_model", "claude-3-haiku-20240307")
	v.SetDefault("oai_model", "gpt-4o-mini")
	v.SetDefault("oai_base_url", "https://api.openai.com/v1")
	v.SetDefault("ollama_host", "http://localhost:11434")
	v.SetDefault("ollama_model", "llama3")
	v.SetDefault("ai_rate_limit", 0)

	v.SetDefault("store", StoreMemory)
	v.SetDefault("redis_prefix", "ideaspark")
	v.SetDefault("posthog_url", "https://eu.posthog.com")
}

func validate(cfg *Config) error {
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", cfg.LogFormat)
	}

	switch cfg.AI.Provider {
	case ProviderAnthropic:
		if cfg.AI.AnthropicApiKey == "" {
			slog.Error("ANTHROPIC_API_KEY environment variable not set")
		}
	case ProviderOpenAI:
		if cfg.AI.OAIApiKey == "" {
			slog.Error("OAI_API_KEY environment variable not set")
		}
	case ProviderOllama:
		if cfg.AI.OllamaHost == "" {
			return fmt.Errorf("ollama_host is required for the ollama provider")
		}
	default:
		return fmt.Errorf("unknown ai_provider %q", cfg.AI.Provider)
	}

	if cfg.AI.RateLimit < 0 {
		return fmt.Errorf("ai_rate_limit must not be negative")
	}

	switch cfg.Store.Type {
	case StoreMemory:
	case StorePostgres:
		if cfg.Store.DatabaseUrl == "" {
			return fmt.Errorf("database_url is required for the postgres store")
		}
	case StoreLibSQL:
		if cfg.Store.LibSQLUrl == "" {
			return fmt.Errorf("libsql_url is required for the libsql store")
		}
	case StoreRedis:
		if cfg.Store.RedisAddr == "" {
			return fmt.Errorf("redis_addr is required for the redis store")
		}
	case StorePostgREST:
		if cfg.Store.PostgRESTUrl == "" {
			return fmt.Errorf("postgrest_url is required for the postgrest store")
		}
	default:
		return fmt.Errorf("unknown store %q", cfg.Store.Type)
	}

	return nil
}
