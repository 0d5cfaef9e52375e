package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported LLM providers
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Supported history backends
const (
	HistoryJSON     = "json"
	HistoryPostgres = "postgres"
)

// Providers lists the LLM providers in display order
var Providers = []string{ProviderGemini, ProviderOpenAI, ProviderAnthropic}

// AvailableModels lists the models offered per provider
var AvailableModels = map[string][]string{
	ProviderGemini:    {"gemini-2.5-flash", "gemini-2.5-flash-lite", "gemini-2.5-pro", "gemini-1.5-flash", "gemini-1.5-pro"},
	ProviderOpenAI:    {"gpt-4o", "gpt-4o-mini", "gpt-4-turbo"},
	ProviderAnthropic: {"claude-3-5-sonnet-20241022", "claude-3-opus-20240229"},
}

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	LLM       LLMConfig
	Profile   ProfileConfig
	History   HistoryConfig
	Cache     CacheConfig
	Fetcher   FetcherConfig
	Parser    ParserConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LLMConfig selects and configures the text generation provider
type LLMConfig struct {
	Provider          string `mapstructure:"provider"`
	GeminiAPIKey      string `mapstructure:"gemini_api_key"`
	GeminiModel       string `mapstructure:"gemini_model"`
	OpenAIAPIKey      string `mapstructure:"openai_api_key"`
	OpenAIModel       string `mapstructure:"openai_model"`
	AnthropicAPIKey   string `mapstructure:"anthropic_api_key"`
	AnthropicModel    string `mapstructure:"anthropic_model"`
	MaxTokens         int    `mapstructure:"max_tokens"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
}

// APIKey returns the key for the selected provider
func (c LLMConfig) APIKey() string {
	switch c.Provider {
	case ProviderGemini:
		return c.GeminiAPIKey
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	case ProviderAnthropic:
		return c.AnthropicAPIKey
	}
	return ""
}

// Model returns the model name for the selected provider
func (c LLMConfig) Model() string {
	switch c.Provider {
	case ProviderGemini:
		return c.GeminiModel
	case ProviderOpenAI:
		return c.OpenAIModel
	case ProviderAnthropic:
		return c.AnthropicModel
	}
	return ""
}

// ProfileConfig describes the freelancer bids are written for
type ProfileConfig struct {
	Name               string   `mapstructure:"name"`
	GitHub             string   `mapstructure:"github"`
	LinkedIn           string   `mapstructure:"linkedin"`
	Resume             string   `mapstructure:"resume"`
	Skills             []string `mapstructure:"skills"`
	DefaultTurnaround  string   `mapstructure:"default_turnaround"`
	IncludeSamples     bool     `mapstructure:"include_samples"`
	CompetitivePricing bool     `mapstructure:"competitive_pricing"`
}

// HistoryConfig selects the bid history backend
type HistoryConfig struct {
	Backend     string `mapstructure:"backend"` // "json" or "postgres"
	Path        string `mapstructure:"path"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// FetcherConfig controls the headless browser page fetcher
type FetcherConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Timeout    time.Duration `mapstructure:"timeout"`
	ChromePath string        `mapstructure:"chrome_path"`
}

// ParserConfig holds listing parser options
type ParserConfig struct {
	Debug bool `mapstructure:"debug"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// envAliases binds the plain variable names used in .env files
var envAliases = map[string]string{
	"llm.provider":                "AI_PROVIDER",
	"llm.gemini_api_key":          "GEMINI_API_KEY",
	"llm.gemini_model":            "GEMINI_MODEL",
	"llm.openai_api_key":          "OPENAI_API_KEY",
	"llm.openai_model":            "OPENAI_MODEL",
	"llm.anthropic_api_key":       "ANTHROPIC_API_KEY",
	"llm.anthropic_model":         "ANTHROPIC_MODEL",
	"profile.name":                "YOUR_NAME",
	"profile.github":              "YOUR_GITHUB",
	"profile.linkedin":            "YOUR_LINKEDIN",
	"profile.resume":              "YOUR_RESUME",
	"profile.skills":              "YOUR_SKILLS",
	"profile.default_turnaround":  "DEFAULT_TURNAROUND",
	"profile.include_samples":     "INCLUDE_SAMPLES",
	"profile.competitive_pricing": "COMPETITIVE_PRICING",
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	loadEnvFile(".env")

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/bidwriter/")

	// Environment variable settings
	v.SetEnvPrefix("BIDWRITER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, alias := range envAliases {
		prefixed := "BIDWRITER_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, alias); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	config.LLM.Provider = strings.ToLower(strings.TrimSpace(config.LLM.Provider))
	config.Profile.Skills = cleanSkills(config.Profile.Skills)

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads variables from path without overriding ones already set
func loadEnvFile(path string) {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return
		}
		log.Printf("[CONFIG] Could not load %s: %v", path, err)
	}
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*", "chrome-extension://*"})

	// LLM defaults
	v.SetDefault("llm.provider", ProviderGemini)
	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.gemini_model", "gemini-2.5-flash")
	v.SetDefault("llm.openai_api_key", "")
	v.SetDefault("llm.openai_model", "gpt-4o")
	v.SetDefault("llm.anthropic_api_key", "")
	v.SetDefault("llm.anthropic_model", "claude-3-5-sonnet-20241022")
	v.SetDefault("llm.max_tokens", 2000)
	v.SetDefault("llm.requests_per_minute", 30)

	// Profile defaults
	v.SetDefault("profile.name", "")
	v.SetDefault("profile.github", "")
	v.SetDefault("profile.linkedin", "")
	v.SetDefault("profile.resume", "")
	v.SetDefault("profile.skills", []string{"Python", "JavaScript", "Web Scraping", "Data Science"})
	v.SetDefault("profile.default_turnaround", "24-48 hours")
	v.SetDefault("profile.include_samples", true)
	v.SetDefault("profile.competitive_pricing", true)

	// History defaults
	v.SetDefault("history.backend", HistoryJSON)
	v.SetDefault("history.path", ".bid_history.json")
	v.SetDefault("history.postgres_dsn", "")

	// Cache defaults
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_interval", "10m")

	// Fetcher defaults
	v.SetDefault("fetcher.enabled", false)
	v.SetDefault("fetcher.timeout", "45s")
	v.SetDefault("fetcher.chrome_path", "")

	// Parser defaults
	v.SetDefault("parser.debug", false)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)
}

// cleanSkills trims skill names and drops empty entries
func cleanSkills(skills []string) []string {
	cleaned := make([]string, 0, len(skills))
	for _, skill := range skills {
		if s := strings.TrimSpace(skill); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	return cleaned
}

// validate validates the configuration
func validate(config *Config) error {
	if _, ok := AvailableModels[config.LLM.Provider]; !ok {
		return fmt.Errorf("llm provider must be one of %v, got: %q", Providers, config.LLM.Provider)
	}

	if config.LLM.RequestsPerMinute <= 0 {
		return fmt.Errorf("llm requests_per_minute must be positive, got: %d", config.LLM.RequestsPerMinute)
	}

	if config.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm max_tokens must be positive, got: %d", config.LLM.MaxTokens)
	}

	if config.History.Backend != HistoryJSON && config.History.Backend != HistoryPostgres {
		return fmt.Errorf("history backend must be 'json' or 'postgres', got: %s", config.History.Backend)
	}

	if config.History.Backend == HistoryPostgres && config.History.PostgresDSN == "" {
		return fmt.Errorf("postgres DSN is required when history backend is 'postgres'")
	}

	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("ratelimit per_ip must be positive, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
