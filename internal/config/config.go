// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonathan/cv-tailor/internal/llm"
	"github.com/jonathan/cv-tailor/internal/types"
)

// EnvPrefix prefixes every environment variable the config reads, e.g. CV_TAILOR_API_KEY.
const EnvPrefix = "CV_TAILOR"

// Default values applied when neither the config file nor the environment set a field.
const (
	DefaultPort                = 8080
	DefaultSemanticConcurrency = 8
	DefaultRequestsPerMinute   = 10
	DefaultBurst               = 2
	DefaultJWTExpirationHours  = 24
)

// Config represents the configuration loaded from a cv-tailor.{json,yaml} file and
// CV_TAILOR_* environment variables. All fields are optional.
type Config struct {
	// Model
	APIKey      string            `mapstructure:"api_key" json:"api_key,omitempty"`   // Gemini API key
	Provider    string            `mapstructure:"provider" json:"provider,omitempty"` // only "gemini"
	Models      map[string]string `mapstructure:"models" json:"models,omitempty"`     // tier -> model name
	Temperature float32           `mapstructure:"temperature" json:"temperature,omitempty"`
	Breaker     BreakerConfig     `mapstructure:"breaker" json:"breaker"`

	// Tailoring defaults
	Style               string `mapstructure:"style" json:"style,omitempty"`
	MaxExperiences      int    `mapstructure:"max_experiences" json:"max_experiences,omitempty"`
	SemanticConcurrency int    `mapstructure:"semantic_concurrency" json:"semantic_concurrency,omitempty"`

	// Storage and server
	DatabaseURL string          `mapstructure:"database_url" json:"database_url,omitempty"` // PostgreSQL connection URL
	Port        int             `mapstructure:"port" json:"port,omitempty"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit" json:"rate_limit"`
	JWTSecret   string          `mapstructure:"jwt_secret" json:"jwt_secret,omitempty"` // empty disables bearer auth
	JWTHours    int             `mapstructure:"jwt_expiration_hours" json:"jwt_expiration_hours,omitempty"`

	// Output
	LogJSON bool `mapstructure:"log_json" json:"log_json,omitempty"`
	Verbose bool `mapstructure:"verbose" json:"verbose,omitempty"` // print stage boxes
}

// BreakerConfig configures the circuit breaker in front of the model.
type BreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled" json:"enabled"`
	MaxRequests      uint32        `mapstructure:"max_requests" json:"max_requests,omitempty"`
	Interval         time.Duration `mapstructure:"interval" json:"interval,omitempty"`
	Timeout          time.Duration `mapstructure:"timeout" json:"timeout,omitempty"`
	MinRequests      uint32        `mapstructure:"min_requests" json:"min_requests,omitempty"`
	FailureThreshold float64       `mapstructure:"failure_threshold" json:"failure_threshold,omitempty"`
}

// RateLimitConfig configures the per-client limiter on tailoring endpoints.
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled" json:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute" json:"requests_per_minute,omitempty"`
	Burst             int  `mapstructure:"burst" json:"burst,omitempty"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	llmDefaults := llm.DefaultConfig()
	models := make(map[string]string, len(llmDefaults.Models))
	for tier, model := range llmDefaults.Models {
		models[string(tier)] = model
	}
	return Config{
		Provider:    string(llmDefaults.Provider),
		Models:      models,
		Temperature: llmDefaults.Temperature,
		Breaker: BreakerConfig{
			Enabled:          llmDefaults.Breaker.Enabled,
			MaxRequests:      llmDefaults.Breaker.MaxRequests,
			Interval:         llmDefaults.Breaker.Interval,
			Timeout:          llmDefaults.Breaker.Timeout,
			MinRequests:      llmDefaults.Breaker.MinRequests,
			FailureThreshold: llmDefaults.Breaker.FailureThreshold,
		},
		Style:               string(types.StyleSelectAndReorder),
		MaxExperiences:      types.DefaultMaxExperiences,
		SemanticConcurrency: DefaultSemanticConcurrency,
		Port:                DefaultPort,
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: DefaultRequestsPerMinute,
			Burst:             DefaultBurst,
		},
		JWTHours: DefaultJWTExpirationHours,
	}
}

// setDefaults registers every key with viper so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("api_key", "")
	v.SetDefault("provider", d.Provider)
	v.SetDefault("models", d.Models)
	v.SetDefault("temperature", d.Temperature)
	v.SetDefault("breaker.enabled", d.Breaker.Enabled)
	v.SetDefault("breaker.max_requests", d.Breaker.MaxRequests)
	v.SetDefault("breaker.interval", d.Breaker.Interval)
	v.SetDefault("breaker.timeout", d.Breaker.Timeout)
	v.SetDefault("breaker.min_requests", d.Breaker.MinRequests)
	v.SetDefault("breaker.failure_threshold", d.Breaker.FailureThreshold)
	v.SetDefault("style", d.Style)
	v.SetDefault("max_experiences", d.MaxExperiences)
	v.SetDefault("semantic_concurrency", d.SemanticConcurrency)
	v.SetDefault("database_url", "")
	v.SetDefault("port", d.Port)
	v.SetDefault("rate_limit.enabled", d.RateLimit.Enabled)
	v.SetDefault("rate_limit.requests_per_minute", d.RateLimit.RequestsPerMinute)
	v.SetDefault("rate_limit.burst", d.RateLimit.Burst)
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_expiration_hours", d.JWTHours)
	v.SetDefault("log_json", false)
	v.SetDefault("verbose", false)
}

// Load reads configuration from path, or from cv-tailor.{json,yaml} in the working
// directory or $HOME/.cv-tailor when path is empty. A missing default file is not an error;
// a missing explicit path is. Environment variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// GEMINI_API_KEY is honored as well, matching the provider's own tooling.
	if err := v.BindEnv("api_key", EnvPrefix+"_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind api key environment: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("cv-tailor")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.cv-tailor")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Missing API keys are not an error here: stages that need the model report that themselves.
func (c *Config) Validate() error {
	if c.Provider != "" && c.Provider != string(llm.ProviderGemini) {
		return fmt.Errorf("config error: unsupported provider %q", c.Provider)
	}
	for tier := range c.Models {
		switch llm.ModelTier(tier) {
		case llm.TierLite, llm.TierStandard, llm.TierAdvanced:
		default:
			return fmt.Errorf("config error: unknown model tier %q", tier)
		}
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("config error: 'temperature' must be between 0 and 2")
	}

	switch types.Style(c.Style) {
	case "", types.StyleSelectAndReorder, types.StyleRewriteBullets, types.StyleLLMTailor:
	default:
		return fmt.Errorf("config error: unknown style %q", c.Style)
	}
	if c.MaxExperiences < 0 || c.MaxExperiences > 20 {
		return fmt.Errorf("config error: 'max_experiences' must be between 0 and 20")
	}
	if c.SemanticConcurrency < 0 {
		return fmt.Errorf("config error: 'semantic_concurrency' must be non-negative")
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.RateLimit.RequestsPerMinute < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("config error: rate limits must be non-negative")
	}
	if c.JWTHours < 0 {
		return fmt.Errorf("config error: 'jwt_expiration_hours' must be non-negative")
	}
	if c.Breaker.FailureThreshold < 0 || c.Breaker.FailureThreshold > 1 {
		return fmt.Errorf("config error: 'breaker.failure_threshold' must be between 0 and 1")
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Style == "" {
		result.Style = defaults.Style
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.JWTSecret == "" {
		result.JWTSecret = defaults.JWTSecret
	}

	// Models are merged per tier
	if len(defaults.Models) > 0 {
		models := make(map[string]string, len(defaults.Models)+len(result.Models))
		for tier, model := range defaults.Models {
			models[tier] = model
		}
		for tier, model := range result.Models {
			if model != "" {
				models[tier] = model
			}
		}
		result.Models = models
	}

	// Numeric fields: use default if zero
	if result.Temperature == 0 {
		result.Temperature = defaults.Temperature
	}
	if result.MaxExperiences == 0 {
		result.MaxExperiences = defaults.MaxExperiences
	}
	if result.SemanticConcurrency == 0 {
		result.SemanticConcurrency = defaults.SemanticConcurrency
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.JWTHours == 0 {
		result.JWTHours = defaults.JWTHours
	}
	if result.RateLimit.RequestsPerMinute == 0 {
		result.RateLimit.RequestsPerMinute = defaults.RateLimit.RequestsPerMinute
	}
	if result.RateLimit.Burst == 0 {
		result.RateLimit.Burst = defaults.RateLimit.Burst
	}
	if result.Breaker.MaxRequests == 0 {
		result.Breaker.MaxRequests = defaults.Breaker.MaxRequests
	}
	if result.Breaker.Interval == 0 {
		result.Breaker.Interval = defaults.Breaker.Interval
	}
	if result.Breaker.Timeout == 0 {
		result.Breaker.Timeout = defaults.Breaker.Timeout
	}
	if result.Breaker.MinRequests == 0 {
		result.Breaker.MinRequests = defaults.Breaker.MinRequests
	}
	if result.Breaker.FailureThreshold == 0 {
		result.Breaker.FailureThreshold = defaults.Breaker.FailureThreshold
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// LLMConfig converts the model settings into the client's configuration.
func (c *Config) LLMConfig() *llm.Config {
	out := llm.DefaultConfig()
	if c.Provider != "" {
		out.Provider = llm.Provider(c.Provider)
	}
	for tier, model := range c.Models {
		if model != "" {
			out = out.WithModel(llm.ModelTier(tier), model)
		}
	}
	if c.Temperature > 0 {
		out.Temperature = c.Temperature
	}
	out.Breaker = llm.BreakerSettings{
		Enabled:          c.Breaker.Enabled,
		MaxRequests:      c.Breaker.MaxRequests,
		Interval:         c.Breaker.Interval,
		Timeout:          c.Breaker.Timeout,
		MinRequests:      c.Breaker.MinRequests,
		FailureThreshold: c.Breaker.FailureThreshold,
	}
	return out
}
