// Package config loads docchat configuration.
//
// Values are layered in this order, later layers winning:
// defaults, config files (TOML, or YAML by extension), a .env file,
// environment variables, and finally command line flags applied by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/0xcro3dile/docchat-go/internal/adapters/llm"
	"github.com/0xcro3dile/docchat-go/internal/domain/apperr"
)

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `toml:"server" yaml:"server"`
	Documents DocumentsConfig `toml:"documents" yaml:"documents"`
	LLM       LLMConfig       `toml:"llm" yaml:"llm"`
	Audit     AuditConfig     `toml:"audit" yaml:"audit"`
	Logging   LoggingConfig   `toml:"logging" yaml:"logging"`
}

type ServerConfig struct {
	Host           string `toml:"host" yaml:"host" validate:"required"`
	Port           int    `toml:"port" yaml:"port" validate:"min=1,max=65535"`
	ReadTimeout    string `toml:"read_timeout" yaml:"read_timeout" validate:"omitempty,duration"`
	WriteTimeout   string `toml:"write_timeout" yaml:"write_timeout" validate:"omitempty,duration"`
	RequestTimeout string `toml:"request_timeout" yaml:"request_timeout" validate:"omitempty,duration"` // whole-request deadline for /chat/
}

type DocumentsConfig struct {
	Path            string   `toml:"path" yaml:"path" validate:"required"`
	Extensions      []string `toml:"extensions" yaml:"extensions"` // empty means every supported extension
	Workers         int      `toml:"workers" yaml:"workers" validate:"gte=0"`
	Watch           bool     `toml:"watch" yaml:"watch"`
	WatchDebounce   string   `toml:"watch_debounce" yaml:"watch_debounce" validate:"omitempty,duration"`
	RefreshSchedule string   `toml:"refresh_schedule" yaml:"refresh_schedule"` // cron spec, empty disables
}

type LLMConfig struct {
	Provider    string  `toml:"provider" yaml:"provider" validate:"oneof=openai claude gemini ollama"`
	Model       string  `toml:"model" yaml:"model"`
	Temperature float64 `toml:"temperature" yaml:"temperature" validate:"gte=0,lte=1"`
	MaxTokens   int     `toml:"max_tokens" yaml:"max_tokens" validate:"gt=0"`
	Timeout     string  `toml:"timeout" yaml:"timeout" validate:"omitempty,duration"`
	RateLimit   float64 `toml:"rate_limit" yaml:"rate_limit" validate:"gte=0"` // requests per minute, 0 disables
	Burst       int     `toml:"burst" yaml:"burst" validate:"gte=0"`
	BaseURL     string  `toml:"base_url" yaml:"base_url" validate:"omitempty,url"`
	APIKey      string  `toml:"api_key" yaml:"api_key"`
}

type AuditConfig struct {
	Enabled    bool   `toml:"enabled" yaml:"enabled"`
	Path       string `toml:"path" yaml:"path" validate:"required_if=Enabled true"`
	LogQueries bool   `toml:"log_queries" yaml:"log_queries"`
}

type LoggingConfig struct {
	Level  string   `toml:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Output []string `toml:"output" yaml:"output" validate:"dive,oneof=stdout file"`
	File   string   `toml:"file" yaml:"file"`
}

// NewDefaultConfig returns the built-in defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8000,
			ReadTimeout:    "15s",
			WriteTimeout:   "90s",
			RequestTimeout: "75s",
		},
		Documents: DocumentsConfig{
			Path:          "./docs",
			Workers:       4,
			WatchDebounce: "2s",
		},
		LLM: LLMConfig{
			Provider:    llm.ProviderOpenAI,
			Temperature: 0.7,
			MaxTokens:   500,
			Timeout:     "60s",
		},
		Audit: AuditConfig{
			Path: "./data/audit.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
			File:   "./logs/docchat.log",
		},
	}
}

// Load builds a config from defaults, the given files in order, and the
// environment. Empty paths are skipped.
func Load(paths ...string) (*Config, error) {
	cfg := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := cfg.mergeFile(path); err != nil {
			return nil, apperr.Wrap(err, apperr.CodeStartupConfig, "invalid configuration file").WithDetail("path", path)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, apperr.Wrap(err, apperr.CodeStartupConfig, "invalid environment variable")
	}
	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files (".env" when none are
// named) without overriding variables already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = toml.Unmarshal(data, c)
	}
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies environment variables on top of file values.
func applyEnvOverrides(c *Config) error {
	setString := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := os.Getenv(k); v != "" {
				*dst = v
				return
			}
		}
	}

	setString(&c.Server.Host, "DOCCHAT_SERVER_HOST", "HOST")
	if v := firstEnv("DOCCHAT_SERVER_PORT", "PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("port %q: %w", v, err)
		}
		c.Server.Port = p
	}

	setString(&c.Documents.Path, "DOCCHAT_DOCS_PATH", "DOCS_PATH")
	if v := os.Getenv("DOCCHAT_DOCS_EXTENSIONS"); v != "" {
		c.Documents.Extensions = splitList(v)
	}
	if v := os.Getenv("DOCCHAT_DOCS_WATCH"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DOCCHAT_DOCS_WATCH %q: %w", v, err)
		}
		c.Documents.Watch = b
	}
	setString(&c.Documents.RefreshSchedule, "DOCCHAT_DOCS_REFRESH_SCHEDULE")

	setString(&c.LLM.Provider, "DOCCHAT_LLM_PROVIDER")
	c.LLM.Provider = strings.ToLower(c.LLM.Provider)
	setString(&c.LLM.Model, "DOCCHAT_LLM_MODEL")
	setString(&c.LLM.BaseURL, "DOCCHAT_LLM_BASE_URL")
	setString(&c.LLM.Timeout, "DOCCHAT_LLM_TIMEOUT")
	setString(&c.LLM.APIKey, "DOCCHAT_LLM_API_KEY")
	if c.LLM.APIKey == "" {
		if key := providerKeyEnv(c.LLM.Provider); key != "" {
			c.LLM.APIKey = os.Getenv(key)
		}
	}

	if v := os.Getenv("DOCCHAT_AUDIT_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DOCCHAT_AUDIT_ENABLED %q: %w", v, err)
		}
		c.Audit.Enabled = b
	}
	setString(&c.Audit.Path, "DOCCHAT_AUDIT_PATH")

	setString(&c.Logging.Level, "DOCCHAT_LOG_LEVEL")
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	if v := os.Getenv("DOCCHAT_LOG_OUTPUT"); v != "" {
		c.Logging.Output = splitList(v)
	}
	return nil
}

// providerKeyEnv names the conventional API key variable of a provider.
func providerKeyEnv(provider string) string {
	switch provider {
	case llm.ProviderOpenAI, "":
		return "OPENAI_API_KEY"
	case llm.ProviderClaude:
		return "ANTHROPIC_API_KEY"
	case llm.ProviderGemini:
		return "GEMINI_API_KEY"
	}
	return ""
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks field ranges and formats.
func (c *Config) Validate() error {
	v := validator.New()
	_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		_, err := time.ParseDuration(fl.Field().String())
		return err == nil
	})

	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return apperr.Wrap(err, apperr.CodeStartupConfig, "invalid configuration: "+strings.Join(fields, ", "))
		}
		return apperr.Wrap(err, apperr.CodeStartupConfig, "invalid configuration")
	}
	return nil
}

// RequireCredentials fails when the selected provider needs an API key and
// none is configured. Ollama needs none.
func (c *Config) RequireCredentials() error {
	if !llm.RequiresAPIKey(c.LLM.Provider) || c.LLM.APIKey != "" {
		return nil
	}
	return apperr.StartupConfig(fmt.Sprintf("%s not found in environment variables", providerKeyEnv(c.LLM.Provider))).
		WithDetail("provider", c.LLM.Provider)
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (s ServerConfig) ReadTimeoutDuration() time.Duration {
	return parseDuration(s.ReadTimeout, 15*time.Second)
}

func (s ServerConfig) WriteTimeoutDuration() time.Duration {
	return parseDuration(s.WriteTimeout, 90*time.Second)
}

// RequestTimeoutDuration returns 0 when no per-request deadline applies.
func (s ServerConfig) RequestTimeoutDuration() time.Duration {
	return parseDuration(s.RequestTimeout, 0)
}

func (d DocumentsConfig) WatchDebounceDuration() time.Duration {
	return parseDuration(d.WatchDebounce, 2*time.Second)
}

func (l LLMConfig) TimeoutDuration() time.Duration {
	return parseDuration(l.Timeout, 60*time.Second)
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return def
	}
	return d
}
