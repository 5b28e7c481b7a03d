// Package config resolves runtime settings: built-in defaults, then an
// optional YAML file, then environment variables. API keys are only ever
// read from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"

	"github.com/hammamikhairi/calcsite/internal/domain"
	"github.com/hammamikhairi/calcsite/internal/logger"
	"github.com/hammamikhairi/calcsite/internal/state"
)

// DefaultFile is read when no explicit path is given and it exists.
const DefaultFile = "calcsite.yaml"

// Assistant providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

// Environment variables.
const (
	EnvDB          = "CALCSITE_DB"
	EnvCurrency    = "CALCSITE_CURRENCY"
	EnvLogLevel    = "CALCSITE_LOG_LEVEL"
	EnvLogFile     = "CALCSITE_LOG_FILE"
	EnvMetricsAddr = "CALCSITE_METRICS_ADDR"
	EnvProvider    = "CALCSITE_AI_PROVIDER"
	EnvAIKey       = "CALCSITE_AI_KEY"
	EnvGeminiKey   = "GEMINI_API_KEY"
	EnvAPIKey      = "API_KEY"
	EnvGPTKey      = "GPT_CHAT_KEY"
	EnvGPTEndpoint = "GPT_CHAT_ENDPOINT"
)

// Assistant configures the AI backend.
type Assistant struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Endpoint    string  `yaml:"endpoint"`
	Temperature float64 `yaml:"temperature"`
	Timeout     string  `yaml:"timeout"`

	APIKey string `yaml:"-"`
}

// TimeoutDuration parses Timeout, falling back to 30s.
func (a Assistant) TimeoutDuration() time.Duration {
	d, err := cast.ToDurationE(a.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// Config is the resolved runtime configuration.
type Config struct {
	DBPath           string                 `yaml:"db_path"`
	Currency         string                 `yaml:"currency"`
	Theme            string                 `yaml:"theme"`
	RawRates         map[string]interface{} `yaml:"rates"`
	LogLevel         string                 `yaml:"log_level"`
	LogFile          string                 `yaml:"log_file"`
	MetricsAddr      string                 `yaml:"metrics_addr"`
	PerProjectLedger bool                   `yaml:"per_project_ledger"`
	Assistant        Assistant              `yaml:"assistant"`

	// Rates is RawRates decoded; only keys present in the file.
	Rates domain.Rates `yaml:"-"`
	// Source is the file that was read, if any.
	Source string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DBPath:   state.DefaultPath,
		LogLevel: "normal",
		LogFile:  ".calcsite/calcsite.log",
		Assistant: Assistant{
			Provider:    ProviderGemini,
			Temperature: 0.7,
			Timeout:     "30s",
		},
	}
}

// Load resolves the configuration. path may be empty, in which case
// DefaultFile is used when present. getenv is usually os.Getenv.
func Load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.UnmarshalStrict(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
		cfg.Source = path
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	applyEnv(&cfg, getenv)

	rates, err := decodeRates(cfg.RawRates)
	if err != nil {
		return Config{}, err
	}
	cfg.Rates = rates

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&cfg.DBPath, EnvDB)
	set(&cfg.Currency, EnvCurrency)
	set(&cfg.LogLevel, EnvLogLevel)
	set(&cfg.LogFile, EnvLogFile)
	set(&cfg.MetricsAddr, EnvMetricsAddr)
	set(&cfg.Assistant.Provider, EnvProvider)

	a := &cfg.Assistant
	geminiKey := firstNonEmpty(getenv(EnvAIKey), getenv(EnvGeminiKey), getenv(EnvAPIKey))
	gptKey := strings.TrimSpace(getenv(EnvGPTKey))
	gptEndpoint := strings.TrimSpace(getenv(EnvGPTEndpoint))

	// Without a Gemini key, a complete GPT pair selects that backend.
	if geminiKey == "" && gptKey != "" && gptEndpoint != "" && getenv(EnvProvider) == "" {
		a.Provider = ProviderOpenAI
	}
	switch a.Provider {
	case ProviderOpenAI:
		a.APIKey = gptKey
		if gptEndpoint != "" {
			a.Endpoint = gptEndpoint
		}
	case ProviderGemini:
		a.APIKey = geminiKey
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// decodeRates turns YAML scalars into rates. Numbers may be written as
// strings ("450").
func decodeRates(raw map[string]interface{}) (domain.Rates, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	known := make(map[string]bool, len(domain.RateKeys))
	for _, k := range domain.RateKeys {
		known[k] = true
	}
	out := make(domain.Rates, len(raw))
	for k, v := range raw {
		if !known[k] {
			return nil, fmt.Errorf("config: rate %q: %w", k, domain.ErrInvalidRate)
		}
		f, err := cast.ToFloat64E(v)
		if err != nil || f <= 0 {
			return nil, fmt.Errorf("config: rate %s=%v: %w", k, v, domain.ErrInvalidRate)
		}
		out[k] = f
	}
	return out, nil
}

// Validate checks the resolved values.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.DBPath, validation.Required),
		validation.Field(&c.Currency, validation.By(knownCurrency)),
		validation.Field(&c.Theme, validation.In(domain.ThemeDark, domain.ThemeLight)),
		validation.Field(&c.LogLevel, validation.By(logLevel)),
	)
	if err != nil {
		return err
	}
	a := c.Assistant
	return validation.ValidateStruct(&a,
		validation.Field(&a.Provider, validation.Required, validation.In(ProviderGemini, ProviderOpenAI, ProviderNone)),
		validation.Field(&a.Temperature, validation.Min(0.0), validation.Max(2.0)),
		validation.Field(&a.Timeout, validation.By(duration)),
	)
}

func knownCurrency(v interface{}) error {
	code, _ := v.(string)
	if code == "" {
		return nil
	}
	if _, ok := domain.LookupCurrency(code); !ok {
		return domain.ErrUnknownCurrency
	}
	return nil
}

func logLevel(v interface{}) error {
	_, err := logger.ParseLevel(cast.ToString(v))
	return err
}

func duration(v interface{}) error {
	s := cast.ToString(v)
	if s == "" {
		return nil
	}
	if _, err := time.ParseDuration(s); err != nil {
		return errors.New("must be a duration such as 30s")
	}
	return nil
}
