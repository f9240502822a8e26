package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeCloud Mode = "cloud"
)

// LLM providers understood by the completion gateway.
const (
	ProviderMock   = "mock"
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// DefaultVoiceWidgetURL is the embedded voice assistant shown on the voice panel.
const DefaultVoiceWidgetURL = "https://widget.synthflow.ai/widget/v2/1732025003345x935396384966841900/1732025003254x795626211022958600"

type Config struct {
	Mode Mode

	Port     string
	LogLevel string

	LLMProvider string // "mock", "gemini" or "openai"

	GCPProjectID string
	GCPLocation  string
	ModelName    string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	CompletionTimeout time.Duration
	HistoryLimit      int

	MaxImageBytes  int64
	VoiceWidgetURL string

	RateLimitRPS   float64
	RateLimitBurst int
}

// SetDefaults registers every key with its default and binds FLUID_* env vars.
func SetDefaults(v *viper.Viper) {
	v.SetEnvPrefix("FLUID")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", string(ModeLocal))
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("llm_provider", "")
	v.SetDefault("gcp_project", "")
	v.SetDefault("gcp_location", "us-central1")
	v.SetDefault("model_name", "gemini-2.5-flash-lite")
	v.SetDefault("openai_api_key", "")
	v.SetDefault("openai_base_url", "")
	v.SetDefault("openai_model", "gpt-4o-mini")
	v.SetDefault("completion_timeout", 30*time.Second)
	v.SetDefault("history_limit", 20)
	v.SetDefault("max_image_bytes", int64(10<<20))
	v.SetDefault("voice_widget_url", DefaultVoiceWidgetURL)
	v.SetDefault("rate_limit_rps", 10.0)
	v.SetDefault("rate_limit_burst", 20)
}

// LoadDotEnv reads .env style files into the process environment.
// Missing files are not an error.
func LoadDotEnv(files ...string) {
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// Load builds the config from v. SetDefaults must have been called on v.
func Load(v *viper.Viper) (*Config, error) {
	var mode Mode
	switch strings.ToLower(v.GetString("mode")) {
	case "cloud", "gcp":
		mode = ModeCloud
	default:
		mode = ModeLocal
	}

	cfg := &Config{
		Mode: mode,

		Port:     v.GetString("port"),
		LogLevel: v.GetString("log_level"),

		LLMProvider: strings.ToLower(strings.TrimSpace(v.GetString("llm_provider"))),

		GCPProjectID: v.GetString("gcp_project"),
		GCPLocation:  v.GetString("gcp_location"),
		ModelName:    v.GetString("model_name"),

		OpenAIAPIKey:  v.GetString("openai_api_key"),
		OpenAIBaseURL: v.GetString("openai_base_url"),
		OpenAIModel:   v.GetString("openai_model"),

		CompletionTimeout: v.GetDuration("completion_timeout"),
		HistoryLimit:      v.GetInt("history_limit"),

		MaxImageBytes:  v.GetInt64("max_image_bytes"),
		VoiceWidgetURL: v.GetString("voice_widget_url"),

		RateLimitRPS:   v.GetFloat64("rate_limit_rps"),
		RateLimitBurst: v.GetInt("rate_limit_burst"),
	}

	// local mode talks to the mock unless told otherwise
	if cfg.LLMProvider == "" {
		if cfg.Mode == ModeLocal {
			cfg.LLMProvider = ProviderMock
		} else {
			cfg.LLMProvider = ProviderGemini
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.LLMProvider {
	case ProviderMock:
	case ProviderGemini:
		if c.GCPProjectID == "" || c.GCPLocation == "" {
			return errors.New("FLUID_GCP_PROJECT and FLUID_GCP_LOCATION must be set for the gemini provider")
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return errors.New("FLUID_OPENAI_API_KEY must be set for the openai provider")
		}
	default:
		return errors.Errorf("unknown llm provider %q", c.LLMProvider)
	}

	if c.Port == "" {
		return errors.New("port must not be empty")
	}
	if c.CompletionTimeout <= 0 {
		return errors.New("completion_timeout must be positive")
	}
	if c.HistoryLimit < 0 {
		return errors.New("history_limit must not be negative")
	}
	if c.MaxImageBytes <= 0 {
		return errors.New("max_image_bytes must be positive")
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return errors.New("rate limits must not be negative")
	}
	return nil
}
