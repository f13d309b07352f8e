package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Environment string           `yaml:"environment" mapstructure:"environment"`
	Server      ServerConfig     `yaml:"server" mapstructure:"server"`
	Log         LogConfig        `yaml:"log" mapstructure:"log"`
	Tavus       TavusConfig      `yaml:"tavus" mapstructure:"tavus"`
	Gemini      GeminiConfig     `yaml:"gemini" mapstructure:"gemini"`
	OpenAI      OpenAIConfig     `yaml:"openai" mapstructure:"openai"`
	Resend      ResendConfig     `yaml:"resend" mapstructure:"resend"`
	Sheets      SheetsConfig     `yaml:"sheets" mapstructure:"sheets"`
	Salesforce  SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Pipeline    PipelineConfig   `yaml:"pipeline" mapstructure:"pipeline"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// TavusConfig holds conversation vendor API settings.
type TavusConfig struct {
	APIKey      string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	CallbackURL string `yaml:"callback_url" mapstructure:"callback_url"`
	PersonaID   string `yaml:"persona_id" mapstructure:"persona_id"`
}

// GeminiConfig holds the primary LLM provider settings.
type GeminiConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// OpenAIConfig holds the fallback LLM provider settings.
type OpenAIConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// ResendConfig holds transactional email settings.
type ResendConfig struct {
	Key              string   `yaml:"key" mapstructure:"key"`
	BaseURL          string   `yaml:"base_url" mapstructure:"base_url"`
	From             string   `yaml:"from" mapstructure:"from"`
	SalesRecipients  []string `yaml:"sales_recipients" mapstructure:"sales_recipients"`
	InternalEmail    string   `yaml:"internal_email" mapstructure:"internal_email"`
	RepName          string   `yaml:"rep_name" mapstructure:"rep_name"`
	RepFrom          string   `yaml:"rep_from" mapstructure:"rep_from"`
	SendLeadFollowUp bool     `yaml:"send_lead_follow_up" mapstructure:"send_lead_follow_up"`
}

// SheetsConfig holds Google Sheets service-account settings.
type SheetsConfig struct {
	SpreadsheetID string `yaml:"spreadsheet_id" mapstructure:"spreadsheet_id"`
	Range         string `yaml:"range" mapstructure:"range"`
	ClientEmail   string `yaml:"client_email" mapstructure:"client_email"`
	PrivateKey    string `yaml:"private_key" mapstructure:"private_key"`
}

// SalesforceConfig holds client-credentials OAuth settings for the CRM sink.
type SalesforceConfig struct {
	Enabled      bool    `yaml:"enabled" mapstructure:"enabled"`
	ClientID     string  `yaml:"client_id" mapstructure:"client_id"`
	ClientSecret string  `yaml:"client_secret" mapstructure:"client_secret"`
	LoginURL     string  `yaml:"login_url" mapstructure:"login_url"`
	RateLimitRPS float64 `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
}

// PipelineConfig configures the lead-analysis pipeline.
type PipelineConfig struct {
	MinTranscriptChars int `yaml:"min_transcript_chars" mapstructure:"min_transcript_chars"`
	PollAttempts       int `yaml:"poll_attempts" mapstructure:"poll_attempts"`
	PollBaseDelaySecs  int `yaml:"poll_base_delay_secs" mapstructure:"poll_base_delay_secs"`
	TimeoutSecs        int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MORGAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("environment", "development")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("tavus.base_url", "https://tavusapi.com/v2")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("resend.base_url", "https://api.resend.com")
	v.SetDefault("resend.from", "Morgan AI <noreply@aifusionlabs.app>")
	v.SetDefault("resend.internal_email", "aifusionlabs@gmail.com")
	v.SetDefault("resend.rep_name", "Morgan")
	v.SetDefault("sheets.range", "Leads!A:R")
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
	v.SetDefault("salesforce.rate_limit_rps", 5)
	v.SetDefault("pipeline.min_transcript_chars", 200)
	v.SetDefault("pipeline.poll_attempts", 4)
	v.SetDefault("pipeline.poll_base_delay_secs", 2)
	v.SetDefault("pipeline.timeout_secs", 60)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	// Service-account keys arrive from env with literal \n sequences.
	cfg.Sheets.PrivateKey = strings.ReplaceAll(cfg.Sheets.PrivateKey, `\n`, "\n")

	return &cfg, nil
}

// Validate checks that the configuration required for serving is present.
// Sink credentials are deliberately not validated here: a missing sink
// credential disables that sink, it does not prevent startup.
func (c *Config) Validate() error {
	if c.Tavus.APIKey == "" {
		return eris.New("tavus API key is required (MORGAN_TAVUS_API_KEY)")
	}
	if c.Gemini.Key == "" && c.OpenAI.Key == "" {
		return eris.New("at least one LLM key is required (MORGAN_GEMINI_KEY or MORGAN_OPENAI_KEY)")
	}
	return nil
}

// IsProduction reports whether the app runs with production email behavior.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
