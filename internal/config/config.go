package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AppName is used for the XDG config directory and the default User-Agent.
const AppName = "market-research"

// Config holds the full application configuration.
type Config struct {
	Webhook   WebhookConfig   `yaml:"webhook" mapstructure:"webhook"`
	Converter ConverterConfig `yaml:"converter" mapstructure:"converter"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// WebhookConfig holds the automation webhook settings.
type WebhookConfig struct {
	URL               string  `yaml:"url" mapstructure:"url"`
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	UserAgent         string  `yaml:"user_agent" mapstructure:"user_agent"`
}

// ConverterConfig holds the file conversion service settings.
type ConverterConfig struct {
	URL         string `yaml:"url" mapstructure:"url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// PipelineConfig configures link collection and page parsing.
type PipelineConfig struct {
	MaxResults       int `yaml:"max_results" mapstructure:"max_results"`
	MaxSearchPages   int `yaml:"max_search_pages" mapstructure:"max_search_pages"`
	ChunkSize        int `yaml:"chunk_size" mapstructure:"chunk_size"`
	ParseTimeoutSecs int `yaml:"parse_timeout_secs" mapstructure:"parse_timeout_secs"`
	CacheTTLMinutes  int `yaml:"cache_ttl_minutes" mapstructure:"cache_ttl_minutes"`
}

// ParseTimeout returns the per-page parse deadline.
func (p PipelineConfig) ParseTimeout() time.Duration {
	return time.Duration(p.ParseTimeoutSecs) * time.Second
}

// CacheTTL returns how long a parsed page stays cached within a run.
func (p PipelineConfig) CacheTTL() time.Duration {
	return time.Duration(p.CacheTTLMinutes) * time.Minute
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(filepath.Join(xdg.ConfigHome, AppName))

	// Environment
	v.SetEnvPrefix("MARKET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("webhook.url", "")
	v.SetDefault("webhook.timeout_secs", 60)
	v.SetDefault("webhook.requests_per_second", 0)
	v.SetDefault("webhook.user_agent", AppName+"-cli/1.0")
	v.SetDefault("converter.url", "")
	v.SetDefault("converter.timeout_secs", 300)
	v.SetDefault("pipeline.max_results", 20)
	v.SetDefault("pipeline.max_search_pages", 10)
	v.SetDefault("pipeline.chunk_size", 5)
	v.SetDefault("pipeline.parse_timeout_secs", 20)
	v.SetDefault("pipeline.cache_ttl_minutes", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

	return &cfg, nil
}

// Validate checks the settings required by the given command mode
// ("search", "query" or "convert").
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "search":
		if c.Webhook.URL == "" {
			errs = append(errs, "webhook.url is required")
		}
		errs = append(errs, c.Pipeline.validate()...)
		// The client timeout must outlast the parse deadline.
		if c.Webhook.TimeoutSecs > 0 && c.Webhook.TimeoutSecs <= c.Pipeline.ParseTimeoutSecs {
			errs = append(errs, "webhook.timeout_secs must be greater than pipeline.parse_timeout_secs")
		}
	case "query":
		if c.Webhook.URL == "" {
			errs = append(errs, "webhook.url is required")
		}
	case "convert":
		if c.Converter.URL == "" {
			errs = append(errs, "converter.url is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Webhook.RequestsPerSecond < 0 {
		errs = append(errs, "webhook.requests_per_second must be >= 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (p PipelineConfig) validate() []string {
	var errs []string
	if p.MaxResults < 1 {
		errs = append(errs, "pipeline.max_results must be > 0")
	}
	if p.MaxSearchPages < 1 {
		errs = append(errs, "pipeline.max_search_pages must be > 0")
	}
	if p.ChunkSize < 1 || p.ChunkSize > 50 {
		errs = append(errs, "pipeline.chunk_size must be between 1 and 50")
	}
	if p.ParseTimeoutSecs < 1 {
		errs = append(errs, "pipeline.parse_timeout_secs must be > 0")
	}
	return errs
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
