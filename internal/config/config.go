package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	mediqerrors "mediq/internal/errors"
)

// Config is the full application configuration, loaded from an
// optional mediq-config.yaml plus MEDIQ_ environment variables.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Serper    SerperConfig    `mapstructure:"serper"`
	Scraping  ScrapingConfig  `mapstructure:"scraping"`
	Directory DirectoryConfig `mapstructure:"directory"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type OpenAIConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	BaseURL        string        `mapstructure:"base_url"`
	Model          string        `mapstructure:"model"`
	EmbeddingModel string        `mapstructure:"embedding_model"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type SerperConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type ScrapingConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type DirectoryConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from mediq-config.yaml (current directory,
// then $HOME) and the MEDIQ_ environment, then validates it. A missing
// config file is fine; a malformed one is not.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("mediq-config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME")

	v.SetEnvPrefix("MEDIQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3001)
	// Keys without another default still need one registered, or
	// Unmarshal will not see their environment values.
	v.SetDefault("openai.api_key", "")
	v.SetDefault("serper.api_key", "")
	v.SetDefault("scraping.api_key", "")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-4o")
	v.SetDefault("openai.embedding_model", "text-embedding-3-small")
	v.SetDefault("openai.timeout", 120*time.Second)
	v.SetDefault("directory.path", "data/doctors.json")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Validate enforces the one hard requirement, the model API key.
// Search and scraping keys are optional; the features they power stay
// disabled without them.
func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return &mediqerrors.ConfigError{
			Key:    "openai.api_key",
			Reason: "required; set MEDIQ_OPENAI_API_KEY or openai.api_key in mediq-config.yaml",
		}
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return &mediqerrors.ConfigError{
			Key:    "server.port",
			Reason: fmt.Sprintf("invalid port %d", c.Server.Port),
		}
	}
	return nil
}

// WebSearchEnabled reports whether the web search key is configured.
func (c *Config) WebSearchEnabled() bool {
	return c.Serper.APIKey != ""
}

// LiveStatusEnabled reports whether the page rendering key is
// configured.
func (c *Config) LiveStatusEnabled() bool {
	return c.Scraping.APIKey != ""
}
