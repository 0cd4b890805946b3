// Package config loads application configuration from file and
// environment, and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/match-cli/pkg/embed"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig  `yaml:"store" mapstructure:"store"`
	Notion    NotionConfig `yaml:"notion" mapstructure:"notion"`
	Embedding embed.Config `yaml:"embedding" mapstructure:"embedding"`
	Match     MatchConfig  `yaml:"match" mapstructure:"match"`
	Server    ServerConfig `yaml:"server" mapstructure:"server"`
	Log       LogConfig    `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the entity/template store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Path        string `yaml:"path" mapstructure:"path"`
}

// NotionConfig holds Notion API credentials and the export database id.
type NotionConfig struct {
	Token    string `yaml:"token" mapstructure:"token"`
	ExportDB string `yaml:"export_db" mapstructure:"export_db"`
}

// MatchConfig holds matching engine defaults.
type MatchConfig struct {
	MinThreshold  float64 `yaml:"min_threshold" mapstructure:"min_threshold"`
	MaxResults    int     `yaml:"max_results" mapstructure:"max_results"`
	Concurrency   int     `yaml:"concurrency" mapstructure:"concurrency"`
	MaxDistanceKm float64 `yaml:"max_distance_km" mapstructure:"max_distance_km"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from config.yaml and MATCH_-prefixed
// environment variables.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "match.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("match.min_threshold", 0)
	v.SetDefault("match.max_results", 100)
	v.SetDefault("match.concurrency", 5)
	v.SetDefault("match.max_distance_km", 5000)
	v.SetDefault("embedding.provider", "openai")
	v.SetDefault("embedding.model", "all-minilm-l6-v2")

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
