package internal

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TUBECHAT_API_BASE_URL
const EnvPrefix = "TUBECHAT"

// Config is the resolved client configuration
type Config struct {
	APIBaseURL        string        `mapstructure:"api_base_url" yaml:"api_base_url"`
	DBPath            string        `mapstructure:"db_path" yaml:"db_path"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	Theme             string        `mapstructure:"theme" yaml:"theme,omitempty"`
}

// NewViper returns a viper instance with defaults and env bindings applied
func NewViper(paths ProfilePaths) *viper.Viper {
	v := viper.New()
	v.SetDefault("api_base_url", DefaultAPIBaseURL)
	v.SetDefault("db_path", paths.DatabasePath())
	v.SetDefault("request_timeout", time.Duration(0))
	v.SetDefault("requests_per_second", 0.0)
	v.SetDefault("theme", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads configFile (or the default location when empty) into v and
// decodes the result. A missing default config file is not an error.
func LoadConfig(v *viper.Viper, configFile string, paths ProfilePaths) (*Config, error) {
	v.SetConfigType("yaml")
	explicit := configFile != ""
	if !explicit {
		configFile = paths.ConfigFilePath()
	}
	v.SetConfigFile(configFile)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound), !explicit && errors.Is(err, os.ErrNotExist):
			LogDebug("No config file at %s, using defaults", configFile)
		default:
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	} else {
		LogDebug("Loaded config from %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.DBPath == "" {
		cfg.DBPath = paths.DatabasePath()
	}
	if cfg.RequestTimeout < 0 {
		return nil, fmt.Errorf("request_timeout must not be negative, got %s", cfg.RequestTimeout)
	}
	return &cfg, nil
}
