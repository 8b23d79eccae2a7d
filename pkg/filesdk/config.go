package filesdk

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	keyMode       = "FILE_SDK_MODE"
	keyURL        = "FILE_API_URL"
	keyToken      = "FILE_API_TOKEN"
	keyTimeout    = "FILE_API_TIMEOUT"
	keyMaxRetries = "FILE_API_MAX_RETRIES"
	keyLogLevel   = "FILE_SDK_LOG_LEVEL"
	keyMockSeed   = "FILE_MOCK_SEED"

	ModeAuto = "auto"
	ModeHTTP = "http"
	ModeMock = "mock"
)

// Config holds the runtime settings.
type Config struct {
	Mode       string        `mapstructure:"FILE_SDK_MODE"`
	APIURL     string        `mapstructure:"FILE_API_URL"`
	Token      string        `mapstructure:"FILE_API_TOKEN"`
	Timeout    time.Duration `mapstructure:"FILE_API_TIMEOUT"`
	MaxRetries int           `mapstructure:"FILE_API_MAX_RETRIES"`
	LogLevel   string        `mapstructure:"FILE_SDK_LOG_LEVEL"`
	MockSeed   string        `mapstructure:"FILE_MOCK_SEED"`
}

// LoadConfig reads settings from the environment, layered over a ".env"
// file found in any of dirs. A missing .env file is not an error.
func LoadConfig(dirs ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	v.SetDefault(keyMode, ModeAuto)
	v.SetDefault(keyURL, "")
	v.SetDefault(keyToken, "")
	v.SetDefault(keyTimeout, "10s")
	v.SetDefault(keyMaxRetries, 3)
	v.SetDefault(keyLogLevel, "off")
	v.SetDefault(keyMockSeed, "")
	v.AutomaticEnv()

	if len(dirs) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("filesdk: read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("filesdk: decode config: %w", err)
	}
	cfg.Mode = strings.ToLower(strings.TrimSpace(cfg.Mode))
	cfg.APIURL = strings.TrimSpace(cfg.APIURL)
	cfg.MockSeed = strings.TrimSpace(cfg.MockSeed)
	if cfg.Mode == "" {
		cfg.Mode = ModeAuto
	}
	return cfg, nil
}

// Validate checks the settings are usable.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeAuto, ModeMock:
	case ModeHTTP:
		if c.APIURL == "" {
			return fmt.Errorf("filesdk: HTTP mode requires %s", keyURL)
		}
	default:
		return fmt.Errorf("filesdk: unsupported %s value %q", keyMode, c.Mode)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("filesdk: %s must not be negative", keyTimeout)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("filesdk: %s must not be negative", keyMaxRetries)
	}
	return nil
}
