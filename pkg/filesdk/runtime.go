package filesdk

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/panelhub/file_sdk_go/internal/devseed"
	"github.com/panelhub/file_sdk_go/internal/logging"
	"github.com/panelhub/file_sdk_go/pkg/file"
	"github.com/panelhub/file_sdk_go/pkg/file/mock"
	"github.com/panelhub/file_sdk_go/pkg/request"
)

// NewFromEnv builds a file.API from environment variables (and a .env file
// in the working directory, if any). It returns the resolved mode
// ("http" or "mock").
func NewFromEnv() (*file.API, string, error) {
	cfg, err := LoadConfig(".")
	if err != nil {
		return nil, "", err
	}
	return NewFromConfig(cfg)
}

// NewFromConfig builds a file.API from cfg.
func NewFromConfig(cfg *Config) (*file.API, string, error) {
	if cfg == nil {
		return nil, "", fmt.Errorf("filesdk: config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, "", fmt.Errorf("filesdk: %w", err)
	}

	switch cfg.Mode {
	case ModeHTTP:
		return newHTTPAPI(cfg, logger)
	case ModeMock:
		return newMockAPI(cfg, logger)
	default:
		if cfg.APIURL != "" {
			return newHTTPAPI(cfg, logger)
		}
		return newMockAPI(cfg, logger)
	}
}

func newHTTPAPI(cfg *Config, logger *zap.Logger) (*file.API, string, error) {
	policy := request.DefaultRetryPolicy
	policy.MaxRetries = cfg.MaxRetries
	api, err := file.New(cfg.APIURL,
		request.WithToken(cfg.Token),
		request.WithTimeout(cfg.Timeout),
		request.WithRetryPolicy(policy),
		request.WithLogger(logger),
	)
	if err != nil {
		return nil, "", fmt.Errorf("filesdk: init HTTP client: %w", err)
	}
	logger.Info("file API client ready", zap.String("mode", ModeHTTP), zap.String("url", cfg.APIURL))
	return api, ModeHTTP, nil
}

func newMockAPI(cfg *Config, logger *zap.Logger) (*file.API, string, error) {
	store := mock.New()
	if cfg.MockSeed != "" {
		entries, err := devseed.LoadFileSeed(cfg.MockSeed)
		if err != nil {
			return nil, "", fmt.Errorf("filesdk: load mock seed: %w", err)
		}
		if err := store.Seed(entries); err != nil {
			return nil, "", fmt.Errorf("filesdk: apply mock seed: %w", err)
		}
	}
	logger.Info("file API client ready", zap.String("mode", ModeMock), zap.String("seed", cfg.MockSeed))
	return file.NewWithTransport(store), ModeMock, nil
}
