package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/property-alerts/internal/ai"
	"github.com/spigell/property-alerts/internal/ai/gemini"
	"github.com/spigell/property-alerts/internal/listings"
	"github.com/spigell/property-alerts/internal/logger"
	"github.com/spigell/property-alerts/internal/secrets"
)

// newClient builds the CRM client and attaches the snapshot cache when enabled.
// The returned function releases the cache connection.
func newClient(ctx context.Context, config *Config, log *zap.Logger) (*listings.Client, func(), error) {
	if config == nil || config.API == nil || strings.TrimSpace(config.API.URL) == "" {
		return nil, nil, errors.New("api.url is required")
	}

	token, err := resolveToken(config.API)
	if err != nil {
		return nil, nil, err
	}

	client := listings.New(config.API.URL, token, log)
	if config.API.UserAgent != "" {
		client.UserAgent = config.API.UserAgent
	}

	release := func() {}
	if config.Cache != nil && config.Cache.Enabled {
		cache := listings.NewSnapshotCache(config.Cache.Redis)
		if err := cache.Ping(ctx); err != nil {
			log.Warn("snapshot cache is unavailable, going without it",
				zap.String("address", config.Cache.Redis.Address),
				zap.Error(err),
			)
			_ = cache.Close()
		} else {
			client.Cache = cache
			release = func() { _ = cache.Close() }
		}
	}

	return client, release, nil
}

func resolveToken(api *APIConfig) (string, error) {
	token, err := secrets.Load(secrets.Source{
		Name:  "crm token",
		Value: api.Token,
		Env:   tokenEnv,
		File:  api.TokenFile,
	})
	if err != nil {
		return "", fmt.Errorf("%w (set %s, %s or api.token-file)", err, tokenFileEnv, tokenEnv)
	}
	return token, nil
}

func newDigester(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Digester, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != gemini.Provider {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		cfg.Gemini = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		Env:  geminiKeyEnv,
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or %s)", err, geminiKeyEnv)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries,
		log.With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries)))
	if err != nil {
		return nil, err
	}

	return gemini.NewDigester(generator, logger.WithAIFields(log, gemini.Provider, generator.Model()), cfg.Gemini.MaxLogLength), nil
}
