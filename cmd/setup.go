package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cupid-matcher/internal/ai"
	"github.com/spigell/cupid-matcher/internal/ai/gemini"
	"github.com/spigell/cupid-matcher/internal/images"
	"github.com/spigell/cupid-matcher/internal/logger"
	"github.com/spigell/cupid-matcher/internal/matching"
	"github.com/spigell/cupid-matcher/internal/scoring"
	"github.com/spigell/cupid-matcher/internal/secrets"
	"github.com/spigell/cupid-matcher/internal/store"
)

// env holds what every command needs after startup.
type env struct {
	logger *zap.Logger
	config *Config
	store  store.Store
}

// setup builds the logger, reads the config and opens the store.
// Any failure here is fatal.
func setup(ctx context.Context) *env {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		config = &Config{}
	}

	logger.Debug("starting", zap.String("version", version), zap.String("store", config.Store.Type))

	st, err := store.Open(ctx, config.Store)
	if err != nil {
		logger.Fatal("opening profile store",
			zap.Error(err),
			zap.String("type", config.Store.Type),
			zap.String("hint", "check the store section of the configuration file"),
		)
	}

	return &env{logger: logger, config: config, store: st}
}

func (e *env) close() {
	if err := e.store.Close(); err != nil {
		e.logger.Warn("closing profile store", zap.Error(err))
	}
	_ = e.logger.Sync()
}

// newService assembles the matching service from the config.
func (e *env) newService(ctx context.Context) *matching.Service {
	opts := []matching.Option{matching.WithExcluded(e.config.Exclude...)}

	cfg := e.config.Matching
	if cfg == nil {
		cfg = &MatchingConfig{Threshold: matching.DefaultThreshold}
	}
	opts = append(opts,
		matching.WithThreshold(cfg.Threshold),
		matching.WithLimit(cfg.Limit),
		matching.WithConcurrency(cfg.Concurrency),
	)

	catalog := e.config.Images.Merge(images.DefaultCatalog())

	return matching.NewService(
		e.store,
		newScorer(ctx, e.config.AI, e.logger),
		catalog,
		matching.NewCache(cfg.CacheTTL, nil),
		e.logger,
		opts...,
	)
}

// newScorer returns the local scorer unless AI scoring is enabled and can be
// built, in which case AI scoring falls back to the local one.
func newScorer(ctx context.Context, cfg *AIConfig, logger *zap.Logger) scoring.Scorer {
	local := scoring.NewLocal()
	if cfg == nil || !cfg.Enabled {
		return local
	}

	assessor, err := newAssessor(ctx, cfg, logger)
	if err != nil {
		logger.Warn("skipping ai scoring", zap.Error(err))
		return local
	}

	return scoring.NewFallback(scoring.NewExternal(assessor, logger), local, cfg.Timeout, logger)
}

func newAssessor(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Assessor, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
	if cfg.Gemini == nil {
		cfg.Gemini = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Value: cfg.Gemini.APIKey,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, logger)
	if err != nil {
		return nil, err
	}

	assessorLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
		zap.Duration("timeout", cfg.Timeout),
	)

	return gemini.NewAssessor(generator, assessorLogger, cfg.Gemini.MaxLogLength), nil
}

// requesterID returns the explicit id or the stored current profile.
func (e *env) requesterID(ctx context.Context, as string) (string, error) {
	if as = strings.TrimSpace(as); as != "" {
		return as, nil
	}

	current, err := e.store.GetCurrentProfile(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return "", errors.New("no current profile selected, run `profile use <id>` or pass --as")
	}
	if err != nil {
		return "", fmt.Errorf("getting current profile: %w", err)
	}
	return current.ID, nil
}
