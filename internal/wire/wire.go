// Package wire builds the application graph from configuration.
package wire

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mithrel/hinglish/internal/cache"
	"github.com/mithrel/hinglish/internal/config"
	"github.com/mithrel/hinglish/internal/gemini"
	"github.com/mithrel/hinglish/internal/keys"
	"github.com/mithrel/hinglish/internal/logging"
	"github.com/mithrel/hinglish/internal/metrics"
	"github.com/mithrel/hinglish/internal/page"
	"github.com/mithrel/hinglish/internal/translate"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg        *viper.Viper
	Log        *zap.Logger
	Keys       keys.KeyStore
	Cache      cache.Store // nil when cache.enabled is false
	Metrics    *metrics.Metrics
	Gemini     *gemini.Client
	Translator *translate.Service
	Fetcher    *page.Fetcher
}

// BuildApp wires dependencies with the provided, already-loaded config.
func BuildApp(ctx context.Context, v *viper.Viper) (*App, error) {
	logger, err := logging.New(logging.FromViper(v))
	if err != nil {
		return nil, err
	}
	return build(ctx, v, logger)
}

// BuildAppWithLogger is BuildApp with a caller-provided logger.
func BuildAppWithLogger(ctx context.Context, v *viper.Viper, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	return build(ctx, v, logger)
}

func build(ctx context.Context, v *viper.Viper, logger *zap.Logger) (*App, error) {
	ks, err := keys.Open(v)
	if err != nil {
		return nil, err
	}

	var store cache.Store
	if v.GetBool("cache.enabled") {
		store, err = cache.Open(ctx, "sqlite://"+config.ResolveCachePath(v))
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
	}

	lang, err := config.ResolveLanguage(v.GetString("target_language"))
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, fmt.Errorf("target_language: %w", err)
	}

	m := metrics.New()
	gc := gemini.New(gemini.ConfigFromViper(v), logger.Named("gemini"))
	svc := translate.New(translate.Options{
		Keys:     ks,
		Model:    gc,
		Cache:    store,
		TTL:      v.GetDuration("cache.ttl"),
		Language: lang,
		Sanitize: v.GetBool("render.sanitize"),
		Metrics:  m,
		Log:      logger.Named("translate"),
	})
	return &App{
		Cfg:        v,
		Log:        logger,
		Keys:       ks,
		Cache:      store,
		Metrics:    m,
		Gemini:     gc,
		Translator: svc,
		Fetcher:    page.NewFetcher(logger.Named("fetch")),
	}, nil
}

// Close releases the cache and flushes the logger.
func (a *App) Close() error {
	var errs []error
	if a.Cache != nil {
		errs = append(errs, a.Cache.Close())
	}
	_ = a.Log.Sync()
	return errors.Join(errs...)
}
