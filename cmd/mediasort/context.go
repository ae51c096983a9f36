package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"mediasort/internal/config"
	"mediasort/internal/identify"
	"mediasort/internal/logging"
	"mediasort/internal/pickcache"
	"mediasort/internal/tmdb"
)

type commandContext struct {
	configFlag  *string
	jsonFlag    *bool
	offlineFlag *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, jsonFlag, offlineFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		jsonFlag:    jsonFlag,
		offlineFlag: offlineFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) offline() bool {
	return c.offlineFlag != nil && *c.offlineFlag
}

func (c *commandContext) newLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.New(logging.Options{
		Level:         cfg.Logging.Level,
		Format:        cfg.Logging.Format,
		FilePath:      cfg.LogFilePath(),
		RetentionDays: cfg.Logging.RetentionDays,
		MaxSizeMB:     cfg.Logging.MaxSizeMB,
	})
}

// newEngine wires the classification engine: TMDB client (skipped offline),
// pick cache, and scoring configuration.
func (c *commandContext) newEngine(cfg *config.Config, logger *slog.Logger) (*identify.Engine, *pickcache.Cache, error) {
	var searcher tmdb.Searcher
	if !c.offline() {
		client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language,
			tmdb.WithRetry(cfg.TMDB.RetryAttempts, time.Duration(cfg.TMDB.RetryDelaySeconds)*time.Second),
			tmdb.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.TMDB.RequestTimeout) * time.Second}),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("create TMDB client (use --offline to skip): %w", err)
		}
		searcher = client
	}

	cache := pickcache.New(cfg.PickCache.Path, cfg.PickCache.Enabled, logger)
	return identify.New(cfg, searcher, cache, logger), cache, nil
}

// acquireRunLock serializes runs that share one cache and ledger. The
// returned release func is safe to call once.
func acquireRunLock(cfg *config.Config) (func(), error) {
	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, errors.New("another mediasort run is already in progress")
	}
	return func() { _ = lock.Unlock() }, nil
}
