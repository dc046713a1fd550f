// Package bootstrap builds sentinel's adapters and services from a Config
package bootstrap

import (
	"errors"
	"fmt"

	"sentinel/internal/adapters/claudecli"
	"sentinel/internal/adapters/filestore"
	"sentinel/internal/adapters/mockengine"
	"sentinel/internal/adapters/openrouter"
	"sentinel/internal/adapters/sqlite"
	"sentinel/internal/collision"
	"sentinel/internal/config"
	"sentinel/internal/consolidate"
	"sentinel/internal/ingest"
	"sentinel/internal/logging"
	"sentinel/internal/matching"
	"sentinel/internal/normalize"
	"sentinel/internal/ports"
)

// ErrMissingAPIKey is returned when the openrouter extractor has no key
var ErrMissingAPIKey = errors.New("openrouter extractor needs an API key (set " + config.EnvOpenRouterKey + ")")

// Components holds everything a command needs
type Components struct {
	Config   *config.Config
	Logger   *logging.Logger
	Store    ports.GraphStore
	Acks     ports.AckStore
	Locker   ports.Locker
	Builder  *ingest.Builder
	Detector *collision.Detector
	Resolver matching.Resolver

	closers []func() error
}

// New wires the storage backend and the pipeline stages
func New(cfg *config.Config, logger *logging.Logger) (*Components, error) {
	logger = logging.OrNop(logger)
	c := &Components{
		Config:   cfg,
		Logger:   logger,
		Locker:   filestore.NewFileLocker(cfg.Storage.DataDir),
		Detector: collision.NewDetector(cfg.Detect.Options, logger.With("component", "detector")),
		Resolver: matching.NewResolver(matching.Scorer{}),
	}

	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		db, err := sqlite.Open(cfg.Storage.DataDir, logger.With("component", "sqlite"))
		if err != nil {
			return nil, err
		}
		c.Store = db
		c.Acks = db
		c.closers = append(c.closers, db.Close)
	case config.BackendFile, "":
		c.Store = filestore.New(cfg.Storage.DataDir, logger.With("component", "filestore"))
		c.Acks = filestore.NewAckStore(cfg.Storage.DataDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	normalizer := normalize.New(cfg.Normalize, normalize.WithLogger(logger.With("component", "normalize")))
	consolidator := consolidate.New(cfg.Consolidate, logger.With("component", "consolidate"))
	c.Builder = ingest.NewBuilder(normalizer, consolidator, logger.With("component", "ingest"))

	logger.Debug("components ready", "backend", cfg.Storage.Backend, "data_dir", cfg.Storage.DataDir)
	return c, nil
}

// Extractor builds the configured extractor. It is separate from New so
// read-only commands work without extractor credentials.
func (c *Components) Extractor() (ports.Extractor, error) {
	ex := c.Config.Extractor
	switch ex.Kind {
	case config.ExtractorOpenRouter, "":
		if ex.APIKey == "" {
			return nil, ErrMissingAPIKey
		}
		return openrouter.NewExtractor(ex.APIKey, ex.Model), nil
	case config.ExtractorClaude:
		return claudecli.NewExtractor(claudecli.WithModel(ex.Model)), nil
	case config.ExtractorMock:
		return mockengine.New(), nil
	default:
		return nil, fmt.Errorf("unknown extractor %q", ex.Kind)
	}
}

// Close releases the storage backend
func (c *Components) Close() error {
	var errs []error
	for _, closer := range c.closers {
		errs = append(errs, closer())
	}
	c.closers = nil
	return errors.Join(errs...)
}
