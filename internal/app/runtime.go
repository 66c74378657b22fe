package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"medicine-verify/internal/ai"
	"medicine-verify/internal/config"
	"medicine-verify/internal/logsink"
	"medicine-verify/internal/store"
	"medicine-verify/internal/verify"
)

// Store is what a storage strategy has to provide to back the whole service.
type Store interface {
	verify.Registry
	verify.LogSink
	RecentLogs(ctx context.Context, limit int) ([]store.VerificationLog, error)
	Manufacturers(ctx context.Context, query string, limit int) ([]store.Manufacturer, error)
}

// Runtime holds the collaborators shared by the server and the CLI.
type Runtime struct {
	Backend     store.Backend
	Registry    Store
	Database    *store.Database
	Engine      *verify.Engine
	Sinks       *logsink.Multi
	Classifiers []string

	closers []func() error
}

// Build selects the storage strategy, wires the classifiers and log sinks, and constructs
// the engine. The strategy is fixed for the lifetime of the runtime.
func Build(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	rt := &Runtime{Backend: cfg.Store.Backend}

	if err := rt.openStore(ctx, cfg.Store); err != nil {
		return nil, err
	}

	classifier, names, err := ai.Build(ctx, cfg.AI.Settings())
	if err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("build classifiers: %w", err)
	}
	rt.Classifiers = names

	rt.Sinks = logsink.NewMulti(logsink.Store("store", rt.Registry))
	if cfg.Sinks.AMQPEnabled() {
		publisher, err := logsink.DialAMQP(cfg.Sinks.AMQPURL, cfg.Sinks.AMQPExchange, cfg.Sinks.AMQPRoutingKey)
		if err != nil {
			_ = rt.Close()
			return nil, fmt.Errorf("connect amqp sink: %w", err)
		}
		rt.Sinks.Add(publisher)
		rt.closers = append(rt.closers, publisher.Close)
	}

	rt.Engine = verify.NewEngine(rt.Registry, verify.Options{
		Classifier:        classifier,
		Sink:              rt.Sinks,
		ClassifierTimeout: cfg.Engine.ClassifierTimeout,
	})

	logrus.WithFields(logrus.Fields{
		"store":       rt.Backend,
		"classifiers": rt.Classifiers,
		"sinks":       rt.Sinks.Names(),
	}).Info("verification runtime ready")
	return rt, nil
}

func (rt *Runtime) openStore(ctx context.Context, cfg config.StoreConfig) error {
	if cfg.Backend == store.BackendFixture {
		ds, err := store.LoadDataset(cfg.FixturePath)
		if err != nil {
			return fmt.Errorf("load fixture dataset: %w", err)
		}
		rt.Registry = store.NewFixture(ds)
		return nil
	}

	if cfg.Backend == store.BackendSQLite {
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create data directory: %w", err)
			}
		}
	}
	db, err := store.Open(store.Config{
		Backend: cfg.Backend,
		DSN:     cfg.DatabaseURL,
		Path:    cfg.DBPath,
		Silent:  true,
	})
	if err != nil {
		return err
	}
	rt.Database = db
	rt.Registry = db
	rt.closers = append(rt.closers, db.Close)

	if cfg.Seed {
		ds, err := store.LoadDataset(cfg.FixturePath)
		if err != nil {
			_ = rt.Close()
			return fmt.Errorf("load seed dataset: %w", err)
		}
		if _, err := db.Seed(ctx, ds); err != nil {
			_ = rt.Close()
			return fmt.Errorf("seed registry: %w", err)
		}
	}
	return nil
}

// Close releases broker and database connections in reverse order of acquisition.
func (rt *Runtime) Close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	return errors.Join(errs...)
}
