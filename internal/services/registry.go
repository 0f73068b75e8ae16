// Package services wires the configured backend and event publisher into a repository.
package services

import (
	"context"

	"github.com/quantumx/qvr-backend/config"
	"github.com/quantumx/qvr-backend/database"
	vulnerability "github.com/quantumx/qvr-backend/events/modules/vulnerabilities"
	"github.com/quantumx/qvr-backend/store"
	"github.com/quantumx/qvr-backend/store/appwrite"
	"github.com/quantumx/qvr-backend/store/arango"
	"github.com/quantumx/qvr-backend/store/directus"
	"go.uber.org/zap"
)

// OpenBackend returns the backend selected by cfg.Backend. It returns a nil backend and no
// error when that backend is not configured, which puts the repository in demo mode.
func OpenBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.Backend, error) {
	if !cfg.BackendConfigured() {
		logger.Warn("backend configuration missing, serving demo data", zap.String("backend", cfg.Backend))
		return nil, nil
	}

	switch cfg.Backend {
	case config.BackendDirectus:
		return directus.New(cfg.Directus, logger), nil
	case config.BackendArango:
		db, err := database.Connect(ctx, cfg.Arango, logger)
		if err != nil {
			return nil, err
		}
		return arango.New(db, cfg.Arango, logger), nil
	default:
		return appwrite.New(cfg.Appwrite, logger), nil
	}
}

// NewPublisher returns a Kafka publisher when brokers are configured
func NewPublisher(cfg config.KafkaConfig, logger *zap.Logger) vulnerability.Publisher {
	if !cfg.Enabled() {
		return vulnerability.NopPublisher{}
	}
	logger.Info("publishing registry events", zap.Strings("brokers", cfg.Brokers), zap.String("topic", cfg.Topic))
	return vulnerability.NewKafkaPublisher(cfg)
}

// Registry bundles the repository with the resources it holds open.
type Registry struct {
	Repo      *store.Repository
	Publisher vulnerability.Publisher
}

// NewRegistry opens the configured backend and publisher.
func NewRegistry(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Registry, error) {
	backend, err := OpenBackend(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	publisher := NewPublisher(cfg.Kafka, logger)

	return &Registry{
		Repo:      store.New(backend, logger, store.WithPublisher(publisher)),
		Publisher: publisher,
	}, nil
}

// Close releases the publisher
func (r *Registry) Close() error {
	return r.Publisher.Close()
}
