// Package bootstrap builds the catalog source, storage and services from configuration.
// Both binaries share it so the server and the CLI read the same catalog the same way.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"alcyxob/session-planner/internal/config"
	"alcyxob/session-planner/internal/repository"
	"alcyxob/session-planner/internal/repository/file"
	"alcyxob/session-planner/internal/repository/mongo"
	"alcyxob/session-planner/internal/repository/sheets"
	"alcyxob/session-planner/internal/service"
	"alcyxob/session-planner/internal/storage"
)

// Services is everything a front end needs. Close releases the source's connections.
type Services struct {
	Catalog service.CatalogService
	Plans   service.PlanService
	Close   func()
}

// NewSource opens the configured catalog source. The returned cleanup is never nil.
func NewSource(ctx context.Context, cfg config.Config, log *zap.Logger) (repository.CatalogSource, func(), error) {
	noop := func() {}

	switch cfg.Source.Driver {
	case config.DriverSheets:
		credentials, err := cfg.Sheets.Credentials()
		if err != nil {
			return nil, noop, err
		}
		src, err := sheets.NewSheetsSource(ctx, sheets.Config{
			SpreadsheetID:   cfg.Sheets.SpreadsheetID,
			Worksheet:       cfg.Sheets.Worksheet,
			CredentialsJSON: credentials,
		})
		if err != nil {
			return nil, noop, err
		}
		log.Info("catalog source: google sheets", zap.String("worksheet", src.Name()))
		return src, noop, nil

	case config.DriverMongo:
		client, err := mongo.ConnectDB(cfg.Database.URI, cfg.Database.Timeout)
		if err != nil {
			return nil, noop, fmt.Errorf("connect mongodb: %w", err)
		}
		cleanup := func() {
			if err := mongo.DisconnectDB(client); err != nil {
				log.Error("failed to disconnect mongodb", zap.Error(err))
			}
		}
		src := mongo.NewMongoCatalogSource(client.Database(cfg.Database.Name), cfg.Database.Collection)
		log.Info("catalog source: mongodb", zap.String("database", cfg.Database.Name), zap.String("collection", cfg.Database.Collection))
		return src, cleanup, nil

	case config.DriverFile:
		log.Info("catalog source: yaml file", zap.String("path", cfg.File.Path))
		return file.NewYAMLSource(cfg.File.Path), noop, nil
	}
	return nil, noop, fmt.Errorf("unknown source driver %q", cfg.Source.Driver)
}

// NewStorage returns nil storage when no bucket is configured; publishing is then disabled.
func NewStorage(ctx context.Context, cfg config.S3Config, log *zap.Logger) (storage.FileStorage, error) {
	if !cfg.Enabled() {
		log.Info("object storage disabled, plans can be exported but not published")
		return nil, nil
	}
	return storage.NewS3Storage(ctx, cfg, log)
}

// PlanOptions maps export and storage settings onto the plan service.
func PlanOptions(cfg config.Config) service.PlanOptions {
	return service.PlanOptions{
		DefaultTitle:   cfg.Export.Title,
		MaxTokenLength: cfg.Export.MaxTokenLength,
		TruncateLength: cfg.Export.TruncateLength,
		StoragePrefix:  cfg.S3.Prefix,
		PresignExpiry:  cfg.S3.PresignExpiry,
	}
}

// NewServices wires source, cache, storage and plan service together.
func NewServices(ctx context.Context, cfg config.Config, log *zap.Logger) (*Services, error) {
	src, cleanup, err := NewSource(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	fileStorage, err := NewStorage(ctx, cfg.S3, log)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	catalog := service.NewCatalogService(src, log.Named("catalog"))
	plans := service.NewPlanService(catalog, fileStorage, PlanOptions(cfg), log.Named("plans"))
	return &Services{Catalog: catalog, Plans: plans, Close: cleanup}, nil
}
