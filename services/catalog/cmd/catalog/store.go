package main

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Skotchmaster/product_catalog/pkg/config"
	pkgdb "github.com/Skotchmaster/product_catalog/pkg/db"
	"github.com/Skotchmaster/product_catalog/services/catalog/internal/models"
	"github.com/Skotchmaster/product_catalog/services/catalog/internal/repo"
	"github.com/Skotchmaster/product_catalog/services/catalog/internal/search"
	"github.com/Skotchmaster/product_catalog/services/catalog/internal/service"
)

type store struct {
	repo  repo.Repository
	ping  func(ctx context.Context) error
	close func(ctx context.Context)
}

func openStore(ctx context.Context, cfg config.Config) (*store, error) {
	if cfg.DBDriver == config.DriverMongo {
		client, database, err := pkgdb.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		r := repo.NewMongoRepo(database)
		if err := r.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &store{
			repo:  r,
			ping:  func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
			close: func(ctx context.Context) { _ = client.Disconnect(ctx) },
		}, nil
	}

	gdb, err := pkgdb.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	switch {
	case cfg.DBDriver == config.DriverSQLite:
		if err := gdb.AutoMigrate(&models.Product{}); err != nil {
			return nil, fmt.Errorf("automigrate products: %w", err)
		}
	case cfg.AutoMigrate:
		if err := pkgdb.Migrate(ctx, cfg.DatabaseURL); err != nil {
			return nil, err
		}
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	return &store{
		repo:  &repo.GormRepo{DB: gdb},
		ping:  sqlDB.PingContext,
		close: func(context.Context) { _ = sqlDB.Close() },
	}, nil
}

// openSearch returns nil when ES_URL is unset.
func openSearch(ctx context.Context, cfg config.Config) (service.Indexer, error) {
	if cfg.ESURL == "" {
		return nil, nil
	}
	client, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
	if err != nil {
		return nil, err
	}
	es := search.NewElastic(client, cfg.ESIndex)
	if err := es.EnsureIndex(ctx); err != nil {
		return nil, err
	}
	return es, nil
}
