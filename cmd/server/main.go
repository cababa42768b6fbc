package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-stevedore/internal/cache"
	"github.com/MKhiriev/go-stevedore/internal/config"
	"github.com/MKhiriev/go-stevedore/internal/handler"
	"github.com/MKhiriev/go-stevedore/internal/logger"
	"github.com/MKhiriev/go-stevedore/internal/server"
	"github.com/MKhiriev/go-stevedore/internal/service"
	"github.com/MKhiriev/go-stevedore/internal/store"
	"github.com/MKhiriev/go-stevedore/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		logger.NewLogger("stevedore-server", "").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewLogger("stevedore-server", cfg.App.LogLevel)
	log.Debug().Str("address", cfg.Server.HTTPAddress).Msg("received configs")

	ctx := context.Background()

	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	appointmentCache, err := newCache(ctx, cfg.Storage.Cache, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating cache")
	}
	defer appointmentCache.Close()

	storages := store.NewStorages(db, log)

	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	services, err := service.NewServices(storages, appointmentCache, cfg, buildInfo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

// newCache selects Redis when an address is configured and the in-process
// cache otherwise.
func newCache(ctx context.Context, cfg config.Cache, log *logger.Logger) (cache.Cache, error) {
	if cfg.Addr == "" {
		log.Info().Msg("using in-memory appointment cache")
		return cache.NewMemoryCache(), nil
	}
	return cache.NewRedisCache(ctx, cfg, log)
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
