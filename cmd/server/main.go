package main

import (
	"fmt"
	"os"

	"paidmedia/internal/delivery"
	"paidmedia/internal/infrastructure"
	"paidmedia/internal/usecase"
	"paidmedia/pkg/config"
	"paidmedia/pkg/logger"
	"paidmedia/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info("Starting paid-media aggregation service")

	m := metrics.New()

	// Registry seeded with the default Meta provider
	registry := infrastructure.NewProviderRegistry(log)
	registry.Register(infrastructure.NewMetaProvider(
		cfg.Meta.APIURL,
		cfg.Meta.APIToken,
		cfg.Meta.RequestTimeout,
		cfg.Meta.RateLimitPerSecond,
		cfg.Meta.RateLimitBurst,
		log,
		m,
	))
	m.SetRegisteredProviders(len(registry.Names()))

	metricsAggregator := usecase.NewMetricsAggregator(registry, log, m, cfg.Aggregator.ProviderTimeout)
	hierarchyAggregator := usecase.NewHierarchyAggregator(registry, log, m, cfg.Aggregator.ProviderTimeout)
	healthAggregator := usecase.NewHealthAggregator(registry, log, m, cfg.Aggregator.ProviderTimeout)

	handlers := delivery.NewHTTPHandlers(metricsAggregator, hierarchyAggregator, healthAggregator, registry, log, m)
	router := delivery.NewHTTPRouter(handlers, log, m)

	log.WithField("port", cfg.Server.Port).Info("Listening")
	if err := router.SetupRoutes().Run(":" + cfg.Server.Port); err != nil {
		log.WithError(err).Fatal("Server stopped")
	}
}
