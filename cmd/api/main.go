package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Hashemselim/findabatherapy/internal/adapters/cache"
	"github.com/Hashemselim/findabatherapy/internal/adapters/database"
	"github.com/Hashemselim/findabatherapy/internal/adapters/providers/geocoding"
	"github.com/Hashemselim/findabatherapy/internal/adapters/search"
	"github.com/Hashemselim/findabatherapy/internal/api/handlers"
	"github.com/Hashemselim/findabatherapy/internal/api/middleware"
	"github.com/Hashemselim/findabatherapy/internal/api/routes"
	"github.com/Hashemselim/findabatherapy/internal/application/services"
	"github.com/Hashemselim/findabatherapy/internal/domain/providers"
	"github.com/Hashemselim/findabatherapy/internal/domain/repositories"
	"github.com/Hashemselim/findabatherapy/internal/infrastructure/clients/postgres"
	"github.com/Hashemselim/findabatherapy/internal/infrastructure/clients/redis"
	"github.com/Hashemselim/findabatherapy/internal/infrastructure/clients/typesense"
	"github.com/Hashemselim/findabatherapy/internal/infrastructure/observability"
	"github.com/Hashemselim/findabatherapy/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger("findabatherapy-api", cfg.Server.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// Redis is optional; the app runs uncached without it
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
	} else {
		defer redisClient.Close()
		log.Println("Redis client initialized successfully")
	}

	// Typesense is optional; searches fall back to unscored relevance
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Printf("Warning: Failed to initialize Typesense client: %v", err)
	} else {
		log.Println("Typesense client initialized successfully")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Adapters
	jobAdapter := database.NewJobAdapter(pgClient)
	listingAdapter := database.NewListingAdapter(pgClient)
	insuranceAdapter := database.NewInsuranceAdapter(pgClient)
	analyticsAdapter := database.NewSearchAnalyticsAdapter(pgClient)

	var indexRepo repositories.SearchIndexRepository
	if typesenseClient != nil {
		adapter := search.NewTypesenseAdapter(typesenseClient)
		if err := adapter.InitSchema(context.Background()); err != nil {
			log.Printf("Warning: Failed to init Typesense schema: %v", err)
		}
		indexRepo = adapter
	}

	// One geocoding provider per process, chosen by configured credentials
	geocodingProvider := geocoding.NewProviderFromConfig(cfg.Geocoding)
	if geocodingProvider == nil {
		log.Println("Warning: no geocoding provider configured; searches will not resolve locations")
	} else {
		log.Printf("Geocoding provider initialized: %s", geocodingProvider.Name())
	}

	// Services
	geocodingService := services.NewGeocodingService(
		geocodingProvider,
		cacheProvider,
		time.Duration(cfg.Geocoding.TimeoutSeconds)*time.Second,
		metrics,
	)
	analyticsService := services.NewSearchAnalyticsService(analyticsAdapter)
	filterService := services.NewFilterService(geocodingService, insuranceAdapter, cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize)
	jobSearchService := services.NewJobSearchService(jobAdapter, indexRepo, analyticsService)
	listingSearchService := services.NewListingSearchService(listingAdapter, indexRepo, analyticsService)

	// Handlers
	jobHandler := handlers.NewJobHandler(jobAdapter, jobSearchService, filterService, geocodingService, indexRepo)
	listingHandler := handlers.NewListingHandler(listingAdapter, listingSearchService, filterService, geocodingService, indexRepo)
	geocodingHandler := handlers.NewGeocodingHandler(geocodingService)
	insuranceHandler := handlers.NewInsuranceHandler(insuranceAdapter)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
		log.Println("Cache middleware initialized successfully")
	}

	router := routes.NewRouter(
		jobHandler,
		listingHandler,
		geocodingHandler,
		insuranceHandler,
		analyticsHandler,
		cacheMiddleware,
		metrics,
	)

	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	log.Println("Server stopped")
}
