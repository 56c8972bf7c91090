package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/vitrine/internal"
	"github.com/dukerupert/vitrine/internal/cache"
	"github.com/dukerupert/vitrine/internal/commerce"
	"github.com/dukerupert/vitrine/internal/content"
	"github.com/dukerupert/vitrine/internal/events"
	"github.com/dukerupert/vitrine/internal/handler"
	"github.com/dukerupert/vitrine/internal/handler/storefront"
	"github.com/dukerupert/vitrine/internal/merchandise"
	"github.com/dukerupert/vitrine/internal/middleware"
	"github.com/dukerupert/vitrine/internal/postgres"
	"github.com/dukerupert/vitrine/internal/router"
	"github.com/dukerupert/vitrine/internal/routes"
	"github.com/dukerupert/vitrine/internal/service"
	"github.com/dukerupert/vitrine/internal/telemetry"
	"github.com/dukerupert/vitrine/web"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 10 * time.Second

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	// Initialize Sentry
	flushSentry, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:              cfg.Sentry.DSN,
		Enabled:          cfg.Sentry.Enabled,
		Environment:      cfg.Sentry.Environment,
		Release:          cfg.Sentry.Release,
		SampleRate:       cfg.Sentry.SampleRate,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
		Debug:            cfg.Sentry.Debug,
	}, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer flushSentry()

	// Initialize Prometheus metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := middleware.NewMetrics("vitrine", registry)
	businessMetrics := telemetry.NewBusinessMetrics("vitrine", registry)

	var healthChecks []routes.HealthCheck

	// Initialize cache
	logger.Info("Initializing cache...", "provider", cfg.Cache.Provider)
	payloadCache, err := cache.New(ctx, cache.Config{
		Provider:      cfg.Cache.Provider,
		RedisAddr:     cfg.Cache.RedisAddr,
		RedisPassword: cfg.Cache.RedisPassword,
		RedisDB:       cfg.Cache.RedisDB,
	})
	if err != nil {
		return fmt.Errorf("cache initialization failed: %w", err)
	}
	if rc, ok := payloadCache.(*cache.RedisCache); ok {
		defer rc.Close()
		healthChecks = append(healthChecks, routes.HealthCheck{Name: "cache", Check: rc.Ping})
	}

	// Initialize commerce client
	commerceClient := commerce.NewClient(commerce.Config{
		StoreDomain:       cfg.Commerce.StoreDomain,
		StorefrontToken:   cfg.Commerce.StorefrontToken,
		APIVersion:        cfg.Commerce.APIVersion,
		Timeout:           cfg.Commerce.Timeout,
		MaxRetries:        cfg.Commerce.MaxRetries,
		RequestsPerSecond: cfg.Commerce.RequestsPerSecond,
		Transport:         &telemetry.HTTPTransport{},
	}, logger)
	defer commerceClient.Close()

	var (
		catalog commerce.Catalog = commerceClient
		cached  *commerce.CachedCatalog
	)
	if cfg.Cache.Provider != "none" {
		cached = commerce.NewCachedCatalog(commerceClient, payloadCache, cfg.Cache.TTL, logger)
		catalog = cached
	}

	// Initialize content source
	source, closeSource, err := newContentSource(ctx, cfg.Content, logger, &healthChecks)
	if err != nil {
		return err
	}
	defer closeSource()

	// Subscribe to catalog notifications
	if cfg.Events.NatsURL != "" {
		subscriber, err := events.Connect(events.Config{URL: cfg.Events.NatsURL}, logger)
		if err != nil {
			return fmt.Errorf("event subscription failed: %w", err)
		}
		defer subscriber.Close()
		healthChecks = append(healthChecks, routes.HealthCheck{Name: "events", Check: subscriber.Check})

		if cached != nil {
			if err := subscriber.Listen(cfg.Events.Subject, events.InvalidateProducts(cached, logger)); err != nil {
				return err
			}
		}
		if store, ok := source.(events.ContentStore); ok {
			if err := subscriber.Listen(cfg.Events.ContentSubject, events.SyncContent(store, logger)); err != nil {
				return err
			}
		}
	}

	// Initialize services
	policy := merchandise.DefaultPolicy()
	policy.BackorderMessage = cfg.Merchandising.BackorderMessage

	productService := service.NewProductPageService(catalog, source, service.ProductPageConfig{
		Policy:   policy,
		ListSize: cfg.Merchandising.ListSize,
	}, businessMetrics, logger)

	// Load templates with renderer
	var renderer *handler.Renderer
	if cfg.HTTP.RenderHTML {
		renderer, err = handler.NewRenderer(web.Templates())
		if err != nil {
			return fmt.Errorf("failed to initialize renderer: %w", err)
		}
		logger.Info("Templates loaded successfully")
	}

	// ==========================================================================
	// Initialize middleware
	// ==========================================================================

	securityConfig := middleware.DefaultSecurityHeadersConfig()
	if cfg.Env == "dev" {
		securityConfig.HSTSMaxAge = 0 // Disable HSTS in development
	}

	rateLimiterConfig := middleware.DefaultRateLimiterConfig()
	rateLimiterConfig.RequestsPerSecond = cfg.HTTP.RateLimitRPS
	rateLimiterConfig.BurstSize = cfg.HTTP.RateLimitBurst
	rateLimiter := middleware.NewRateLimiter(rateLimiterConfig)
	defer rateLimiter.Stop()

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	r := router.New(
		middleware.Recovery,
		middleware.RequestID,
		middleware.WithClientIP(),
		middleware.WithRequestLogger(logger),
		telemetry.SentryMiddleware(),
		httpMetrics.Middleware,
		middleware.SecurityHeaders(securityConfig),
		middleware.Timeout(cfg.HTTP.RequestTimeout),
		router.Logger(logger),
	)

	routes.RegisterSystemRoutes(r, routes.SystemDeps{
		MetricsHandler: httpMetrics.Handler(),
		HealthChecks:   healthChecks,
	})

	storefrontRoutes := r.Group(rateLimiter.Middleware)
	routes.RegisterStorefrontRoutes(storefrontRoutes, routes.StorefrontDeps{
		ProductListHandler:   storefront.NewProductListHandler(productService, renderer),
		ProductDetailHandler: storefront.NewProductDetailHandler(productService, renderer),
		VariantHandler:       storefront.NewVariantHandler(productService),
		Static:               web.Static(),
	})

	// CORS wraps the mux so preflight requests never reach method matching
	var h http.Handler = r
	if len(cfg.HTTP.AllowedOrigins) > 0 {
		h = router.CORS(cfg.HTTP.AllowedOrigins)(r)
	}

	// ==========================================================================
	// Start server
	// ==========================================================================

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting storefront server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down storefront server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}

// newContentSource builds the configured content provider and registers a
// health check for it. The returned func releases its resources.
func newContentSource(ctx context.Context, cfg internal.ContentConfig, logger *slog.Logger, checks *[]routes.HealthCheck) (content.Source, func(), error) {
	switch cfg.Provider {
	case "http":
		client := content.NewQueryClient(content.QueryConfig{
			ProjectID:  cfg.ProjectID,
			Dataset:    cfg.Dataset,
			APIVersion: cfg.APIVersion,
			Token:      cfg.Token,
			UseCDN:     cfg.UseCDN,
			Transport:  &telemetry.HTTPTransport{},
		}, logger)
		logger.Info("Content backend configured", "provider", "http", "dataset", cfg.Dataset)
		return client, func() { client.Close() }, nil

	case "postgres":
		// Initialize database/sql connection for migrations
		logger.Info("Connecting to database...")
		sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
		if err != nil {
			return nil, nil, fmt.Errorf("database connection failed: %w", err)
		}
		defer sqlDB.Close()

		if err := sqlDB.PingContext(ctx); err != nil {
			return nil, nil, fmt.Errorf("database ping failed: %w", err)
		}

		logger.Info("Running database migrations...")
		if err := internal.RunMigrations(sqlDB); err != nil {
			return nil, nil, fmt.Errorf("migration failed: %w", err)
		}
		logger.Info("Database migrations completed successfully")

		pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create connection pool: %w", err)
		}
		*checks = append(*checks, routes.HealthCheck{Name: "content", Check: pool.Ping})
		return postgres.NewContentSource(pool), pool.Close, nil

	default:
		logger.Info("No content backend configured; pages render without variant content")
		return content.Nop{}, func() {}, nil
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
