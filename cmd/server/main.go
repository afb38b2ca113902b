package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/nainix/marketplace-backend/internal/config"
	"github.com/nainix/marketplace-backend/internal/database"
	"github.com/nainix/marketplace-backend/internal/handlers"
	"github.com/nainix/marketplace-backend/internal/logger"
	"github.com/nainix/marketplace-backend/internal/metrics"
	"github.com/nainix/marketplace-backend/internal/middleware"
	"github.com/nainix/marketplace-backend/internal/routes"
	"github.com/nainix/marketplace-backend/internal/services"
	"github.com/nainix/marketplace-backend/internal/session"
	"github.com/nainix/marketplace-backend/internal/store"
)

const (
	serviceName     = "nainix"
	shutdownTimeout = 15 * time.Second
	connectTimeout  = 15 * time.Second
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found")
	}
	cfg := config.Load()

	log := logger.New(cfg.Environment, cfg.LogLevel)
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := run(cfg, log); err != nil {
		log.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	codec, err := session.NewCodec(cfg.SessionSecret)
	if err != nil {
		return err
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	log.Info("Connecting to MongoDB...", "uri", database.MaskURI(cfg.MongoURI), "db", cfg.DBName)
	mongoClient, db, err := database.Connect(connectCtx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		return err
	}
	defer database.Disconnect(mongoClient)

	if err := store.EnsureIndexes(connectCtx, db); err != nil {
		return err
	}
	log.Info("✅ MongoDB indexes ensured")

	users := store.NewMongoUsers(db)
	jobs := store.NewMongoJobs(db)
	proposals := store.NewMongoProposals(db)

	checks := map[string]handlers.Pinger{
		"mongo": func(ctx context.Context) error { return database.PingMongo(ctx, mongoClient) },
	}

	var ledger store.Ledger = store.NewMongoLedger(db)
	if cfg.PostgresURI != "" {
		pg, err := database.ConnectPostgres(connectCtx, cfg.PostgresURI)
		if err != nil {
			return err
		}
		defer database.DisconnectPostgres(pg)
		if err := database.InitPostgresTables(connectCtx, pg); err != nil {
			return err
		}
		ledger = store.NewPostgresLedger(pg)
		checks["postgres"] = pg.PingContext
		log.Info("✅ Billing ledger on PostgreSQL")
	}

	var (
		redisClient *redis.Client
		cache       services.JobCache = services.NewLocalCache(cfg.JobCacheTTL)
	)
	if cfg.RedisURI != "" {
		redisClient, err = database.ConnectRedis(connectCtx, cfg.RedisURI)
		if err != nil {
			return err
		}
		defer database.DisconnectRedis(redisClient)
		cache = services.NewRedisCache(redisClient, cfg.JobCacheTTL)
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		log.Info("✅ Redis job cache and feed fan-out enabled")
	} else {
		log.Warn("REDIS_URI not set. Job cache and live feed are process local")
	}

	var uploader services.AvatarUploader
	if cfg.CloudinaryEnabled() {
		cld, err := services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		if err != nil {
			log.Warn("Failed to initialize Cloudinary. File uploads will not be available", "error", err)
		} else {
			uploader = cld
			log.Info("✅ Cloudinary service initialized")
		}
	} else {
		log.Warn("Cloudinary credentials not found. File uploads will not be available")
	}

	metrics.MustRegister(serviceName)

	feed := services.NewJobFeed(redisClient)
	feed.Start(ctx)

	jobsSvc := services.NewJobs(services.JobsConfig{
		Jobs:         jobs,
		Users:        users,
		Ledger:       ledger,
		Cache:        cache,
		Events:       feed,
		SeedFallback: cfg.SeedFallback,
	})
	sweeper := services.NewFeaturedSweeper(jobs, cache, feed, cfg.FeaturedSweepInterval)
	go sweeper.Run(ctx)

	h := &handlers.Handler{
		Codec:        codec,
		Accounts:     services.NewAccounts(users),
		Availability: services.NewAvailabilityChecker(users),
		Jobs:         jobsSvc,
		Proposals: services.NewProposals(services.ProposalsConfig{
			Proposals:    proposals,
			Jobs:         jobs,
			Users:        users,
			SeedFallback: cfg.SeedFallback,
		}),
		Monetization:  services.NewMonetization(users, ledger),
		Profiles:      services.NewProfiles(users, uploader, cfg.SeedFallback),
		Feed:          feed,
		SecureCookies: cfg.IsProduction(),
		HealthChecks:  checks,
	}

	opts := routes.Options{Logger: log, AllowedOrigins: cfg.AllowedOrigins}
	if cfg.IsProduction() {
		opts.Security = middleware.ProductionSecurity(cfg.AllowedHost)
		log.Info("✅ Production security enabled (security headers, host check, per-IP and login rate limiting)")
	}
	if redisClient != nil {
		opts.RateLimit = middleware.RedisRateLimit(redisClient)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.NewRouter(h, opts),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("🚀 Nainix backend running", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down...")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}
