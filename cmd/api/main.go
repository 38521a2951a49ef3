package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/suruagyvieira/dropmasters-alpha/api/routes"
	"github.com/suruagyvieira/dropmasters-alpha/internal/catalog"
	"github.com/suruagyvieira/dropmasters-alpha/internal/discovery"
	"github.com/suruagyvieira/dropmasters-alpha/internal/events"
	"github.com/suruagyvieira/dropmasters-alpha/internal/notify"
	"github.com/suruagyvieira/dropmasters-alpha/internal/orders"
	"github.com/suruagyvieira/dropmasters-alpha/internal/repricer"
	"github.com/suruagyvieira/dropmasters-alpha/internal/supplier"
	"github.com/suruagyvieira/dropmasters-alpha/internal/support"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/config"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/db"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/db/models"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/logger"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/metrics"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/randx"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/redis"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/worker"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if cfg.DB.AutoMigrate {
		if err := dbClient.DB().AutoMigrate(&models.Product{}, &models.Order{}, &models.EventLog{}); err != nil {
			logg.Error(context.Background(), "failed to run auto migration", err)
			os.Exit(1)
		}
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	repricerMetrics := metrics.NewRepricerMetrics(registry)

	rng := randx.New()
	state := repricer.NewState()
	eventLog := events.NewRecorder(dbClient.DB(), logg, 128)

	catalogRepo := catalog.NewRepository(dbClient.DB())
	productCache := catalog.NewCache(cfg.Cache.ProductsTTL)
	catalogSvc := catalog.NewService(catalogRepo, productCache, state, logg)

	ordersRepo := orders.NewRepository(dbClient.DB())
	autopilot := supplier.New(logg,
		supplier.WithOrderShipper(ordersRepo),
		supplier.WithPressureDecay(cfg.Supplier.PressureDecay),
	)
	discoveryClient := discovery.NewClient(cfg.Discovery, rng, logg)

	pool := worker.NewPool(cfg.Notify.Workers, cfg.Notify.QueueSize)
	composer := notify.NewComposer(rng)
	messenger := notify.NewLogDispatcher(logg)
	ordersSvc := orders.NewService(orders.Deps{
		Store:       ordersRepo,
		Guard:       redisClient,
		Pool:        pool,
		Router:      autopilot,
		Composer:    composer,
		Messenger:   messenger,
		Webhook:     notify.NewWebhook(cfg.Fulfillment, logg),
		Conversions: state,
		Events:      eventLog,
		Logger:      logg,
	})

	job := repricer.NewJob(repricer.JobDeps{
		Store:                catalogRepo,
		Signals:              autopilot,
		Source:               discoveryClient,
		Cache:                productCache,
		State:                state,
		Rand:                 rng,
		Logger:               logg,
		Metrics:              repricerMetrics,
		Events:               eventLog,
		Releaser:             autopilot,
		Cooldown:             cfg.Repricer.Cooldown,
		DissatisfactionDecay: cfg.Repricer.DissatisfactionDecay,
	})
	scheduler := repricer.NewScheduler(job, redisClient, cfg.Repricer, logg, repricerMetrics)

	supportEngine := support.NewEngine(rng, state)

	router := routes.NewRouter(routes.Deps{
		Config:          cfg,
		Logger:          logg,
		DB:              dbClient,
		Redis:           redisClient,
		Catalog:         catalogSvc,
		CatalogRepo:     catalogRepo,
		Orders:          ordersSvc,
		Support:         supportEngine,
		Discovery:       discoveryClient,
		State:           state,
		Job:             job,
		Events:          eventLog,
		Composer:        composer,
		Messenger:       messenger,
		MetricsRegistry: registry,
	})

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go scheduler.Start(rootCtx)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-rootCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "server shutdown failed", err)
	}
	if err := pool.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "worker pool drain failed", err)
	}
	if err := eventLog.Close(shutdownCtx); err != nil {
		logg.Error(ctx, "event recorder drain failed", err)
	}
	logg.Info(ctx, "shutdown complete")
}
