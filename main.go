package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"messenger-service/internal/config"
	"messenger-service/internal/db"
	"messenger-service/internal/handlers"
	"messenger-service/internal/logger"
	"messenger-service/internal/observability"
	"messenger-service/internal/rabbitmq"
	"messenger-service/internal/repositories"
	"messenger-service/internal/service"
	"messenger-service/internal/telemetry"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	env := logger.ParseEnv(cfg.AppEnv)
	appLogger := logger.Init(logger.Config{
		Service: cfg.ServiceName,
		Version: version,
		Level:   logger.ParseLevel(cfg.LogLevel),
		Env:     env,
	})
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		slog.Error("failed to init tracing", slog.Any("error", err))
		os.Exit(1)
	}

	database, err := db.Connect(ctx, db.Options{
		DSN:          cfg.DBDSN,
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		slog.Error("failed to connect to db", slog.Any("error", err))
		os.Exit(1)
	}
	defer database.Close()

	loc, err := cfg.Location()
	if err != nil {
		slog.Error("invalid display timezone", slog.Any("error", err))
		os.Exit(1)
	}

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	slog.Info("event publisher ready",
		slog.String("mode", rabbitmq.PublisherMode(publisher)),
		slog.String("noop_reason", rabbitmq.PublisherNoopReason(publisher)),
	)
	events := telemetry.NewEventEmitter(publisher, cfg.ServiceName, string(env))

	store := repositories.NewStore(database)
	opts := []service.Option{
		service.WithLocation(loc),
		service.WithEvents(events),
		service.WithLogger(appLogger),
	}

	router := handlers.NewRouter(handlers.RouterDeps{
		Chats:       service.NewMessenger(store, opts...),
		Accounts:    service.NewAccounts(store, opts...),
		DB:          database,
		Events:      events,
		Logger:      appLogger,
		ServiceName: cfg.ServiceName,
		Debug:       env == logger.EnvDev,
	})

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listen", slog.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal", slog.String("sig", sig.String()))
	case err := <-errCh:
		slog.Error("server error", slog.Any("error", err))
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctxShutdown); err != nil {
		slog.Error("http shutdown", slog.Any("error", err))
	}
	if err := shutdownTracing(ctxShutdown); err != nil {
		slog.Error("tracing shutdown", slog.Any("error", err))
	}
	slog.Info("stopped")
}
