package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/samandr77/microservices/portal/internal/api"
	"github.com/samandr77/microservices/portal/internal/api/events"
	"github.com/samandr77/microservices/portal/internal/clients/pharmacy"
	"github.com/samandr77/microservices/portal/internal/clients/places"
	"github.com/samandr77/microservices/portal/internal/realtime"
	"github.com/samandr77/microservices/portal/internal/repository"
	"github.com/samandr77/microservices/portal/internal/service"
	"github.com/samandr77/microservices/portal/pkg/broker"
	"github.com/samandr77/microservices/portal/pkg/config"
	"github.com/samandr77/microservices/portal/pkg/job"
	"github.com/samandr77/microservices/portal/pkg/logger"
	"github.com/samandr77/microservices/portal/pkg/postgres"
	"github.com/samandr77/microservices/portal/pkg/security"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New(".env")
	panicOnErr("load config", err)

	l, err := logger.New(cfg.Logger.Level)
	panicOnErr("create logger", err)

	err = postgres.UpMigrations(ctx, cfg.Postgres)
	panicOnErr("up migrations", err)

	pool, err := postgres.Connect(ctx, cfg.Postgres)
	panicOnErr("connect to postgres", err)
	defer pool.Close()

	orgRepo := repository.NewOrgContextRepository(pool)

	backend := pharmacy.NewClient(cfg.Pharmacy)
	placesClient := places.NewClient(cfg.Places)

	var publisher realtime.LifecyclePublisher

	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(l, cfg.Kafka.Brokers, cfg.Kafka.LifecycleTopic)
		defer producer.Close()

		publisher = producer
	}

	hub := realtime.NewHub(realtime.Config{
		URL:              cfg.Pharmacy.WSURL,
		MaxReconnects:    cfg.Realtime.MaxReconnects,
		ReconnectDelay:   cfg.Realtime.ReconnectDelay,
		ReconnectMax:     cfg.Realtime.ReconnectMax,
		HandshakeTimeout: cfg.Realtime.HandshakeTimeout,
		AckTimeout:       cfg.Realtime.AckTimeout,
	}, nil, publisher)

	serviceCfg := service.Config{
		SessionTTL:          cfg.Session.TTL,
		OrgContextRetention: cfg.Jobs.OrgContextRetention,
	}

	if cfg.Session.JWTPublicKey != "" {
		decodedPKey, err := base64.StdEncoding.DecodeString(cfg.Session.JWTPublicKey)
		panicOnErr("decode jwt public key", err)

		serviceCfg.VerifyKey, err = security.ParsePublicKey(decodedPKey)
		panicOnErr("parse jwt public key", err)
	}

	s := service.New(serviceCfg, backend, orgRepo, placesClient, hub)

	hub.OnAuthFailure(func(token string) {
		s.ResetSession(context.Background(), token)
	})

	if len(cfg.Kafka.Brokers) > 0 {
		eventHandler := events.NewEventHandler(s)

		consumer := broker.NewConsumer(l, cfg.Kafka.Brokers, cfg.Kafka.ConsumerID, cfg.Kafka.AccessChangedTopic).
			Handle(cfg.Kafka.AccessChangedTopic, eventHandler.OnAccessChanged).
			Consume(ctx)
		defer consumer.Close()
	}

	jobs := job.NewService().
		TryRegisterJob(cfg.Jobs.AccessRefreshInterval > 0, "refresh session access", cfg.Jobs.AccessRefreshInterval, s.RefreshAll).
		TryRegisterJob(cfg.Jobs.OrgContextRetention > 0, "purge stale org contexts", cfg.Jobs.OrgContextPurge, s.PurgeStaleOrgContexts)
	jobs.Start(ctx)

	handler := api.NewHandler(s, hub, cfg.HTTP.AllowedOrigins)
	mw := api.NewMiddleware(s, cfg.HTTP.AllowedOrigins)

	router := api.NewRouter(handler, mw)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Panicf("listen and serve: %s", err)
		}
	}()

	slog.InfoContext(ctx, "service started", "port", cfg.HTTP.Port)

	wg.Add(1)

	go func() {
		defer wg.Done()

		sig := waitSignal()

		slog.InfoContext(ctx, "got OS signal", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, shutdownTimeout)
		defer shutdownCancel()

		// live connections are hijacked and not tracked by Shutdown
		hub.CloseAll()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			slog.ErrorContext(ctx, "server shutdown", "error", err)
		}

		cancel()
		jobs.Stop()
	}()

	wg.Wait()
}

func waitSignal() os.Signal {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	return <-ch
}

func panicOnErr(msg string, err error) {
	if err != nil {
		log.Panicf("%s: %s", msg, err)
	}
}
