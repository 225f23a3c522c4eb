// main wires high-level dependencies: stores, the Kafka producer and consumer
// groups, the patient service, and the HTTP router. Business logic lives in
// the internal packages.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"medrec/internal/audit"
	"medrec/internal/auth"
	"medrec/internal/event/consumer"
	"medrec/internal/event/consumer/dedupe"
	"medrec/internal/event/publisher"
	patienthandler "medrec/internal/patient/handler"
	patientservice "medrec/internal/patient/service"
	"medrec/internal/patient/store"
	"medrec/internal/platform/config"
	"medrec/internal/platform/httpserver"
	"medrec/internal/platform/kafka"
	"medrec/internal/platform/logger"
	"medrec/internal/platform/metrics"
	platformredis "medrec/internal/platform/redis"
	httptransport "medrec/internal/transport/http"
	"medrec/pkg/email"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Stores fall back to in-memory when no database is configured, which
	// keeps local development free of infrastructure beyond Kafka.
	var (
		patients   store.Store
		auditStore audit.Store
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			return err
		}
		patients = store.NewPostgresStore(pool)
		auditStore = audit.NewPostgresStore(pool)
		log.Info("using postgres stores")
	} else {
		patients = store.NewMemoryStore()
		auditStore = audit.NewMemoryStore()
		log.Info("using in-memory stores")
	}

	var dedupeStore dedupe.Store
	redisClient, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		dedupeStore = dedupe.NewRedisStore(redisClient.Client, cfg.Redis.DedupTTL)
		log.Info("using redis dedupe store")
	} else {
		dedupeStore = dedupe.NewMemoryStore()
		log.Info("using in-memory dedupe store")
	}

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		return err
	}
	defer producer.Close()
	if err := kafka.EnsureTopics(ctx, producer, cfg.Kafka); err != nil {
		return err
	}

	pub := publisher.New(producer, cfg.Kafka, log, m)
	svc := patientservice.New(patients, pub, log)

	jwtSvc := auth.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.TokenTTL)
	authSvc := auth.NewService(jwtSvc)
	if err := authSvc.Seed(cfg.AdminUser, cfg.AdminPassword); err != nil {
		return err
	}

	router := httptransport.NewRouter(patienthandler.New(svc), authSvc, jwtSvc, registry)
	srv := httpserver.New(cfg.Addr, router)

	// Per-class group: one handler per mutation topic.
	classRouter := consumer.NewRouter(log)
	classRouter.Register(cfg.Kafka.CreatedTopic, consumer.NewWelcomeHandler(email.NewLogSender(log), dedupeStore, log))
	classRouter.Register(cfg.Kafka.UpdatedTopic, consumer.NewSyncHandler(log))
	classRouter.Register(cfg.Kafka.DeletedTopic, consumer.NewArchiveHandler(log))

	classClient, err := kafka.NewGroupConsumer(cfg.Kafka, cfg.Kafka.GroupID,
		cfg.Kafka.CreatedTopic, cfg.Kafka.UpdatedTopic, cfg.Kafka.DeletedTopic)
	if err != nil {
		return err
	}
	classConsumer := consumer.New(cfg.Kafka.GroupID, classClient, classRouter, log, m)

	// Merged-stream group: audit trail and analytics, in order, per message.
	mergedHandler := consumer.Chain(
		consumer.NewTrailHandler(auditStore, log),
		consumer.NewAnalyticsHandler(dedupeStore, log),
	)
	mergedClient, err := kafka.NewGroupConsumer(cfg.Kafka, cfg.Kafka.AllEventsGroupID, cfg.Kafka.AllEventsTopic)
	if err != nil {
		return err
	}
	mergedConsumer := consumer.New(cfg.Kafka.AllEventsGroupID, mergedClient, mergedHandler, log, m)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting patient service", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), httpserver.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error { return classConsumer.Run(gctx) })
	g.Go(func() error { return mergedConsumer.Run(gctx) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("patient service stopped")
	return nil
}
