package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dossier/internal/audit"
	"dossier/internal/platform/config"
	"dossier/internal/platform/httpserver"
	"dossier/internal/platform/logger"
	"dossier/internal/platform/middleware"
	platformredis "dossier/internal/platform/redis"
	"dossier/internal/refdata"
	"dossier/internal/screening"
	"dossier/internal/screening/handler"
	"dossier/internal/screening/metrics"
	"dossier/internal/screening/store"
	"dossier/internal/token"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal packages.
func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	verdictStore, cleanup, err := buildStore(cfg)
	if err != nil {
		log.Error("failed to initialize verdict store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	auditStore := audit.NewInMemoryStore()
	service := screening.New(refdata.Static(),
		screening.WithLogger(log),
		screening.WithMetrics(metrics.New()),
		screening.WithStore(verdictStore),
		screening.WithAuditPublisher(audit.NewPublisher(auditStore)),
	)

	tokens := token.NewService(cfg.TokenSigningKey, cfg.TokenIssuer, cfg.TokenAudience)

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.Recoverer)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(token.NewServiceAdapter(tokens), log))
		handler.New(service, log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting dossier screening service", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// buildStore picks the verdict store: Postgres when a DSN is configured,
// otherwise Redis when a URL is configured, otherwise in-memory.
func buildStore(cfg config.Server) (screening.Store, func(), error) {
	noop := func() {}

	if cfg.PostgresDSN != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		db, err := store.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, noop, err
		}
		pg := store.NewPostgresStore(db)
		if err := pg.Migrate(ctx); err != nil {
			db.Close()
			return nil, noop, err
		}
		return pg, func() { db.Close() }, nil
	}

	client, err := platformredis.New(cfg.Redis)
	if err != nil {
		return nil, noop, err
	}
	if client != nil {
		return store.NewRedisStore(client.Client, cfg.VerdictTTL), func() { client.Close() }, nil
	}

	return store.NewInMemoryStore(), noop, nil
}
