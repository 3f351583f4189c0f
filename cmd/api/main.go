package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/georgemunganga/seedhouse-backend/internal/config"
	"github.com/georgemunganga/seedhouse-backend/internal/events"
	"github.com/georgemunganga/seedhouse-backend/internal/logger"
	"github.com/georgemunganga/seedhouse-backend/internal/modules/auth"
	"github.com/georgemunganga/seedhouse-backend/internal/modules/batch"
	"github.com/georgemunganga/seedhouse-backend/internal/modules/catalog"
	"github.com/georgemunganga/seedhouse-backend/internal/modules/ingest"
	"github.com/georgemunganga/seedhouse-backend/internal/modules/lot"
	"github.com/georgemunganga/seedhouse-backend/internal/modules/operator"
	"github.com/georgemunganga/seedhouse-backend/internal/modules/order"
	"github.com/georgemunganga/seedhouse-backend/internal/platform/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewZapLogger(cfg.App.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := postgres.Open(cfg.DB)
	if err != nil {
		log.Fatal("connect database", logger.Error(err))
	}
	defer db.Close()
	log.Info("database connected")

	publisher, err := events.NewPublisher(cfg.Kafka, log)
	if err != nil {
		log.Fatal("create batch publisher", logger.Error(err))
	}
	defer publisher.Close()

	opts, err := ingest.OptionsFromConfig(cfg.Ingest)
	if err != nil {
		log.Fatal("ingest options", logger.Error(err))
	}

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// ── Identity ────────────────────────────────────────────
	operatorRepo := operator.NewPostgresRepository(db)
	operatorService := operator.NewService(operatorRepo)

	authService := auth.NewService(operatorRepo, cfg.Auth)
	auth.NewHandler(authService).RegisterRoutes(router)
	if !authService.Enabled() {
		log.Warn("AUTH_JWT_SECRET not set; API is unauthenticated")
	}

	// ── Catalog, orders and batches ─────────────────────────
	catalogService := catalog.NewService(catalog.NewPostgresRepository(db))
	lotService := lot.NewService(lot.NewPostgresRepository(db))
	orderService := order.NewService(order.NewPostgresRepository(db))
	batchService := batch.NewService(batch.NewPostgresRepository(db))

	// ── Ingestion ───────────────────────────────────────────
	ingestService := ingest.NewService(
		ingest.NewPostgresStore(db),
		orderService,
		catalogService,
		lotService,
		publisher,
		log,
		opts,
	)

	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(authService))
		operator.NewHandler(operatorService).RegisterRoutes(r)
		catalog.NewHandler(catalogService).RegisterRoutes(r)
		order.NewHandler(orderService).RegisterRoutes(r)
		batch.NewHandler(batchService).RegisterRoutes(r)
		ingest.NewHandler(ingestService, log, cfg.Ingest.MaxUploadMB).RegisterRoutes(r)
	})

	// ── Start Server ─────────────────────────────────────────
	srv := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("seedhouse API listening", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server", logger.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown", logger.Error(err))
	}
	log.Info("server stopped")
}
