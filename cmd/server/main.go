package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	calculationhandler "quotient/internal/calculation/handler"
	calculationmetrics "quotient/internal/calculation/metrics"
	calculationservice "quotient/internal/calculation/service"
	calculationstore "quotient/internal/calculation/store"
	cataloghandler "quotient/internal/catalog/handler"
	catalogservice "quotient/internal/catalog/service"
	catalogstore "quotient/internal/catalog/store"
	"quotient/internal/platform/config"
	"quotient/internal/platform/httpserver"
	"quotient/internal/platform/logger"
	httptransport "quotient/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps
// the server lifecycle small. Business logic lives in internal services.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	ctx := context.Background()

	var (
		catalogSt     catalogservice.Store
		calculationTx calculationservice.StoreTx
		db            *sql.DB
	)

	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			log.Error("open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err != nil {
			log.Error("ping database", "error", err)
			os.Exit(1)
		}

		catalogPg := catalogstore.NewPostgres(db)
		calculationPg := calculationstore.NewPostgres(db)
		if err := catalogPg.EnsureSchema(ctx); err != nil {
			log.Error("ensure catalog schema", "error", err)
			os.Exit(1)
		}
		if err := calculationPg.EnsureSchema(ctx); err != nil {
			log.Error("ensure calculations schema", "error", err)
			os.Exit(1)
		}

		catalogSt = catalogPg
		calculationTx = newCalculationPostgresTx(db)
	} else {
		log.Warn("no database configured, using in-memory stores")
		catalogSt = catalogstore.NewMemory()
		calculationTx = calculationservice.NewMemoryTx(calculationstore.NewMemory())
	}

	if cfg.SeedCatalog {
		if err := catalogstore.SeedCatalog(ctx, catalogSt); err != nil {
			log.Error("seed catalog", "error", err)
			os.Exit(1)
		}
		log.Info("catalog seeded")
	}

	catalog := catalogservice.New(catalogSt)
	calculation := calculationservice.New(catalog, calculationTx, calculationmetrics.New())

	router := httptransport.NewRouter(log,
		cataloghandler.New(catalog, log),
		calculationhandler.New(calculation, log),
	)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting quotient", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
