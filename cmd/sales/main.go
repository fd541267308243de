package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/16NatGc/Pos-core-v2/internal/config"
	"github.com/16NatGc/Pos-core-v2/internal/httpx"
	"github.com/16NatGc/Pos-core-v2/internal/postgres"
	"github.com/16NatGc/Pos-core-v2/internal/redisx"
	"github.com/16NatGc/Pos-core-v2/internal/sales"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := httpx.NewLogger("ventas", cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN, cfg.PostgresMaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("db connect")
	}
	defer db.Close()

	repo := &sales.Repo{DB: db}
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ensure schema")
	}

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	orch := &sales.Orchestrator{
		Store:     repo,
		Inventory: sales.NewClient(cfg.InventoryURL, cfg.ClientTimeout),
		Log:       logger,
	}
	h := &sales.Handler{Orchestrator: orch, Redis: rdb, Log: logger}

	router := httpx.NewRouter(logger)
	h.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("sales service listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info().Msg("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
}
