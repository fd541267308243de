package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/16NatGc/Pos-core-v2/internal/auth"
	"github.com/16NatGc/Pos-core-v2/internal/config"
	"github.com/16NatGc/Pos-core-v2/internal/gateway"
	"github.com/16NatGc/Pos-core-v2/internal/httpx"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := httpx.NewLogger("gateway", cfg.LogLevel)

	registry := gateway.NewRegistry(gateway.DefaultDescriptors(cfg))
	proxy := &gateway.Proxy{
		Registry: registry,
		Verifier: auth.NewVerifier(cfg.JWTSecret),
		Metrics:  gateway.NewMetrics(),
		Log:      logger,
	}

	router := httpx.NewRouter(logger)
	proxy.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("gateway listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info().Msg("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
