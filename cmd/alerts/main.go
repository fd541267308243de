package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/16NatGc/Pos-core-v2/internal/alerts"
	"github.com/16NatGc/Pos-core-v2/internal/config"
	"github.com/16NatGc/Pos-core-v2/internal/httpx"
	"github.com/16NatGc/Pos-core-v2/internal/inventory"
	kafkax "github.com/16NatGc/Pos-core-v2/internal/kafka"
	"github.com/16NatGc/Pos-core-v2/internal/redisx"
	"github.com/joho/godotenv"
)

func atoiOr(s string, def int) int {
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return def
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := httpx.NewLogger("alertas", cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &alerts.Service{
		Redis:     rdb,
		Recipient: cfg.AlertEmail,
		Log:       logger,
	}

	group := os.Getenv("ALERTS_GROUP")
	if group == "" {
		group = "alerts-svc"
	}
	workers := atoiOr(os.Getenv("ALERTS_WORKERS"), 4)
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, inventory.TopicStockLow, workers)

	go func() {
		logger.Info().Str("topic", inventory.TopicStockLow).Msg("alerts worker consuming")
		if err := cons.Start(ctx, svc.HandleLowStock); err != nil {
			logger.Fatal().Err(err).Msg("consumer")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info().Msg("shutting down...")
	cancel()
}
