package alerts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/16NatGc/Pos-core-v2/internal/inventory"
	"github.com/16NatGc/Pos-core-v2/internal/redisx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"
)

// Service turns stock.low events into email notifications. Delivery is
// at-least-once from Kafka, so events are deduped by event id in redis.
type Service struct {
	Redis     *redis.Client
	Recipient string
	Log       zerolog.Logger
}

func (s *Service) HandleLowStock(ctx context.Context, m kafkago.Message) error {
	var ev inventory.LowStockEvent
	if err := json.Unmarshal(m.Value, &ev); err != nil {
		s.Log.Error().Err(err).Msg("malformed stock.low event")
		return nil // never retried, the payload will not improve
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, "alerts", ev.EventID)
	if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	s.Log.Info().
		Str("para", s.Recipient).
		Str("producto", ev.Nombre).
		Str("sku", ev.SKU).
		Int("stock", ev.Stock).
		Msg("enviando email de stock bajo")
	return nil
}
