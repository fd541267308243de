package alerts

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"
)

func TestHandleLowStockMalformedPayload(t *testing.T) {
	s := &Service{Recipient: "admin@pos.local", Log: zerolog.Nop()}

	// A malformed event must be dropped, not returned for redelivery.
	err := s.HandleLowStock(context.Background(), kafkago.Message{Value: []byte("not-json")})
	if err != nil {
		t.Errorf("HandleLowStock = %v, want nil so the consumer commits the offset", err)
	}
}
