package inventory

import (
	"context"
	"time"

	kafkax "github.com/16NatGc/Pos-core-v2/internal/kafka"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LowStockThreshold is the fixed stock level at or below which alerts fire.
const LowStockThreshold = 5

const TopicStockLow = "stock.low"

type LowStockEvent struct {
	EventID    string    `json:"event_id"`
	ProductoID string    `json:"producto_id"`
	Nombre     string    `json:"nombre"`
	SKU        string    `json:"sku"`
	Stock      int       `json:"stock"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Sink receives a low-stock notification. Implementations must be safe for
// concurrent use; registration happens once at boot and never after.
type Sink interface {
	Name() string
	Notify(ctx context.Context, p Product) error
}

// Notifier fans a low-stock condition out to every registered sink.
// Sinks run synchronously and unconditionally on every observation that
// meets the threshold; there is no dedup or debounce. A failing or
// panicking sink is logged and never stops its neighbors or the request.
type Notifier struct {
	threshold int
	sinks     []Sink
	log       zerolog.Logger
}

func NewNotifier(log zerolog.Logger, sinks ...Sink) *Notifier {
	return &Notifier{threshold: LowStockThreshold, sinks: sinks, log: log}
}

// Observe checks the product against the threshold and notifies all sinks.
func (n *Notifier) Observe(ctx context.Context, p Product) {
	if p.Stock > n.threshold {
		return
	}
	for _, s := range n.sinks {
		n.notifyOne(ctx, s, p)
	}
}

func (n *Notifier) notifyOne(ctx context.Context, s Sink, p Product) {
	defer func() {
		if rec := recover(); rec != nil {
			n.log.Error().Interface("panic", rec).Str("sink", s.Name()).Msg("stock alert sink panicked")
		}
	}()
	if err := s.Notify(ctx, p); err != nil {
		n.log.Error().Err(err).Str("sink", s.Name()).Str("sku", p.SKU).Msg("stock alert sink failed")
	}
}

// LogSink writes the alert to the service log.
type LogSink struct {
	Log zerolog.Logger
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Notify(ctx context.Context, p Product) error {
	s.Log.Warn().
		Str("producto", p.Nombre).
		Str("sku", p.SKU).
		Int("stock", p.Stock).
		Msg("stock bajo detectado")
	return nil
}

// EmailSink sends a low-stock email. The SMTP integration is stubbed: the
// send is logged with the would-be recipient so operators can verify the
// wiring without a mail relay.
type EmailSink struct {
	Log       zerolog.Logger
	Recipient string
}

func (s *EmailSink) Name() string { return "email" }

func (s *EmailSink) Notify(ctx context.Context, p Product) error {
	s.Log.Info().
		Str("para", s.Recipient).
		Str("producto", p.Nombre).
		Int("stock", p.Stock).
		Msg("enviando email de stock bajo")
	return nil
}

// KafkaSink publishes the alert as a stock.low event; the alerts worker
// consumes it and sends the email notification.
type KafkaSink struct {
	Producer *kafkax.Producer
	Service  string
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Notify(ctx context.Context, p Product) error {
	ev := LowStockEvent{
		EventID:    uuid.NewString(),
		ProductoID: p.ID,
		Nombre:     p.Nombre,
		SKU:        p.SKU,
		Stock:      p.Stock,
		OccurredAt: time.Now().UTC(),
	}
	s.Producer.Publish([]byte(p.ID), kafkax.MustMarshal(ev))
	return nil
}
