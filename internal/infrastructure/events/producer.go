package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/tienda-api/internal/application/checkout"
	"github.com/jhoicas/tienda-api/internal/application/inventory"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

var (
	_ inventory.EventPublisher = (*Producer)(nil)
	_ checkout.EventPublisher  = (*Producer)(nil)
)

// StockAdjustedEvent evento emitido tras confirmar un ajuste de stock.
type StockAdjustedEvent struct {
	Type       string    `json:"type"`
	ProductID  string    `json:"product_id"`
	VariantID  string    `json:"variant_id,omitempty"`
	Change     int64     `json:"change"`
	FinalStock int64     `json:"final_stock"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

// OrderCreatedEvent evento emitido tras confirmar un pedido.
type OrderCreatedEvent struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"order_id"`
	UserID     string    `json:"user_id"`
	Total      string    `json:"total"`
	Items      int       `json:"items"`
	OccurredAt time.Time `json:"occurred_at"`
}

// OrderStatusChangedEvent evento de transición de estado de pedido.
type OrderStatusChangedEvent struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"order_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Producer publica eventos de dominio en Kafka. Con brokers vacíos el
// productor es no-op: la tienda funciona igual sin broker configurado.
type Producer struct {
	writer *kafka.Writer
	log    zerolog.Logger
}

// NewProducer construye el productor. brokers vacío devuelve un productor no-op.
func NewProducer(brokers []string, topic string, log zerolog.Logger) *Producer {
	if len(brokers) == 0 {
		return &Producer{log: log}
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return &Producer{writer: writer, log: log}
}

// Close cierra el writer subyacente.
func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func (p *Producer) publish(ctx context.Context, key string, event any) error {
	if p.writer == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
	})
}

// PublishStockAdjusted publica stock.adjusted. Best effort: el fallo se
// registra y nunca se propaga (el ajuste ya está confirmado en la DB).
func (p *Producer) PublishStockAdjusted(ctx context.Context, productID, variantID string, change, finalStock int64, reason string) {
	err := p.publish(ctx, productID, StockAdjustedEvent{
		Type:       "stock.adjusted",
		ProductID:  productID,
		VariantID:  variantID,
		Change:     change,
		FinalStock: finalStock,
		Reason:     reason,
		OccurredAt: time.Now(),
	})
	if err != nil {
		p.log.Warn().Err(err).Str("product_id", productID).Msg("no se pudo publicar stock.adjusted")
	}
}

// PublishOrderCreated publica order.created.
func (p *Producer) PublishOrderCreated(ctx context.Context, order *entity.Order) error {
	return p.publish(ctx, order.ID, OrderCreatedEvent{
		Type:       "order.created",
		OrderID:    order.ID,
		UserID:     order.UserID,
		Total:      order.Total.String(),
		Items:      len(order.Items),
		OccurredAt: time.Now(),
	})
}

// PublishOrderStatusChanged publica order.status_changed.
func (p *Producer) PublishOrderStatusChanged(ctx context.Context, orderID, from, to string) error {
	return p.publish(ctx, orderID, OrderStatusChangedEvent{
		Type:       "order.status_changed",
		OrderID:    orderID,
		From:       from,
		To:         to,
		OccurredAt: time.Now(),
	})
}
