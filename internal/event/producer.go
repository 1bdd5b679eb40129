package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tofucode-dev/tofu-store/internal/domain"
	pkgkafka "github.com/tofucode-dev/tofu-store/pkg/kafka"
	"github.com/tofucode-dev/tofu-store/pkg/logger"
)

// Kafka topics for storefront domain events.
var (
	TopicCartUpdated    = pkgkafka.Topic("cart", "updated")
	TopicCartCleared    = pkgkafka.Topic("cart", "cleared")
	TopicOrderCreated   = pkgkafka.Topic("order", "created")
	TopicAnalyticsEvent = pkgkafka.Topic("analytics", "event")
)

// Aggregate type constants.
const (
	AggregateTypeCart      = "cart"
	AggregateTypeOrder     = "order"
	AggregateTypeAnalytics = "analytics"
)

// Source identifier for events originating from the storefront.
const SourceStorefront = "storefront"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	UserID     string            `json:"user_id"`
	Items      []domain.CartItem `json:"items"`
	ItemCount  int               `json:"item_count"`
	TotalPrice float64           `json:"total_price"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	UserID string `json:"user_id"`
}

// OrderCreatedData is the payload for an order.created event.
type OrderCreatedData struct {
	OrderID   string             `json:"order_id"`
	Items     []domain.OrderItem `json:"items"`
	ItemCount int                `json:"item_count"`
	Total     float64            `json:"total"`
	Email     string             `json:"email"`
	Country   string             `json:"country"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the storefront.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// stamp ties the event to the originating request when the middleware has
// stored a correlation id in the context.
func stamp(ctx context.Context, event *pkgkafka.Event) *pkgkafka.Event {
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}
	return event
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.Cart) error {
	data := CartUpdatedData{
		UserID:     cart.UserID,
		Items:      cart.Items,
		ItemCount:  cart.ItemCount(),
		TotalPrice: cart.TotalPrice(),
	}

	event, err := pkgkafka.NewEvent(TopicCartUpdated, cart.UserID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, stamp(ctx, event)); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("user_id", cart.UserID),
		slog.Int("item_count", cart.ItemCount()),
	)

	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, userID string) error {
	event, err := pkgkafka.NewEvent(TopicCartCleared, userID, AggregateTypeCart, SourceStorefront, CartClearedData{UserID: userID})
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartCleared, stamp(ctx, event)); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.cleared event",
		slog.String("user_id", userID),
	)

	return nil
}

// PublishOrderCreated publishes an order.created event.
func (p *Producer) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	itemCount := 0
	for _, item := range order.Items {
		itemCount += item.Quantity
	}

	data := OrderCreatedData{
		OrderID:   order.ID,
		Items:     order.Items,
		ItemCount: itemCount,
		Total:     order.Total,
		Email:     order.Customer.Email,
		Country:   order.Customer.Country,
	}

	event, err := pkgkafka.NewEvent(TopicOrderCreated, order.ID, AggregateTypeOrder, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create order.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderCreated, stamp(ctx, event)); err != nil {
		return fmt.Errorf("publish order.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.created event",
		slog.String("order_id", order.ID),
		slog.Int("item_count", itemCount),
	)

	return nil
}

// PublishAnalyticsEvent forwards an analytics event to the event stream.
// The analytics event type is carried in the envelope's metadata so
// consumers can route without parsing the payload.
func (p *Producer) PublishAnalyticsEvent(ctx context.Context, ev *domain.AnalyticsEvent) error {
	aggregateID := ev.SessionID
	if aggregateID == "" {
		aggregateID = ev.UserID
	}

	event, err := pkgkafka.NewEvent(TopicAnalyticsEvent, aggregateID, AggregateTypeAnalytics, SourceStorefront, ev)
	if err != nil {
		return fmt.Errorf("create analytics event: %w", err)
	}
	event.WithMetadata("analytics_event_type", ev.EventType)

	if err := p.kafka.Publish(ctx, TopicAnalyticsEvent, stamp(ctx, event)); err != nil {
		return fmt.Errorf("publish analytics event: %w", err)
	}

	p.logger.DebugContext(ctx, "published analytics event",
		slog.String("analytics_event_type", ev.EventType),
	)

	return nil
}
