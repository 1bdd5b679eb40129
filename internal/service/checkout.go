package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/tofucode-dev/tofu-store/internal/domain"
	"github.com/tofucode-dev/tofu-store/internal/event"
	"github.com/tofucode-dev/tofu-store/internal/repository"
	apperrors "github.com/tofucode-dev/tofu-store/pkg/errors"
)

const (
	// orderIDAlphabet is the character set for the random order ID suffix.
	orderIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// orderIDSuffixLen is the length of the random order ID suffix.
	orderIDSuffixLen = 7

	// totalTolerance is the maximum accepted drift between the submitted
	// total and the recomputed item sum, covering float rounding.
	totalTolerance = 0.01
)

// CheckoutService implements the business logic for placing and reading orders.
type CheckoutService struct {
	orders   repository.OrderRepository
	carts    repository.CartRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(orders repository.OrderRepository, carts repository.CartRepository, producer *event.Producer, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{
		orders:   orders,
		carts:    carts,
		producer: producer,
		logger:   logger,
	}
}

// PlaceOrder validates the checkout request, persists the order and clears
// the user's cart. The submitted total must match the recomputed item sum.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID string, req *domain.CheckoutRequest) (*domain.Order, error) {
	if req == nil {
		return nil, apperrors.InvalidInput("checkout request is required")
	}
	if len(req.Items) == 0 {
		return nil, apperrors.InvalidInput("at least one item is required")
	}

	var sum float64
	for i, item := range req.Items {
		if item.ProductID == "" {
			return nil, apperrors.InvalidInput(fmt.Sprintf("item %d: product_id is required", i))
		}
		if item.Quantity <= 0 {
			return nil, apperrors.InvalidInput(fmt.Sprintf("item %d: quantity must be greater than 0", i))
		}
		if item.Price <= 0 {
			return nil, apperrors.InvalidInput(fmt.Sprintf("item %d: price must be greater than 0", i))
		}
		sum += item.Price * float64(item.Quantity)
	}

	if math.Abs(sum-req.Total) > totalTolerance {
		return nil, apperrors.InvalidInput("total does not match the sum of item prices")
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:        newOrderID(now),
		Items:     req.Items,
		Total:     req.Total,
		Customer:  req.Customer,
		CreatedAt: now,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// The cart served its purpose; clearing it is best effort.
	if userID != "" {
		if err := s.carts.Delete(ctx, userID); err != nil {
			s.logger.WarnContext(ctx, "failed to clear cart after checkout",
				slog.String("user_id", userID),
				slog.String("order_id", order.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.producer.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.String("email", order.Customer.Email),
		slog.Float64("total", order.Total),
		slog.Int("items", len(order.Items)),
	)

	return order, nil
}

// GetOrder retrieves an order by its ID.
func (s *CheckoutService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("order id is required")
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	return order, nil
}

// ListOrders returns orders matching the filter plus the total count.
func (s *CheckoutService) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}

// newOrderID builds an order ID from the creation time in milliseconds and a
// short random suffix, e.g. "ORD-1712000000000-AB12CD3".
func newOrderID(now time.Time) string {
	suffix := make([]byte, orderIDSuffixLen)
	for i := range suffix {
		suffix[i] = orderIDAlphabet[rand.IntN(len(orderIDAlphabet))]
	}
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), suffix)
}
