package repository

import (
	"context"

	"github.com/tofucode-dev/tofu-store/internal/domain"
)

// CartRepository defines the interface for cart persistence operations.
type CartRepository interface {
	// Get retrieves a cart by its user ID.
	Get(ctx context.Context, userID string) (*domain.Cart, error)

	// Save persists a cart, overwriting any existing cart for the user.
	Save(ctx context.Context, cart *domain.Cart) error

	// Delete removes a cart by the user ID.
	Delete(ctx context.Context, userID string) error
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	Email   string
	Page    int
	PerPage int
}

// OrderRepository defines the interface for order persistence operations.
type OrderRepository interface {
	// Create inserts a confirmed order.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by its ID.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// List returns orders matching the filter plus the total count.
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, int, error)
}
