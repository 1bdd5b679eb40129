package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tofucode-dev/tofu-store/internal/domain"
	"github.com/tofucode-dev/tofu-store/internal/repository"
	"github.com/tofucode-dev/tofu-store/pkg/database"
	apperrors "github.com/tofucode-dev/tofu-store/pkg/errors"
)

// OrderRepository implements repository.OrderRepository using PostgreSQL.
// Items and customer details are stored as JSONB alongside the order row.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create inserts a confirmed order.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	customerJSON, err := json.Marshal(order.Customer)
	if err != nil {
		return fmt.Errorf("marshal customer: %w", err)
	}

	query := `
		INSERT INTO orders (id, items, total, customer, customer_email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	ctx, end := database.TraceQuery(ctx, "CreateOrder", query)
	_, err = r.pool.Exec(ctx, query,
		order.ID,
		itemsJSON,
		order.Total,
		customerJSON,
		order.Customer.Email,
		order.CreatedAt,
	)
	end(err)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

// GetByID retrieves an order by its ID.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT id, items, total, customer, created_at
		FROM orders
		WHERE id = $1`

	var (
		order        domain.Order
		itemsJSON    []byte
		customerJSON []byte
	)

	ctx, end := database.TraceQuery(ctx, "GetOrder", query)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&itemsJSON,
		&order.Total,
		&customerJSON,
		&order.CreatedAt,
	)
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("order", id)
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	if err := unmarshalOrderFields(&order, itemsJSON, customerJSON); err != nil {
		return nil, err
	}

	return &order, nil
}

// List returns orders matching the filter, newest first, plus the total
// count before pagination.
func (r *OrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = 20
	}

	countQuery := `SELECT COUNT(*) FROM orders WHERE ($1 = '' OR customer_email = $1)`

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, filter.Email).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := `
		SELECT id, items, total, customer, created_at
		FROM orders
		WHERE ($1 = '' OR customer_email = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	ctx, end := database.TraceQuery(ctx, "ListOrders", query)
	rows, err := r.pool.Query(ctx, query, filter.Email, perPage, (page-1)*perPage)
	end(err)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var (
			order        domain.Order
			itemsJSON    []byte
			customerJSON []byte
		)
		if err := rows.Scan(&order.ID, &itemsJSON, &order.Total, &customerJSON, &order.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan order row: %w", err)
		}
		if err := unmarshalOrderFields(&order, itemsJSON, customerJSON); err != nil {
			return nil, 0, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, total, nil
}

// unmarshalOrderFields deserializes the JSONB columns onto the order.
func unmarshalOrderFields(order *domain.Order, itemsJSON, customerJSON []byte) error {
	if itemsJSON != nil {
		if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
			return fmt.Errorf("unmarshal items: %w", err)
		}
	}
	if order.Items == nil {
		order.Items = []domain.OrderItem{}
	}

	if customerJSON != nil {
		if err := json.Unmarshal(customerJSON, &order.Customer); err != nil {
			return fmt.Errorf("unmarshal customer: %w", err)
		}
	}

	return nil
}
