package domain

import "time"

// Order is a confirmed checkout, persisted once payment is accepted.
type Order struct {
	ID        string      `json:"id"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Customer  Customer    `json:"customer"`
	CreatedAt time.Time   `json:"created_at"`
}

// OrderItem is a single purchased product line.
type OrderItem struct {
	ProductID string  `json:"product_id" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	Price     float64 `json:"price" validate:"gt=0"`
	Quantity  int     `json:"quantity" validate:"gt=0"`
	Brand     string  `json:"brand,omitempty"`
}

// Customer holds the checkout contact and shipping details.
type Customer struct {
	Email   string `json:"email" validate:"required,email"`
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	ZipCode string `json:"zip_code" validate:"required"`
	Country string `json:"country" validate:"required"`
}

// CheckoutRequest is the validated input to the checkout endpoint.
type CheckoutRequest struct {
	Items    []OrderItem `json:"items" validate:"required,min=1,dive"`
	Customer Customer    `json:"customer" validate:"required"`
	Total    float64     `json:"total" validate:"gt=0"`
}
