package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Analytics event types. The event type selects the payload variant
// carried in AnalyticsEvent.Data.
const (
	EventProductView        = "product_view"
	EventProductClick       = "product_click"
	EventAddToCart          = "add_to_cart"
	EventRemoveFromCart     = "remove_from_cart"
	EventUpdateCartQuantity = "update_cart_quantity"
	EventViewCart           = "view_cart"
	EventCheckoutStarted    = "checkout_started"
	EventCheckoutCompleted  = "checkout_completed"
	EventCheckoutFailed     = "checkout_failed"
	EventSearch             = "search"
	EventFilterApplied      = "filter_applied"
	EventPageView           = "page_view"
)

// ValidEventTypes returns all known analytics event types.
func ValidEventTypes() []string {
	return []string{
		EventProductView, EventProductClick,
		EventAddToCart, EventRemoveFromCart, EventUpdateCartQuantity, EventViewCart,
		EventCheckoutStarted, EventCheckoutCompleted, EventCheckoutFailed,
		EventSearch, EventFilterApplied,
		EventPageView,
	}
}

// AnalyticsEvent is the envelope common to all analytics events. Data holds
// the raw variant payload; DecodeData parses it into the typed shape for
// the event type.
type AnalyticsEvent struct {
	EventType string          `json:"event_type" validate:"required"`
	Timestamp time.Time       `json:"timestamp,omitempty"`
	SessionID string          `json:"session_id,omitempty"`
	UserID    string          `json:"user_id,omitempty"`
	PageURL   string          `json:"page_url,omitempty"`
	Referrer  string          `json:"referrer,omitempty"`
	UserAgent string          `json:"user_agent,omitempty"`
	Data      json.RawMessage `json:"data" validate:"required"`
}

// ProductEventData is the payload for product_view and product_click.
type ProductEventData struct {
	ProductID         string   `json:"product_id" validate:"required"`
	ProductName       string   `json:"product_name" validate:"required"`
	ProductPrice      float64  `json:"product_price,omitempty"`
	ProductBrand      string   `json:"product_brand,omitempty"`
	ProductCategory   string   `json:"product_category,omitempty"`
	ProductCategories []string `json:"product_categories,omitempty"`
}

// CartEventData is the payload for add_to_cart, remove_from_cart and
// update_cart_quantity.
type CartEventData struct {
	ProductID     string  `json:"product_id" validate:"required"`
	ProductName   string  `json:"product_name" validate:"required"`
	ProductPrice  float64 `json:"product_price,omitempty"`
	Quantity      int     `json:"quantity" validate:"gt=0"`
	TotalValue    float64 `json:"total_value,omitempty"`
	CartTotal     float64 `json:"cart_total,omitempty"`
	CartItemCount int     `json:"cart_item_count,omitempty" validate:"gte=0"`
}

// ViewCartEventData is the payload for view_cart.
type ViewCartEventData struct {
	CartItemCount int     `json:"cart_item_count" validate:"gte=0"`
	CartTotal     float64 `json:"cart_total"`
}

// CheckoutEventData is the payload for the checkout_* events.
type CheckoutEventData struct {
	OrderID   string      `json:"order_id,omitempty"`
	Total     float64     `json:"total"`
	ItemCount int         `json:"item_count" validate:"gt=0"`
	Items     []OrderItem `json:"items" validate:"required,dive"`
	Error     string      `json:"error,omitempty"`
}

// SearchEventData is the payload for search.
type SearchEventData struct {
	Query       string `json:"query" validate:"required"`
	ResultCount int    `json:"result_count,omitempty" validate:"gte=0"`
}

// FilterEventData is the payload for filter_applied. Value may be a single
// string, a number, or a list of strings depending on the filter type.
type FilterEventData struct {
	FilterType  string `json:"filter_type" validate:"required"`
	FilterValue any    `json:"filter_value" validate:"required"`
	ResultCount int    `json:"result_count,omitempty" validate:"gte=0"`
}

// PageViewEventData is the payload for page_view.
type PageViewEventData struct {
	PagePath  string `json:"page_path" validate:"required"`
	PageTitle string `json:"page_title,omitempty"`
}

// DecodeData parses the raw payload into the typed variant for the event's
// type. An unknown event type is an error; malformed payloads surface the
// JSON error.
func (e *AnalyticsEvent) DecodeData() (any, error) {
	decode := func(dst any) (any, error) {
		if err := json.Unmarshal(e.Data, dst); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", e.EventType, err)
		}
		return dst, nil
	}

	switch e.EventType {
	case EventProductView, EventProductClick:
		return decode(&ProductEventData{})
	case EventAddToCart, EventRemoveFromCart, EventUpdateCartQuantity:
		return decode(&CartEventData{})
	case EventViewCart:
		return decode(&ViewCartEventData{})
	case EventCheckoutStarted, EventCheckoutCompleted, EventCheckoutFailed:
		return decode(&CheckoutEventData{})
	case EventSearch:
		return decode(&SearchEventData{})
	case EventFilterApplied:
		return decode(&FilterEventData{})
	case EventPageView:
		return decode(&PageViewEventData{})
	default:
		return nil, fmt.Errorf("unknown event type %q", e.EventType)
	}
}
