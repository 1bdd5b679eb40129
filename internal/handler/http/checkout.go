package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tofucode-dev/tofu-store/internal/domain"
	"github.com/tofucode-dev/tofu-store/internal/repository"
	"github.com/tofucode-dev/tofu-store/internal/service"
	"github.com/tofucode-dev/tofu-store/pkg/httputil"
	"github.com/tofucode-dev/tofu-store/pkg/pagination"
	"github.com/tofucode-dev/tofu-store/pkg/validator"
)

// CheckoutHandler handles HTTP requests for checkout and order endpoints.
type CheckoutHandler struct {
	service *service.CheckoutService
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(svc *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: svc,
		logger:  logger,
	}
}

// Checkout handles POST /api/v1/checkout. The X-User-ID header is optional;
// guests can check out, they just keep their cart.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req domain.CheckoutRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	userID := r.Header.Get("X-User-ID")

	order, err := h.service.PlaceOrder(r.Context(), userID, &req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: order})
}

// GetOrder handles GET /api/v1/orders/{orderId}
func (h *CheckoutHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	if orderID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "orderId is required"},
		})
		return
	}

	order, err := h.service.GetOrder(r.Context(), orderID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// ListOrders handles GET /api/v1/orders with optional email, page and
// per_page query parameters.
func (h *CheckoutHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	filter := repository.OrderFilter{
		Email:   r.URL.Query().Get("email"),
		Page:    params.Page,
		PerPage: params.PerPage,
	}

	orders, total, err := h.service.ListOrders(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: pagination.NewResult(orders, total, params),
	})
}
