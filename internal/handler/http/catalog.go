package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tofucode-dev/tofu-store/internal/service"
	"github.com/tofucode-dev/tofu-store/pkg/httputil"
)

// CatalogHandler handles HTTP requests for listing, product detail and
// sitemap endpoints.
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: svc,
		logger:  logger,
	}
}

// ListProducts handles GET /products and GET /products/* where the wildcard
// carries the category slug path. The whole request URL, path and query, is
// the search state.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListProducts(r.Context(), r.URL)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: page})
}

// GetProduct handles GET /api/v1/product/{slug}. The slug's trailing segment
// is the product object ID.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "product slug is required"},
		})
		return
	}

	product, err := h.service.GetProductBySlug(r.Context(), slug)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// Sitemap handles GET /sitemap.xml.
func (h *CatalogHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.Sitemap(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}
