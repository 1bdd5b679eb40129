package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tofucode-dev/tofu-store/internal/domain"
	"github.com/tofucode-dev/tofu-store/internal/service"
	"github.com/tofucode-dev/tofu-store/pkg/httputil"
)

// AnalyticsHandler handles HTTP requests for the analytics ingestion endpoint.
type AnalyticsHandler struct {
	service *service.AnalyticsService
	logger  *slog.Logger
}

// NewAnalyticsHandler creates a new analytics HTTP handler.
func NewAnalyticsHandler(svc *service.AnalyticsService, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: svc,
		logger:  logger,
	}
}

// TrackEvent handles POST /api/v1/analytics/events. A valid event is always
// accepted with 202; broker availability never changes the response.
func (h *AnalyticsHandler) TrackEvent(w http.ResponseWriter, r *http.Request) {
	var ev domain.AnalyticsEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if ev.Referrer == "" {
		ev.Referrer = r.Referer()
	}
	if ev.UserAgent == "" {
		ev.UserAgent = r.UserAgent()
	}

	if err := h.service.TrackEvent(r.Context(), &ev); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusAccepted, httputil.Response{Data: map[string]string{"status": "accepted"}})
}
