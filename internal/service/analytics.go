package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/tofucode-dev/tofu-store/internal/domain"
	"github.com/tofucode-dev/tofu-store/internal/event"
	apperrors "github.com/tofucode-dev/tofu-store/pkg/errors"
)

// AnalyticsService validates and forwards analytics events to the event
// stream. Delivery is best effort: a broker outage never surfaces to the
// client that emitted the event.
type AnalyticsService struct {
	producer *event.Producer
	logger   *slog.Logger
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(producer *event.Producer, logger *slog.Logger) *AnalyticsService {
	return &AnalyticsService{
		producer: producer,
		logger:   logger,
	}
}

// TrackEvent validates the event envelope and payload, then publishes it.
// A publish failure is logged but not returned; the event is accepted once
// it validates.
func (s *AnalyticsService) TrackEvent(ctx context.Context, ev *domain.AnalyticsEvent) error {
	if ev == nil {
		return apperrors.InvalidInput("event is required")
	}
	if ev.EventType == "" {
		return apperrors.InvalidInput("event_type is required")
	}
	if len(ev.Data) == 0 {
		return apperrors.InvalidInput("data is required")
	}

	if _, err := ev.DecodeData(); err != nil {
		return apperrors.InvalidInput(err.Error())
	}

	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	if err := s.producer.PublishAnalyticsEvent(ctx, ev); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish analytics event",
			slog.String("event_type", ev.EventType),
			slog.String("error", err.Error()),
		)
		return nil
	}

	s.logger.DebugContext(ctx, "analytics event tracked",
		slog.String("event_type", ev.EventType),
		slog.String("session_id", ev.SessionID),
	)

	return nil
}
