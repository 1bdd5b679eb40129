package middleware

import (
	"log/slog"
	"net/http"

	"github.com/tofucode-dev/tofu-store/pkg/logger"
)

// RequestLogger stores a request-scoped logger in context, pre-tagged with
// correlation_id, user_id and the active trace ids. Handlers fetch it with
// logger.FromContext. Mount after RequestLogging and Tracing so those fields
// exist by the time the logger is built.
//
// The user id comes from the X-User-ID header the API gateway injects after
// session validation. Routes that require it enforce its presence separately.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if uid := r.Header.Get("X-User-ID"); uid != "" {
				ctx = logger.WithUserID(ctx, uid)
			}

			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
