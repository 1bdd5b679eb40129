package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tofucode-dev/tofu-store/pkg/logger"
)

type accessRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (ar *accessRecorder) WriteHeader(code int) {
	ar.status = code
	ar.ResponseWriter.WriteHeader(code)
}

func (ar *accessRecorder) Write(b []byte) (int, error) {
	n, err := ar.ResponseWriter.Write(b)
	ar.bytes += n
	return n, err
}

// RequestLogging emits one access log line per request and owns the
// correlation id: it accepts an inbound X-Correlation-ID, mints a UUID when
// the edge didn't send one, and echoes it on the response so the frontend
// can quote it in support tickets.
func RequestLogging(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			cid := r.Header.Get("X-Correlation-ID")
			if cid == "" {
				cid = uuid.New().String()
			}
			ctx := logger.WithCorrelationID(r.Context(), cid)
			w.Header().Set("X-Correlation-ID", cid)

			ar := &accessRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ar, r.WithContext(ctx))

			l.InfoContext(ctx, "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ar.status),
				slog.Duration("duration", time.Since(start)),
				slog.Int("bytes", ar.bytes),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("user_agent", r.UserAgent()),
				slog.String("correlation_id", cid),
			)
		})
	}
}
