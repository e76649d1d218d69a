package middleware

import (
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/townplan/assessment-portal/pkg/requestid"
)

// Logger logs request start and completion. Both lines carry the request id
// so they can be correlated in aggregated logs; the completion level tracks
// the response class.
func Logger() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			logger := zap.S().Named("http").With(
				"request_id", requestid.FromRequest(r),
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"ip", clientIP(r),
				"user_agent", r.UserAgent(),
			)

			logger.Info("request started")

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger = logger.With(
				"status", ww.Status(),
				"latency", time.Since(start),
				"response_bytes", ww.BytesWritten(),
			)
			switch {
			case ww.Status() >= 500:
				logger.Error("request completed")
			case ww.Status() >= 400:
				logger.Warn("request completed")
			default:
				logger.Info("request completed")
			}
		})
	}
}

func clientIP(r *http.Request) string {
	// X-Forwarded-For can hold a chain; the first entry is the client
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
