package rate_limiter

import (
	"net/http"
	"strconv"

	"courier-engine/internal/pkg/middlewares/metrics"
	"courier-engine/pkg/logger"
)

const tooManyRequestsBody = `{"error":"Too Many Requests","message":"Rate limit exceeded. Try again later."}`

// Middleware отклоняет запросы с 429 когда limiter исчерпан. capacity
// отдается клиенту в X-RateLimit-Limit.
func Middleware(log handlerLogger, capacity int, limiter Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter.Allow() {
				next.ServeHTTP(w, r)
				return
			}

			route := metrics.RouteTemplate(r)
			reqLog := log.With(
				logger.NewField("method", r.Method),
				logger.NewField("route", route),
				logger.NewField("remote_addr", r.RemoteAddr),
			)
			reqLog.Warn("rate limit exceeded")

			RateLimitExceededTotal.WithLabelValues(r.Method, route).Inc()

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(capacity))
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)

			if _, err := w.Write([]byte(tooManyRequestsBody)); err != nil {
				reqLog.Error("failed to write rate limit response", logger.NewField("error", err))
			}
		})
	}
}
