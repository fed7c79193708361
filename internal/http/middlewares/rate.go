package middlewares

import (
	"net"
	"net/http"
	"strconv"

	"github.com/dropDatabas3/inkwell/internal/http/errors"
	"github.com/dropDatabas3/inkwell/internal/observability/logger"
	"github.com/dropDatabas3/inkwell/internal/rate"
)

// WithRateLimit limita requests por IP de cliente con ventana fija.
// Si el limiter falla (redis caído), deja pasar: rate limiting es
// protección, no disponibilidad.
func WithRateLimit(limiter rate.Limiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := limiter.Allow(r.Context(), clientIP(r))
			if err != nil {
				logger.From(r.Context()).Warn("rate limiter no disponible", logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}
			if !res.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())))
				errors.WriteError(w, errors.ErrRateLimitExceeded)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
