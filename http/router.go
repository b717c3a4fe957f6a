package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"nickel-advisor/metrics"
)

// NewRouter mounts the rounding API. Calculation routes share limiter;
// a nil limiter disables rate limiting.
func NewRouter(
	h *RoundingHandler,
	limiter *RateLimiter,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) http.Handler {
	mux := http.NewServeMux()

	limited := func(route string, fn http.HandlerFunc) {
		var handler http.Handler = fn
		if limiter != nil {
			handler = RateLimitMiddleware(limiter, logger, handler)
		}
		mux.Handle(route, AccessLogMiddleware(route, m, logger, handler))
	}

	limited("/rounding/round", h.Round)
	limited("/rounding/reachable", h.FindReachable)
	limited("/rounding/suggestions", h.Suggest)
	limited("/rounding/quote", h.Quote)

	mux.Handle("/rounding/rules", AccessLogMiddleware("/rounding/rules", m, logger, http.HandlerFunc(h.Rules)))
	mux.HandleFunc("/health", h.Health)
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return RequestIDMiddleware(mux)
}
