package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/petplaces-service/internal/delivery/http/handler"
	"github.com/user/petplaces-service/internal/delivery/http/middleware"
)

func New(h *handler.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", h.HandleHealthCheck)
	mux.HandleFunc("POST /api/places/aggregate", h.HandleAggregate)
	mux.HandleFunc("GET /api/runs", h.HandleRecentRuns)

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	// Apply middlewares; CORS sits outermost so preflights short-circuit.
	var chainedHandler http.Handler = mux
	chainedHandler = middleware.Metrics(chainedHandler)
	chainedHandler = middleware.Logging(chainedHandler)
	chainedHandler = middleware.CORS(chainedHandler)

	return chainedHandler
}
