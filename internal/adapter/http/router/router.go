package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

func New(
	metricsRegistry *prometheus.Registry,
	authMiddleware func(http.Handler) http.Handler,
	controllers ...RouteRegistrar,
) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if metricsRegistry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))
	}

	for _, controller := range controllers {
		if controller != nil {
			controller.RegisterRoutes(mux, authMiddleware)
		}
	}

	return mux
}
