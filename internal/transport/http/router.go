// Package httptransport assembles the public HTTP surface: the token
// endpoint, the authenticated patient API, and operational endpoints.
package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"medrec/internal/auth"
	patienthandler "medrec/internal/patient/handler"
	"medrec/internal/platform/middleware"
)

// NewRouter wires all public endpoints. Patient routes sit behind the auth
// middleware; the token endpoint and operational endpoints do not.
func NewRouter(
	patients *patienthandler.Handler,
	authSvc *auth.Service,
	jwt *auth.JWTService,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Post("/authenticate", handleAuthenticate(authSvc))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwt))
		patients.Register(r)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return r
}
