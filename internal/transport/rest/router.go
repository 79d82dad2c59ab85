package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/futsal-booking/internal/auth"
	"github.com/frahmantamala/futsal-booking/internal/booking"
	"github.com/frahmantamala/futsal-booking/internal/dashboard"
	"github.com/frahmantamala/futsal-booking/internal/payment"
	"github.com/frahmantamala/futsal-booking/internal/timeline"
	"github.com/frahmantamala/futsal-booking/internal/transport/middleware"
	"github.com/frahmantamala/futsal-booking/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers groups everything the router mounts. Nil handlers leave their
// routes unregistered.
type Handlers struct {
	Auth      *auth.Handler
	RBAC      *auth.RBACAuthorization
	Booking   *booking.Handler
	Payment   *payment.Handler
	Timeline  *timeline.Handler
	Dashboard *dashboard.Handler
	Health    *HealthHandler
}

type Options struct {
	AllowedOrigins []string
	OpenAPIPath    string
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts Options, logger *slog.Logger) {
	healthHandler := h.Health
	if healthHandler == nil {
		healthHandler = NewHealthHandler(nil)
	}
	openAPIPath := opts.OpenAPIPath
	if openAPIPath == "" {
		openAPIPath = "./api/openapi.yml"
	}

	// Apply global middleware
	router.Use(middleware.CORS(middleware.CORSOptions{AllowedOrigins: opts.AllowedOrigins}))
	router.Use(middleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve the OpenAPI document at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, openAPIPath)
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if h.Auth == nil {
			return
		}

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.SessionMiddleware)

			pr.Get("/session", h.Auth.GetSession)

			pr.Route("/bookings/{id}", func(br chi.Router) {
				if h.Booking != nil {
					br.Get("/transitions", h.Booking.GetPermittedTransitions)
					br.Post("/transitions", h.Booking.RequestTransition)
				}
				if h.Timeline != nil {
					br.Get("/timeline", h.Timeline.GetTimeline)
				}
			})

			if h.Payment != nil && h.RBAC != nil {
				pr.Group(func(pmr chi.Router) {
					pmr.Use(h.RBAC.RequirePaymentProcessing())
					pmr.Post("/payments/{id}/actions", h.Payment.ProcessAction)
				})
			}

			if h.Dashboard != nil {
				pr.Get("/dashboard/summary", h.Dashboard.GetSummary)

				if h.RBAC != nil {
					pr.Group(func(dr chi.Router) {
						dr.Use(h.RBAC.RequirePaymentProcessing())
						dr.Get("/dashboard/payments", h.Dashboard.GetPaymentSummary)
					})
				}
			}
		})
	})
}
