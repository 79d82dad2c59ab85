package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/futsal-booking/internal"
	"github.com/frahmantamala/futsal-booking/internal/auth"
	"github.com/frahmantamala/futsal-booking/internal/backend"
	"github.com/frahmantamala/futsal-booking/internal/booking"
	"github.com/frahmantamala/futsal-booking/internal/core/events"
	"github.com/frahmantamala/futsal-booking/internal/dashboard"
	"github.com/frahmantamala/futsal-booking/internal/payment"
	"github.com/frahmantamala/futsal-booking/internal/timeline"
	"github.com/frahmantamala/futsal-booking/internal/transport/middleware"
	"github.com/frahmantamala/futsal-booking/internal/transport/rest"
	"github.com/frahmantamala/futsal-booking/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server that serves the booking UI API`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	Backend  *backend.Client
	EventBus *events.EventBus
	Router   *chi.Mux
	Handlers rest.Handlers
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps := initializeDependencies(mustLoadConfig())

	rest.RegisterAllRoutes(deps.Router, deps.Handlers, rest.Options{
		AllowedOrigins: middleware.ParseOrigins(deps.Config.Server.AllowedOrigins),
	}, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "backend", deps.Config.Backend.BaseURL)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.EventBus.Wait(ctx); err != nil {
			deps.Logger.Error("Event handlers did not finish", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func initializeDependencies(cfg *internal.Config) *Dependencies {
	lg := logger.LoggerWrapper()

	client := backend.NewClient(cfg.Backend, lg)
	bus := events.NewEventBus(lg)
	permissions := auth.NewPermissionChecker()

	payment.NewEventHandler(client, lg).RegisterEventHandlers(bus)

	authService := auth.NewService(auth.NewJWTTokenGenerator(cfg.Security.JWTSecret), permissions, lg)
	bookingService := booking.NewService(client, permissions, bus, lg)
	paymentService := payment.NewService(client, permissions, bus, lg)
	timelineService := timeline.NewService(client, lg)
	dashboardService := dashboard.NewService(client, permissions, cfg.Dashboard.Location(), lg)

	return &Dependencies{
		Config:   cfg,
		Backend:  client,
		EventBus: bus,
		Router:   chi.NewRouter(),
		Logger:   lg,
		Handlers: rest.Handlers{
			Auth:      auth.NewHandler(authService, cfg.Security.SessionCookie, lg),
			RBAC:      auth.NewRBACAuthorization(permissions, lg),
			Booking:   booking.NewHandler(bookingService, client, permissions, lg),
			Payment:   payment.NewHandler(paymentService, client, lg),
			Timeline:  timeline.NewHandler(timelineService, client, client, permissions, lg),
			Dashboard: dashboard.NewHandler(dashboardService, lg),
			Health:    rest.NewHealthHandler(map[string]rest.Pinger{"backend": client}),
		},
	}
}
