package api

import (
	"customer-service/internal/api/handler"
	mw "customer-service/internal/api/middleware"
	"customer-service/internal/config"
	"customer-service/internal/domain/customer"
	"log/slog"
	"net/http"
	"time"

	_ "customer-service/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const defaultRequestTimeout = 60 * time.Second

func SetupRouter(rateLimiter *mw.RateLimiterMiddleware, customerService customer.CustomerService, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(router, rateLimiter, cfg, logger)
	router.NotFound(handler.NotFound)
	router.MethodNotAllowed(handler.MethodNotAllowed)

	setupMetricsEndpoint(router, cfg, logger)
	setupCustomerRoutes(router, customerService, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	setupSwaggerEndpoint(router, logger)

	return router
}

func setupMiddleware(router *chi.Mux, rateLimiter *mw.RateLimiterMiddleware, cfg *config.Config, logger *slog.Logger) {
	timeout := cfg.Server.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(mw.Recoverer(logger))
	router.Use(middleware.Compress(5))
	router.Use(mw.RequestTimeout(timeout))
	if rateLimiter != nil {
		router.Use(rateLimiter.Middleware)
	}
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupCustomerRoutes(r chi.Router, svc customer.CustomerService, logger *slog.Logger) {
	h := handler.NewCustomerHandler(svc, logger)

	r.Route("/customer", func(r chi.Router) {
		r.Get("/get-all", h.GetAllCustomers)
		r.Post("/add", h.AddCustomer)
		r.Put("/update", h.UpdateCustomer)
		r.Delete("/delete/", h.DeleteCustomer)
		r.Delete("/delete/{id}", h.DeleteCustomer)
	})
}
