package router

import (
	"net/http"

	"smartmedishop-storefront/internal/handler"
	"smartmedishop-storefront/internal/middleware"
	"smartmedishop-storefront/internal/model"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Config holds the configuration for creating a router.
type Config struct {
	Handler          *handler.Handler
	AuthHandler      *handler.AuthHandler
	CatalogHandler   *handler.CatalogHandler
	CartHandler      *handler.CartHandler
	CheckoutHandler  *handler.CheckoutHandler
	HistoryHandler   *handler.HistoryHandler
	AdminHandler     *handler.AdminHandler
	InventoryHandler *handler.InventoryHandler
	UserHandler      *handler.UserHandler
	FraudHandler     *handler.FraudHandler

	// Identities resolves the user bound to a session.
	Identities middleware.Identities
	Session    middleware.SessionConfig
	// LoginLimiter throttles login and registration; nil disables it.
	LoginLimiter *middleware.RateLimiter
	// Metrics records per-route traffic; nil disables /metrics.
	Metrics MetricsSource

	CORSOrigins []string
	Logger      *zap.Logger
}

// MetricsSource is the part of the metrics registry the router needs.
type MetricsSource interface {
	middleware.RequestObserver
	Handler() http.Handler
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.NewRecovery(logger))
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.NewLogging(logger))
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetrics(cfg.Metrics))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader, middleware.SessionHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, middleware.SessionHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// PUBLIC routes
	if cfg.Handler != nil {
		r.Get("/api/status", cfg.Handler.Status)
		r.Get("/api/v1/health", cfg.Handler.Health)
		r.Get("/api/v1/ready", cfg.Handler.Ready)
	}
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	// SESSION routes: everything below carries a browser session id.
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionID(cfg.Session))

		r.Route("/api/v1", func(r chi.Router) {
			if cfg.AuthHandler != nil {
				r.Route("/auth", func(r chi.Router) {
					r.Group(func(r chi.Router) {
						if cfg.LoginLimiter != nil {
							r.Use(cfg.LoginLimiter.Middleware)
						}
						r.Post("/login", cfg.AuthHandler.Login)
						r.Post("/register", cfg.AuthHandler.Register)
					})
					r.Post("/logout", cfg.AuthHandler.Logout)
					r.Get("/me", cfg.AuthHandler.Me)
				})
			}

			// AUTHENTICATED routes
			r.Group(func(r chi.Router) {
				if cfg.Identities != nil {
					r.Use(middleware.NewAuthMiddleware(cfg.Identities))
				}

				if cfg.CatalogHandler != nil {
					r.Get("/catalog", cfg.CatalogHandler.List)
					r.Get("/catalog/{id}", cfg.CatalogHandler.Get)
				}

				if cfg.CartHandler != nil {
					r.Route("/cart", func(r chi.Router) {
						r.Get("/", cfg.CartHandler.Get)
						r.Delete("/", cfg.CartHandler.Clear)
						r.Post("/items", cfg.CartHandler.AddItem)
						r.Put("/items/{productId}", cfg.CartHandler.UpdateItem)
						r.Delete("/items/{productId}", cfg.CartHandler.RemoveItem)
						r.Post("/validate", cfg.CartHandler.Validate)
					})
				}

				if cfg.CheckoutHandler != nil {
					r.Post("/checkout", cfg.CheckoutHandler.Checkout)
				}

				if cfg.HistoryHandler != nil {
					r.Get("/purchases", cfg.HistoryHandler.Purchases)
					r.Get("/transactions", cfg.HistoryHandler.Transactions)
					r.Get("/transactions/statistics", cfg.HistoryHandler.Statistics)
					r.With(middleware.RequireRole(model.RoleFraudAnalyst, model.RoleAdmin)).
						Get("/transactions/statistics/all", cfg.HistoryHandler.Overview)
				}

				if cfg.AdminHandler != nil || cfg.InventoryHandler != nil || cfg.UserHandler != nil {
					r.Route("/admin", func(r chi.Router) {
						r.Use(middleware.RequireRole(model.RoleAdmin))
						if cfg.AdminHandler != nil {
							r.Get("/checkouts", cfg.AdminHandler.ListCheckouts)
							r.Get("/stats", cfg.AdminHandler.GetStats)
							r.Get("/products/{id}/movements", cfg.AdminHandler.Movements)
						}
						if cfg.InventoryHandler != nil {
							r.Post("/products", cfg.InventoryHandler.CreateProduct)
							r.Put("/products/{id}", cfg.InventoryHandler.UpdateProduct)
							r.Post("/products/{id}/restock", cfg.InventoryHandler.Restock)
							r.Get("/products/{id}/alerts", cfg.InventoryHandler.Alerts)
						}
						if cfg.UserHandler != nil {
							r.Get("/users", cfg.UserHandler.List)
							r.Get("/users/statistics", cfg.UserHandler.Statistics)
							r.Get("/users/{id}", cfg.UserHandler.Get)
							r.Put("/users/{id}/activate", cfg.UserHandler.Activate)
							r.Put("/users/{id}/deactivate", cfg.UserHandler.Deactivate)
						}
					})
				}

				if cfg.FraudHandler != nil {
					r.Route("/fraud", func(r chi.Router) {
						r.Use(middleware.RequireRole(model.RoleFraudAnalyst, model.RoleAdmin))
						r.Get("/alerts", cfg.FraudHandler.Alerts)
						r.Get("/alerts/{id}", cfg.FraudHandler.Alert)
						r.With(middleware.RequireRole(model.RoleFraudAnalyst)).
							Put("/alerts/{id}/resolve", cfg.FraudHandler.Resolve)
						r.Get("/statistics", cfg.FraudHandler.Statistics)
					})
				}
			})
		})
	})

	return r
}
