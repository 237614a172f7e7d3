package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zaytoon-pos/api/internal/config"
	"github.com/zaytoon-pos/api/internal/database"
	"github.com/zaytoon-pos/api/internal/handler"
	mw "github.com/zaytoon-pos/api/internal/middleware"
	"github.com/zaytoon-pos/api/internal/service"
)

// New creates a Chi router with all application routes wired up. Everything
// except /health and the login endpoint sits behind the session middleware.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool) (chi.Router, error) {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration: the dashboard frontend is served separately.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	authHandler, err := handler.NewAuthHandler(cfg.AdminUsername, cfg.AdminPassword, cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	authHandler.RegisterRoutes(r)

	// Protected routes (require the shared-credential session)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		menuHandler := handler.NewMenuHandler(queries)
		r.Route("/menu-items", menuHandler.RegisterRoutes)

		orderService := service.NewOrderService(pool, func(db database.DBTX) service.OrderStore {
			return database.New(db)
		})
		orderHandler := handler.NewOrderHandler(orderService, queries)
		r.Route("/orders", orderHandler.RegisterRoutes)

		analyticsHandler := handler.NewAnalyticsHandler(queries)
		r.Route("/analytics", analyticsHandler.RegisterRoutes)
		r.Route("/customers", analyticsHandler.RegisterCustomerRoutes)

		exportHandler := handler.NewExportHandler(queries)
		r.Route("/export", exportHandler.RegisterRoutes)
	})

	log.Println("Router initialized with all handlers")
	return r, nil
}
