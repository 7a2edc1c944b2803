package http

import (
	"net/http"
	"time"

	"github.com/fjod/storefront/internal/auth"
	"github.com/fjod/storefront/internal/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

type RouterConfig struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
	Cookies        auth.CookieFactory
}

type Services struct {
	Auth    AuthService
	Catalog CatalogService
	Cart    CartService
	Orders  OrderService
}

func NewRouter(cfg RouterConfig, svc Services, log zerolog.Logger) http.Handler {
	authHandler := NewAuthHandler(svc.Auth, cfg.Cookies)
	productHandler := NewProductHandler(svc.Catalog)
	cartHandler := NewCartHandler(svc.Cart)
	ordersHandler := NewOrdersHandler(svc.Orders)
	guard := NewAuthenticator(svc.Auth)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Get("/logout", authHandler.Logout)
			r.With(guard.RequireSession).Get("/user", authHandler.CurrentUser)
			r.With(guard.RequireAdmin).Post("/make-admin", authHandler.MakeAdmin)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Get("/categories", productHandler.Categories)
			r.Get("/{id}", productHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(guard.RequireAdmin)
				r.Post("/", productHandler.Create)
				r.Post("/import", productHandler.Import)
				r.Put("/{id}", productHandler.Update)
				r.Delete("/{id}", productHandler.Delete)
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(guard.RequireSession)
			r.Get("/", cartHandler.Get)
			r.Post("/add/{id}", cartHandler.Add())
			r.Post("/increment/{id}", cartHandler.Increment())
			r.Post("/decrement/{id}", cartHandler.Decrement())
			r.Delete("/remove/{id}", cartHandler.Remove())
			r.Get("/clear", cartHandler.Clear)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(guard.RequireSession)
			r.Get("/", ordersHandler.List)
			r.Post("/", ordersHandler.Checkout)
			r.Get("/{id}", ordersHandler.Get)
			r.Put("/{id}/status", ordersHandler.UpdateStatus)
			r.Post("/{id}/complete", ordersHandler.Complete)
		})
	})

	return r
}
