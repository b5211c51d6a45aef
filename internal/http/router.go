package http

import (
	"net/http"
	"time"

	"github.com/fjod/go_cart/assistant-service/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type RouterConfig struct {
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
	// FallbackStatus, when set, is reported by /health
	FallbackStatus func() string
}

type HealthResponse struct {
	Status   string `json:"status"`
	Fallback string `json:"fallback,omitempty"`
}

// NewRouter wires the chat endpoint and the cart and catalog views
func NewRouter(cfg RouterConfig, a Assistant, st store.ShopStore, logger *zap.Logger) http.Handler {
	chatHandler := NewChatHandler(a, cfg.RequestTimeout, cfg.MaxRequestBodySize, logger)
	cartHandler := NewCartHandler(st, logger)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestIDMiddleware)
	r.Use(LoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{Status: "ok"}
		if cfg.FallbackStatus != nil {
			resp.Fallback = cfg.FallbackStatus()
		}
		respondJSON(w, logger, http.StatusOK, resp)
	})

	r.Post("/chat", chatHandler.Chat)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", cartHandler.GetProducts)
		r.Put("/products/{product_id}/stock", cartHandler.SetStock)
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
		})
	})

	// spans go to the global tracer provider; a no-op until the process registers one
	return otelhttp.NewHandler(r, "assistant-service")
}
