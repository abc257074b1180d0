package gateway

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/gateway/middleware"
	verification_http "github.com/sunyatacodes66/sunyataTl-file-store-bot/internal/modules/verification/interfaces/http"
	"go.uber.org/zap"
)

// RouterConfig holds all the handlers and middleware settings needed for routing
type RouterConfig struct {
	VerificationHandler *verification_http.VerificationHandler
	AllowedOrigins      string
	Logger              *zap.Logger
}

// SetupRoutes creates and configures all application routes
func SetupRoutes(config RouterConfig) http.Handler {
	router := NewRouter()
	router.Use(
		middleware.RequestLogger(config.Logger),
		middleware.PrometheusMiddleware,
		func(next http.Handler) http.Handler {
			return middleware.CORSMiddleware(next, config.AllowedOrigins)
		},
	)

	// Health Check
	router.HandleFunc("GET /health", config.VerificationHandler.Health)

	// Prometheus Metrics Endpoint
	router.Handle("GET /metrics", promhttp.Handler())

	// Short-link callback
	router.HandleFunc("GET /verify", config.VerificationHandler.Verify)

	return router.Handler()
}
