package http

import (
	"net/http"

	"github.com/sirupsen/logrus"
	customMiddleware "github.com/sun1tar/MIREA-TIP-Practice-22/todo-store/services/todos/internal/middleware"
	"github.com/sun1tar/MIREA-TIP-Practice-22/todo-store/shared/middleware"
)

type RouterOptions struct {
	Logger         *logrus.Logger
	CORSOrigins    []string
	MetricsEnabled bool
}

// NewRouter собирает mux и цепочку middleware
func NewRouter(h *TodoHandler, opts RouterOptions) http.Handler {
	mux := http.NewServeMux()
	h.Register(mux)
	if opts.MetricsEnabled {
		mux.Handle("GET /metrics", customMiddleware.MetricsHandler())
	}

	// Цепочка middleware изнутри наружу (порядок важен!):
	// request-id -> заголовки безопасности -> CORS -> метрики -> логирование.
	// Preflight-запросы CORS завершаются до mux.
	handler := middleware.RequestIDMiddleware(mux)
	handler = customMiddleware.SecurityHeadersMiddleware(handler)
	handler = customMiddleware.CORSMiddleware(opts.CORSOrigins, opts.Logger)(handler)
	if opts.MetricsEnabled {
		handler = customMiddleware.MetricsMiddleware(handler)
	}
	handler = middleware.LoggingMiddleware(opts.Logger)(handler)
	return handler
}
