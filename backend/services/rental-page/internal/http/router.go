package httpserver

import (
	"net/http"

	"energyrental/backend/services/rental-page/internal/http/middleware"
)

// Routes groups handlers.
type Routes struct {
	Health   http.HandlerFunc
	Metrics  http.Handler
	LivePage http.Handler
	Watch    http.HandlerFunc
}

// NewRouter registers endpoints. authMiddleware guards the live page and the status API; nil
// leaves them open.
func NewRouter(routes Routes, authMiddleware func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()

	protected := func(h http.Handler) http.Handler {
		if authMiddleware == nil {
			return h
		}
		return middleware.Chain(h, authMiddleware)
	}

	if routes.Health != nil {
		mux.Handle("/health", method(http.MethodGet, routes.Health))
	}
	if routes.Metrics != nil {
		mux.Handle("/metrics", method(http.MethodGet, routes.Metrics))
	}
	if routes.LivePage != nil {
		mux.Handle("/ws", method(http.MethodGet, protected(routes.LivePage)))
	}
	if routes.Watch != nil {
		mux.Handle("/api/watch/{address}", method(http.MethodGet, protected(routes.Watch)))
	}
	return mux
}

func method(expected string, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
