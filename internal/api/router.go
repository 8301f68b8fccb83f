package api

import (
	"archive-route-service/internal/api/handlers"
	"archive-route-service/internal/ports"
	"net/http"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// metrics serves /metrics and may be nil.
func NewRouter(routes ports.ArchiveRouteRepository, matrices ports.MatrixRepository, metrics http.Handler) http.Handler {
	mux := http.NewServeMux()

	routeHandler := &handlers.RouteHandler{Repo: routes}
	matrixHandler := &handlers.MatrixHandler{Repo: matrices}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/routes", routeHandler.List)
	mux.HandleFunc("/matrix", matrixHandler.Get)
	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}

	return loggingMiddleware(mux)
}
