package api

import (
	"net/http"
	"parcel-dispatch-service/internal/api/handlers"
	"parcel-dispatch-service/internal/ports"
	"parcel-dispatch-service/internal/services"

	"github.com/rs/cors"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
// cache may be nil. An empty origins list allows any origin.
func NewRouter(result *services.DeliveryResult, cache ports.ReportCache, origins []string) http.Handler {
	mux := http.NewServeMux()

	reports := &handlers.ReportHandler{Result: result, Cache: cache}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/packages", reports.ListPackages)
	mux.HandleFunc("/packages/{id}", reports.GetPackage)
	mux.HandleFunc("/trucks", reports.Trucks)
	mux.HandleFunc("/plans", reports.Plans)

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead},
	})

	return requestIDMiddleware(loggingMiddleware(c.Handler(mux)))
}
