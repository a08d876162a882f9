package server

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes registers the job API and metrics endpoints on the router.
func SetupRoutes(router *mux.Router, handlers *Handlers, metrics *Metrics) {
	api := router.PathPrefix("/api/v1").Subrouter()

	jobs := api.PathPrefix("/jobs").Subrouter()
	jobs.HandleFunc("", handlers.SubmitJob).Methods("POST")
	jobs.HandleFunc("/{jobId}", handlers.GetJob).Methods("GET")
	jobs.HandleFunc("/{jobId}", handlers.CancelJob).Methods("DELETE")

	api.HandleFunc("/health", handlers.Health).Methods("GET")

	router.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})).Methods("GET")
}
