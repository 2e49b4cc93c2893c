// Package httpapi serves the partner and client resources over JSON/HTTP with the
// same shape the client app's gateway expects.
package httpapi

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/simaogato/partnerdesk/internal/adapter/rest"
	"github.com/simaogato/partnerdesk/internal/domain"
)

// Options configures the router.
type Options struct {
	Partners domain.PartnerRepository
	Clients  domain.ClientRepository
	Logger   *slog.Logger

	// APIToken, when set, is required as a bearer token on every resource route.
	APIToken string

	// Registry receives the HTTP metrics; /metrics is only served when set.
	Registry *prometheus.Registry
}

// Server holds the handlers' dependencies.
type Server struct {
	partners domain.PartnerRepository
	clients  domain.ClientRepository
	logger   *slog.Logger
	newID    func() string
}

// NewRouter builds the HTTP API.
func NewRouter(opts Options) *mux.Router {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		partners: opts.Partners,
		clients:  opts.Clients,
		logger:   logger,
		newID:    func() string { return uuid.New().String() },
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "OK")
	}).Methods("GET")
	if opts.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})).Methods("GET")
	}

	api := r.NewRoute().Subrouter()
	api.HandleFunc("/partners", s.listPartners).Methods("GET")
	api.HandleFunc("/clients", s.listClients).Methods("GET")
	api.HandleFunc("/clients", s.createClient).Methods("POST")
	api.HandleFunc("/clients/{id}", s.getClient).Methods("GET")
	api.HandleFunc("/clients/{id}", s.patchClient).Methods("PATCH")
	api.HandleFunc("/clients/{id}", s.deleteClient).Methods("DELETE")
	if opts.APIToken != "" {
		api.Use(bearerAuth(opts.APIToken))
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, rest.ErrorDTO{Error: "route not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, rest.ErrorDTO{Error: "method not allowed"})
	})

	if opts.Registry != nil {
		r.Use(newMetrics(opts.Registry).middleware)
	}
	r.Use(requestLogger(logger))

	return r
}
