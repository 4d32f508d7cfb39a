package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"clubsphere-backend/internal/config"
	"clubsphere-backend/internal/metrics"
	"clubsphere-backend/internal/security"
	"clubsphere-backend/internal/service"
)

// Dependencies are the collaborators of the HTTP API. Metrics may be nil.
type Dependencies struct {
	Auth         service.AuthService
	Clubs        service.ClubService
	Memberships  service.MembershipService
	Events       service.EventService
	Tokens       security.TokenManager
	Metrics      *metrics.Metrics
	MaxBodyBytes int64
}

// Handler serves the ClubSphere REST API.
type Handler struct {
	auth         service.AuthService
	clubs        service.ClubService
	memberships  service.MembershipService
	events       service.EventService
	tokens       security.TokenManager
	metrics      *metrics.Metrics
	validate     *validator.Validate
	maxBodyBytes int64
}

func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		auth:         deps.Auth,
		clubs:        deps.Clubs,
		memberships:  deps.Memberships,
		events:       deps.Events,
		tokens:       deps.Tokens,
		metrics:      deps.Metrics,
		validate:     newValidator(),
		maxBodyBytes: deps.MaxBodyBytes,
	}
}

// Router builds the mux router. Every route is named after its entry in
// the security table, which the auth middleware consults.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.recoverer, h.logging, h.limitBody, h.authenticate)

	r.HandleFunc("/", h.handleRoot).Methods(http.MethodGet).Name(config.RouteRoot)
	r.HandleFunc("/healthz", h.handleHealth).Methods(http.MethodGet).Name(config.RouteHealth)
	if h.metrics != nil {
		r.Handle("/metrics", h.metrics.Handler()).Methods(http.MethodGet).Name(config.RouteMetrics)
	}

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", h.handleRegister).Methods(http.MethodPost).Name(config.RouteRegister)
	api.HandleFunc("/auth/login", h.handleLogin).Methods(http.MethodPost).Name(config.RouteLogin)

	// Fixed club paths are registered before /clubs/{id}.
	api.HandleFunc("/clubs/all", h.handleListClubs).Methods(http.MethodGet).Name(config.RouteListClubs)
	api.HandleFunc("/clubs/my", h.handleListMyClubs).Methods(http.MethodGet).Name(config.RouteListMyClubs)
	api.HandleFunc("/clubs/create", h.handleCreateClub).Methods(http.MethodPost).Name(config.RouteCreateClub)
	api.HandleFunc("/clubs/requests/pending", h.handleListPending).Methods(http.MethodGet).Name(config.RouteListPending)
	api.HandleFunc("/clubs/requests/mine", h.handleListMyRequests).Methods(http.MethodGet).Name(config.RouteListMyRequests)
	api.HandleFunc("/clubs/requests/{id}/approve", h.handleApprove).Methods(http.MethodPost).Name(config.RouteApproveRequest)
	api.HandleFunc("/clubs/requests/{id}/reject", h.handleReject).Methods(http.MethodPost).Name(config.RouteRejectRequest)
	api.HandleFunc("/clubs/{id}", h.handleGetClub).Methods(http.MethodGet).Name(config.RouteGetClub)
	api.HandleFunc("/clubs/{id}/request", h.handleRequestMembership).Methods(http.MethodPost).Name(config.RouteRequestMembership)

	api.HandleFunc("/events/create", h.handleCreateEvent).Methods(http.MethodPost).Name(config.RouteCreateEvent)
	api.HandleFunc("/events/all", h.handleListEvents).Methods(http.MethodGet).Name(config.RouteListEvents)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeFailure(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeFailure(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	return r
}

func (h *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Welcome to the ClubSphere API\n"))
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, nil)
}

// principal returns the caller set by authenticate. It is always present on
// non-public routes.
func principal(r *http.Request) Principal {
	p, _ := PrincipalFromContext(r.Context())
	return p
}
