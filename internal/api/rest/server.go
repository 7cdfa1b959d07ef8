package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stadiumhouse/blueline/internal/cache"
	"github.com/stadiumhouse/blueline/internal/feedback"
	"github.com/stadiumhouse/blueline/internal/notice"
	"github.com/stadiumhouse/blueline/internal/publisher"
	"github.com/stadiumhouse/blueline/internal/service"
	"github.com/stadiumhouse/blueline/internal/store"
	"github.com/stadiumhouse/blueline/internal/store/repository"
)

const serviceVersion = "1.0.0"

// Deps bundles everything the REST server needs. Cache, publisher, fetcher
// and notices may be nil; the corresponding features degrade gracefully.
type Deps struct {
	DB              *store.Database
	Cache           *cache.RedisCache
	Publisher       *publisher.RedisPublisher
	EventService    *service.EventService
	ScheduleService *service.ScheduleService
	ReservationSvc  *service.ReservationService
	FeedbackService *feedback.Service
	Notices         *notice.State
	Fetcher         ScheduleFetcher
	VenueLocation   *time.Location
}

// Server represents the REST API server
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
}

// NewServer creates a new REST API server
func NewServer(port string, deps Deps) *Server {
	eventService := deps.EventService
	if eventService == nil {
		eventService = service.NewEventService(deps.DB, deps.Cache, deps.Publisher)
	}

	handler := &Handler{
		db:              deps.DB,
		eventService:    eventService,
		reservationSvc:  deps.ReservationSvc,
		scheduleService: deps.ScheduleService,
		feedbackService: deps.FeedbackService,
		teamRepo:        repository.NewTeamRepository(deps.DB),
		menuRepo:        repository.NewMenuRepository(deps.DB),
		notices:         deps.Notices,
		fetcher:         deps.Fetcher,
		venueLocation:   deps.VenueLocation,
	}

	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware)
	router.Use(LoggingMiddleware)
	router.Use(CORSMiddleware)

	// Health and metrics
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Events
	api.HandleFunc("/events/upcoming", handler.GetUpcomingEvents).Methods("GET")
	api.HandleFunc("/events", handler.GetEvents).Methods("GET")
	api.HandleFunc("/events", handler.CreateEvent).Methods("POST")
	api.HandleFunc("/events/{eventID}", handler.GetEvent).Methods("GET")
	api.HandleFunc("/events/{eventID}", handler.UpdateEvent).Methods("PATCH")
	api.HandleFunc("/events/{eventID}", handler.DeleteEvent).Methods("DELETE")

	// Teams
	api.HandleFunc("/teams", handler.GetTeams).Methods("GET")
	api.HandleFunc("/teams/{teamID}", handler.GetTeam).Methods("GET")

	// Schedule pipeline
	api.HandleFunc("/schedule/parse", handler.ParseSchedule).Methods("POST")
	api.HandleFunc("/schedule/materialize", handler.MaterializeSchedule).Methods("POST")
	api.HandleFunc("/schedule/fetch", handler.FetchSchedule).Methods("POST")

	// Menu
	api.HandleFunc("/menu", handler.GetMenu).Methods("GET")
	api.HandleFunc("/menu/{categoryID}", handler.GetMenuCategory).Methods("GET")

	// Reservations
	api.HandleFunc("/reservations", handler.CreateReservation).Methods("POST")
	api.HandleFunc("/reservations", handler.GetReservations).Methods("GET")
	api.HandleFunc("/reservations/{reservationID}", handler.UpdateReservation).Methods("PATCH")

	// Feedback
	api.HandleFunc("/feedback", handler.SubmitFeedback).Methods("POST")
	api.HandleFunc("/feedback", handler.GetFeedback).Methods("GET")
	api.HandleFunc("/feedback/{feedbackID}/respond", handler.RespondFeedback).Methods("POST")

	// Notices
	api.HandleFunc("/notices/active", handler.GetActiveNotices).Methods("GET")
	api.HandleFunc("/notices/{noticeID}/dismiss", handler.DismissNotice).Methods("POST")

	return &Server{
		port:    port,
		handler: handler,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%s", port),
			Handler: router,
		},
	}
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
