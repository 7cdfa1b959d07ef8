package rest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/stadiumhouse/blueline/internal/feedback"
	"github.com/stadiumhouse/blueline/internal/notice"
	"github.com/stadiumhouse/blueline/internal/schedule"
	"github.com/stadiumhouse/blueline/internal/service"
	"github.com/stadiumhouse/blueline/internal/store"
	"github.com/stadiumhouse/blueline/internal/store/repository"
)

// ScheduleFetcher renders a schedule page and returns its text. Optional;
// the endpoint answers 503 when no fetcher is wired.
type ScheduleFetcher interface {
	FetchScheduleText(ctx context.Context, url string) (string, error)
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	db              *store.Database
	eventService    *service.EventService
	reservationSvc  *service.ReservationService
	scheduleService *service.ScheduleService
	feedbackService *feedback.Service
	teamRepo        *repository.TeamRepository
	menuRepo        *repository.MenuRepository
	notices         *notice.State
	fetcher         ScheduleFetcher
	venueLocation   *time.Location
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	if err := h.db.HealthCheck(); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	respondJSON(w, code, map[string]string{
		"status":  status,
		"service": "blueline",
		"version": serviceVersion,
	})
}

// --- Events ---

// GetUpcomingEvents returns upcoming published events
func (h *Handler) GetUpcomingEvents(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20, 100)

	events, err := h.eventService.GetUpcoming(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch upcoming events", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"count":  len(events),
	})
}

// GetEvents returns events within a date range (admin calendar view)
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	start := time.Now().AddDate(0, 0, -7)
	end := time.Now().AddDate(0, 2, 0)

	var err error
	if startStr != "" {
		if start, err = time.Parse("2006-01-02", startStr); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid start date (use YYYY-MM-DD)", err)
			return
		}
	}
	if endStr != "" {
		if end, err = time.Parse("2006-01-02", endStr); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid end date (use YYYY-MM-DD)", err)
			return
		}
	}

	events, err := h.eventService.GetByDateRange(r.Context(), start, end)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch events", err)
		return
	}

	respondJSON(w, http.StatusOK, events)
}

// GetEvent returns a specific event by ID
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathInt(r, "eventID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid event ID", err)
		return
	}

	event, err := h.eventService.GetEvent(r.Context(), eventID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Event not found", err)
		return
	}

	respondJSON(w, http.StatusOK, event)
}

type eventRequest struct {
	EventTitle  string    `json:"event_title"`
	EventDate   time.Time `json:"event_date"`
	EventType   string    `json:"event_type"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	ImageURL    string    `json:"image_url"`
	IsFeatured  bool      `json:"is_featured"`
	Status      string    `json:"status"`
	AllowRSVP   bool      `json:"allow_rsvp"`
}

// CreateEvent creates a manually-authored event
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.EventTitle == "" || req.EventDate.IsZero() || req.EventType == "" {
		respondError(w, http.StatusBadRequest, "event_title, event_date and event_type are required", nil)
		return
	}

	event := eventFromRequest(&req)
	eventID, err := h.eventService.Create(r.Context(), event)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create event", err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{"event_id": eventID})
}

// UpdateEvent modifies an existing event
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathInt(r, "eventID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid event ID", err)
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	event := eventFromRequest(&req)
	event.EventID = eventID

	if err := h.eventService.Update(r.Context(), event); err != nil {
		respondError(w, http.StatusNotFound, "Failed to update event", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Event updated"})
}

// DeleteEvent removes an event
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathInt(r, "eventID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid event ID", err)
		return
	}

	if err := h.eventService.Delete(r.Context(), eventID); err != nil {
		respondError(w, http.StatusNotFound, "Failed to delete event", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Event deleted"})
}

// --- Teams ---

// GetTeams returns all active teams
func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamRepo.GetAll(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch teams", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"teams": teams})
}

// GetTeam returns a team by ID
func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := pathInt(r, "teamID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid team ID", err)
		return
	}

	team, err := h.teamRepo.GetByID(r.Context(), teamID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Team not found", err)
		return
	}

	respondJSON(w, http.StatusOK, team)
}

// --- Schedule pipeline ---

type parseScheduleRequest struct {
	ScheduleText string `json:"schedule_text"`
	TeamName     string `json:"team_name"`
}

// ParseSchedule runs the interpreter over pasted schedule text and returns
// the enriched games for operator review
func (h *Handler) ParseSchedule(w http.ResponseWriter, r *http.Request) {
	var req parseScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.scheduleService.Parse(r.Context(), req.ScheduleText, req.TeamName)
	if err != nil {
		respondScheduleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

type materializeRequest struct {
	TeamID        int                   `json:"team_id"`
	Games         []schedule.ParsedGame `json:"games"`
	IsFeatured    bool                  `json:"is_featured"`
	SaveAsDraft   bool                  `json:"save_as_draft"`
	UseSourceKeys bool                  `json:"use_source_keys"`
}

// MaterializeSchedule creates events for the operator-approved games
func (h *Handler) MaterializeSchedule(w http.ResponseWriter, r *http.Request) {
	var req materializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.TeamID == 0 || len(req.Games) == 0 {
		respondError(w, http.StatusBadRequest, "team_id and games are required", nil)
		return
	}

	cfg := schedule.MaterializerConfig{
		IsFeatured:    req.IsFeatured,
		SaveAsDraft:   req.SaveAsDraft,
		Location:      h.venueLocation,
		UseSourceKeys: req.UseSourceKeys,
	}

	result, err := h.scheduleService.Materialize(r.Context(), req.TeamID, req.Games, cfg)
	if err != nil {
		respondError(w, http.StatusNotFound, "Failed to materialize schedule", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

type fetchScheduleRequest struct {
	URL      string `json:"url"`
	TeamName string `json:"team_name"`
}

// FetchSchedule renders a team's published schedule page, extracts its text
// and runs it through the interpreter
func (h *Handler) FetchSchedule(w http.ResponseWriter, r *http.Request) {
	if h.fetcher == nil {
		respondError(w, http.StatusServiceUnavailable, "Schedule page fetching is not enabled", nil)
		return
	}

	var req fetchScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.URL == "" || req.TeamName == "" {
		respondError(w, http.StatusBadRequest, "url and team_name are required", nil)
		return
	}

	text, err := h.fetcher.FetchScheduleText(r.Context(), req.URL)
	if err != nil {
		respondError(w, http.StatusBadGateway, "Failed to fetch schedule page", err)
		return
	}

	result, err := h.scheduleService.Parse(r.Context(), text, req.TeamName)
	if err != nil {
		respondScheduleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// respondScheduleError maps the pipeline error taxonomy onto status codes
func respondScheduleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, schedule.ErrMissingInput):
		respondError(w, http.StatusBadRequest, "schedule_text and team_name are required", err)
	case errors.Is(err, schedule.ErrInterpreterUnavailable):
		respondError(w, http.StatusBadGateway, "Schedule interpreter is unavailable", err)
	case errors.Is(err, schedule.ErrInvalidResponse):
		respondError(w, http.StatusUnprocessableEntity, "Schedule interpreter returned an invalid response", err)
	default:
		respondError(w, http.StatusInternalServerError, "Failed to parse schedule", err)
	}
}

// --- Menu ---

// GetMenu returns the full menu grouped by category
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	categories, err := h.menuRepo.GetCategories(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch menu", err)
		return
	}

	items, err := h.menuRepo.GetAllItems(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch menu", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
		"items":      items,
	})
}

// GetMenuCategory returns the items of one category
func (h *Handler) GetMenuCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathInt(r, "categoryID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid category ID", err)
		return
	}

	items, err := h.menuRepo.GetItemsByCategory(r.Context(), categoryID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch menu items", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// --- Reservations ---

// CreateReservation stores a table reservation request
func (h *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req service.ReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	res, err := h.reservationSvc.Create(r.Context(), req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to create reservation", err)
		return
	}

	respondJSON(w, http.StatusCreated, res)
}

// GetReservations returns upcoming reservations (admin)
func (h *Handler) GetReservations(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	limit := queryInt(r, "limit", 50, 200)

	reservations, err := h.reservationSvc.GetUpcoming(r.Context(), status, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch reservations", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"reservations": reservations,
		"count":        len(reservations),
	})
}

type reservationStatusRequest struct {
	Status string `json:"status"`
}

// UpdateReservation confirms or cancels a reservation (admin)
func (h *Handler) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	reservationID, err := pathInt(r, "reservationID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid reservation ID", err)
		return
	}

	var req reservationStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.reservationSvc.UpdateStatus(r.Context(), reservationID, req.Status); err != nil {
		respondError(w, http.StatusBadRequest, "Failed to update reservation", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Reservation updated"})
}

// --- Feedback ---

// SubmitFeedback stores a guest feedback entry
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedback.Submission
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	fb, err := h.feedbackService.Submit(r.Context(), req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to submit feedback", err)
		return
	}

	respondJSON(w, http.StatusCreated, fb)
}

// GetFeedback returns recent feedback entries (admin)
func (h *Handler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	limit := queryInt(r, "limit", 50, 200)

	entries, err := h.feedbackService.Recent(r.Context(), status, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch feedback", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"feedback": entries,
		"count":    len(entries),
	})
}

// RespondFeedback drafts an AI reply for a feedback entry (admin)
func (h *Handler) RespondFeedback(w http.ResponseWriter, r *http.Request) {
	feedbackID := mux.Vars(r)["feedbackID"]

	draft, err := h.feedbackService.DraftResponse(r.Context(), feedbackID)
	if err != nil {
		respondError(w, http.StatusBadGateway, "Failed to draft response", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"ai_response": draft})
}

// --- Notices ---

// GetActiveNotices returns the current admin notices
func (h *Handler) GetActiveNotices(w http.ResponseWriter, r *http.Request) {
	if h.notices == nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{"notices": []struct{}{}})
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"notices": h.notices.Active()})
}

// DismissNotice dismisses an admin notice
func (h *Handler) DismissNotice(w http.ResponseWriter, r *http.Request) {
	if h.notices == nil {
		respondError(w, http.StatusServiceUnavailable, "Notices are not enabled", nil)
		return
	}

	noticeID, err := pathInt(r, "noticeID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid notice ID", err)
		return
	}

	if err := h.notices.Dismiss(r.Context(), noticeID); err != nil {
		respondError(w, http.StatusNotFound, "Failed to dismiss notice", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Notice dismissed"})
}

// --- helpers ---

func eventFromRequest(req *eventRequest) *store.Event {
	event := &store.Event{
		EventTitle: req.EventTitle,
		EventDate:  req.EventDate,
		EventType:  req.EventType,
		Location:   req.Location,
		IsFeatured: req.IsFeatured,
		Status:     req.Status,
		AllowRSVP:  req.AllowRSVP,
	}
	if event.Location == "" {
		event.Location = "on-site"
	}
	if event.Status == "" {
		event.Status = store.EventStatusPublished
	}
	if req.Description != "" {
		event.Description = sql.NullString{String: req.Description, Valid: true}
	}
	if req.ImageURL != "" {
		event.ImageURL = sql.NullString{String: req.ImageURL, Valid: true}
	}
	return event
}

func pathInt(r *http.Request, name string) (int, error) {
	return strconv.Atoi(mux.Vars(r)[name])
}

func queryInt(r *http.Request, name string, defaultValue, max int) int {
	value := defaultValue
	if s := r.URL.Query().Get(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= max {
			value = n
		}
	}
	return value
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
