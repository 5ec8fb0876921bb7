package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/event-planner-service/internal/adapter/ical"
	"github.com/couchcryptid/event-planner-service/internal/domain"
	"github.com/couchcryptid/event-planner-service/internal/planner"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxBodyBytes = 64 << 10

// PlanService is the planning surface the API exposes. *planner.Planner
// implements it.
type PlanService interface {
	sharedobs.ReadinessChecker
	Plan(ctx context.Context, sessionID string, req domain.EventRequest) (domain.Plan, error)
	Toggle(ctx context.Context, sessionID string, key domain.TaskKey) (bool, error)
	Timeline(ctx context.Context, sessionID string, eventDate time.Time, vendor string) ([]domain.Milestone, error)
}

// Server exposes the planning API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	svc        PlanService
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and the
// /api routes.
func NewServer(addr string, svc PlanService, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		svc:    svc,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(svc))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/plans", s.handleCreatePlan)
	mux.HandleFunc("POST /api/sessions/{session}/tasks/{monthsOut}/{taskIndex}/toggle", s.handleToggle)
	mux.HandleFunc("GET /api/sessions/{session}/calendar.ics", s.handleCalendar)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// planRequest is the submitted form. Dates are calendar days.
type planRequest struct {
	SessionID     string               `json:"session_id"`
	ClientName    string               `json:"client_name"`
	EventDate     string               `json:"event_date"` // YYYY-MM-DD
	EventType     domain.EventType     `json:"event_type"`
	Attendance    int                  `json:"attendance"`
	VenueLocation domain.VenueLocation `json:"venue_location"`
	Location      string               `json:"location"`
	Caterer       string               `json:"caterer"`
	TotalCost     float64              `json:"total_cost"`
}

func (p planRequest) toDomain() (domain.EventRequest, error) {
	date, err := parseDate(p.EventDate)
	if err != nil {
		return domain.EventRequest{}, err
	}
	return domain.EventRequest{
		ClientName:    strings.TrimSpace(p.ClientName),
		EventDate:     date,
		EventType:     p.EventType,
		Attendance:    p.Attendance,
		VenueLocation: p.VenueLocation,
		Location:      strings.TrimSpace(p.Location),
		Caterer:       strings.TrimSpace(p.Caterer),
		TotalCost:     p.TotalCost,
	}, nil
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var body planRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	req, err := body.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	plan, err := s.svc.Plan(r.Context(), body.SessionID, req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	monthsOut, err1 := strconv.Atoi(r.PathValue("monthsOut"))
	taskIndex, err2 := strconv.Atoi(r.PathValue("taskIndex"))
	if err := errors.Join(err1, err2); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid task position: %w", err))
		return
	}

	key := domain.TaskKey{MonthsOut: monthsOut, TaskIndex: taskIndex}
	completed, err := s.svc.Toggle(r.Context(), r.PathValue("session"), key)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"completed": completed})
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date, err := parseDate(q.Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sessionID := r.PathValue("session")
	milestones, err := s.svc.Timeline(r.Context(), sessionID, date, strings.TrimSpace(q.Get("vendor")))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	name := "Event plan " + date.Format(time.DateOnly)
	body, err := ical.TimelineBytes(sessionID, name, milestones, domain.Now())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="event-plan.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		s.logger.Warn("write calendar failed", "error", err, "session_id", sessionID)
	}
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: event date is required", domain.ErrInvalidRequest)
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: event date %q is not YYYY-MM-DD", domain.ErrInvalidRequest, s)
	}
	return t, nil
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, planner.ErrInvalidSession),
		errors.Is(err, planner.ErrUnknownTask):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, planner.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err)
	default:
		s.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // response already committed
}
