package transport

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rpggio/punchclock/internal/domain/activity"
	"github.com/rpggio/punchclock/internal/domain/attendance"
	"github.com/rpggio/punchclock/internal/domain/clock"
	"github.com/rpggio/punchclock/internal/domain/employee"
	"github.com/rpggio/punchclock/internal/report"
	"github.com/rpggio/punchclock/internal/timefmt"
)

// EmployeeService is the employee directory.
type EmployeeService interface {
	Register(ctx context.Context, req employee.RegisterRequest) (*employee.Employee, error)
	List(ctx context.Context) ([]employee.Employee, error)
	Count(ctx context.Context) (int, error)
	Get(ctx context.Context, employeeID string) (*employee.Employee, error)
	Authenticate(ctx context.Context, name, password string) (*employee.Employee, error)
}

// ClockService records clock transitions.
type ClockService interface {
	ClockIn(ctx context.Context, employeeID string) (*clock.Event, error)
	ClockOut(ctx context.Context, employeeID string) (*clock.Event, error)
	Active(ctx context.Context, employeeID string) (*clock.Event, error)
	History(ctx context.Context, filter clock.Filter) ([]clock.Event, error)
}

// AttendanceService derives live state.
type AttendanceService interface {
	Board(ctx context.Context) (*attendance.Board, error)
	LiveActivity(ctx context.Context) ([]attendance.Snapshot, error)
	EmployeeStatus(ctx context.Context, employeeID string) (*attendance.Snapshot, error)
	Calendar() attendance.Calendar
}

// ActivityService reads the audit log.
type ActivityService interface {
	Recent(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services groups the domain services used by the HTTP API.
type Services struct {
	Employees  EmployeeService
	Clock      ClockService
	Attendance AttendanceService
	Activity   ActivityService
}

// Config configures the HTTP router.
type Config struct {
	Services Services
	// Auth guards every /api route except /api/health. Nil disables auth.
	Auth func(http.Handler) http.Handler
	// MCP is mounted at /mcp when set.
	MCP    http.Handler
	Policy timefmt.MissingPolicy
	Logger *slog.Logger
	Now    func() time.Time
}

// Server wires HTTP handlers.
type Server struct {
	services Services
	policy   timefmt.MissingPolicy
	logger   *slog.Logger
	now      func() time.Time
}

// NewServer creates an HTTP server router with middleware.
func NewServer(cfg Config) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	srv := &Server{
		services: cfg.Services,
		policy:   cfg.Policy,
		logger:   logger,
		now:      now,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger))

	r.Get("/api/health", srv.handleHealth)

	r.Group(func(r chi.Router) {
		if cfg.Auth != nil {
			r.Use(cfg.Auth)
		}
		r.Get("/api/users", srv.handleListUsers)
		r.Post("/api/save-user", srv.handleSaveUser)
		r.Post("/api/login", srv.handleLogin)
		r.Post("/api/clock/in", srv.handleClockIn)
		r.Post("/api/clock/out", srv.handleClockOut)
		r.Get("/api/activity/live", srv.handleLiveActivity)
		r.Get("/api/activity", srv.handleActivity)
		r.Get("/api/employees/{id}", srv.handleGetEmployee)
		r.Get("/api/employees/{id}/status", srv.handleEmployeeStatus)
		r.Get("/api/employees/{id}/events", srv.handleEmployeeEvents)
		r.Get("/api/reports/timesheet.xlsx", srv.handleTimesheet)
	})

	if cfg.MCP != nil {
		r.Handle("/mcp", cfg.MCP)
	}

	return r
}

func (s *Server) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.services.Employees.Count(r.Context())
	if err != nil {
		s.logger.Error("health check failed", "error", err)
		WriteJSON(w, http.StatusInternalServerError, map[string]any{
			"status":    "ERROR",
			"timestamp": s.timestamp(),
		})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "OK",
		"userCount": count,
		"timestamp": s.timestamp(),
	})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.services.Employees.List(r.Context())
	if err != nil {
		WriteError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"users":     users,
		"total":     len(users),
		"timestamp": s.timestamp(),
	})
}

func (s *Server) handleSaveUser(w http.ResponseWriter, r *http.Request) {
	var req employee.RegisterRequest
	if err := DecodeJSON(r.Body, &req); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	emp, err := s.services.Employees.Register(r.Context(), req)
	if err != nil {
		WriteError(w, s.logger, err)
		return
	}
	total, err := s.services.Employees.Count(r.Context())
	if err != nil {
		WriteError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{
		"success":    true,
		"user":       emp,
		"totalUsers": total,
	})
}

type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := DecodeJSON(r.Body, &req); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	emp, err := s.services.Employees.Authenticate(r.Context(), req.Name, req.Password)
	if err != nil {
		WriteError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    emp,
	})
}

// handleGetEmployee returns the directory entry and the open session, which
// may have started on an earlier day.
func (s *Server) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	emp, err := s.services.Employees.Get(r.Context(), id)
	if err != nil {
		WriteError(w, s.logger, err)
		return
	}
	open, err := s.services.Clock.Active(r.Context(), id)
	if err != nil {
		WriteError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"user":        emp,
		"openSession": open,
	})
}

type clockRequest struct {
	EmployeeID string `json:"employeeId"`
}

func (s *Server) decodeClockRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req clockRequest
	if err := DecodeJSON(r.Body, &req); err != nil {
		WriteBadRequest(w, err.Error())
		return "", false
	}
	return req.EmployeeID, true
}

func (s *Server) handleClockIn(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := s.decodeClockRequest(w, r)
	if !ok {
		return
	}
	ev, err := s.services.Clock.ClockIn(r.Context(), employeeID)
	if err != nil {
		WriteError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, ev)
}

func (s *Server) handleClockOut(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := s.decodeClockRequest(w, r)
	if !ok {
		return
	}
	ev, err := s.services.Clock.ClockOut(r.Context(), employeeID)
	if err != nil {
		WriteError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, ev)
}

func (s *Server) handleLiveActivity(w http.ResponseWriter, r *http.Request) {
	snaps, err := s.services.Attendance.LiveActivity(r.Context())
	if err != nil {
		WriteError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"employees": snaps,
		"timestamp": s.timestamp(),
	})
}

func (s *Server) handleEmployeeStatus(w http.ResponseWriter, r *http.Request) {
	snap, err := s.services.Attendance.EmployeeStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, snap)
}

func (s *Server) handleEmployeeEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, ok := intParam(w, q.Get("limit"), "limit")
	if !ok {
		return
	}
	filter := clock.Filter{
		EmployeeID: chi.URLParam(r, "id"),
		From:       q.Get("from"),
		To:         q.Get("to"),
		OpenOnly:   q.Get("open") == "true",
		Limit:      limit,
	}
	events, err := s.services.Clock.History(r.Context(), filter)
	if err != nil {
		WriteError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, ok := intParam(w, q.Get("limit"), "limit")
	if !ok {
		return
	}
	offset, ok := intParam(w, q.Get("offset"), "offset")
	if !ok {
		return
	}
	opts := activity.ListActivityOptions{Limit: limit, Offset: offset}
	if id := strings.TrimSpace(q.Get("employeeId")); id != "" {
		opts.EmployeeID = id
	}
	if typ := strings.TrimSpace(q.Get("type")); typ != "" {
		t := activity.ActivityType(typ)
		opts.ActivityType = &t
	}
	entries, err := s.services.Activity.Recent(r.Context(), opts)
	if err != nil {
		WriteError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) handleTimesheet(w http.ResponseWriter, r *http.Request) {
	board, err := s.services.Attendance.Board(r.Context())
	if err != nil {
		WriteError(w, s.logger, err)
		return
	}
	var buf bytes.Buffer
	cal := s.services.Attendance.Calendar()
	ts := report.FromBoard(board, cal, s.policy)
	if err := report.WriteTimesheet(&buf, ts); err != nil {
		WriteError(w, s.logger, err)
		return
	}
	filename := report.FileName(cal.Day(board.Now))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func intParam(w http.ResponseWriter, raw, name string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		WriteBadRequest(w, name+" must be a non-negative integer")
		return 0, false
	}
	return n, true
}
