// Package app wires the stores, domain services and transports together.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/punchclock/internal/config"
	"github.com/rpggio/punchclock/internal/domain/activity"
	"github.com/rpggio/punchclock/internal/domain/attendance"
	"github.com/rpggio/punchclock/internal/domain/clock"
	"github.com/rpggio/punchclock/internal/domain/employee"
	"github.com/rpggio/punchclock/internal/mcp"
	"github.com/rpggio/punchclock/internal/sqlite"
	"github.com/rpggio/punchclock/internal/timefmt"
	"github.com/rpggio/punchclock/internal/transport"
)

// Version is reported by the MCP server.
var Version = "dev"

// App holds the wired services of one database.
type App struct {
	DB         *sqlite.DB
	Keys       *sqlite.APIKeyRepository
	Events     *sqlite.ClockEventRepository
	Activity   *activity.Service
	Employees  *employee.Service
	Clock      *clock.Guard
	Attendance *attendance.Service
	Calendar   attendance.Calendar
	Policy     timefmt.MissingPolicy

	cfg    config.Config
	logger *slog.Logger
	now    func() time.Time
}

// Option configures Open.
type Option func(*options)

type options struct {
	now        func() time.Time
	bcryptCost int
}

// WithClock overrides the time source of every service.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithBcryptCost overrides the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(o *options) { o.bcryptCost = cost }
}

// Open opens the configured database, applies migrations and wires the
// services.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	o := options{now: time.Now, bcryptCost: employee.BcryptCost}
	for _, opt := range opts {
		opt(&o)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, err
	}
	applied, err := db.Migrate(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if applied > 0 {
		logger.Info("applied migrations", "count", applied)
	}

	employeeRepo := sqlite.NewEmployeeRepository(db)
	eventRepo := sqlite.NewClockEventRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	cal := attendance.NewCalendar(loc)
	activitySvc := activity.NewService(activityRepo, logger)
	employeeSvc := employee.NewService(employeeRepo, activitySvc, logger).WithCost(o.bcryptCost)
	guard := clock.NewGuard(eventRepo, activitySvc, logger,
		clock.WithClock(o.now),
		clock.WithLocation(loc),
		clock.WithDirectory(employeeSvc))
	return &App{
		DB:         db,
		Keys:       sqlite.NewAPIKeyRepository(db),
		Events:     eventRepo,
		Activity:   activitySvc,
		Employees:  employeeSvc,
		Clock:      guard,
		Attendance: attendance.NewService(employeeRepo, eventRepo, cal, logger, attendance.WithClock(o.now)),
		Calendar:   cal,
		Policy:     cfg.MissingPolicy(),
		cfg:        cfg,
		logger:     logger,
		now:        o.now,
	}, nil
}

// Logger returns the logger the services were built with.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Close closes the database.
func (a *App) Close() error {
	return a.DB.Close()
}

// MCPServer builds the MCP server for the given transport mode.
func (a *App) MCPServer(mode string) *sdkmcp.Server {
	return mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Clock:      a.Clock,
			Attendance: a.Attendance,
			Employees:  a.Employees,
			Activity:   a.Activity,
		},
		Resolver:      a.Keys,
		AuthEnabled:   a.cfg.Auth.Enabled,
		TransportMode: mode,
		Policy:        a.Policy,
		Version:       Version,
		Logger:        a.logger,
		Now:           a.now,
	})
}

// Handler builds the HTTP router: the REST API plus MCP at /mcp.
func (a *App) Handler() http.Handler {
	var auth func(http.Handler) http.Handler
	if a.cfg.Auth.Enabled {
		auth = transport.AuthMiddleware(a.Keys)
	}
	return transport.NewServer(transport.Config{
		Services: transport.Services{
			Employees:  a.Employees,
			Clock:      a.Clock,
			Attendance: a.Attendance,
			Activity:   a.Activity,
		},
		Auth:   auth,
		MCP:    mcp.NewHTTPHandler(a.MCPServer(config.TransportHTTP)),
		Policy: a.Policy,
		Logger: a.logger,
		Now:    a.now,
	})
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" || filepath.Dir(path) == "." {
		return nil
	}
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
