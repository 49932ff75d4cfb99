package mcp

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/punchclock/internal/domain/activity"
	"github.com/rpggio/punchclock/internal/domain/attendance"
	"github.com/rpggio/punchclock/internal/domain/clock"
	"github.com/rpggio/punchclock/internal/domain/employee"
	"github.com/rpggio/punchclock/internal/timefmt"
	"github.com/rpggio/punchclock/internal/transport"
)

// ClockService defines clock operations needed by MCP.
type ClockService interface {
	ClockIn(ctx context.Context, employeeID string) (*clock.Event, error)
	ClockOut(ctx context.Context, employeeID string) (*clock.Event, error)
	Active(ctx context.Context, employeeID string) (*clock.Event, error)
	History(ctx context.Context, filter clock.Filter) ([]clock.Event, error)
}

// AttendanceService defines live-state operations needed by MCP.
type AttendanceService interface {
	LiveActivity(ctx context.Context) ([]attendance.Snapshot, error)
	EmployeeStatus(ctx context.Context, employeeID string) (*attendance.Snapshot, error)
	Calendar() attendance.Calendar
}

// EmployeeService defines directory operations needed by MCP.
type EmployeeService interface {
	List(ctx context.Context) ([]employee.Employee, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	Recent(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Clock      ClockService
	Attendance AttendanceService
	Employees  EmployeeService
	Activity   ActivityService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      transport.KeyResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	// Policy renders history durations with a missing endpoint.
	Policy  timefmt.MissingPolicy
	Version string
	Logger  *slog.Logger
	Now     func() time.Time
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "punchclock",
		Version: cfg.Version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio is local only and never authenticates.
	if cfg.TransportMode == "stdio" || !cfg.AuthEnabled || cfg.Resolver == nil {
		server.AddReceivingMiddleware(noAuthMiddleware("local"))
	} else {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg)

	return server
}

// NewHTTPHandler serves server over the streamable HTTP transport.
func NewHTTPHandler(server *sdkmcp.Server) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{
			SessionTimeout: 30 * time.Minute,
		},
	)
}
