package mcp

import (
	"context"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/punchclock/internal/domain/activity"
	"github.com/rpggio/punchclock/internal/domain/attendance"
	"github.com/rpggio/punchclock/internal/domain/clock"
)

type tools struct {
	cfg Config
}

func registerTools(server *sdkmcp.Server, cfg Config) {
	t := &tools{cfg: cfg}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "clock_in",
		Description: "Open a work session for an employee. Fails with ALREADY_CLOCKED_IN if one is open.",
	}, t.clockIn)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "clock_out",
		Description: "Close the employee's open work session. Fails with NO_ACTIVE_SESSION if none is open.",
	}, t.clockOut)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "employee_status",
		Description: "Current status of one employee: active or inactive, display time and duration for today, plus any open session from an earlier day.",
	}, t.employeeStatus)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "live_activity",
		Description: "Current status of every employee, in user table order.",
	}, t.liveActivity)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_employees",
		Description: "List employees with their effective employee ids.",
	}, t.listEmployees)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "clock_history",
		Description: "Clock events of one employee, newest first, optionally bounded by calendar days.",
	}, t.clockHistory)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "recent_activity",
		Description: "Recent audit log entries, newest first.",
	}, t.recentActivity)
}

func (t *tools) eventResponse(ev clock.Event) EventResponse {
	return toEventResponse(ev, t.cfg.Services.Attendance.Calendar(), t.cfg.Policy)
}

func (t *tools) clockIn(ctx context.Context, _ *sdkmcp.CallToolRequest, in EmployeeParams) (*sdkmcp.CallToolResult, ClockEventResult, error) {
	ev, err := t.cfg.Services.Clock.ClockIn(ctx, in.EmployeeID)
	if err != nil {
		return nil, ClockEventResult{}, mapError(err)
	}
	return nil, ClockEventResult{Event: t.eventResponse(*ev)}, nil
}

func (t *tools) clockOut(ctx context.Context, _ *sdkmcp.CallToolRequest, in EmployeeParams) (*sdkmcp.CallToolResult, ClockEventResult, error) {
	ev, err := t.cfg.Services.Clock.ClockOut(ctx, in.EmployeeID)
	if err != nil {
		return nil, ClockEventResult{}, mapError(err)
	}
	return nil, ClockEventResult{Event: t.eventResponse(*ev)}, nil
}

func (t *tools) employeeStatus(ctx context.Context, _ *sdkmcp.CallToolRequest, in EmployeeParams) (*sdkmcp.CallToolResult, EmployeeStatusResult, error) {
	snap, err := t.cfg.Services.Attendance.EmployeeStatus(ctx, in.EmployeeID)
	if err != nil {
		return nil, EmployeeStatusResult{}, mapError(err)
	}
	resp := EmployeeStatusResult{Snapshot: toSnapshotResponse(*snap)}
	open, err := t.cfg.Services.Clock.Active(ctx, snap.EmployeeID)
	if err != nil {
		return nil, EmployeeStatusResult{}, mapError(err)
	}
	if open != nil {
		ev := t.eventResponse(*open)
		resp.OpenSession = &ev
	}
	return nil, resp, nil
}

func (t *tools) liveActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, LiveActivityResult, error) {
	snaps, err := t.cfg.Services.Attendance.LiveActivity(ctx)
	if err != nil {
		return nil, LiveActivityResult{}, mapError(err)
	}
	resp := LiveActivityResult{
		Timestamp: clock.FormatInstant(t.cfg.Now()),
		Employees: make([]SnapshotResponse, 0, len(snaps)),
	}
	for _, snap := range snaps {
		if snap.Status == attendance.StatusActive {
			resp.Active++
		}
		resp.Employees = append(resp.Employees, toSnapshotResponse(snap))
	}
	return nil, resp, nil
}

func (t *tools) listEmployees(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, ListEmployeesResult, error) {
	emps, err := t.cfg.Services.Employees.List(ctx)
	if err != nil {
		return nil, ListEmployeesResult{}, mapError(err)
	}
	resp := ListEmployeesResult{
		Total:     len(emps),
		Employees: make([]EmployeeResponse, 0, len(emps)),
	}
	for i, emp := range emps {
		resp.Employees = append(resp.Employees, toEmployeeResponse(emp, i))
	}
	return nil, resp, nil
}

func (t *tools) clockHistory(ctx context.Context, _ *sdkmcp.CallToolRequest, in ClockHistoryParams) (*sdkmcp.CallToolResult, ClockHistoryResult, error) {
	if strings.TrimSpace(in.EmployeeID) == "" {
		return nil, ClockHistoryResult{}, mapError(clock.ErrInvalidInput)
	}
	events, err := t.cfg.Services.Clock.History(ctx, clock.Filter{
		EmployeeID: strings.TrimSpace(in.EmployeeID),
		From:       in.From,
		To:         in.To,
		OpenOnly:   in.OpenOnly,
		Limit:      in.Limit,
	})
	if err != nil {
		return nil, ClockHistoryResult{}, mapError(err)
	}
	resp := ClockHistoryResult{Events: make([]EventResponse, 0, len(events))}
	for _, ev := range events {
		resp.Events = append(resp.Events, t.eventResponse(ev))
	}
	return nil, resp, nil
}

func (t *tools) recentActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, in RecentActivityParams) (*sdkmcp.CallToolResult, RecentActivityResult, error) {
	opts := activity.ListActivityOptions{Limit: in.Limit, Offset: in.Offset}
	if id := strings.TrimSpace(in.EmployeeID); id != "" {
		opts.EmployeeID = id
	}
	if typ := strings.TrimSpace(in.Type); typ != "" {
		at := activity.ActivityType(typ)
		opts.ActivityType = &at
	}
	entries, err := t.cfg.Services.Activity.Recent(ctx, opts)
	if err != nil {
		return nil, RecentActivityResult{}, mapError(err)
	}
	resp := RecentActivityResult{Entries: make([]ActivityResponse, 0, len(entries))}
	for _, entry := range entries {
		resp.Entries = append(resp.Entries, toActivityResponse(entry))
	}
	return nil, resp, nil
}
