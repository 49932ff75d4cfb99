package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `punchclock tracks when employees clock in and out.

Core concepts:
- Clock event: one work session of an employee. clock_in opens it, clock_out closes it.
- An employee has at most one open session. Sessions may run past midnight.
- Status is derived on every read: active while a session is open, inactive otherwise.
- Employee ids look like EMP001. Employees registered without an id get EMP plus their
  three-digit position in the user table.

Typical calls:
1) list_employees or live_activity to orient.
2) employee_status before acting on one employee.
3) clock_in / clock_out. ALREADY_CLOCKED_IN and NO_ACTIVE_SESSION are expected outcomes,
   not failures; report them to the user instead of retrying.
4) clock_history and recent_activity to answer questions about past shifts.

Docs: punchclock://docs/overview
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "punchclock://docs/overview",
		Name:        "docs_overview",
		Title:       "punchclock overview",
		Description: "Status rules, display formats and error codes of the punchclock tools.",
		Content: `# punchclock overview

## Status rules

Only sessions dated today (the calendar day of the clock-in) count toward status.

- **active**: the employee has an open session (clock-in without clock-out) that started
  today. Display time is the clock-in time; duration runs from clock-in to now.
- **inactive, clocked out**: the employee's latest finished session today. Display time reads
  "Clocked out at 5:30 PM"; duration is the length of that session.
- **inactive, not clocked in**: no session today. Display time is "Not clocked in" and the
  duration is "0h 0m".

A session left open past midnight is no longer shown as active, but it is still open:
clock_in fails with ALREADY_CLOCKED_IN and clock_out closes it. employee_status reports it
as ` + "`open_session`" + `.

Times are rendered as ` + "`H:MM AM/PM`" + ` in the server's configured time zone. Durations are
rendered as ` + "`{h}h {m}m`" + ` and truncate to whole minutes.

## Errors

Tool errors carry a JSON body with ` + "`code`" + `, ` + "`message`" + ` and ` + "`recovery_hint`" + `:

- ` + "`ALREADY_CLOCKED_IN`" + ` - clock_in while a session is open. ` + "`details.activeSession`" + ` is the open session.
- ` + "`NO_ACTIVE_SESSION`" + ` - clock_out without an open session.
- ` + "`NOT_FOUND`" + ` - unknown employee id, including clock_in for an unregistered employee.
- ` + "`INVALID_INPUT`" + ` - blank employee id, malformed date or unknown activity type.

## History

` + "`clock_history`" + ` accepts ` + "`from`" + ` and ` + "`to`" + ` as YYYY-MM-DD calendar days and returns events newest
first. Records whose timestamps cannot be parsed are listed with empty times.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
