package clock

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rpggio/punchclock/internal/repository"
)

// ImportIssue describes a record that was not imported.
type ImportIssue struct {
	Index      int    `json:"index"`
	ID         string `json:"id,omitempty"`
	EmployeeID string `json:"employeeId,omitempty"`
	Reason     string `json:"reason"`
}

// ImportReport summarizes an import run.
type ImportReport struct {
	Imported  int           `json:"imported"`
	Malformed []ImportIssue `json:"malformed"`
	Skipped   []ImportIssue `json:"skipped"`
}

// Import stores well-formed raw events. Records that cannot be decoded, or
// lack an employee or a clock-in, are reported as malformed. Records the
// store rejects, such as a second open session or a duplicate id, are
// reported as skipped. Instants are rewritten in InstantLayout; a missing id
// or date is filled in.
func (g *Guard) Import(ctx context.Context, raws []RawEvent) (*ImportReport, error) {
	report := &ImportReport{
		Malformed: []ImportIssue{},
		Skipped:   []ImportIssue{},
	}
	for i, raw := range raws {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		issue := ImportIssue{Index: i, ID: raw.ID, EmployeeID: raw.EmployeeID}
		ev, err := raw.Decode()
		if err != nil {
			issue.Reason = err.Error()
			report.Malformed = append(report.Malformed, issue)
			continue
		}
		ev.EmployeeID = strings.TrimSpace(ev.EmployeeID)
		if ev.EmployeeID == "" || ev.ClockIn.IsZero() {
			issue.Reason = fmt.Sprintf("%v: employeeId and clockIn are required", ErrMalformedRecord)
			report.Malformed = append(report.Malformed, issue)
			continue
		}
		if ev.ID == "" {
			ev.ID = uuid.NewString()
		}
		if strings.TrimSpace(ev.Date) == "" {
			ev.Date = ev.ClockIn.In(g.location).Format(DateLayout)
		}

		if err := g.importOne(ctx, ev); err != nil {
			if !errors.Is(err, repository.ErrConflict) {
				return report, fmt.Errorf("importing event %q: %w", ev.ID, err)
			}
			issue.ID = ev.ID
			issue.Reason = "conflicts with a stored event"
			report.Skipped = append(report.Skipped, issue)
			continue
		}
		report.Imported++
	}

	g.logger.Info("imported clock events",
		"imported", report.Imported,
		"malformed", len(report.Malformed),
		"skipped", len(report.Skipped))
	return report, nil
}

func (g *Guard) importOne(ctx context.Context, ev Event) error {
	unlock := g.locks.Lock(ev.EmployeeID)
	defer unlock()
	return g.repo.Append(ctx, ev.Raw())
}
