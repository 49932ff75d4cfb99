// Package apierror maps domain errors onto the codes returned by the REST
// and MCP transports.
package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rpggio/punchclock/internal/domain/activity"
	"github.com/rpggio/punchclock/internal/domain/attendance"
	"github.com/rpggio/punchclock/internal/domain/clock"
	"github.com/rpggio/punchclock/internal/domain/employee"
)

const (
	CodeAlreadyClockedIn   = "ALREADY_CLOCKED_IN"
	CodeNoActiveSession    = "NO_ACTIVE_SESSION"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeDuplicate          = "DUPLICATE"
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInternal           = "INTERNAL"
)

// APIError represents an error response.
type APIError struct {
	Status       int    `json:"-"`
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Map maps domain errors to API error codes. Unknown errors return nil.
func Map(err error) *APIError {
	if err == nil {
		return nil
	}

	var active *clock.AlreadyActiveError
	switch {
	case errors.As(err, &active):
		apiErr := &APIError{Status: http.StatusConflict, Code: CodeAlreadyClockedIn, Message: "employee already clocked in", RecoveryHint: "Clock out before clocking in again"}
		if active.Event != nil {
			apiErr.Details = map[string]any{"activeSession": active.Event}
		}
		return apiErr
	case errors.Is(err, clock.ErrAlreadyActive):
		return &APIError{Status: http.StatusConflict, Code: CodeAlreadyClockedIn, Message: "employee already clocked in", RecoveryHint: "Clock out before clocking in again"}
	case errors.Is(err, clock.ErrNoActiveSession):
		return &APIError{Status: http.StatusConflict, Code: CodeNoActiveSession, Message: "no active session", RecoveryHint: "Clock in first"}
	case errors.Is(err, clock.ErrInvalidInput),
		errors.Is(err, employee.ErrInvalidInput),
		errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Status: http.StatusBadRequest, Code: CodeInvalidInput, Message: err.Error(), RecoveryHint: "Check required fields"}
	case errors.Is(err, employee.ErrDuplicate):
		return &APIError{Status: http.StatusConflict, Code: CodeDuplicate, Message: err.Error(), RecoveryHint: "Choose another name or email"}
	case errors.Is(err, employee.ErrNotFound),
		errors.Is(err, attendance.ErrEmployeeNotFound),
		errors.Is(err, clock.ErrUnknownEmployee):
		return &APIError{Status: http.StatusNotFound, Code: CodeNotFound, Message: "employee not found", RecoveryHint: "Check the employee id with list_employees"}
	case errors.Is(err, employee.ErrInvalidCredentials):
		return &APIError{Status: http.StatusUnauthorized, Code: CodeInvalidCredentials, Message: "invalid credentials"}
	default:
		return nil
	}
}

// Internal is the response for errors Map does not know.
func Internal() *APIError {
	return &APIError{Status: http.StatusInternalServerError, Code: CodeInternal, Message: "internal error"}
}
