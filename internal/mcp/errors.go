package mcp

import (
	"encoding/json"

	"github.com/rpggio/punchclock/internal/apierror"
)

// ToolError is returned by tools for known domain failures. Its text is the
// JSON encoding of the API error so clients can read the code.
type ToolError struct {
	*apierror.APIError
}

func (e ToolError) Error() string {
	data, err := json.Marshal(e.APIError)
	if err != nil {
		return e.APIError.Error()
	}
	return string(data)
}

// mapError maps domain errors to tool errors. Unknown errors pass through.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if apiErr := apierror.Map(err); apiErr != nil {
		return ToolError{APIError: apiErr}
	}
	return err
}
