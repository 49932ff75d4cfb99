package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/rpggio/punchclock/internal/apierror"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error *apierror.APIError `json:"error"`
}

// DecodeJSON decodes a single JSON object from body into dst.
func DecodeJSON(body io.Reader, dst any) error {
	dec := json.NewDecoder(io.LimitReader(body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty request body")
		}
		return fmt.Errorf("parse error: %w", err)
	}
	return nil
}

// WriteJSON writes payload with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError maps err to an API error response. Unknown errors are logged
// and reported as internal errors.
func WriteError(w http.ResponseWriter, logger *slog.Logger, err error) {
	apiErr := apierror.Map(err)
	if apiErr == nil {
		logger.Error("request failed", "error", err)
		apiErr = apierror.Internal()
	}
	WriteJSON(w, apiErr.Status, errorBody{Error: apiErr})
}

// WriteBadRequest writes an INVALID_INPUT response.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusBadRequest, errorBody{Error: &apierror.APIError{
		Code:    apierror.CodeInvalidInput,
		Message: message,
	}})
}
