package transport

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rpggio/punchclock/internal/apierror"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

type callerKey struct{}

// KeyResolver resolves the label of an API key from a bearer token.
type KeyResolver interface {
	ResolveKey(ctx context.Context, token string) (string, error)
}

// CallerFromContext returns the API key label from context, if present.
func CallerFromContext(ctx context.Context) (string, bool) {
	caller, ok := ctx.Value(callerKey{}).(string)
	return caller, ok
}

// WithCaller stores the API key label in ctx.
func WithCaller(ctx context.Context, caller string) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// BearerToken extracts the token from an Authorization header value. The
// scheme is matched case-insensitively.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// AuthMiddleware enforces bearer token authentication.
func AuthMiddleware(resolver KeyResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r.Header.Get("Authorization"))
			if token == "" {
				writeUnauthorized(w, "missing bearer token")
				return
			}

			caller, err := resolver.ResolveKey(r.Context(), token)
			if err != nil || caller == "" {
				writeUnauthorized(w, "invalid bearer token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusUnauthorized, errorBody{Error: &apierror.APIError{
		Code:         apierror.CodeUnauthorized,
		Message:      message,
		RecoveryHint: "Send Authorization: Bearer <api key>",
	}})
}
