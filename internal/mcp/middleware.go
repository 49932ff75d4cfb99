package mcp

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/punchclock/internal/transport"
)

type contextKey int

const callerKey contextKey = iota

// getCaller extracts the API key label from context.
func getCaller(ctx context.Context) string {
	v, _ := ctx.Value(callerKey).(string)
	return v
}

// authMiddleware implements bearer token authentication as MCP middleware.
func authMiddleware(resolver transport.KeyResolver) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			// Protocol handshake is always allowed.
			if method == "initialize" || method == "ping" || method == "notifications/initialized" {
				return next(ctx, method, req)
			}

			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return nil, fmt.Errorf("unauthorized: missing headers")
			}

			token := transport.BearerToken(extra.Header.Get("Authorization"))
			if token == "" {
				return nil, fmt.Errorf("unauthorized: missing bearer token")
			}

			caller, err := resolver.ResolveKey(ctx, token)
			if err != nil {
				return nil, fmt.Errorf("unauthorized: %w", err)
			}
			if caller == "" {
				return nil, fmt.Errorf("unauthorized: invalid bearer token")
			}

			ctx = context.WithValue(ctx, callerKey, caller)
			return next(ctx, method, req)
		}
	}
}

// noAuthMiddleware injects a fixed caller when auth is disabled.
func noAuthMiddleware(caller string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			ctx = context.WithValue(ctx, callerKey, caller)
			return next(ctx, method, req)
		}
	}
}
