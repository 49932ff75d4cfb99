package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const maxLoggedPayload = 2048

// trafficLoggingMiddleware logs each JSON-RPC exchange at debug level. Failed
// tool calls are also logged at info level so they show up without debug.
func trafficLoggingMiddleware(logger *slog.Logger, direction string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if logger == nil {
				return next(ctx, method, req)
			}
			debug := logger.Enabled(ctx, slog.LevelDebug)

			attrs := []any{"direction", direction, "method", method, "session_id", sessionID(req)}
			if tool := toolName(req); tool != "" {
				attrs = append(attrs, "tool", tool)
			}
			if debug {
				logger.Debug("mcp request", append(attrs, "caller", getCaller(ctx), "params", payloadString(requestParams(req)))...)
			}

			start := time.Now()
			result, err := next(ctx, method, req)
			if strings.HasPrefix(method, "notifications/") {
				return result, err
			}

			attrs = append(attrs, "elapsed", time.Since(start))
			if err != nil {
				attrs = append(attrs, "error", err)
			}
			if toolResult, ok := result.(*sdkmcp.CallToolResult); ok && toolResult.IsError {
				logger.Info("mcp tool failed", append(attrs, "result", payloadString(toolResult))...)
			} else if debug {
				logger.Debug("mcp response", append(attrs, "result", payloadString(result))...)
			}
			return result, err
		}
	}
}

func toolName(req sdkmcp.Request) string {
	call, ok := requestParams(req).(*sdkmcp.CallToolParamsRaw)
	if !ok || call == nil {
		return ""
	}
	return call.Name
}

// sessionID and requestParams tolerate requests whose session or params are
// not populated, which happens for some client-side sends.
func sessionID(req sdkmcp.Request) (id string) {
	if req == nil {
		return ""
	}
	defer func() {
		if recover() != nil {
			id = ""
		}
	}()
	if session := req.GetSession(); session != nil {
		return session.ID()
	}
	return ""
}

func requestParams(req sdkmcp.Request) (params any) {
	if req == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			params = nil
		}
	}()
	return req.GetParams()
}

func payloadString(payload any) string {
	if payload == nil {
		return "<nil>"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%T", payload)
	}
	if len(data) > maxLoggedPayload {
		return string(data[:maxLoggedPayload]) + "...(truncated)"
	}
	return string(data)
}
