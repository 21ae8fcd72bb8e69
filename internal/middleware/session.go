package middleware

import (
	"context"

	"connectrpc.com/connect"
	"github.com/google/uuid"
)

// SessionHeader carries the wizard session id in both directions. Clients
// keep the id from the first response and send it on every later call.
const SessionHeader = "Wizard-Session"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// SessionIDKey is the context key for the wizard session id.
const SessionIDKey contextKey = "session_id"

// GetSessionID extracts the session id from the context.
// Returns empty string if not found.
func GetSessionID(ctx context.Context) string {
	id, _ := ctx.Value(SessionIDKey).(string)
	return id
}

// WithSessionID returns a copy of ctx carrying id.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, SessionIDKey, id)
}

// Session returns an interceptor that assigns every call a wizard session.
// A missing or malformed Wizard-Session header starts a new session with a
// random id; the id in use is echoed back in the response header.
func Session() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			id := req.Header().Get(SessionHeader)
			if parsed, err := uuid.Parse(id); err == nil {
				id = parsed.String()
			} else {
				id = uuid.NewString()
			}

			resp, err := next(WithSessionID(ctx, id), req)
			if err == nil && resp != nil {
				resp.Header().Set(SessionHeader, id)
			}
			return resp, err
		}
	}
}
