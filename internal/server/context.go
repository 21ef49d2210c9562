package server

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type contextKey struct{ name string }

var (
	staffIDKey  = contextKey{"staff_id"}
	schoolIDKey = contextKey{"school_id"}
	roleKey     = contextKey{"role"}
	clientIPKey = contextKey{"client_ip"}
)

// WithIdentity returns a context with staff_id, school_id, and role set.
// Handlers read these via GetStaffID, GetSchoolID, GetRole.
func WithIdentity(ctx context.Context, staffID, schoolID, role string) context.Context {
	ctx = context.WithValue(ctx, staffIDKey, staffID)
	ctx = context.WithValue(ctx, schoolIDKey, schoolID)
	ctx = context.WithValue(ctx, roleKey, role)
	return ctx
}

// GetStaffID returns the staff_id from context and true if set; otherwise "", false.
func GetStaffID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(staffIDKey).(string)
	return v, ok
}

// GetSchoolID returns the school_id from context and true if set; otherwise "", false.
func GetSchoolID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(schoolIDKey).(string)
	return v, ok
}

// GetRole returns the role from context and true if set; otherwise "", false.
func GetRole(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(roleKey).(string)
	return v, ok
}

// WithClientIP stores the resolved client IP so services below the HTTP layer
// (e.g. the audit logger) can read it without seeing *http.Request.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// ClientIPFromContext returns the client IP stored by the middleware, or "unknown".
func ClientIPFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(clientIPKey).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

// ClientIP resolves the client IP from X-Forwarded-For, X-Real-IP, or the
// connection's remote address, in that order.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if first != "" {
			return first
		}
	}
	if xrip := strings.TrimSpace(r.Header.Get("X-Real-IP")); xrip != "" {
		return xrip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
	return host
}
