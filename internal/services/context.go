package services

import "context"

type contextKey string

const (
	userKey      contextKey = "user"
	eventIDKey   contextKey = "event_id"
	projectIDKey contextKey = "project_id"
	requestIDKey contextKey = "request_id"
)

// User identifies the acting client or editor for workflow operations.
type User struct {
	ID   string
	Name string
}

// WithUser annotates context with the acting user.
func WithUser(ctx context.Context, user User) context.Context {
	if user.ID == "" && user.Name == "" {
		return ctx
	}
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext extracts the acting user if present.
func UserFromContext(ctx context.Context) (User, bool) {
	if u, ok := ctx.Value(userKey).(User); ok && (u.ID != "" || u.Name != "") {
		return u, true
	}
	return User{}, false
}

// WithEventID annotates context with the event identifier.
func WithEventID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, eventIDKey, id)
}

// EventIDFromContext returns the event identifier if present.
func EventIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(eventIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithProjectID annotates context with the project identifier.
func WithProjectID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, projectIDKey, id)
}

// ProjectIDFromContext returns the project identifier if present.
func ProjectIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(projectIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
