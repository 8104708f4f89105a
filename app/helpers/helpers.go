package helpers

import (
	"context"
	"net/http"
)

type contextKey string

const (
	ContextKeySessionID contextKey = "sessionID"
	ContextKeyToken     contextKey = "backendToken"
	ContextKeyUserID    contextKey = "userID"
)

// ErrorResponse is the JSON error body returned by every handler.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func SessionIDFromContext(ctx context.Context) string {
	sid, _ := ctx.Value(ContextKeySessionID).(string)
	return sid
}

func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(ContextKeyToken).(string)
	return token
}

func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(ContextKeyUserID).(string)
	return userID
}

func WithSession(r *http.Request, sessionID, token, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), ContextKeySessionID, sessionID)
	ctx = context.WithValue(ctx, ContextKeyToken, token)
	ctx = context.WithValue(ctx, ContextKeyUserID, userID)
	return r.WithContext(ctx)
}
