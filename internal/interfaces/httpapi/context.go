package httpapi

import "context"

type contextKey string

const userIDContextKey contextKey = "httpapi.user_id"

func withUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

func userIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(userIDContextKey).(string)
	return v
}
