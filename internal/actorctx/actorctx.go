// Package actorctx carries the authenticated caller on a request context so
// code below the HTTP layer (logging, stores) can see who acted.
package actorctx

import "context"

type userIDKey struct{}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

func UserIDFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userIDKey{}).(string)

	return v, ok && v != ""
}
