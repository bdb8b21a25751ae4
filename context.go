package library

import "context"

type contextKey int

const currentUserKey contextKey = iota

// WithCurrentUser returns a context carrying the authenticated user. The
// transport builds this once per request; resolvers only ever read it.
func WithCurrentUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, currentUserKey, user)
}

// CurrentUser returns the user attached to the request context, or nil when
// the request carried no credentials.
func CurrentUser(ctx context.Context) *User {
	user, _ := ctx.Value(currentUserKey).(*User)
	return user
}
