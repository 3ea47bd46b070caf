// Package identity carries the caller of an operation. Services receive it as
// an explicit argument; there is no process-wide "current user".
package identity

import "context"

// User is the authenticated caller. The zero value is the anonymous caller.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Anonymous returns the unauthenticated caller.
func Anonymous() User { return User{} }

func (u User) IsAnonymous() bool { return u.ID == 0 }

type ctxKey struct{}

// WithUser stores u in ctx. Used by the HTTP and websocket layers only, to hand
// the resolved session over to handlers.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// FromContext returns the caller stored by WithUser, or Anonymous.
func FromContext(ctx context.Context) User {
	u, _ := ctx.Value(ctxKey{}).(User)
	return u
}
