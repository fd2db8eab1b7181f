// Package actorctx carries the logged-in user through context.Context, the
// server-side stand-in for the "user" entry the browser kept in local storage.
package actorctx

import (
	"context"

	"github.com/geocoder89/billed/internal/domain/user"
)

type ctxKey struct{}

func WithSession(ctx context.Context, s user.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func SessionFrom(ctx context.Context) (user.Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(user.Session)

	return s, ok && s.Email != ""
}
