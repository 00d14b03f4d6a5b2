package entity

import (
	"context"
)

type CtxKey int

const (
	CtxKeySession CtxKey = iota
)

func CtxWithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, CtxKeySession, s)
}

// SessionFromCtx returns session from context or ErrUnauthorized if session is not found.
func SessionFromCtx(ctx context.Context) (Session, error) {
	s, ok := ctx.Value(CtxKeySession).(Session)
	if !ok {
		return s, ErrUnauthorized
	}

	return s, nil
}
