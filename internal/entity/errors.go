package entity

import (
	"errors"
)

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotMember       = errors.New("not a member of the pharmacy")
	ErrNotConnected    = errors.New("realtime: not connected")
	ErrUnknownRoom     = errors.New("unknown room")
	ErrReconnectLimit  = errors.New("realtime: reconnect attempts exhausted")
	ErrOperateDenied   = errors.New("pharmacy governance does not allow operating")
)
