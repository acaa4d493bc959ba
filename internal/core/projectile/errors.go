package projectile

import "errors"

var (
	ErrSessionClosed     = errors.New("session is closed")
	ErrUnknownProjectile = errors.New("unknown projectile")
)
