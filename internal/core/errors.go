package core

import "errors"

var (
	// ErrInvalidCredentials covers both unknown email and wrong
	// password, so login failures cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnknownMode marks a persona name outside the registry.
	ErrUnknownMode = errors.New("unknown mode")
)
