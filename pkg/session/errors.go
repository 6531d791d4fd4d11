package session

import "errors"

var (
	// ErrDevice is returned when the capture device cannot be
	// acquired or configured.
	ErrDevice = errors.New("session: capture device unavailable")
)
