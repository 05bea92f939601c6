package domain

import "errors"

// Sentinel errors shared across services. Controllers map these to HTTP
// statuses; services wrap storage and transport errors with fmt.Errorf("%w", ...).
var (
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidInput     = errors.New("invalid input")
	ErrCapacityExceeded = errors.New("event is at capacity")
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token has expired")
	ErrNoRecipients     = errors.New("no recipients with email addresses")
	ErrPartialDelivery  = errors.New("some notifications failed to send")
)
