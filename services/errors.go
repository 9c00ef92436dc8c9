package services

import "errors"

// Service errors. Routes map these to HTTP statuses; services only ever
// return wrapped sentinels so callers can distinguish "someone else booked
// it first" from "your request was invalid".
var (
	ErrInvalidRange           = errors.New("invalid date range")
	ErrValidation             = errors.New("validation error")
	ErrNotFound               = errors.New("resource not found")
	ErrConflict               = errors.New("conflicts with an existing booking or block")
	ErrRoomNotAvailable       = errors.New("room is not available for the requested dates")
	ErrRulesViolation         = errors.New("availability rules rejected the requested range")
	ErrInvalidStateTransition = errors.New("invalid reservation status transition")
	ErrPaymentFailed          = errors.New("payment was declined")
)
