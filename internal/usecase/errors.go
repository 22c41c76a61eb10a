package usecase

import "errors"

// Validation
var ErrValidation = errors.New("validation failed")

// Not found
var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrSlotNotFound    = errors.New("slot not found")
)

// Conflict
var (
	ErrSlotUnavailable   = errors.New("slot not available")
	ErrAlreadyPaid       = errors.New("booking already paid")
	ErrPaymentInProgress = errors.New("payment already in progress")
)

// External service
var ErrPaymentFailed = errors.New("payment failed")
