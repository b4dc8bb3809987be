// Package common defines sentinel errors and small helpers shared by the
// storage, service and CLI layers of gophticket. Callers should use errors.Is
// to match these values; services wrap them with extra context.
package common

import "errors"

var (
	// Account / session errors.
	ErrValidation         = errors.New("validation error")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("not found")
	ErrNoSession          = errors.New("no active session")

	// Persisted blob could not be decoded or failed validation.
	ErrStorage = errors.New("storage error")

	// Ticket lifecycle errors.
	ErrUnsupportedAmount = errors.New("unsupported ticket amount")
	ErrNoPendingPurchase = errors.New("no pending purchase")
	ErrNoTicket          = errors.New("no ticket")

	// Profile image errors.
	ErrImageTooLarge = errors.New("image too large")
)
