package domain

import "errors"

// Every precondition violation maps to exactly one of these values. A
// rejected operation leaves the ledger tables unchanged.
var (
	ErrNotFound            = errors.New("not found")
	ErrNotOwner            = errors.New("caller is not the owner")
	ErrAlreadyRegistered   = errors.New("user already registered")
	ErrCarNotAvailable     = errors.New("car is not available")
	ErrAlreadyRenting      = errors.New("user is already renting a car")
	ErrNotRenting          = errors.New("user is not renting a car")
	ErrOutstandingDebt     = errors.New("user has outstanding debt")
	ErrNoDebt              = errors.New("user has no debt to pay")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInsufficientPool    = errors.New("insufficient collected payments")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidTransition   = errors.New("invalid car status transition")
	ErrInvalidInput        = errors.New("invalid input")
)
