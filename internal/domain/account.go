package domain

import "time"

// Account is an authentication principal. Its ID is the opaque caller
// identity the ledger keys users by.
type Account struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
