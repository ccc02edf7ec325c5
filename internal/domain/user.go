package domain

import "time"

// User is a registered renter tracked by the ledger. Balance and Debt are in
// the smallest value denomination and never go negative.
type User struct {
	ID          string
	Name        string
	Surname     string
	Balance     int64
	Debt        int64
	RentedCarID int64
	RentStart   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Renting reports whether the user currently holds a car.
func (u *User) Renting() bool {
	return u.RentedCarID != 0
}
