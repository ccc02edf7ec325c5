package domain

import "time"

type CarStatus string

const (
	CarStatusAvailable   CarStatus = "available"
	CarStatusRented      CarStatus = "rented"
	CarStatusUnavailable CarStatus = "unavailable"
)

// ValidCarStatus reports whether s is one of the known status values.
func ValidCarStatus(s CarStatus) bool {
	switch s {
	case CarStatusAvailable, CarStatusRented, CarStatusUnavailable:
		return true
	}
	return false
}

// Car is a rentable asset. IDs are assigned sequentially starting at 1 and
// cars are never deleted. RenterID is empty while the car is not rented.
type Car struct {
	ID        int64
	Name      string
	ImageURL  string
	RentFee   int64
	SaleFee   int64
	Status    CarStatus
	RenterID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
