package model

import "time"

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// Booking reserves one unit of a car for a user over a date/time range.
// Dates and clock times are kept as the plain strings the storefront sends
// ("2006-01-02" and "15:04"); the service layer parses them when it recomputes
// the rental amount.
type Booking struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID        string    `json:"userId" bson:"userId" validate:"required,mongodb"`
	CarID         string    `json:"carId" bson:"carId" validate:"required,mongodb"`
	StartDate     string    `json:"startDate" bson:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate       string    `json:"endDate" bson:"endDate" validate:"required,datetime=2006-01-02"`
	StartTime     string    `json:"startTime" bson:"startTime" validate:"required,datetime=15:04"`
	EndTime       string    `json:"endTime" bson:"endTime" validate:"required,datetime=15:04"`
	TotalAmount   float64   `json:"totalAmount" bson:"totalAmount" validate:"omitempty,gt=0"`
	NeedDriver    bool      `json:"needDriver" bson:"needDriver"`
	DriverContact string    `json:"driverContact,omitempty" bson:"driverContact,omitempty" validate:"required_if=NeedDriver true,omitempty,min=5,max=30"`
	Status        string    `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}

// BookingStatusUpdate is the body of PUT /api/bookings/:id.
type BookingStatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

// BookingDetail is a booking enriched with its referenced documents for the
// dashboard and admin views.
type BookingDetail struct {
	Booking
	Car  *Car  `json:"car,omitempty"`
	User *User `json:"user,omitempty"`
}

// AllowedTransitions is the enforced booking state machine. Completed and
// cancelled are terminal.
var AllowedTransitions = map[string][]string{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
	BookingCancelled: {},
	BookingCompleted: {},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range AllowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
