package model

import "time"

const (
	OTPRegistration  = "registration"
	OTPPasswordReset = "password_reset"
)

// PendingUser is the account payload parked on a registration OTP until the
// code is verified. Password is already bcrypt-hashed when stored here.
type PendingUser struct {
	Name     string `bson:"name"`
	Password string `bson:"password"`
	Phone    string `bson:"phone,omitempty"`
	Role     string `bson:"role"`
}

// OTP is a short-lived emailed code gating registration or password reset.
// Lookups always filter on ExpiresAt, so a stale record is harmless until the
// sweeper deletes it.
type OTP struct {
	ID        string       `bson:"_id,omitempty"`
	Email     string       `bson:"email"`
	Code      string       `bson:"otp"`
	Type      string       `bson:"type"`
	ExpiresAt time.Time    `bson:"expiresAt"`
	UserData  *PendingUser `bson:"userData,omitempty"`
	CreatedAt time.Time    `bson:"createdAt"`
}
