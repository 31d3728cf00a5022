package errors

import "errors"

var (
	ErrOTPNotFound = errors.New("otp not found or expired")

	ErrInvalidID = errors.New("invalid otp ID format")
)
