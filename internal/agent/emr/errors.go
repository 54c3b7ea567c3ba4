package emr

import "errors"

var (
	// ErrUnavailable means the backend could not be reached or timed out.
	ErrUnavailable = errors.New("server unavailable")
	// ErrUnauthorized means the API key or session was rejected.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrPhoneNotRegistered means the phone number has no patient record.
	ErrPhoneNotRegistered = errors.New("phone number not registered")
	// ErrInvalidCode means the verification code is wrong or expired.
	ErrInvalidCode = errors.New("invalid or expired code")
)
