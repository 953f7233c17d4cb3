package otp

import (
	"errors"
	"time"
)

// Verification outcomes. Handlers map these to user-facing messages, so the
// distinction between "never issued", "timed out" and "wrong code" survives
// up the stack.
var (
	ErrNotFound = errors.New("otp: no code requested for this number")
	ErrExpired  = errors.New("otp: code expired")
	ErrConsumed = errors.New("otp: code already used")
	ErrMismatch = errors.New("otp: code mismatch")
)

// Snapshot is what the caller knew about the customer when the code was
// issued. Verification returns it unchanged, so login does not re-query the
// database for the existence decision made at issue time.
type Snapshot struct {
	UserExists     bool   `json:"userExists"`
	CustomerID     string `json:"customerId"`
	CustomerStatus string `json:"customerStatus"`
}

// Challenge is one outstanding code keyed by mobile number.
type Challenge struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
	Verified  bool      `json:"verified"`
	Snapshot  Snapshot  `json:"snapshot"`
}
