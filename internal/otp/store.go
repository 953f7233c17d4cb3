package otp

import "context"

// Store is the challenge backend. Implementations only move challenges in
// and out; all protocol decisions (expiry, consumption, mismatch) live in
// Sessions, so swapping the backend cannot change verification semantics.
type Store interface {
	// Get returns the challenge for mobile, reporting whether one exists.
	Get(ctx context.Context, mobile string) (Challenge, bool, error)
	// Put stores the challenge, replacing any existing one for mobile.
	Put(ctx context.Context, mobile string, ch Challenge) error
	// Delete removes the challenge for mobile. Deleting a missing key is
	// not an error.
	Delete(ctx context.Context, mobile string) error
	// Len reports the number of live challenges, for ops visibility.
	Len(ctx context.Context) (int, error)
}
