package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"
)

// DefaultTTL is how long an issued code stays verifiable.
const DefaultTTL = 5 * time.Minute

// Sessions owns the challenge protocol: issuing codes and checking them.
// One mutex covers the whole get-check-delete sequence so two concurrent
// verifications of the same code cannot both succeed.
type Sessions struct {
	mu    sync.Mutex
	store Store
	ttl   time.Duration
	now   func() time.Time
}

func NewSessions(store Store) *Sessions {
	return &Sessions{
		store: store,
		ttl:   DefaultTTL,
		now:   time.Now,
	}
}

// Issue generates a fresh 6-digit code for mobile and stores it with the
// caller's customer snapshot, replacing any outstanding challenge for the
// same number. Returns the code and its expiry.
func (s *Sessions) Issue(ctx context.Context, mobile string, snap Snapshot) (string, time.Time, error) {
	code, err := generateCode()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate code: %w", err)
	}

	expiresAt := s.now().Add(s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.store.Put(ctx, mobile, Challenge{
		Code:      code,
		ExpiresAt: expiresAt,
		Snapshot:  snap,
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return code, expiresAt, nil
}

// Verify checks code against the outstanding challenge for mobile.
//
// Outcomes, in check order:
//   - no challenge: ErrNotFound
//   - past expiry: the challenge is deleted and ErrExpired returned
//   - already consumed: ErrConsumed
//   - wrong code: ErrMismatch, challenge left intact for another try
//   - match: the challenge is deleted and its snapshot returned; a second
//     verify of the same code lands on ErrNotFound
func (s *Sessions) Verify(ctx context.Context, mobile, code string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok, err := s.store.Get(ctx, mobile)
	if err != nil {
		return Snapshot{}, err
	}
	if !ok {
		return Snapshot{}, ErrNotFound
	}

	if s.now().After(ch.ExpiresAt) {
		if err := s.store.Delete(ctx, mobile); err != nil {
			return Snapshot{}, err
		}
		return Snapshot{}, ErrExpired
	}

	if ch.Verified {
		return Snapshot{}, ErrConsumed
	}

	if ch.Code != code {
		return Snapshot{}, ErrMismatch
	}

	if err := s.store.Delete(ctx, mobile); err != nil {
		return Snapshot{}, err
	}
	return ch.Snapshot, nil
}

// Live reports the number of outstanding challenges.
func (s *Sessions) Live(ctx context.Context) (int, error) {
	return s.store.Len(ctx)
}

// generateCode draws a uniform 6-digit code. Leading zeros are legal, so
// the code space is the full 000000-999999.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
