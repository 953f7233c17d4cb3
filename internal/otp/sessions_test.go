package otp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessions(t *testing.T) (*Sessions, *MemoryStore, *time.Time) {
	t.Helper()
	store := NewMemoryStore()
	t.Cleanup(store.Close)

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	s := NewSessions(store)
	s.now = func() time.Time { return now }
	return s, store, &now
}

func TestIssueGeneratesSixDigitCode(t *testing.T) {
	s, _, _ := newTestSessions(t)

	for i := 0; i < 50; i++ {
		code, expiresAt, err := s.Issue(context.Background(), "9876543210", Snapshot{})
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, c := range code {
			assert.True(t, c >= '0' && c <= '9', "code %q has non-digit", code)
		}
		assert.Equal(t, 5*time.Minute, expiresAt.Sub(s.now()))
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	s, _, _ := newTestSessions(t)
	ctx := context.Background()

	snap := Snapshot{UserExists: true, CustomerID: "1001", CustomerStatus: "APPROVED"}
	code, _, err := s.Issue(ctx, "9876543210", snap)
	require.NoError(t, err)

	got, err := s.Verify(ctx, "9876543210", code)
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestVerifyUnknownNumber(t *testing.T) {
	s, _, _ := newTestSessions(t)

	_, err := s.Verify(context.Background(), "9876543210", "123456")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVerifyMismatchLeavesChallengeIntact(t *testing.T) {
	s, _, _ := newTestSessions(t)
	ctx := context.Background()

	code, _, err := s.Issue(ctx, "9876543210", Snapshot{})
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	_, err = s.Verify(ctx, "9876543210", wrong)
	assert.ErrorIs(t, err, ErrMismatch)

	// The right code still works after a failed attempt.
	_, err = s.Verify(ctx, "9876543210", code)
	assert.NoError(t, err)
}

func TestVerifyConsumesChallenge(t *testing.T) {
	s, _, _ := newTestSessions(t)
	ctx := context.Background()

	code, _, err := s.Issue(ctx, "9876543210", Snapshot{})
	require.NoError(t, err)

	_, err = s.Verify(ctx, "9876543210", code)
	require.NoError(t, err)

	// Replay of the same code finds nothing.
	_, err = s.Verify(ctx, "9876543210", code)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVerifyExpiredDeletesChallenge(t *testing.T) {
	s, store, now := newTestSessions(t)
	ctx := context.Background()

	code, _, err := s.Issue(ctx, "9876543210", Snapshot{})
	require.NoError(t, err)

	*now = now.Add(5*time.Minute + time.Second)

	_, err = s.Verify(ctx, "9876543210", code)
	assert.ErrorIs(t, err, ErrExpired)

	_, ok, err := store.Get(ctx, "9876543210")
	require.NoError(t, err)
	assert.False(t, ok, "expired challenge should be deleted")

	// Now it reads as never requested.
	_, err = s.Verify(ctx, "9876543210", code)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIssueOverwritesOutstandingChallenge(t *testing.T) {
	s, _, _ := newTestSessions(t)
	ctx := context.Background()

	first, _, err := s.Issue(ctx, "9876543210", Snapshot{CustomerID: "1001"})
	require.NoError(t, err)

	var second string
	for {
		second, _, err = s.Issue(ctx, "9876543210", Snapshot{CustomerID: "1002"})
		require.NoError(t, err)
		if second != first {
			break
		}
	}

	_, err = s.Verify(ctx, "9876543210", first)
	assert.ErrorIs(t, err, ErrMismatch)

	snap, err := s.Verify(ctx, "9876543210", second)
	require.NoError(t, err)
	assert.Equal(t, "1002", snap.CustomerID)
}

func TestChallengesAreIndependentPerNumber(t *testing.T) {
	s, _, _ := newTestSessions(t)
	ctx := context.Background()

	codeA, _, err := s.Issue(ctx, "9876543210", Snapshot{CustomerID: "1001"})
	require.NoError(t, err)
	codeB, _, err := s.Issue(ctx, "9123456789", Snapshot{CustomerID: "1002"})
	require.NoError(t, err)

	snap, err := s.Verify(ctx, "9876543210", codeA)
	require.NoError(t, err)
	assert.Equal(t, "1001", snap.CustomerID)

	snap, err = s.Verify(ctx, "9123456789", codeB)
	require.NoError(t, err)
	assert.Equal(t, "1002", snap.CustomerID)
}

func TestMemoryStoreSweepDropsExpired(t *testing.T) {
	store := NewMemoryStore()
	t.Cleanup(store.Close)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, store.Put(ctx, "9876543210", Challenge{Code: "111111", ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, store.Put(ctx, "9123456789", Challenge{Code: "222222", ExpiresAt: now.Add(time.Hour)}))

	store.sweep(now)

	_, ok, err := store.Get(ctx, "9876543210")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.Get(ctx, "9123456789")
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
