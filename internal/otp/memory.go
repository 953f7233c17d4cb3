package otp

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps challenges in-process. Codes that are issued but never
// verified would otherwise live forever, so a janitor sweeps expired entries
// once a minute; verification also drops expired entries lazily.
type MemoryStore struct {
	mu       sync.RWMutex
	entries  map[string]Challenge
	stopOnce sync.Once
	stop     chan struct{}
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]Challenge),
		stop:    make(chan struct{}),
	}
	go s.janitor()
	return s
}

func (s *MemoryStore) Get(_ context.Context, mobile string) (Challenge, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ch, ok := s.entries[mobile]
	return ch, ok, nil
}

func (s *MemoryStore) Put(_ context.Context, mobile string, ch Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[mobile] = ch
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, mobile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, mobile)
	return nil
}

func (s *MemoryStore) Len(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// Close stops the janitor. Safe to call more than once.
func (s *MemoryStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *MemoryStore) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sweep(time.Now())
		case <-s.stop:
			return
		}
	}
}

func (s *MemoryStore) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for mobile, ch := range s.entries {
		if now.After(ch.ExpiresAt) {
			delete(s.entries, mobile)
		}
	}
}
