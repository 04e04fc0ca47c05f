package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	appprocurement "github.com/praxis/backend/internal/application/procurement"
)

// entry records which receipt a confirmation key was used for
type entry struct {
	receiptID uuid.UUID
	expiresAt time.Time
}

// InMemoryIdempotencyStore deduplicates receipt confirmations using an
// in-memory map. Suitable for single-instance deployments and testing.
type InMemoryIdempotencyStore struct {
	mu        sync.Mutex
	entries   map[string]entry
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryIdempotencyStore creates a new in-memory idempotency store.
// It starts a background goroutine to clean up expired entries.
func NewInMemoryIdempotencyStore(ttl time.Duration) *InMemoryIdempotencyStore {
	store := &InMemoryIdempotencyStore{
		entries:  make(map[string]entry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// Reserve records the key for the receipt. Returns false and the previously
// stored receipt ID when the key was already reserved within its TTL.
func (s *InMemoryIdempotencyStore) Reserve(ctx context.Context, practiceID uuid.UUID, key string, receiptID uuid.UUID) (bool, uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scoped := scopedKey(practiceID, key)
	if e, exists := s.entries[scoped]; exists && time.Now().Before(e.expiresAt) {
		return false, e.receiptID, nil
	}

	s.entries[scoped] = entry{
		receiptID: receiptID,
		expiresAt: time.Now().Add(s.ttl),
	}
	return true, uuid.Nil, nil
}

// Release frees a reservation so the key can be retried
func (s *InMemoryIdempotencyStore) Release(ctx context.Context, practiceID uuid.UUID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, scopedKey(practiceID, key))
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// Size returns the number of entries in the store (for testing/monitoring)
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *InMemoryIdempotencyStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemoryIdempotencyStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, key)
		}
	}
}

func scopedKey(practiceID uuid.UUID, key string) string {
	return practiceID.String() + ":" + key
}

var _ appprocurement.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
