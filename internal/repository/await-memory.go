package repository

import (
	"context"
	"sync"
	"time"

	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/domain"
)

type memoryEntry struct {
	await     domain.Await
	updatedAt time.Time
}

// MemoryAwaitStore is the default store. It is lost on restart.
type MemoryAwaitStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryAwaitStore creates the store. ttl <= 0 disables expiry.
func NewMemoryAwaitStore(ttl time.Duration) *MemoryAwaitStore {
	return &MemoryAwaitStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryAwaitStore) Get(_ context.Context, key AwaitKey) (domain.Await, error) {
	s.mu.RLock()
	e, ok := s.entries[key.String()]
	s.mu.RUnlock()

	if !ok || s.expired(e) {
		return domain.AwaitNone, nil
	}
	return e.await, nil
}

func (s *MemoryAwaitStore) Set(ctx context.Context, key AwaitKey, await domain.Await) error {
	if err := checkAwait(await); err != nil {
		return err
	}
	if await == domain.AwaitNone {
		return s.Clear(ctx, key)
	}

	s.mu.Lock()
	s.entries[key.String()] = memoryEntry{await: await, updatedAt: s.now()}
	s.mu.Unlock()
	return nil
}

func (s *MemoryAwaitStore) Clear(_ context.Context, key AwaitKey) error {
	s.mu.Lock()
	delete(s.entries, key.String())
	s.mu.Unlock()
	return nil
}

// Sweep drops expired entries and reports how many were removed.
func (s *MemoryAwaitStore) Sweep(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored entries, expired ones included.
func (s *MemoryAwaitStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryAwaitStore) expired(e memoryEntry) bool {
	return s.ttl > 0 && s.now().Sub(e.updatedAt) > s.ttl
}
