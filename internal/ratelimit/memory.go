package ratelimit

import (
	"context"
	"sync"
	"time"
)

type MemoryStore struct {
	mu      sync.Mutex
	window  time.Duration
	limit   int
	now     func() time.Time
	clients map[string]*clientBucket
}

type clientBucket struct {
	count     int
	windowEnd time.Time
}

func NewMemoryStore(limit int, window time.Duration) *MemoryStore {
	return &MemoryStore{
		limit:   limit,
		window:  window,
		now:     time.Now,
		clients: make(map[string]*clientBucket),
	}
}

func (s *MemoryStore) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.clients[key]

	if !ok || now.After(b.windowEnd) {
		s.clients[key] = &clientBucket{
			count:     1,
			windowEnd: now.Add(s.window),
		}
		s.sweep(now)
		return true, 0, nil
	}

	if b.count >= s.limit {
		retryAfter := b.windowEnd.Sub(now)
		if retryAfter < 0 {
			retryAfter = 0
		}
		return false, retryAfter, nil
	}

	b.count++
	return true, 0, nil
}

// sweep drops expired buckets once the map grows, so idle clients do not pile up.
func (s *MemoryStore) sweep(now time.Time) {
	if len(s.clients) < 1024 {
		return
	}
	for k, b := range s.clients {
		if now.After(b.windowEnd) {
			delete(s.clients, k)
		}
	}
}
