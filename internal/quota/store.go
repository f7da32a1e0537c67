// Package quota enforces the per-IP daily generation allowance. The counter
// lives behind an injected Store so request handling never touches a
// package-level singleton.
package quota

import (
	"context"
	"sync"
	"time"
)

const DefaultDailyLimit = 10

// Store counts generation requests per client IP for the current day.
type Store interface {
	// Remaining reports how many requests the ip has left today.
	Remaining(ctx context.Context, ip string) (int, error)
	// Incr consumes one request for the ip.
	Incr(ctx context.Context, ip string) error
}

type dayCount struct {
	count int
	date  string
}

// MemoryStore keeps counters in process memory. Counts reset on restart or
// date rollover.
type MemoryStore struct {
	mu     sync.Mutex
	limit  int
	counts map[string]dayCount
	now    func() time.Time
}

func NewMemoryStore(limit int) *MemoryStore {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	return &MemoryStore{
		limit:  limit,
		counts: make(map[string]dayCount),
		now:    time.Now,
	}
}

func (s *MemoryStore) today() string {
	return s.now().Format("2006-01-02")
}

func (s *MemoryStore) Remaining(_ context.Context, ip string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.counts[ip]
	if !ok || q.date != s.today() {
		return s.limit, nil
	}
	if q.count >= s.limit {
		return 0, nil
	}
	return s.limit - q.count, nil
}

func (s *MemoryStore) Incr(_ context.Context, ip string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.today()
	q, ok := s.counts[ip]
	if !ok || q.date != today {
		s.counts[ip] = dayCount{count: 1, date: today}
		return nil
	}
	q.count++
	s.counts[ip] = q
	return nil
}
