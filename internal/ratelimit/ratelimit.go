// Package ratelimit keeps one token bucket per client key.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Store hands out a token bucket per key and forgets idle keys.
type Store struct {
	sync.Mutex
	rps   rate.Limit
	burst int
	idle  time.Duration
	data  map[string]*bucket
}

// NewStore allows rps requests per second per key with the given burst.
func NewStore(rps float64, burst int) *Store {
	if rps <= 0 {
		rps = 10
	}
	if burst <= 0 {
		burst = 20
	}
	return &Store{
		rps:   rate.Limit(rps),
		burst: burst,
		idle:  10 * time.Minute,
		data:  make(map[string]*bucket),
	}
}

// Allow consumes one token for key.
func (s *Store) Allow(key string) bool {
	s.Lock()
	defer s.Unlock()
	b, ok := s.data[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(s.rps, s.burst)}
		s.data[key] = b
	}
	b.lastSeen = time.Now()
	return b.limiter.Allow()
}

// Prune drops buckets that have not been used for the idle period.
func (s *Store) Prune() int {
	s.Lock()
	defer s.Unlock()
	n := 0
	for key, b := range s.data {
		if time.Since(b.lastSeen) > s.idle {
			delete(s.data, key)
			n++
		}
	}
	return n
}
