package store

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"scrawl/internal/session"
)

// Factory builds a fresh session for id.
type Factory func(id string) *session.Session

type entry struct {
	sess     *session.Session
	lastSeen time.Time
}

// Registry maps session ids to live sessions and forgets idle ones.
type Registry struct {
	mu      sync.Mutex
	ttl     time.Duration
	factory Factory
	entries map[string]*entry
	now     func() time.Time
}

func NewRegistry(ttl time.Duration, factory Factory) *Registry {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Registry{
		ttl:     ttl,
		factory: factory,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Get returns the live session for id and marks it as seen.
func (r *Registry) Get(id string) (*session.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.now()
	return e.sess, true
}

// Create starts a session under a new random id.
func (r *Registry) Create() *session.Session {
	return r.create(uuid.New().String())
}

// GetOrCreate returns the session for id. A well-formed id that is no longer
// live is recreated under the same id, so its stats snapshot is restored from
// the store; a malformed id gets a fresh one.
func (r *Registry) GetOrCreate(id string) (*session.Session, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return r.Create(), true
	}
	if s, ok := r.Get(id); ok {
		return s, false
	}
	return r.create(id), true
}

func (r *Registry) create(id string) *session.Session {
	s := r.factory(id)
	r.mu.Lock()
	defer r.mu.Unlock()
	// Another request may have recreated the same id meanwhile.
	if e, ok := r.entries[id]; ok {
		e.lastSeen = r.now()
		s.Close()
		return e.sess
	}
	r.entries[id] = &entry{sess: s, lastSeen: r.now()}
	return s
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep closes and removes sessions idle for longer than the TTL.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	now := r.now()
	var expired []*session.Session
	for id, e := range r.entries {
		if now.Sub(e.lastSeen) > r.ttl {
			expired = append(expired, e.sess)
			delete(r.entries, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := r.Sweep(); n > 0 {
				log.Printf("Registry: expired %d idle sessions", n)
			}
		}
	}
}
