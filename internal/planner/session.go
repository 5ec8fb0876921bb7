package planner

import (
	"sync"
	"time"

	"github.com/couchcryptid/event-planner-service/internal/domain"
	"github.com/google/uuid"
)

const defaultSessionTTL = 24 * time.Hour

type session struct {
	store    *domain.TaskStateStore
	lastSeen time.Time

	// toggleMu orders toggles so the durable store sees writes in the same
	// order as memory.
	toggleMu sync.Mutex
}

// sessionRegistry holds in-memory task state per planning session. Sessions
// idle for longer than ttl are dropped by expire.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
}

func newSessionRegistry(ttl time.Duration) *sessionRegistry {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &sessionRegistry{
		sessions: make(map[string]*session),
		ttl:      ttl,
	}
}

func (r *sessionRegistry) touch(id string, now time.Time) (*session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok || now.Sub(s.lastSeen) >= r.ttl {
		return nil, false
	}
	s.lastSeen = now
	return s, true
}

// add registers store under id unless a live session raced in first, in
// which case the existing store wins.
func (r *sessionRegistry) add(id string, store *domain.TaskStateStore, now time.Time) *session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok && now.Sub(s.lastSeen) < r.ttl {
		s.lastSeen = now
		return s
	}
	s := &session{store: store, lastSeen: now}
	r.sessions[id] = s
	return s
}

func (r *sessionRegistry) expire(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) >= r.ttl {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

func (r *sessionRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func newSessionID() string {
	return uuid.NewString()
}

func validSessionID(id string) bool {
	return uuid.Validate(id) == nil
}
