package trip

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/wanderplan/wanderplan/internal/types"
)

// Session wraps one conversation's state with its lock. A turn holds the
// lock from first read to final write, so phase transitions never interleave
// between concurrent requests for the same session id.
type Session struct {
	mu    sync.Mutex
	State *types.SessionState
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// SessionStore hands out per-session state, creating it on first sight.
// Sessions idle past the TTL are evicted.
type SessionStore interface {
	Acquire(sessionID string) (*Session, string)
}

type CacheSessionStore struct {
	sessions *cache.Cache
	createMu sync.Mutex
}

var _ SessionStore = (*CacheSessionStore)(nil)

func NewSessionStore(ttl time.Duration) *CacheSessionStore {
	return &CacheSessionStore{
		sessions: cache.New(ttl, ttl/2),
	}
}

// Acquire returns the session for the id, minting a fresh session (and id,
// when blank) as needed. The TTL clock resets on every acquire.
func (s *CacheSessionStore) Acquire(sessionID string) (*Session, string) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	s.createMu.Lock()
	defer s.createMu.Unlock()

	if entry, found := s.sessions.Get(sessionID); found {
		session := entry.(*Session)
		s.sessions.Set(sessionID, session, cache.DefaultExpiration)
		return session, sessionID
	}

	now := time.Now()
	session := &Session{
		State: &types.SessionState{
			ID:        sessionID,
			Phase:     types.PhaseGreeting,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	s.sessions.Set(sessionID, session, cache.DefaultExpiration)
	return session, sessionID
}
