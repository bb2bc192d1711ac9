// Package session maps (user, conversation) identity pairs to conversation
// context reused across turns. Sessions live in memory only; idle ones are
// swept to bound growth.
package session

import (
	"context"
	"sync"
	"time"

	"dinner-planner/internal/planner/pipeline"
	"dinner-planner/pkg/log"
)

const (
	DefaultIdleTTL         = 30 * time.Minute
	DefaultCleanupInterval = 5 * time.Minute
)

// Store is the in-memory session store. The top-level map is guarded by its
// own lock; per-session serialization is the Session's own mutex, so turns
// for different identities never block one another.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	idleTTL time.Duration
	l       log.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

// NewStore creates the store and starts the idle sweeper.
func NewStore(l log.Logger, cfg Config) *Store {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultIdleTTL
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultCleanupInterval
	}

	st := &Store{
		sessions: make(map[string]*Session),
		idleTTL:  cfg.IdleTTL,
		l:        l,
		stop:     make(chan struct{}),
	}

	go st.sweep(cfg.CleanupInterval)

	return st
}

// GetOrCreate returns the session for the identity pair, creating an empty
// one on first contact. Idempotent: repeated calls before any Save return
// the same session with an empty context.
func (st *Store) GetOrCreate(userID, conversationID string) *Session {
	key := sessionKey(userID, conversationID)

	st.mu.RLock()
	s, ok := st.sessions[key]
	st.mu.RUnlock()
	if ok {
		return s
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[key]; ok {
		return s
	}

	s = &Session{
		UserID:         userID,
		ConversationID: conversationID,
		Context:        pipeline.NewContext(),
		LastActive:     time.Now(),
	}
	st.sessions[key] = s
	st.l.Infof(context.Background(), "session created for user=%s conversation=%s", userID, conversationID)
	return s
}

// Acquire returns the session for the identity pair with its turn lock held.
// The sweeper can evict a session between lookup and lock, leaving the caller
// holding an orphaned object whose Save would be lost; after locking, the map
// is re-checked and the lookup retried until the locked session is the live
// one, so turns for the same identity stay serialized on a single mutex.
// Holding the lock also refreshes activity, keeping a conversation alive even
// when its turns keep failing and never reach Save.
func (st *Store) Acquire(userID, conversationID string) *Session {
	key := sessionKey(userID, conversationID)

	for {
		s := st.GetOrCreate(userID, conversationID)
		s.Lock()

		st.mu.RLock()
		live := st.sessions[key]
		st.mu.RUnlock()

		if live == s {
			s.LastActive = time.Now()
			return s
		}
		s.Unlock()
	}
}

// Save commits a finished turn: the session's context is replaced with the
// pipeline's final context and the activity timestamp refreshed. The caller
// must hold the session lock.
func (st *Store) Save(s *Session, final pipeline.Context) {
	s.Context = final
	s.LastActive = time.Now()
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Close stops the sweeper.
func (st *Store) Close() {
	st.stopOnce.Do(func() { close(st.stop) })
}

// sweep drops sessions idle longer than the TTL. Sessions mid-run are
// skipped and picked up on a later pass.
func (st *Store) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-st.stop:
			return
		case <-ticker.C:
		}

		cutoff := time.Now().Add(-st.idleTTL)
		removed := 0

		st.mu.Lock()
		for key, s := range st.sessions {
			if !s.TryLock() {
				continue
			}
			if s.LastActive.Before(cutoff) {
				delete(st.sessions, key)
				removed++
			}
			s.Unlock()
		}
		st.mu.Unlock()

		if removed > 0 {
			st.l.Infof(context.Background(), "swept %d expired session(s)", removed)
		}
	}
}

func sessionKey(userID, conversationID string) string {
	return userID + "/" + conversationID
}
