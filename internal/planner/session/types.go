package session

import (
	"sync"
	"time"

	"dinner-planner/internal/planner/pipeline"
)

// Session holds the conversation context carried across turns for one
// (user, conversation) identity pair.
type Session struct {
	UserID         string
	ConversationID string
	Context        pipeline.Context
	LastActive     time.Time

	// mu serializes turns for this identity pair. Two concurrent messages
	// from the same conversation must not interleave pipeline runs.
	mu sync.Mutex
}

// Lock acquires exclusive access to the session for one turn.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the turn lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// TryLock attempts the turn lock without blocking. The sweeper uses it to
// skip sessions that are mid-run.
func (s *Session) TryLock() bool { return s.mu.TryLock() }

// Config configures the session store.
type Config struct {
	// IdleTTL is how long a session may sit idle before the sweeper drops it.
	IdleTTL time.Duration

	// CleanupInterval is how often the sweeper runs.
	CleanupInterval time.Duration
}
