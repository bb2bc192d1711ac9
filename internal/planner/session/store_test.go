package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"dinner-planner/internal/planner/pipeline"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...interface{})                  {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...interface{})  {}
func (m *mockLogger) Info(ctx context.Context, args ...interface{})                   {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...interface{})   {}
func (m *mockLogger) Warn(ctx context.Context, args ...interface{})                   {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...interface{})   {}
func (m *mockLogger) Error(ctx context.Context, args ...interface{})                  {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...interface{})  {}
func (m *mockLogger) DPanic(ctx context.Context, args ...interface{})                 {}
func (m *mockLogger) DPanicf(ctx context.Context, format string, args ...interface{}) {}
func (m *mockLogger) Panic(ctx context.Context, args ...interface{})                  {}
func (m *mockLogger) Panicf(ctx context.Context, format string, args ...interface{})  {}
func (m *mockLogger) Fatal(ctx context.Context, args ...interface{})                  {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...interface{})  {}

func newTestStore(t *testing.T, cfg Config) *Store {
	t.Helper()
	st := NewStore(&mockLogger{}, cfg)
	t.Cleanup(st.Close)
	return st
}

func TestGetOrCreate_Idempotent(t *testing.T) {
	st := newTestStore(t, Config{})

	first := st.GetOrCreate("user-1", "conv-1")
	if first == nil {
		t.Fatal("expected a session")
	}
	if len(first.Context) != 0 {
		t.Errorf("new session must start with an empty context, got %v", first.Context)
	}

	second := st.GetOrCreate("user-1", "conv-1")
	if first != second {
		t.Error("same identity pair must map to the same session")
	}
	if st.Len() != 1 {
		t.Errorf("expected 1 session, got %d", st.Len())
	}
}

func TestGetOrCreate_DistinctIdentities(t *testing.T) {
	st := newTestStore(t, Config{})

	a := st.GetOrCreate("user-1", "conv-1")
	b := st.GetOrCreate("user-2", "conv-1")
	c := st.GetOrCreate("user-1", "conv-2")

	if a == b || a == c || b == c {
		t.Error("different identity pairs must map to different sessions")
	}
	if st.Len() != 3 {
		t.Errorf("expected 3 sessions, got %d", st.Len())
	}
}

func TestSave_ReplacesContext(t *testing.T) {
	st := newTestStore(t, Config{})

	s := st.GetOrCreate("user-1", "conv-1")
	s.Lock()
	st.Save(s, pipeline.Context{"dish_name": "カレー"})
	s.Unlock()

	s2 := st.GetOrCreate("user-1", "conv-1")
	if s2.Context["dish_name"] != "カレー" {
		t.Errorf("saved context not visible on next turn: %v", s2.Context)
	}

	// A second save fully replaces the previous context
	s2.Lock()
	st.Save(s2, pipeline.Context{"dish_name": "シチュー", "shopping_list": "- 人参"})
	s2.Unlock()

	s3 := st.GetOrCreate("user-1", "conv-1")
	if s3.Context["dish_name"] != "シチュー" || s3.Context["shopping_list"] != "- 人参" {
		t.Errorf("context after second save: %v", s3.Context)
	}
}

func TestSessionLock_SerializesTurns(t *testing.T) {
	st := newTestStore(t, Config{})
	s := st.GetOrCreate("user-1", "conv-1")

	var mu sync.Mutex
	var active, maxActive int

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Lock()
			defer s.Unlock()

			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if maxActive != 1 {
		t.Errorf("turns for one identity must not overlap, observed %d concurrent", maxActive)
	}
}

func TestAcquire_ReturnsLiveSessionAfterEviction(t *testing.T) {
	st := newTestStore(t, Config{
		IdleTTL:         10 * time.Millisecond,
		CleanupInterval: 5 * time.Millisecond,
	})

	stale := st.GetOrCreate("user-1", "conv-1")

	// Let the sweeper evict the idle session while we still hold the pointer
	deadline := time.Now().Add(time.Second)
	for st.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if st.Len() != 0 {
		t.Fatal("sweeper did not evict the idle session")
	}

	s := st.Acquire("user-1", "conv-1")
	if s == stale {
		t.Fatal("Acquire returned the evicted session")
	}
	if live := st.GetOrCreate("user-1", "conv-1"); live != s {
		t.Error("the acquired session must be the one the store maps")
	}

	// A commit through the acquired session is visible to the next turn
	st.Save(s, pipeline.Context{"dish_name": "カレー"})
	s.Unlock()

	next := st.GetOrCreate("user-1", "conv-1")
	if next.Context["dish_name"] != "カレー" {
		t.Errorf("commit through the acquired session was lost: %v", next.Context)
	}
}

func TestAcquire_SerializesAcrossSweeperChurn(t *testing.T) {
	// TTL and interval are far below the turn duration so the sweeper
	// constantly evicts between turns; two turns on different session
	// objects must still never overlap.
	st := newTestStore(t, Config{
		IdleTTL:         time.Millisecond,
		CleanupInterval: time.Millisecond,
	})

	var mu sync.Mutex
	var active, maxActive int

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			s := st.Acquire("user-1", "conv-1")

			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()

			time.Sleep(2 * time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()

			st.Save(s, pipeline.Context{"dish_name": "カレー"})
			s.Unlock()
		}()
	}
	wg.Wait()

	if maxActive != 1 {
		t.Errorf("turns for one identity must not overlap, observed %d concurrent", maxActive)
	}
}

func TestAcquire_RefreshesActivityWithoutSave(t *testing.T) {
	st := newTestStore(t, Config{
		IdleTTL:         60 * time.Millisecond,
		CleanupInterval: 10 * time.Millisecond,
	})

	st.GetOrCreate("user-1", "conv-1")

	// A conversation whose turns keep failing never reaches Save; holding
	// the turn lock alone must keep it alive past the original TTL
	for i := 0; i < 4; i++ {
		time.Sleep(30 * time.Millisecond)
		s := st.Acquire("user-1", "conv-1")
		s.Unlock()
	}

	if st.Len() != 1 {
		t.Error("a conversation with active turns must not be swept")
	}
}

func TestSweep_RemovesIdleSessions(t *testing.T) {
	st := newTestStore(t, Config{
		IdleTTL:         20 * time.Millisecond,
		CleanupInterval: 10 * time.Millisecond,
	})

	st.GetOrCreate("user-1", "conv-1")
	st.GetOrCreate("user-2", "conv-2")

	deadline := time.Now().Add(time.Second)
	for st.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if got := st.Len(); got != 0 {
		t.Errorf("expected all idle sessions swept, %d remain", got)
	}

	// Expiry is not an error: the next message starts fresh
	s := st.GetOrCreate("user-1", "conv-1")
	if len(s.Context) != 0 {
		t.Errorf("recreated session must be empty, got %v", s.Context)
	}
}

func TestSweep_SkipsSessionsMidRun(t *testing.T) {
	st := newTestStore(t, Config{
		IdleTTL:         10 * time.Millisecond,
		CleanupInterval: 5 * time.Millisecond,
	})

	s := st.GetOrCreate("user-1", "conv-1")
	s.Lock()

	time.Sleep(50 * time.Millisecond)

	if st.Len() != 1 {
		t.Error("a locked session must survive the sweep")
	}
	s.Unlock()
}

func TestSave_RefreshesActivity(t *testing.T) {
	st := newTestStore(t, Config{
		IdleTTL:         60 * time.Millisecond,
		CleanupInterval: 10 * time.Millisecond,
	})

	s := st.GetOrCreate("user-1", "conv-1")

	// Keep the session warm past the original TTL
	for i := 0; i < 4; i++ {
		time.Sleep(30 * time.Millisecond)
		s.Lock()
		st.Save(s, pipeline.Context{"dish_name": "カレー"})
		s.Unlock()
	}

	if st.Len() != 1 {
		t.Error("an active session must not be swept")
	}
}
