package session

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestManager_Create(t *testing.T) {
	manager := NewManager()

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", testLevel(), newTestEngine(t))
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test-session" {
			t.Errorf("Expected session ID 'test-session', got '%s'", session.ID)
		}
		if session.Engine == nil {
			t.Error("Expected engine to be set")
		}
		if session.LevelID != "test/1" || session.Title != "Corridor" {
			t.Errorf("Expected level test/1 'Corridor', got %s '%s'", session.LevelID, session.Title)
		}
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", testLevel(), newTestEngine(t))
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character session ID, got %q", session.ID)
		}
	})

	t.Run("duplicate session ID", func(t *testing.T) {
		_, err := manager.Create("test-session", testLevel(), newTestEngine(t))
		if err != ErrSessionAlreadyExists {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("case-insensitive duplicate check", func(t *testing.T) {
		_, err := manager.Create("TEST-SESSION", testLevel(), newTestEngine(t))
		if err != ErrSessionAlreadyExists {
			t.Errorf("Expected ErrSessionAlreadyExists for case variant, got %v", err)
		}
	})

	t.Run("invalid ID", func(t *testing.T) {
		_, err := manager.Create("../escape", testLevel(), newTestEngine(t))
		if err != ErrInvalidSessionID {
			t.Errorf("Expected ErrInvalidSessionID, got %v", err)
		}
	})

	t.Run("missing engine", func(t *testing.T) {
		if _, err := manager.Create("no-engine", testLevel(), nil); err == nil {
			t.Error("Expected error for nil engine")
		}
	})

	t.Run("nil level", func(t *testing.T) {
		session, err := manager.Create("no-level", nil, newTestEngine(t))
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.LevelID != "" {
			t.Errorf("Expected empty level ID, got %s", session.LevelID)
		}
	})
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	created, _ := manager.Create("get-test", testLevel(), newTestEngine(t))

	t.Run("get existing session", func(t *testing.T) {
		session, err := manager.Get("get-test")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}
		if session != created {
			t.Error("Expected the created session")
		}
	})

	t.Run("case-insensitive get", func(t *testing.T) {
		session, err := manager.Get("GET-TEST")
		if err != nil {
			t.Fatalf("Failed to get session with different case: %v", err)
		}
		if session.ID != created.ID {
			t.Errorf("Expected same session regardless of case")
		}
	})

	t.Run("get non-existent session", func(t *testing.T) {
		_, err := manager.Get("non-existent")
		if err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()
	manager.Create("delete-test", testLevel(), newTestEngine(t))

	t.Run("delete existing session", func(t *testing.T) {
		if err := manager.Delete("delete-test"); err != nil {
			t.Fatalf("Failed to delete session: %v", err)
		}
		if _, err := manager.Get("delete-test"); err != ErrSessionNotFound {
			t.Error("Expected session to be deleted")
		}
	})

	t.Run("delete non-existent session", func(t *testing.T) {
		if err := manager.Delete("non-existent"); err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("case-insensitive delete", func(t *testing.T) {
		manager.Create("case-test", testLevel(), newTestEngine(t))
		if err := manager.Delete("CASE-TEST"); err != nil {
			t.Fatalf("Failed to delete with different case: %v", err)
		}
		if _, err := manager.Get("case-test"); err != ErrSessionNotFound {
			t.Error("Expected session to be deleted regardless of case")
		}
	})

	t.Run("evict from memory only", func(t *testing.T) {
		manager.Create("MEMORY-test", testLevel(), newTestEngine(t))
		if err := manager.Evict("memory-TEST"); err != nil {
			t.Fatalf("Failed to evict: %v", err)
		}
		if err := manager.Evict("memory-test"); err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestManager_List(t *testing.T) {
	manager := NewManager()
	for _, id := range []string{"list-1", "list-2", "list-3"} {
		if _, err := manager.Create(id, testLevel(), newTestEngine(t)); err != nil {
			t.Fatalf("Failed to create %s: %v", id, err)
		}
	}

	found := make(map[string]bool)
	for _, s := range manager.List() {
		found[s.ID] = true
	}
	for _, id := range []string{"list-1", "list-2", "list-3"} {
		if !found[id] {
			t.Errorf("Session %s not found in list", id)
		}
	}
	if manager.Count() != 3 {
		t.Errorf("Expected 3 sessions, got %d", manager.Count())
	}
}

func TestManager_CleanupExpired(t *testing.T) {
	manager := NewManager()
	active, _ := manager.Create("active", testLevel(), newTestEngine(t))
	expired, _ := manager.Create("expired", testLevel(), newTestEngine(t))

	expired.LastAccessedAt = time.Now().Add(-2 * time.Hour)
	active.LastAccessedAt = time.Now()

	if deleted := manager.CleanupExpiredSessions(1 * time.Hour); deleted != 1 {
		t.Errorf("Expected 1 session to be deleted, got %d", deleted)
	}
	if _, err := manager.Get("expired"); err != ErrSessionNotFound {
		t.Error("Expected expired session to be deleted")
	}
	if _, err := manager.Get("active"); err != nil {
		t.Error("Expected active session to still exist")
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	session, _ := manager.Create("access-test", testLevel(), newTestEngine(t))
	originalTime := session.LastAccessedAt

	time.Sleep(10 * time.Millisecond)

	if err := manager.UpdateLastAccessed("access-test"); err != nil {
		t.Fatalf("Failed to update last accessed: %v", err)
	}
	if !session.LastAccessedAt.After(originalTime) {
		t.Error("Expected LastAccessedAt to be updated")
	}
	if err := manager.UpdateLastAccessed("missing"); err != ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_Exists(t *testing.T) {
	manager := NewManager()
	manager.Create("exists-test", testLevel(), newTestEngine(t))

	if !manager.sessionExists("exists-test") {
		t.Error("Expected session to exist")
	}
	if !manager.sessionExists("EXISTS-TEST") {
		t.Error("Expected session to exist regardless of case")
	}
	if manager.sessionExists("non-existent") {
		t.Error("Expected session not to exist")
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	eng := newTestEngine(t)

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := strings.ToLower(manager.generateSessionID())
			_, err := manager.Create(id, testLevel(), eng)
			if err != nil && err != ErrSessionAlreadyExists {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}
	if len(manager.List()) == 0 {
		t.Error("Expected sessions to be created")
	}
}

func TestManager_SessionIsolation(t *testing.T) {
	manager := NewManager()
	session1, _ := manager.Create("iso-1", testLevel(), newTestEngine(t))
	session2, _ := manager.Create("iso-2", testLevel(), newTestEngine(t))

	if !session1.Engine.Move("left") {
		t.Fatal("Expected push to succeed")
	}

	if session2.Engine.GetPlayerPosition().X != 7 {
		t.Error("Session 2 should not be affected by session 1 moves")
	}
	if session1.Engine.GetPlayerPosition().X != 6 {
		t.Errorf("Expected session 1 player at x=6, got %d", session1.Engine.GetPlayerPosition().X)
	}
}

func TestManager_SessionIDGeneration(t *testing.T) {
	manager := NewManager()
	generatedIDs := make(map[string]bool)

	for i := 0; i < 50; i++ {
		session, err := manager.Create("", testLevel(), newTestEngine(t))
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if generatedIDs[session.ID] {
			t.Errorf("Duplicate session ID generated: %s", session.ID)
		}
		generatedIDs[session.ID] = true

		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character ID, got %s", session.ID)
		}
	}
}
