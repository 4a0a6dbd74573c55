package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFilePersistence(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "session_test_*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	persistence, err := NewFilePersistence(tempDir)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	session := newTestSession(t, "test1")

	t.Run("Save and Load Session", func(t *testing.T) {
		if err := persistence.Save(session); err != nil {
			t.Fatalf("Failed to save session: %v", err)
		}
		if !persistence.Exists("test1") {
			t.Error("Session file should exist after save")
		}

		loaded, err := persistence.Load("test1")
		if err != nil {
			t.Fatalf("Failed to load session: %v", err)
		}
		if loaded.ID != session.ID || loaded.LevelID != session.LevelID || loaded.Title != session.Title {
			t.Errorf("Expected %s %s %s, got %s %s %s", session.ID, session.LevelID, session.Title, loaded.ID, loaded.LevelID, loaded.Title)
		}
		if !loaded.CreatedAt.Equal(session.CreatedAt) {
			t.Errorf("Expected created at %v, got %v", session.CreatedAt, loaded.CreatedAt)
		}
		if loaded.Engine.Render(nil) != session.Engine.Render(nil) {
			t.Error("Board not restored")
		}
	})

	t.Run("Save State Changes", func(t *testing.T) {
		if !session.Engine.Move("left") {
			t.Fatal("Expected push to succeed")
		}
		if err := persistence.Save(session); err != nil {
			t.Fatalf("Failed to save updated session: %v", err)
		}

		loaded, err := persistence.Load("test1")
		if err != nil {
			t.Fatalf("Failed to load updated session: %v", err)
		}
		if loaded.Engine.GetPlayerPosition() != session.Engine.GetPlayerPosition() {
			t.Errorf("Player position not persisted correctly")
		}
		if len(loaded.Engine.GetMoveHistory()) != 1 {
			t.Errorf("Expected 1 history entry, got %d", len(loaded.Engine.GetMoveHistory()))
		}

		// The restored history can still be rolled back
		if !loaded.Engine.Move("left") {
			t.Fatal("Expected second push to succeed")
		}
		loaded.Engine.SendSignal("  ")
		if loaded.Engine.GetPlayerPosition().X != 7 {
			t.Errorf("Expected undo back to x=7, got %d", loaded.Engine.GetPlayerPosition().X)
		}
	})

	t.Run("Files Are Plain JSON", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(tempDir, "test1.json"))
		if err != nil {
			t.Fatalf("Failed to read session file: %v", err)
		}
		if !strings.Contains(string(data), `"level_id": "test/1"`) {
			t.Errorf("Expected indented JSON document, got %s", data)
		}
	})

	t.Run("List All Sessions", func(t *testing.T) {
		if err := persistence.Save(newTestSession(t, "test2")); err != nil {
			t.Fatalf("Failed to save second session: %v", err)
		}

		sessionIDs, err := persistence.ListAll()
		if err != nil {
			t.Fatalf("Failed to list sessions: %v", err)
		}
		found := make(map[string]bool)
		for _, id := range sessionIDs {
			found[id] = true
		}
		if len(sessionIDs) != 2 || !found["test1"] || !found["test2"] {
			t.Errorf("Expected test1 and test2, got %v", sessionIDs)
		}
	})

	t.Run("Delete Session", func(t *testing.T) {
		if err := persistence.Delete("test2"); err != nil {
			t.Fatalf("Failed to delete session: %v", err)
		}
		if persistence.Exists("test2") {
			t.Error("Session should not exist after delete")
		}
		if err := persistence.Delete("test2"); err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("Load Non-existent Session", func(t *testing.T) {
		if _, err := persistence.Load("missing"); err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("Reject Corrupt Document", func(t *testing.T) {
		path := filepath.Join(tempDir, "bad1.json")
		if err := os.WriteFile(path, []byte(`{"id":"bad1","level_id":"x"}`), 0644); err != nil {
			t.Fatalf("Failed to write corrupt file: %v", err)
		}
		_, err := persistence.Load("bad1")
		if err == nil || !strings.Contains(err.Error(), "invalid session document") {
			t.Errorf("Expected schema error, got %v", err)
		}
	})

	t.Run("Save Nil Session", func(t *testing.T) {
		if err := persistence.Save(nil); err == nil {
			t.Error("Expected error saving nil session")
		}
	})
}
