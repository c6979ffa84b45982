package conversation

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

func newTestStore(t *testing.T, maxMessages int) *Store {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := NewStore(db, maxMessages)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func TestStoreAddAndGetRecent(t *testing.T) {
	store := newTestStore(t, 10)
	sessionID := "telegram:123"

	if _, err := store.Add(sessionID, "user", "hello"); err != nil {
		t.Fatalf("failed to add message: %v", err)
	}
	if _, err := store.Add(sessionID, "assistant", "hi there"); err != nil {
		t.Fatalf("failed to add message: %v", err)
	}

	messages, err := store.GetRecent(sessionID)
	if err != nil {
		t.Fatalf("failed to get recent: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}

	if messages[0].Role != "user" || messages[0].Content != "hello" {
		t.Errorf("first message mismatch: %+v", messages[0])
	}
	if messages[1].Role != "assistant" || messages[1].Content != "hi there" {
		t.Errorf("second message mismatch: %+v", messages[1])
	}
}

func TestStoreMaxMessages(t *testing.T) {
	maxMessages := 5
	store := newTestStore(t, maxMessages)
	sessionID := "telegram:123"

	for i := 0; i < 10; i++ {
		if _, err := store.Add(sessionID, "user", fmt.Sprintf("message %d", i)); err != nil {
			t.Fatalf("failed to add message: %v", err)
		}
	}

	messages, err := store.GetRecent(sessionID)
	if err != nil {
		t.Fatalf("failed to get recent: %v", err)
	}
	if len(messages) != maxMessages {
		t.Errorf("expected %d messages (max), got %d", maxMessages, len(messages))
	}

	// the newest messages survive
	if messages[len(messages)-1].Content != "message 9" {
		t.Errorf("last message = %q, want message 9", messages[len(messages)-1].Content)
	}
}

func TestStoreOverflowReturnsEvicted(t *testing.T) {
	store := newTestStore(t, 3)
	sessionID := "telegram:123"

	for i := 0; i < 3; i++ {
		if _, err := store.Add(sessionID, "user", fmt.Sprintf("message %d", i)); err != nil {
			t.Fatalf("failed to add message: %v", err)
		}
	}

	// buffer is full, this add evicts message 0
	result, err := store.Add(sessionID, "user", "message 3")
	if err != nil {
		t.Fatalf("failed to add message: %v", err)
	}
	if len(result.Overflow) != 1 {
		t.Fatalf("expected 1 overflow message, got %d", len(result.Overflow))
	}
	if result.Overflow[0].Content != "message 0" {
		t.Errorf("overflow = %q, want message 0", result.Overflow[0].Content)
	}
}

func TestStoreSessionIsolation(t *testing.T) {
	store := newTestStore(t, 10)

	session1 := "telegram:111"
	session2 := "discord:222"

	store.Add(session1, "user", "session1 message")
	store.Add(session2, "user", "session2 message")

	messages1, _ := store.GetRecent(session1)
	messages2, _ := store.GetRecent(session2)

	if len(messages1) != 1 {
		t.Errorf("expected 1 message for session1, got %d", len(messages1))
	}
	if len(messages2) != 1 {
		t.Errorf("expected 1 message for session2, got %d", len(messages2))
	}

	if messages1[0].Content != "session1 message" {
		t.Errorf("session1 content mismatch: %s", messages1[0].Content)
	}
	if messages2[0].Content != "session2 message" {
		t.Errorf("session2 content mismatch: %s", messages2[0].Content)
	}
}

func TestStoreClear(t *testing.T) {
	store := newTestStore(t, 10)
	sessionID := "telegram:123"

	store.Add(sessionID, "user", "hello")
	store.Add(sessionID, "assistant", "hi")

	if err := store.Clear(sessionID); err != nil {
		t.Fatalf("failed to clear: %v", err)
	}

	messages, _ := store.GetRecent(sessionID)
	if len(messages) != 0 {
		t.Errorf("expected 0 messages after clear, got %d", len(messages))
	}
}

func TestStoreDefaultMaxMessages(t *testing.T) {
	// pass 0 to use default
	store := newTestStore(t, 0)
	sessionID := "test"

	for i := 0; i < 20; i++ {
		store.Add(sessionID, "user", "msg")
	}

	messages, _ := store.GetRecent(sessionID)
	if len(messages) != defaultMaxMessages {
		t.Errorf("expected default %d messages, got %d", defaultMaxMessages, len(messages))
	}
}
