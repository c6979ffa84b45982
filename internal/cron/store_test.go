package cron

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := NewStore(db)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	return store
}

func TestCreateValidatesSchedule(t *testing.T) {
	store := newTestStore(t)

	r, err := store.Create("open hypotheses", "0 9 * * *", 42, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if r.NextRun.IsZero() {
		t.Error("next_run should be computed")
	}

	if _, err := store.Create("bad", "not a schedule", 42, nil); err == nil {
		t.Error("invalid cron expression should be rejected")
	}
}

func TestGetDue(t *testing.T) {
	store := newTestStore(t)

	r, err := store.Create("viability trend", "* * * * *", 42, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// freshly created, next_run is in the future
	due, err := store.GetDue()
	if err != nil {
		t.Fatalf("get due: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("got %d due reminders, want 0", len(due))
	}

	if err := store.UpdateNextRun(r.ID, time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("update: %v", err)
	}

	due, err = store.GetDue()
	if err != nil {
		t.Fatalf("get due: %v", err)
	}
	if len(due) != 1 || due[0].Query != "viability trend" {
		t.Errorf("got %d due reminders", len(due))
	}
}

func TestExpiredRemindersSkippedAndDeleted(t *testing.T) {
	store := newTestStore(t)

	past := time.Now().Add(-time.Hour).UTC()
	r, err := store.Create("stale", "* * * * *", 42, &past)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.UpdateNextRun(r.ID, time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("update: %v", err)
	}

	due, err := store.GetDue()
	if err != nil {
		t.Fatalf("get due: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("expired reminder should not fire, got %d", len(due))
	}

	n, err := store.DeleteExpired()
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d reminders, want 1", n)
	}
}

func TestGetByChatIsolation(t *testing.T) {
	store := newTestStore(t)

	store.Create("one", "0 9 * * *", 1, nil)
	store.Create("two", "0 9 * * *", 2, nil)

	reminders, err := store.GetByChat(1)
	if err != nil {
		t.Fatalf("get by chat: %v", err)
	}
	if len(reminders) != 1 || reminders[0].Query != "one" {
		t.Errorf("chat isolation broken: %d reminders", len(reminders))
	}
}

// Times must survive the trip through SQLite in the same format
// datetime('now') uses, or same-day reminders never compare as due.
func TestStoredTimesRoundTrip(t *testing.T) {
	store := newTestStore(t)

	expiry := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	r, err := store.Create("calibration drift", "0 9 * * *", 42, &expiry)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	due := time.Now().Add(-30 * time.Second).UTC().Truncate(time.Second)
	if err := store.UpdateNextRun(r.ID, due); err != nil {
		t.Fatalf("update: %v", err)
	}

	fetched, err := store.GetDue()
	if err != nil {
		t.Fatalf("get due: %v", err)
	}
	if len(fetched) != 1 {
		t.Fatalf("got %d due reminders, want 1", len(fetched))
	}

	got := fetched[0]
	if !got.NextRun.Equal(due) {
		t.Errorf("next_run = %v, want %v", got.NextRun, due)
	}
	if got.ExpiresAt == nil || !got.ExpiresAt.Equal(expiry) {
		t.Errorf("expires_at = %v, want %v", got.ExpiresAt, expiry)
	}
	if got.CreatedAt.IsZero() {
		t.Error("created_at did not parse")
	}
}
