package noemamem

import (
	"testing"
	"time"
)

func backdateEntry(t *testing.T, s *Store, id int64, days int) {
	t.Helper()

	_, err := s.DB().Exec(`UPDATE ledger SET created_at = datetime('now', ?) WHERE id = ?`, fmtDays(-days), id)
	if err != nil {
		t.Fatalf("backdate entry: %v", err)
	}
}

func TestDecayLedgerDropsStaleLowSalience(t *testing.T) {
	s := newTestStore(t)

	stale, err := s.Append(ModeObserve, "an unremarkable tuesday", 0.1)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	backdateEntry(t, s, stale.ID, 60)

	fresh, err := s.Append(ModeObserve, "this morning's note", 0.1)
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	confident, err := s.Append(ModeReflect, "a pattern worth keeping", 0.95)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	backdateEntry(t, s, confident.ID, 60)
	// High access count keeps salience above the threshold.
	for i := 0; i < 10; i++ {
		if err := s.TouchEntries([]int64{confident.ID}); err != nil {
			t.Fatalf("touch: %v", err)
		}
	}

	dropped, err := s.DecayLedger(DefaultDecayConfig())
	if err != nil {
		t.Fatalf("decay: %v", err)
	}
	if dropped != 1 {
		t.Errorf("dropped %d entries, want 1", dropped)
	}

	if _, err := s.GetEntry(stale.ID); err == nil {
		t.Error("stale low-salience entry should be gone")
	}
	if _, err := s.GetEntry(fresh.ID); err != nil {
		t.Error("entry younger than min age must survive")
	}
	if _, err := s.GetEntry(confident.ID); err != nil {
		t.Error("frequently recalled entry must survive")
	}
}

func TestDecayLedgerProtectsDecisionsAndActions(t *testing.T) {
	s := newTestStore(t)

	decision, err := s.Append(ModeDecide, "chose the shorter route", 0.1)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	backdateEntry(t, s, decision.ID, 365)

	action, err := s.Append(ModeAct, "sent the letter", 0.1)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	backdateEntry(t, s, action.ID, 365)

	dropped, err := s.DecayLedger(DefaultDecayConfig())
	if err != nil {
		t.Fatalf("decay: %v", err)
	}
	if dropped != 0 {
		t.Errorf("dropped %d entries, decide/act modes are exempt", dropped)
	}
}

func TestDecayEdgesPrunesStaleFloor(t *testing.T) {
	s := newTestStore(t)

	a := mustNeuron(t, s, "old-idea", "concept")
	b := mustNeuron(t, s, "older-idea", "concept")

	edge, err := s.AddEdge(a.ID, b.ID, "reminds", 0.05)
	if err != nil {
		t.Fatalf("add edge: %v", err)
	}
	if _, err := s.DB().Exec(`UPDATE edges SET created_at = datetime('now', '-120 days') WHERE id = ?`, edge.ID); err != nil {
		t.Fatalf("backdate edge: %v", err)
	}

	strong, err := s.AddEdge(a.ID, b.ID, "defines", 0.9)
	if err != nil {
		t.Fatalf("add edge: %v", err)
	}

	_, deleted, err := s.DecayEdges(14*24*time.Hour, 90*24*time.Hour)
	if err != nil {
		t.Fatalf("decay edges: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted %d edges, want 1", deleted)
	}

	edges, err := s.ConnectedEdges(a.ID)
	if err != nil {
		t.Fatalf("connected: %v", err)
	}
	if len(edges) != 1 || edges[0].ID != strong.ID {
		t.Errorf("strong edge should survive, got %d edges", len(edges))
	}
}

func TestFullDecayPassReport(t *testing.T) {
	s := newTestStore(t)

	entry, err := s.Append(ModeObserve, "soon forgotten", 0.05)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	backdateEntry(t, s, entry.ID, 90)

	report, err := s.Decay(DefaultDecayConfig())
	if err != nil {
		t.Fatalf("decay: %v", err)
	}
	if report.EntriesDropped != 1 {
		t.Errorf("entries dropped = %d, want 1", report.EntriesDropped)
	}
}
