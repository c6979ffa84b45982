package noemamem

import (
	"fmt"
	"math"
	"testing"
	"time"
)

func mustNeuron(t *testing.T, s *Store, label, kind string) *Neuron {
	t.Helper()

	n, err := s.CreateNeuron(label, kind, 0.05, "")
	if err != nil {
		t.Fatalf("create neuron %s: %v", label, err)
	}
	return n
}

func TestActivateSpreadsWithDamping(t *testing.T) {
	s := newTestStore(t)

	a := mustNeuron(t, s, "pond", "concept")
	b := mustNeuron(t, s, "heron", "concept")
	c := mustNeuron(t, s, "fish", "concept")

	if _, err := s.AddEdge(a.ID, b.ID, "hosts", 0.8); err != nil {
		t.Fatalf("add edge: %v", err)
	}
	if _, err := s.AddEdge(b.ID, c.ID, "eats", 0.8); err != nil {
		t.Fatalf("add edge: %v", err)
	}

	results, err := s.Activate([]int64{a.ID}, DefaultActivationConfig)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d activated neurons, want 3", len(results))
	}

	byLabel := make(map[string]*ActivationResult)
	for _, r := range results {
		byLabel[r.Neuron.Label] = r
	}

	if e := byLabel["pond"].Energy; e != 1.0 {
		t.Errorf("seed energy = %f, want 1.0", e)
	}
	// 1.0 * 0.8 weight * 0.5 damping
	if e := byLabel["heron"].Energy; math.Abs(e-0.4) > 1e-9 {
		t.Errorf("depth-1 energy = %f, want 0.4", e)
	}
	// 0.4 * 0.8 * 0.5
	if e := byLabel["fish"].Energy; math.Abs(e-0.16) > 1e-9 {
		t.Errorf("depth-2 energy = %f, want 0.16", e)
	}

	if byLabel["fish"].Depth != 2 {
		t.Errorf("fish depth = %d, want 2", byLabel["fish"].Depth)
	}

	// Stored activation picked up the delivered energy.
	heron, err := s.GetNeuron(b.ID)
	if err != nil {
		t.Fatalf("get neuron: %v", err)
	}
	if math.Abs(heron.Activation-0.4) > 1e-9 {
		t.Errorf("stored activation = %f, want 0.4", heron.Activation)
	}
	if heron.LastActivated == nil {
		t.Error("last_activated should be set")
	}
}

func TestActivateStopsBelowFloor(t *testing.T) {
	s := newTestStore(t)

	a := mustNeuron(t, s, "spark", "concept")
	b := mustNeuron(t, s, "faint", "concept")

	// 1.0 * 0.03 * 0.5 = 0.015, below the 0.02 floor
	if _, err := s.AddEdge(a.ID, b.ID, "barely", 0.03); err != nil {
		t.Fatalf("add edge: %v", err)
	}

	results, err := s.Activate([]int64{a.ID}, DefaultActivationConfig)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d activated, want only the seed", len(results))
	}
}

func TestActivateFanOutCap(t *testing.T) {
	s := newTestStore(t)

	hub := mustNeuron(t, s, "hub", "concept")
	for i := 0; i < 5; i++ {
		n := mustNeuron(t, s, fmt.Sprintf("spoke-%d", i), "concept")
		// ascending weights so the strongest two are spoke-3 and spoke-4
		if _, err := s.AddEdge(hub.ID, n.ID, "links", 0.5+float64(i)*0.1); err != nil {
			t.Fatalf("add edge: %v", err)
		}
	}

	cfg := DefaultActivationConfig
	cfg.FanOut = 2

	results, err := s.Activate([]int64{hub.ID}, cfg)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d activated, want hub + 2 strongest spokes", len(results))
	}

	labels := make(map[string]bool)
	for _, r := range results {
		labels[r.Neuron.Label] = true
	}
	if !labels["spoke-4"] || !labels["spoke-3"] {
		t.Errorf("fan-out should keep the strongest edges, got %v", labels)
	}
}

func TestActivateClampsAtOne(t *testing.T) {
	s := newTestStore(t)

	n := mustNeuron(t, s, "hot", "concept")

	for i := 0; i < 3; i++ {
		if _, err := s.Activate([]int64{n.ID}, DefaultActivationConfig); err != nil {
			t.Fatalf("activate: %v", err)
		}
	}

	got, err := s.GetNeuron(n.ID)
	if err != nil {
		t.Fatalf("get neuron: %v", err)
	}
	if got.Activation > 1.0 {
		t.Errorf("activation = %f, must not exceed 1.0", got.Activation)
	}
}

func TestTraverseInverseRelation(t *testing.T) {
	s := newTestStore(t)

	a := mustNeuron(t, s, "cause", "concept")
	b := mustNeuron(t, s, "effect", "concept")

	if _, err := s.AddEdge(a.ID, b.ID, "produces", 0.9); err != nil {
		t.Fatalf("add edge: %v", err)
	}

	results, err := s.Traverse(b.ID, 1)
	if err != nil {
		t.Fatalf("traverse: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[1].Relation != "inverse:produces" {
		t.Errorf("reversed edge relation = %q, want inverse:produces", results[1].Relation)
	}
}

func TestDecayActivationsRelaxesTowardResting(t *testing.T) {
	s := newTestStore(t)

	n := mustNeuron(t, s, "fading", "concept")
	if _, err := s.Activate([]int64{n.ID}, DefaultActivationConfig); err != nil {
		t.Fatalf("activate: %v", err)
	}

	// Backdate the activation two half-lives.
	if _, err := s.DB().Exec(`UPDATE neurons SET last_activated = datetime('now', '-14 days') WHERE id = ?`, n.ID); err != nil {
		t.Fatalf("backdate: %v", err)
	}

	relaxed, err := s.DecayActivations(7 * 24 * time.Hour)
	if err != nil {
		t.Fatalf("decay: %v", err)
	}
	if relaxed != 1 {
		t.Errorf("relaxed %d neurons, want 1", relaxed)
	}

	got, err := s.GetNeuron(n.ID)
	if err != nil {
		t.Fatalf("get neuron: %v", err)
	}

	// resting + (1.0 - resting) * 0.25 after two half-lives
	want := 0.05 + (1.0-0.05)*0.25
	if math.Abs(got.Activation-want) > 0.01 {
		t.Errorf("activation after decay = %f, want ~%f", got.Activation, want)
	}
}

func TestDecayActivationsFallsBackToCreatedAt(t *testing.T) {
	s := newTestStore(t)

	n := mustNeuron(t, s, "never-fired", "concept")
	_, err := s.DB().Exec(`
		UPDATE neurons
		SET activation = 0.8, last_activated = NULL, created_at = datetime('now', '-14 days')
		WHERE id = ?`, n.ID)
	if err != nil {
		t.Fatalf("prepare neuron: %v", err)
	}

	relaxed, err := s.DecayActivations(7 * 24 * time.Hour)
	if err != nil {
		t.Fatalf("decay: %v", err)
	}
	if relaxed != 1 {
		t.Errorf("relaxed %d neurons, want 1", relaxed)
	}

	got, err := s.GetNeuron(n.ID)
	if err != nil {
		t.Fatalf("get neuron: %v", err)
	}
	want := 0.05 + (0.8-0.05)*0.25
	if math.Abs(got.Activation-want) > 0.01 {
		t.Errorf("activation after decay = %f, want ~%f", got.Activation, want)
	}
}
