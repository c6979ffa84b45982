package noemamem

import "testing"

func TestAddPhenomenologyBoundsIntensity(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.AddPhenomenology("c1", "restless", 1.3, "too much"); err == nil {
		t.Error("expected error for intensity > 1")
	}

	p, err := s.AddPhenomenology("c1", "calm", 0.4, "a low hum of routine")
	if err != nil {
		t.Fatalf("add phenomenology: %v", err)
	}
	if p.ID == 0 {
		t.Error("phenomenology id not set")
	}

	recent, err := s.RecentPhenomenology(5)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 1 || recent[0].Tone != "calm" {
		t.Errorf("recent = %+v", recent)
	}
}

func TestSovereigntyDecisionValidated(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.AddSovereigntyEvaluation("midnight deploy", "reckless", "", 0.5); err == nil {
		t.Error("expected error for unknown decision")
	}

	ev, err := s.AddSovereigntyEvaluation("midnight deploy", DecisionDeferred, "owner asleep, blast radius unclear", 0.6)
	if err != nil {
		t.Fatalf("add sovereignty: %v", err)
	}
	if ev.Decision != DecisionDeferred {
		t.Errorf("decision = %q", ev.Decision)
	}
}

func TestVoicesOrderedByWeight(t *testing.T) {
	s := newTestStore(t)

	voices, err := s.ListVoices()
	if err != nil {
		t.Fatalf("list voices: %v", err)
	}
	if len(voices) != len(defaultVoices) {
		t.Fatalf("voices = %d, want %d", len(voices), len(defaultVoices))
	}
	for i := 1; i < len(voices); i++ {
		if voices[i].Weight > voices[i-1].Weight {
			t.Errorf("voices not ordered by weight: %s (%.2f) after %s (%.2f)",
				voices[i].Name, voices[i].Weight, voices[i-1].Name, voices[i-1].Weight)
		}
	}
}
