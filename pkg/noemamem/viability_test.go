package noemamem

import (
	"math"
	"testing"
)

func TestSampleViabilityEmptyMind(t *testing.T) {
	s := newTestStore(t)

	sample, err := s.SampleViability("", VitalsSample{})
	if err != nil {
		t.Fatalf("sample: %v", err)
	}

	// Silent graph, no validation history, no hypotheses, idle host:
	// coherence 0, calibration 1, groundedness 1, vitality 1.
	if sample.Coherence != 0 {
		t.Errorf("coherence = %f, want 0 for a silent graph", sample.Coherence)
	}
	if sample.Calibration != 1 {
		t.Errorf("calibration = %f, want 1 with no history", sample.Calibration)
	}
	if sample.Groundedness != 1 {
		t.Errorf("groundedness = %f, want 1 with no hypotheses", sample.Groundedness)
	}
	if sample.Vitality != 1 {
		t.Errorf("vitality = %f, want 1 on an idle host", sample.Vitality)
	}

	want := 0.3*0 + 0.3*1 + 0.25*1 + 0.15*1
	if math.Abs(sample.Viability-want) > 1e-9 {
		t.Errorf("viability = %f, want %f", sample.Viability, want)
	}
}

func TestViabilityIsWeightedSum(t *testing.T) {
	s := newTestStore(t)

	a := mustNeuron(t, s, "theme", "concept")
	b := mustNeuron(t, s, "variation", "concept")
	if _, err := s.AddEdge(a.ID, b.ID, "develops", 0.8); err != nil {
		t.Fatalf("add edge: %v", err)
	}
	if _, err := s.Activate([]int64{a.ID}, DefaultActivationConfig); err != nil {
		t.Fatalf("activate: %v", err)
	}

	vitals := VitalsSample{MemPercent: 50, CPUPercent: 20, DiskPercent: 40}
	sample, err := s.SampleViability("cycle-x", vitals)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}

	if sample.Viability < 0 || sample.Viability > 1 {
		t.Errorf("viability = %f out of [0,1]", sample.Viability)
	}

	want := 0.3*sample.Coherence + 0.3*sample.Calibration + 0.25*sample.Groundedness + 0.15*sample.Vitality
	if math.Abs(sample.Viability-want) > 1e-9 {
		t.Errorf("viability = %f, want weighted sum %f", sample.Viability, want)
	}

	// Both active neurons sit on a single 0.8 edge.
	if math.Abs(sample.Coherence-0.8) > 1e-9 {
		t.Errorf("coherence = %f, want 0.8", sample.Coherence)
	}

	wantVitality := 1 - (0.4*50+0.3*20+0.3*40)/100
	if math.Abs(sample.Vitality-wantVitality) > 1e-9 {
		t.Errorf("vitality = %f, want %f", sample.Vitality, wantVitality)
	}
}

func TestGroundednessScalesWithEvidence(t *testing.T) {
	s := newTestStore(t)

	h, err := s.ProposeHypothesis("evidence grounds the mind", 0.5, "")
	if err != nil {
		t.Fatalf("propose: %v", err)
	}

	sample, err := s.SampleViability("", VitalsSample{})
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if sample.Groundedness != 0 {
		t.Errorf("groundedness = %f, want 0 for an untested hypothesis", sample.Groundedness)
	}

	for i := 0; i < 5; i++ {
		if _, err := s.RecordValidation(h.ID, OutcomeConfirming, ""); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	sample, err = s.SampleViability("", VitalsSample{})
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if sample.Groundedness != 1 {
		t.Errorf("groundedness = %f, want 1 at full evidence budget", sample.Groundedness)
	}
}

func TestLatestViability(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.SampleViability("first", VitalsSample{}); err != nil {
		t.Fatalf("sample: %v", err)
	}
	if _, err := s.SampleViability("second", VitalsSample{MemPercent: 10}); err != nil {
		t.Fatalf("sample: %v", err)
	}

	latest, err := s.LatestViability()
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.CycleID != "second" {
		t.Errorf("latest cycle = %q, want second", latest.CycleID)
	}
}
