package noemamem

import (
	"math"
	"testing"
)

func TestProposeHypothesis(t *testing.T) {
	s := newTestStore(t)

	h, err := s.ProposeHypothesis("the pond freezes before the river", 0.6, "an ice-free pond while the river is frozen")
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if h.Status != StatusProposed {
		t.Errorf("status = %q, want proposed", h.Status)
	}

	if _, err := s.ProposeHypothesis("", 0.5, ""); err == nil {
		t.Error("empty statement should be rejected")
	}

	// Confidence outside the working band is clamped, not rejected.
	h2, err := s.ProposeHypothesis("overconfident", 1.5, "")
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if h2.Confidence != 0.99 {
		t.Errorf("confidence = %f, want clamped 0.99", h2.Confidence)
	}
}

func TestIllegalTransitionsRejected(t *testing.T) {
	s := newTestStore(t)

	h, err := s.ProposeHypothesis("transitions are checked", 0.5, "")
	if err != nil {
		t.Fatalf("propose: %v", err)
	}

	// proposed -> supported skips testing
	if err := s.SetHypothesisStatus(h.ID, StatusSupported); err == nil {
		t.Error("proposed -> supported should be rejected")
	}

	if err := s.SetHypothesisStatus(h.ID, StatusTesting); err != nil {
		t.Fatalf("proposed -> testing: %v", err)
	}
	if err := s.SetHypothesisStatus(h.ID, StatusRefuted); err != nil {
		t.Fatalf("testing -> refuted: %v", err)
	}

	// refuted is terminal
	if err := s.SetHypothesisStatus(h.ID, StatusRetired); err == nil {
		t.Error("refuted -> retired should be rejected")
	}
}

func TestValidationAdjustsConfidence(t *testing.T) {
	s := newTestStore(t)

	h, err := s.ProposeHypothesis("evidence moves confidence", 0.5, "")
	if err != nil {
		t.Fatalf("propose: %v", err)
	}

	v, err := s.RecordValidation(h.ID, OutcomeConfirming, "first run")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if v.Predicted != 0.5 {
		t.Errorf("predicted = %f, want the pre-run confidence 0.5", v.Predicted)
	}
	if v.RunUID == "" {
		t.Error("validation should get a run uid")
	}

	got, err := s.GetHypothesis(h.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if math.Abs(got.Confidence-0.6) > 1e-9 {
		t.Errorf("confidence = %f, want 0.6", got.Confidence)
	}
	if got.Status != StatusTesting {
		t.Errorf("first validation should move proposed to testing, got %q", got.Status)
	}
	if got.EvidenceCount != 1 {
		t.Errorf("evidence_count = %d, want 1", got.EvidenceCount)
	}

	if _, err := s.RecordValidation(h.ID, "maybe", ""); err == nil {
		t.Error("unknown outcome should be rejected")
	}
}

func TestAutoPromotion(t *testing.T) {
	s := newTestStore(t)

	h, err := s.ProposeHypothesis("five confirmations promote", 0.5, "")
	if err != nil {
		t.Fatalf("propose: %v", err)
	}

	for i := 0; i < promoteAfterConfirming; i++ {
		if _, err := s.RecordValidation(h.ID, OutcomeConfirming, ""); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	got, err := s.GetHypothesis(h.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusSupported {
		t.Errorf("status = %q, want supported after %d confirming runs", got.Status, promoteAfterConfirming)
	}
	// +0.1 five times from 0.5, clamped at 0.99
	if got.Confidence != 0.99 {
		t.Errorf("confidence = %f, want 0.99", got.Confidence)
	}
}

func TestAutoRefutation(t *testing.T) {
	s := newTestStore(t)

	h, err := s.ProposeHypothesis("two disconfirmations refute", 0.5, "")
	if err != nil {
		t.Fatalf("propose: %v", err)
	}

	for i := 0; i < refuteAfterDisconfirming; i++ {
		if _, err := s.RecordValidation(h.ID, OutcomeDisconfirming, ""); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	got, err := s.GetHypothesis(h.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusRefuted {
		t.Errorf("status = %q, want refuted", got.Status)
	}

	// No further validation once refuted.
	if _, err := s.RecordValidation(h.ID, OutcomeConfirming, ""); err == nil {
		t.Error("validation against a refuted hypothesis should be rejected")
	}
}

func TestDisconfirmingBlocksPromotion(t *testing.T) {
	s := newTestStore(t)

	h, err := s.ProposeHypothesis("mixed evidence stays in testing", 0.5, "")
	if err != nil {
		t.Fatalf("propose: %v", err)
	}

	if _, err := s.RecordValidation(h.ID, OutcomeDisconfirming, ""); err != nil {
		t.Fatalf("record: %v", err)
	}
	for i := 0; i < promoteAfterConfirming; i++ {
		if _, err := s.RecordValidation(h.ID, OutcomeConfirming, ""); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	got, err := s.GetHypothesis(h.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusTesting {
		t.Errorf("status = %q, want testing while disconfirming evidence exists", got.Status)
	}
}

func TestListHypothesesByStatus(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.ProposeHypothesis("alpha", 0.5, ""); err != nil {
		t.Fatalf("propose: %v", err)
	}
	h, err := s.ProposeHypothesis("beta", 0.5, "")
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if err := s.SetHypothesisStatus(h.ID, StatusTesting); err != nil {
		t.Fatalf("transition: %v", err)
	}

	testing_, err := s.ListHypotheses(StatusTesting)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(testing_) != 1 || testing_[0].Statement != "beta" {
		t.Errorf("testing list wrong: %d entries", len(testing_))
	}

	all, err := s.ListHypotheses()
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("got %d hypotheses, want 2", len(all))
	}
}

func TestCalibration(t *testing.T) {
	s := newTestStore(t)

	h, err := s.ProposeHypothesis("calibration tracks outcomes", 0.75, "")
	if err != nil {
		t.Fatalf("propose: %v", err)
	}

	// predicted 0.75 confirming, predicted 0.85 disconfirming, one inconclusive
	if _, err := s.RecordValidation(h.ID, OutcomeConfirming, ""); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := s.RecordValidation(h.ID, OutcomeDisconfirming, ""); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := s.RecordValidation(h.ID, OutcomeInconclusive, ""); err != nil {
		t.Fatalf("record: %v", err)
	}

	buckets, err := s.Calibrate()
	if err != nil {
		t.Fatalf("calibrate: %v", err)
	}

	samples := 0
	for _, b := range buckets {
		samples += b.Samples
		if b.Brier < 0 || b.Brier > 1 {
			t.Errorf("bucket %d brier = %f out of range", b.Bucket, b.Brier)
		}
	}
	// inconclusive runs are excluded from calibration
	if samples != 2 {
		t.Errorf("calibration samples = %d, want 2", samples)
	}

	// bucket 7 holds the predicted-0.75 confirming run: brier (0.75-1)^2
	for _, b := range buckets {
		if b.Bucket == 7 {
			if math.Abs(b.Brier-0.0625) > 1e-9 {
				t.Errorf("bucket 7 brier = %f, want 0.0625", b.Brier)
			}
			if b.Observed != 1.0 {
				t.Errorf("bucket 7 observed = %f, want 1.0", b.Observed)
			}
		}
	}
}
