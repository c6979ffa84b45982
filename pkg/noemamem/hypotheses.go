package noemamem

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	promoteAfterConfirming   = 5
	refuteAfterDisconfirming = 2
)

func (s *Store) ProposeHypothesis(statement string, confidence float64, falsification string) (*Hypothesis, error) {
	if statement == "" {
		return nil, fmt.Errorf("hypothesis statement cannot be empty")
	}
	confidence = clampConfidence(confidence)

	result, err := s.db.Exec(queryInsertHypothesis, statement, confidence, nullable(falsification))
	if err != nil {
		return nil, err
	}

	id, _ := result.LastInsertId()
	return &Hypothesis{
		ID:            id,
		Statement:     statement,
		Status:        StatusProposed,
		Confidence:    confidence,
		Falsification: falsification,
	}, nil
}

func (s *Store) GetHypothesis(id int64) (*Hypothesis, error) {
	var h Hypothesis
	row := s.db.QueryRow(queryGetHypothesis, id)

	err := row.Scan(&h.ID, &h.Statement, &h.Status, &h.Confidence, &h.Falsification, &h.EvidenceCount, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &h, nil
}

// legalTransitions maps each status to the statuses it may move to.
// Supported and refuted are terminal except for retirement; refuted stays
// refuted.
var legalTransitions = map[string][]string{
	StatusProposed:  {StatusTesting, StatusRetired},
	StatusTesting:   {StatusSupported, StatusRefuted, StatusRetired},
	StatusSupported: {StatusRetired},
	StatusRefuted:   {},
	StatusRetired:   {},
}

func (s *Store) SetHypothesisStatus(id int64, status string) error {
	h, err := s.GetHypothesis(id)
	if err != nil {
		return err
	}

	allowed := false
	for _, next := range legalTransitions[h.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("illegal hypothesis transition %s -> %s", h.Status, status)
	}

	_, err = s.db.Exec(querySetHypothesisStatus, status, id)
	return err
}

// RecordValidation logs one test run against a hypothesis and adjusts its
// confidence: +0.1 for confirming, -0.1 for disconfirming, unchanged for
// inconclusive, clamped to [0.05, 0.99] so no hypothesis becomes certain or
// impossible. Enough evidence resolves the hypothesis automatically: five
// confirming runs with zero disconfirming promote it to supported, two
// disconfirming runs refute it.
func (s *Store) RecordValidation(hypothesisID int64, outcome string, note string) (*Validation, error) {
	switch outcome {
	case OutcomeConfirming, OutcomeDisconfirming, OutcomeInconclusive:
	default:
		return nil, fmt.Errorf("unknown validation outcome %q", outcome)
	}

	h, err := s.GetHypothesis(hypothesisID)
	if err != nil {
		return nil, err
	}
	if h.Status == StatusRefuted || h.Status == StatusRetired {
		return nil, fmt.Errorf("hypothesis %d is %s, no further validation accepted", hypothesisID, h.Status)
	}

	runUID := uuid.New().String()
	predicted := h.Confidence

	result, err := s.db.Exec(queryInsertValidation, hypothesisID, runUID, outcome, predicted, nullable(note))
	if err != nil {
		return nil, err
	}
	validationID, _ := result.LastInsertId()

	confidence := h.Confidence
	switch outcome {
	case OutcomeConfirming:
		confidence += 0.1
	case OutcomeDisconfirming:
		confidence -= 0.1
	}
	confidence = clampConfidence(confidence)

	if _, err := s.db.Exec(queryUpdateHypothesisEvidence, confidence, hypothesisID); err != nil {
		return nil, err
	}

	// First validation moves a proposed hypothesis under test.
	if h.Status == StatusProposed && outcome != OutcomeInconclusive {
		if _, err := s.db.Exec(querySetHypothesisStatus, StatusTesting, hypothesisID); err != nil {
			return nil, err
		}
	}

	if err := s.maybeResolve(hypothesisID); err != nil {
		return nil, err
	}

	return &Validation{
		ID:           validationID,
		HypothesisID: hypothesisID,
		RunUID:       runUID,
		Outcome:      outcome,
		Predicted:    predicted,
		Note:         note,
	}, nil
}

func (s *Store) maybeResolve(hypothesisID int64) error {
	confirming, err := s.countOutcomes(hypothesisID, OutcomeConfirming)
	if err != nil {
		return err
	}
	disconfirming, err := s.countOutcomes(hypothesisID, OutcomeDisconfirming)
	if err != nil {
		return err
	}

	h, err := s.GetHypothesis(hypothesisID)
	if err != nil {
		return err
	}
	if h.Status != StatusTesting {
		return nil
	}

	switch {
	case disconfirming >= refuteAfterDisconfirming:
		_, err = s.db.Exec(querySetHypothesisStatus, StatusRefuted, hypothesisID)
	case confirming >= promoteAfterConfirming && disconfirming == 0:
		_, err = s.db.Exec(querySetHypothesisStatus, StatusSupported, hypothesisID)
	}
	return err
}

func (s *Store) countOutcomes(hypothesisID int64, outcome string) (int, error) {
	var n int
	err := s.db.QueryRow(queryCountOutcomes, hypothesisID, outcome).Scan(&n)
	return n, err
}

func (s *Store) Validations(hypothesisID int64) ([]*Validation, error) {
	rows, err := s.db.Query(queryValidationsFor, hypothesisID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()
	var validations []*Validation

	for rows.Next() {
		var v Validation
		if err := rows.Scan(&v.ID, &v.HypothesisID, &v.RunUID, &v.Outcome, &v.Predicted, &v.Note, &v.CreatedAt); err != nil {
			return nil, err
		}
		validations = append(validations, &v)
	}

	return validations, rows.Err()
}

// ListHypotheses returns hypotheses in the given statuses, most recently
// updated first. No statuses means everything.
func (s *Store) ListHypotheses(statuses ...string) ([]*Hypothesis, error) {
	if len(statuses) == 0 {
		statuses = []string{StatusProposed, StatusTesting, StatusSupported, StatusRefuted, StatusRetired}
	}

	placeholders := make([]string, len(statuses))
	args := make([]any, len(statuses))
	for i, st := range statuses {
		placeholders[i] = "?"
		args[i] = st
	}

	query := queryHypothesesByStatusPrefix + strings.Join(placeholders, ",") + queryHypothesesByStatusSuffix
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()
	var hypotheses []*Hypothesis

	for rows.Next() {
		var h Hypothesis
		if err := rows.Scan(&h.ID, &h.Statement, &h.Status, &h.Confidence, &h.Falsification, &h.EvidenceCount, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		hypotheses = append(hypotheses, &h)
	}

	return hypotheses, rows.Err()
}

func clampConfidence(c float64) float64 {
	if c < 0.05 {
		return 0.05
	}
	if c > 0.99 {
		return 0.99
	}
	return c
}
