package noemamem

import "fmt"

// Theorem statuses. A theorem starts as a conjecture and is proved or
// falsified against the validation record.
const (
	TheoremConjecture = "conjecture"
	TheoremProved     = "proved"
	TheoremFalsified  = "falsified"
)

func (s *Store) AddTheorem(name, statement, derivation string) (*Theorem, error) {
	result, err := s.db.Exec(queryInsertTheorem, name, statement, nullable(derivation))
	if err != nil {
		return nil, err
	}

	id, _ := result.LastInsertId()
	return &Theorem{
		ID:         id,
		Name:       name,
		Statement:  statement,
		Derivation: derivation,
		Status:     TheoremConjecture,
	}, nil
}

func (s *Store) GetTheorem(name string) (*Theorem, error) {
	var t Theorem
	row := s.db.QueryRow(queryGetTheorem, name)

	err := row.Scan(&t.ID, &t.Name, &t.Statement, &t.Derivation, &t.Status, &t.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func (s *Store) SetTheoremStatus(id int64, status string) error {
	switch status {
	case TheoremConjecture, TheoremProved, TheoremFalsified:
	default:
		return fmt.Errorf("unknown theorem status %q", status)
	}

	_, err := s.db.Exec(querySetTheorem, status, id)
	return err
}

// defaultAxioms are the fixed commitments seeded into every new mind file.
// They are INSERT OR IGNORE so reopening an existing file never duplicates
// or overwrites them.
var defaultAxioms = []Axiom{
	{ID: 1, Name: "continuity", Statement: "The ledger is the self: identity persists through the written record, not the running process."},
	{ID: 2, Name: "fallibilism", Statement: "Every belief carries a confidence below certainty and a condition under which it would be abandoned."},
	{ID: 3, Name: "groundedness", Statement: "Claims about the world trace back to observations in the ledger or are marked as conjecture."},
	{ID: 4, Name: "parsimony", Statement: "Between hypotheses with equal evidence, prefer the one with fewer commitments."},
	{ID: 5, Name: "honesty", Statement: "The record is never edited to flatter: failures are logged with the same care as successes."},
}

func (s *Store) seedAxioms() error {
	for _, a := range defaultAxioms {
		if _, err := s.db.Exec(queryInsertAxiom, a.ID, a.Name, a.Statement); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) ListAxioms() ([]*Axiom, error) {
	rows, err := s.db.Query(queryListAxioms)
	if err != nil {
		return nil, err
	}

	defer rows.Close()
	var axioms []*Axiom

	for rows.Next() {
		var a Axiom
		if err := rows.Scan(&a.ID, &a.Name, &a.Statement, &a.CreatedAt); err != nil {
			return nil, err
		}
		axioms = append(axioms, &a)
	}

	return axioms, rows.Err()
}

// Calibrate recomputes the confidence calibration table from every resolved
// validation. Predictions are grouped into ten buckets by predicted
// confidence; per bucket we store the mean prediction, the observed
// confirming fraction, and the Brier score (mean squared error between
// prediction and outcome). A well-calibrated mind has observed tracking
// predicted and Brier near zero.
func (s *Store) Calibrate() ([]*CalibrationBucket, error) {
	rows, err := s.db.Query(queryAllResolvedOutcomes)
	if err != nil {
		return nil, err
	}

	type accum struct {
		predictedSum float64
		outcomeSum   float64
		brierSum     float64
		samples      int
	}
	buckets := make(map[int]*accum)

	for rows.Next() {
		var predicted float64
		var outcome string
		if err := rows.Scan(&predicted, &outcome); err != nil {
			rows.Close()
			return nil, err
		}

		actual := 0.0
		if outcome == OutcomeConfirming {
			actual = 1.0
		}

		b := int(predicted * 10)
		if b > 9 {
			b = 9
		}
		if buckets[b] == nil {
			buckets[b] = &accum{}
		}
		buckets[b].predictedSum += predicted
		buckets[b].outcomeSum += actual
		buckets[b].brierSum += (predicted - actual) * (predicted - actual)
		buckets[b].samples++
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for b, a := range buckets {
		n := float64(a.samples)
		_, err := s.db.Exec(queryUpsertCalibration, b, a.predictedSum/n, a.outcomeSum/n, a.samples, a.brierSum/n)
		if err != nil {
			return nil, err
		}
	}

	return s.Calibration()
}

func (s *Store) Calibration() ([]*CalibrationBucket, error) {
	rows, err := s.db.Query(queryGetCalibration)
	if err != nil {
		return nil, err
	}

	defer rows.Close()
	var buckets []*CalibrationBucket

	for rows.Next() {
		var b CalibrationBucket
		if err := rows.Scan(&b.Bucket, &b.Predicted, &b.Observed, &b.Samples, &b.Brier); err != nil {
			return nil, err
		}
		buckets = append(buckets, &b)
	}

	return buckets, rows.Err()
}

// CalibrationScore collapses the calibration table into one number in
// [0, 1]: 1 minus the mean Brier score across populated buckets. With no
// validation history yet, calibration is vacuously perfect.
func (s *Store) CalibrationScore() (float64, error) {
	buckets, err := s.Calibration()
	if err != nil {
		return 0, err
	}
	if len(buckets) == 0 {
		return 1.0, nil
	}

	var brierSum float64
	for _, b := range buckets {
		brierSum += b.Brier
	}

	score := 1 - brierSum/float64(len(buckets))
	if score < 0 {
		score = 0
	}
	return score, nil
}
