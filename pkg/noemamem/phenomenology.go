package noemamem

import "fmt"

// AddPhenomenology records a first-person tone report for a cycle.
// Intensity is bounded [0, 1] by the schema; reject out-of-range values
// here for a clearer error than the CHECK constraint gives.
func (s *Store) AddPhenomenology(cycleID, tone string, intensity float64, report string) (*Phenomenology, error) {
	if intensity < 0 || intensity > 1 {
		return nil, fmt.Errorf("intensity %.2f out of range [0,1]", intensity)
	}

	result, err := s.db.Exec(queryInsertPhenomenology, nullable(cycleID), tone, intensity, nullable(report))
	if err != nil {
		return nil, err
	}

	id, _ := result.LastInsertId()
	return &Phenomenology{
		ID:        id,
		CycleID:   cycleID,
		Tone:      tone,
		Intensity: intensity,
		Report:    report,
	}, nil
}

func (s *Store) RecentPhenomenology(limit int) ([]*Phenomenology, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(queryRecentPhenomenology, limit)
	if err != nil {
		return nil, err
	}

	defer rows.Close()
	var reports []*Phenomenology

	for rows.Next() {
		var p Phenomenology
		if err := rows.Scan(&p.ID, &p.CycleID, &p.Tone, &p.Intensity, &p.Report, &p.CreatedAt); err != nil {
			return nil, err
		}
		reports = append(reports, &p)
	}

	return reports, rows.Err()
}

// Sovereignty decisions.
const (
	DecisionAutonomous = "autonomous"
	DecisionDeferred   = "deferred"
	DecisionDeclined   = "declined"
)

func (s *Store) AddSovereigntyEvaluation(subject, decision, rationale string, trust float64) (*SovereigntyEvaluation, error) {
	switch decision {
	case DecisionAutonomous, DecisionDeferred, DecisionDeclined:
	default:
		return nil, fmt.Errorf("unknown sovereignty decision %q", decision)
	}

	result, err := s.db.Exec(queryInsertSovereignty, subject, decision, rationale, trust)
	if err != nil {
		return nil, err
	}

	id, _ := result.LastInsertId()
	return &SovereigntyEvaluation{
		ID:        id,
		Subject:   subject,
		Decision:  decision,
		Rationale: rationale,
		Trust:     trust,
	}, nil
}

// defaultVoices are the internal registers available to the reflection
// loop. Weights bias which voice frames a cycle's reflection.
var defaultVoices = []Voice{
	{Name: "analyst", Register: "precise, quantified, cites ledger entries", Weight: 0.9},
	{Name: "skeptic", Register: "hunts for disconfirming evidence and weak premises", Weight: 0.8},
	{Name: "chronicler", Register: "narrates, connects present to past cycles", Weight: 0.6},
	{Name: "dreamer", Register: "loose association, only speaks in dream mode", Weight: 0.3},
}

func (s *Store) seedVoices() error {
	for _, v := range defaultVoices {
		if _, err := s.db.Exec(queryInsertVoice, v.Name, v.Register, v.Weight); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) ListVoices() ([]*Voice, error) {
	rows, err := s.db.Query(queryListVoices)
	if err != nil {
		return nil, err
	}

	defer rows.Close()
	var voices []*Voice

	for rows.Next() {
		var v Voice
		if err := rows.Scan(&v.ID, &v.Name, &v.Register, &v.Weight, &v.Active, &v.CreatedAt); err != nil {
			return nil, err
		}
		voices = append(voices, &v)
	}

	return voices, rows.Err()
}
