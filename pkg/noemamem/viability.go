package noemamem

import (
	"encoding/json"
	"math"
)

// VitalsSample carries host resource pressure as percentages [0, 100].
// Collected by internal/vitals; kept as a plain struct here so the store
// has no dependency on the sampler.
type VitalsSample struct {
	MemPercent  float64
	CPUPercent  float64
	DiskPercent float64
}

type ViabilitySample struct {
	ID           int64
	CycleID      string
	Coherence    float64
	Calibration  float64
	Groundedness float64
	Vitality     float64
	Viability    float64
	Detail       string
	CreatedAt    string
}

// SampleViability computes and records one viability snapshot:
//
//	V = 0.3*coherence + 0.3*calibration + 0.25*groundedness + 0.15*vitality
//
// Coherence is the activation-weighted mean edge weight over currently
// active neurons - a mind whose active concepts are strongly connected is
// coherent; a silent graph scores zero. Calibration comes from the Brier
// table. Groundedness is how far the non-retired hypotheses are into their
// evidence budget. Vitality is inverse host pressure.
func (s *Store) SampleViability(cycleID string, vitals VitalsSample) (*ViabilitySample, error) {
	coherence, err := s.coherence()
	if err != nil {
		return nil, err
	}

	calibration, err := s.CalibrationScore()
	if err != nil {
		return nil, err
	}

	groundedness, err := s.groundedness()
	if err != nil {
		return nil, err
	}

	vitality := 1 - (0.4*vitals.MemPercent+0.3*vitals.CPUPercent+0.3*vitals.DiskPercent)/100
	vitality = clamp01(vitality)

	viability := 0.3*coherence + 0.3*calibration + 0.25*groundedness + 0.15*vitality

	detail, _ := json.Marshal(map[string]float64{
		"mem_percent":  vitals.MemPercent,
		"cpu_percent":  vitals.CPUPercent,
		"disk_percent": vitals.DiskPercent,
	})

	result, err := s.db.Exec(queryInsertViability, nullable(cycleID), coherence, calibration, groundedness, vitality, viability, string(detail))
	if err != nil {
		return nil, err
	}

	id, _ := result.LastInsertId()
	return &ViabilitySample{
		ID:           id,
		CycleID:      cycleID,
		Coherence:    coherence,
		Calibration:  calibration,
		Groundedness: groundedness,
		Vitality:     vitality,
		Viability:    viability,
		Detail:       string(detail),
	}, nil
}

func (s *Store) coherence() (float64, error) {
	rows, err := s.db.Query(`
		SELECT n.activation, AVG(e.weight)
		FROM neurons n
		JOIN edges e ON e.source_id = n.id OR e.target_id = n.id
		WHERE n.activation > n.resting
		GROUP BY n.id
	`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var weighted, total float64
	for rows.Next() {
		var activation, meanWeight float64
		if err := rows.Scan(&activation, &meanWeight); err != nil {
			return 0, err
		}
		weighted += activation * meanWeight
		total += activation
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	if total == 0 {
		return 0, nil
	}
	return clamp01(weighted / total), nil
}

func (s *Store) groundedness() (float64, error) {
	rows, err := s.db.Query(`SELECT evidence_count FROM hypotheses WHERE status != 'retired'`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var sum float64
	var n int
	for rows.Next() {
		var count int
		if err := rows.Scan(&count); err != nil {
			return 0, err
		}
		sum += math.Min(float64(count)/5.0, 1.0)
		n++
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	if n == 0 {
		return 1.0, nil
	}
	return sum / float64(n), nil
}

func (s *Store) LatestViability() (*ViabilitySample, error) {
	var v ViabilitySample
	row := s.db.QueryRow(queryLatestViability)

	err := row.Scan(&v.ID, &v.CycleID, &v.Coherence, &v.Calibration, &v.Groundedness, &v.Vitality, &v.Viability, &v.Detail, &v.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &v, nil
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
