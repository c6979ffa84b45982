package noemamem

import (
	"fmt"
	"time"
)

type DecayConfig struct {
	MinAgeDays        int     // entries younger than this are never dropped
	SalienceThreshold float64 // entries scoring below this are dropped
	NeuronHalfLife    time.Duration
	EdgeHalfLife      time.Duration
	EdgeMaxAge        time.Duration
}

func DefaultDecayConfig() DecayConfig {
	return DecayConfig{
		MinAgeDays:        30,
		SalienceThreshold: 0.25,
		NeuronHalfLife:    7 * 24 * time.Hour,
		EdgeHalfLife:      14 * 24 * time.Hour,
		EdgeMaxAge:        90 * 24 * time.Hour,
	}
}

type DecayReport struct {
	EntriesDropped int64
	NeuronsRelaxed int64
	EdgesWeakened  int64
	EdgesDeleted   int64
}

// DecayLedger drops old low-salience entries. Salience weighs recency,
// access frequency, and recorded confidence:
//
//	salience = recency*0.4 + access*0.4 + confidence*0.2
//
// where recency falls off with days since last access and access saturates
// at 10 recalls. Entries in decide or act mode are exempt - decisions and
// actions taken are the permanent record.
func (s *Store) DecayLedger(cfg DecayConfig) (int64, error) {
	if cfg.MinAgeDays <= 0 {
		cfg.MinAgeDays = 30
	}
	if cfg.SalienceThreshold <= 0 {
		cfg.SalienceThreshold = 0.25
	}

	result, err := s.db.Exec(`
		DELETE FROM ledger
		WHERE mode NOT IN ('decide', 'act')
		  AND created_at < datetime('now', ?)
		  AND (
		      (1.0 / (julianday('now') - julianday(COALESCE(last_accessed, created_at)) + 1)) * 0.4
		    + MIN(access_count / 10.0, 1.0) * 0.4
		    + confidence * 0.2
		  ) < ?
	`, fmtDays(-cfg.MinAgeDays), cfg.SalienceThreshold)
	if err != nil {
		return 0, err
	}

	dropped, _ := result.RowsAffected()

	// Orphaned embeddings would poison semantic search with dangling ids.
	if _, err := s.db.Exec(`DELETE FROM vec_ledger WHERE entry_id NOT IN (SELECT id FROM ledger)`); err != nil {
		return dropped, err
	}

	return dropped, nil
}

// Decay runs the full forgetting pass: ledger salience, neuron relaxation,
// edge weakening and pruning.
func (s *Store) Decay(cfg DecayConfig) (*DecayReport, error) {
	report := &DecayReport{}

	dropped, err := s.DecayLedger(cfg)
	if err != nil {
		return nil, err
	}
	report.EntriesDropped = dropped

	relaxed, err := s.DecayActivations(cfg.NeuronHalfLife)
	if err != nil {
		return nil, err
	}
	report.NeuronsRelaxed = relaxed

	weakened, deleted, err := s.DecayEdges(cfg.EdgeHalfLife, cfg.EdgeMaxAge)
	if err != nil {
		return nil, err
	}
	report.EdgesWeakened = weakened
	report.EdgesDeleted = deleted

	return report, nil
}

func fmtDays(n int) string {
	return fmt.Sprintf("%d days", n)
}
