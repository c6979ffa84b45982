package noemamem

import "encoding/json"

// Snapshot is the parsed master_bootstrap row. Pointer fields are null in
// a brand-new mind file.
type Snapshot struct {
	GeneratedAt         string               `json:"generated_at"`
	LedgerEntries       int                  `json:"ledger_entries"`
	OpenNextActions     int                  `json:"open_next_actions"`
	LastEntryAt         *string              `json:"last_entry_at"`
	Neurons             int                  `json:"neurons"`
	ActiveNeurons       int                  `json:"active_neurons"`
	Edges               int                  `json:"edges"`
	HypothesesOpen      int                  `json:"hypotheses_open"`
	HypothesesSupported int                  `json:"hypotheses_supported"`
	HypothesesRefuted   int                  `json:"hypotheses_refuted"`
	Theorems            int                  `json:"theorems"`
	Axioms              int                  `json:"axioms"`
	Failures            int                  `json:"failures"`
	MilestonesActive    int                  `json:"milestones_active"`
	Viability           *float64             `json:"viability"`
	ViabilitySampledAt  *string              `json:"viability_sampled_at"`
	TopNeurons          []SnapshotNeuron     `json:"top_neurons"`
	OpenHypotheses      []SnapshotHypothesis `json:"open_hypotheses"`
}

// SnapshotNeuron is one of the most active concepts at snapshot time.
type SnapshotNeuron struct {
	Label      string  `json:"label"`
	Activation float64 `json:"activation"`
}

// SnapshotHypothesis is an open line of inquiry at snapshot time.
type SnapshotHypothesis struct {
	Statement  string  `json:"statement"`
	Confidence float64 `json:"confidence"`
}

// BootstrapJSON returns the raw one-row snapshot from the master_bootstrap
// view, exactly as any external sqlite3 client would see it.
func (s *Store) BootstrapJSON() (string, error) {
	var snapshot string
	if err := s.db.QueryRow(queryBootstrap).Scan(&snapshot); err != nil {
		return "", err
	}
	return snapshot, nil
}

// Bootstrap reads and parses the snapshot.
func (s *Store) Bootstrap() (*Snapshot, error) {
	raw, err := s.BootstrapJSON()
	if err != nil {
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, err
	}

	return &snap, nil
}
