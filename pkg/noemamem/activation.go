package noemamem

import (
	"fmt"
	"math"
	"sort"
	"time"
)

type ActivationConfig struct {
	MaxDepth int     // traversal bound, hard cap 3
	FanOut   int     // strongest edges followed per neuron
	Damping  float64 // energy multiplier per hop
	Floor    float64 // energy below this stops propagating
}

var DefaultActivationConfig = ActivationConfig{
	MaxDepth: 2,
	FanOut:   8,
	Damping:  0.5,
	Floor:    0.02,
}

type ActivationResult struct {
	Neuron *Neuron
	Energy float64 // energy delivered to this neuron in the pass
	Depth  int
}

// Activate runs one spreading-activation pass from the seed neurons. Each
// seed starts with energy 1.0; crossing an edge multiplies the energy by the
// edge weight and the damping factor. A neuron is visited once, at its
// shallowest depth. Propagation stops at the depth cap, the fan-out cap, or
// when energy falls below the floor. Delivered energy is added to the
// neuron's stored activation, clamped to 1.0.
func (s *Store) Activate(seedIDs []int64, cfg ActivationConfig) ([]*ActivationResult, error) {
	if cfg.MaxDepth <= 0 {
		cfg = DefaultActivationConfig
	}
	if cfg.MaxDepth > 3 {
		cfg.MaxDepth = 3
	}
	if cfg.FanOut <= 0 {
		cfg.FanOut = DefaultActivationConfig.FanOut
	}
	if cfg.Damping <= 0 || cfg.Damping > 1 {
		cfg.Damping = DefaultActivationConfig.Damping
	}
	if cfg.Floor <= 0 {
		cfg.Floor = DefaultActivationConfig.Floor
	}

	type charge struct {
		id     int64
		energy float64
	}

	visited := make(map[int64]bool)
	var results []*ActivationResult
	var touchedEdges []int64

	frontier := make([]charge, 0, len(seedIDs))
	for _, id := range seedIDs {
		frontier = append(frontier, charge{id: id, energy: 1.0})
	}

	for depth := 0; depth <= cfg.MaxDepth && len(frontier) > 0; depth++ {
		var next []charge

		for _, c := range frontier {
			if visited[c.id] || c.energy < cfg.Floor {
				continue
			}
			visited[c.id] = true

			neuron, err := s.GetNeuron(c.id)
			if err != nil {
				continue
			}

			if err := s.deliver(neuron.ID, c.energy); err != nil {
				return nil, err
			}
			neuron.Activation = math.Min(1, neuron.Activation+c.energy)

			results = append(results, &ActivationResult{
				Neuron: neuron,
				Energy: c.energy,
				Depth:  depth,
			})

			if depth == cfg.MaxDepth {
				continue
			}

			edges, err := s.ConnectedEdges(c.id)
			if err != nil {
				return nil, err
			}
			if len(edges) > cfg.FanOut {
				edges = edges[:cfg.FanOut]
			}

			for _, edge := range edges {
				targetID := edge.TargetID
				if edge.TargetID == c.id {
					targetID = edge.SourceID
				}
				if visited[targetID] {
					continue
				}

				energy := c.energy * edge.Weight * cfg.Damping
				if energy < cfg.Floor {
					continue
				}

				touchedEdges = append(touchedEdges, edge.ID)
				next = append(next, charge{id: targetID, energy: energy})
			}
		}

		frontier = next
	}

	if err := s.TouchEdges(touchedEdges); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Energy > results[j].Energy
	})

	return results, nil
}

func (s *Store) deliver(neuronID int64, energy float64) error {
	_, err := s.db.Exec(`
		UPDATE neurons
		SET activation = MIN(1.0, activation + ?), last_activated = datetime('now')
		WHERE id = ?
	`, energy, neuronID)
	return err
}

// parseStoredTime reads a timestamp written by datetime('now'). COALESCE
// strips the column's DATETIME affinity, so the driver hands back text.
func parseStoredTime(raw string) (time.Time, error) {
	return time.Parse("2006-01-02 15:04:05", raw)
}

// DecayActivations relaxes every neuron toward its resting level with an
// exponential half-life since last activation. Computed in Go rather than
// SQL so the curve stays explicit. Returns the number of neurons updated.
func (s *Store) DecayActivations(halfLife time.Duration) (int64, error) {
	if halfLife <= 0 {
		halfLife = 7 * 24 * time.Hour
	}

	rows, err := s.db.Query(`
		SELECT id, activation, resting, COALESCE(last_activated, created_at)
		FROM neurons WHERE activation > resting
	`)
	if err != nil {
		return 0, err
	}

	type relaxed struct {
		id         int64
		activation float64
	}
	var updates []relaxed
	now := time.Now()

	for rows.Next() {
		var id int64
		var activation, resting float64
		var raw string
		if err := rows.Scan(&id, &activation, &resting, &raw); err != nil {
			rows.Close()
			return 0, err
		}
		since, err := parseStoredTime(raw)
		if err != nil {
			rows.Close()
			return 0, fmt.Errorf("neuron %d last_activated: %w", id, err)
		}

		factor := math.Pow(0.5, now.Sub(since).Hours()/halfLife.Hours())
		next := resting + (activation-resting)*factor
		if next < resting {
			next = resting
		}
		if next != activation {
			updates = append(updates, relaxed{id: id, activation: next})
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, u := range updates {
		if _, err := s.db.Exec(`UPDATE neurons SET activation = ? WHERE id = ?`, u.activation, u.id); err != nil {
			return 0, err
		}
	}

	return int64(len(updates)), nil
}

const edgeWeightFloor = 0.05

// DecayEdges weakens edges with the same half-life rule, floored at
// edgeWeightFloor. Edges sitting at the floor that haven't been traversed
// within maxAge are deleted. Returns (weakened, deleted).
func (s *Store) DecayEdges(halfLife time.Duration, maxAge time.Duration) (int64, int64, error) {
	if halfLife <= 0 {
		halfLife = 7 * 24 * time.Hour
	}
	if maxAge <= 0 {
		maxAge = 90 * 24 * time.Hour
	}

	rows, err := s.db.Query(`
		SELECT id, weight, COALESCE(last_traversed, created_at)
		FROM edges WHERE weight > ?
	`, edgeWeightFloor)
	if err != nil {
		return 0, 0, err
	}

	type weakened struct {
		id     int64
		weight float64
	}
	var updates []weakened
	now := time.Now()

	for rows.Next() {
		var id int64
		var weight float64
		var raw string
		if err := rows.Scan(&id, &weight, &raw); err != nil {
			rows.Close()
			return 0, 0, err
		}
		since, err := parseStoredTime(raw)
		if err != nil {
			rows.Close()
			return 0, 0, fmt.Errorf("edge %d last_traversed: %w", id, err)
		}

		factor := math.Pow(0.5, now.Sub(since).Hours()/halfLife.Hours())
		next := edgeWeightFloor + (weight-edgeWeightFloor)*factor
		if next != weight {
			updates = append(updates, weakened{id: id, weight: next})
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, 0, err
	}

	for _, u := range updates {
		if _, err := s.db.Exec(`UPDATE edges SET weight = ? WHERE id = ?`, u.weight, u.id); err != nil {
			return 0, 0, err
		}
	}

	maxAgeDays := int(maxAge.Hours() / 24)
	result, err := s.db.Exec(`
		DELETE FROM edges
		WHERE weight <= ?
		  AND COALESCE(last_traversed, created_at) < datetime('now', ?)
	`, edgeWeightFloor, fmtDays(-maxAgeDays))
	if err != nil {
		return int64(len(updates)), 0, err
	}

	deleted, _ := result.RowsAffected()
	return int64(len(updates)), deleted, nil
}
