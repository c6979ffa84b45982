package noemamem

import (
	"fmt"
	"strings"
)

func (s *Store) AddEdge(sourceID, targetID int64, relation string, weight float64) (*Edge, error) {
	result, err := s.db.Exec(queryInsertEdge, sourceID, targetID, relation, weight)
	if err != nil {
		return nil, err
	}

	id, _ := result.LastInsertId()
	return &Edge{
		ID:       id,
		SourceID: sourceID,
		TargetID: targetID,
		Relation: relation,
		Weight:   weight,
	}, nil
}

func (s *Store) EdgesFrom(neuronID int64) ([]*Edge, error) {
	return s.queryEdges(queryEdgesFrom, neuronID)
}

func (s *Store) EdgesTo(neuronID int64) ([]*Edge, error) {
	return s.queryEdges(queryEdgesTo, neuronID)
}

func (s *Store) ConnectedEdges(neuronID int64) ([]*Edge, error) {
	return s.queryEdges(queryConnectedEdges, neuronID, neuronID)
}

func (s *Store) queryEdges(query string, args ...any) ([]*Edge, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()
	var edges []*Edge

	for rows.Next() {
		var e Edge
		if err := rows.Scan(&e.ID, &e.SourceID, &e.TargetID, &e.Relation, &e.Weight, &e.LastTraversed, &e.CreatedAt); err != nil {
			return nil, err
		}
		edges = append(edges, &e)
	}

	return edges, rows.Err()
}

// TouchEdges marks edges as traversed. Recently traversed edges resist
// the decay pass.
func (s *Store) TouchEdges(edgeIDs []int64) error {
	if len(edgeIDs) == 0 {
		return nil
	}

	placeholders := make([]string, len(edgeIDs))
	args := make([]any, len(edgeIDs))
	for i, id := range edgeIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`UPDATE edges SET last_traversed = datetime('now') WHERE id IN (%s)`, strings.Join(placeholders, ","))
	_, err := s.db.Exec(query, args...)
	return err
}

// ReinforceEdge bumps an edge weight after a successful co-activation,
// clamped to 1.0.
func (s *Store) ReinforceEdge(edgeID int64, delta float64) error {
	_, err := s.db.Exec(`UPDATE edges SET weight = MIN(1.0, weight + ?), last_traversed = datetime('now') WHERE id = ?`, delta, edgeID)
	return err
}
