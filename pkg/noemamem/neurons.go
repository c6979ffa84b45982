package noemamem

func (s *Store) CreateNeuron(label, kind string, resting float64, metadata string) (*Neuron, error) {
	result, err := s.db.Exec(queryInsertNeuron, label, kind, resting, metadata)
	if err != nil {
		return nil, err
	}

	id, _ := result.LastInsertId()

	return &Neuron{
		ID:       id,
		Label:    label,
		Kind:     kind,
		Resting:  resting,
		Metadata: metadata,
	}, nil
}

func (s *Store) GetNeuron(id int64) (*Neuron, error) {
	var n Neuron
	row := s.db.QueryRow(queryGetNeuron, id)

	err := row.Scan(&n.ID, &n.Label, &n.Kind, &n.Activation, &n.Resting, &n.LastActivated, &n.Metadata, &n.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &n, nil
}

func (s *Store) FindNeuronByLabel(label string) (*Neuron, error) {
	var n Neuron
	row := s.db.QueryRow(queryNeuronByLabel, label)

	err := row.Scan(&n.ID, &n.Label, &n.Kind, &n.Activation, &n.Resting, &n.LastActivated, &n.Metadata, &n.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &n, nil
}

func (s *Store) SearchNeurons(query string) ([]*Neuron, error) {
	return s.queryNeurons(querySearchNeurons, "%"+query+"%")
}

// ActiveNeurons returns neurons currently above their resting level,
// strongest first.
func (s *Store) ActiveNeurons(limit int) ([]*Neuron, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryNeurons(queryActiveNeurons, limit)
}

func (s *Store) queryNeurons(query string, args ...any) ([]*Neuron, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()
	var neurons []*Neuron

	for rows.Next() {
		var n Neuron
		if err := rows.Scan(&n.ID, &n.Label, &n.Kind, &n.Activation, &n.Resting, &n.LastActivated, &n.Metadata, &n.CreatedAt); err != nil {
			return nil, err
		}
		neurons = append(neurons, &n)
	}

	return neurons, rows.Err()
}

type TraversalResult struct {
	Neuron   *Neuron
	Relation string
	Depth    int
}

// Traverse walks the graph breadth-agnostically from a neuron, visiting each
// node once up to maxDepth hops away. Edges are followed in both directions;
// reversed edges get an "inverse:" relation prefix.
func (s *Store) Traverse(neuronID int64, maxDepth int) ([]*TraversalResult, error) {
	visited := make(map[int64]bool)
	var results []*TraversalResult

	var walk func(id int64, relation string, depth int) error
	walk = func(id int64, relation string, depth int) error {
		if depth > maxDepth || visited[id] {
			return nil
		}
		visited[id] = true

		neuron, err := s.GetNeuron(id)
		if err != nil {
			return nil
		}

		results = append(results, &TraversalResult{
			Neuron:   neuron,
			Relation: relation,
			Depth:    depth,
		})

		if depth < maxDepth {
			edges, err := s.ConnectedEdges(id)
			if err != nil {
				return err
			}

			for _, edge := range edges {
				targetID := edge.TargetID
				rel := edge.Relation
				if edge.TargetID == id {
					targetID = edge.SourceID
					rel = "inverse:" + rel
				}
				walk(targetID, rel, depth+1)
			}
		}

		return nil
	}

	if err := walk(neuronID, "", 0); err != nil {
		return nil, err
	}

	return results, nil
}
