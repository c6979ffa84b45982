package noemamem

import "context"

type RecallResult struct {
	Entries     []*Entry
	Neurons     []*ActivationResult
	Activations int // neurons touched by the spreading pass
}

// Recall is the main retrieval entry point. It runs hybrid search over the
// ledger, finds neurons matching the query, and spreads activation from
// them so related concepts surface for the next recall. Everything returned
// is touched for access tracking.
func (s *Store) Recall(ctx context.Context, query string, limit int) (*RecallResult, error) {
	if limit <= 0 {
		limit = 10
	}

	entries, err := s.HybridSearch(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	seeds, err := s.SearchNeurons(query)
	if err != nil {
		return nil, err
	}

	var activated []*ActivationResult
	if len(seeds) > 0 {
		seedIDs := make([]int64, len(seeds))
		for i, n := range seeds {
			seedIDs[i] = n.ID
		}

		activated, err = s.Activate(seedIDs, DefaultActivationConfig)
		if err != nil {
			return nil, err
		}
	}

	entryIDs := make([]int64, len(entries))
	for i, e := range entries {
		entryIDs[i] = e.ID
	}
	if err := s.TouchEntries(entryIDs); err != nil {
		return nil, err
	}

	return &RecallResult{
		Entries:     entries,
		Neurons:     activated,
		Activations: len(activated),
	}, nil
}
