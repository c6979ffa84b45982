package noemamem

import (
	"context"
	"fmt"
	"strings"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/ncruces"
)

func serializeEmbedding(embedding []float32) ([]byte, error) {
	return sqlite_vec.SerializeFloat32(embedding)
}

func (s *Store) EmbedEntry(ctx context.Context, entryID int64, text string) error {
	if s.embedder == nil {
		return nil
	}

	embedding, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return err
	}

	blob, err := serializeEmbedding(embedding)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(queryInsertVecEntry, entryID, blob)
	return err
}

func (s *Store) DeleteEntryEmbedding(entryID int64) error {
	_, err := s.db.Exec(queryDeleteVecEntry, entryID)
	return err
}

type ScoredEntry struct {
	Entry    *Entry
	Distance float32
}

func (s *Store) SemanticSearch(ctx context.Context, query string, limit int) ([]*ScoredEntry, error) {
	if s.embedder == nil {
		return nil, nil
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	blob, err := serializeEmbedding(embedding)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT l.id, l.uid, l.mode, l.thought, l.confidence, COALESCE(l.next_action, ''),
		       COALESCE(l.cycle_id, ''), l.access_count, l.last_accessed, l.created_at, v.distance
		FROM vec_ledger v
		JOIN ledger l ON v.entry_id = l.id
		WHERE v.embedding MATCH ?
		  AND k = ?
		ORDER BY v.distance
	`, blob, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*ScoredEntry
	for rows.Next() {
		var e Entry
		var distance float32
		if err := rows.Scan(&e.ID, &e.UID, &e.Mode, &e.Thought, &e.Confidence, &e.NextAction, &e.CycleID, &e.AccessCount, &e.LastAccessed, &e.CreatedAt, &distance); err != nil {
			return nil, err
		}
		results = append(results, &ScoredEntry{Entry: &e, Distance: distance})
	}

	return results, rows.Err()
}

// HybridSearch merges semantic and keyword hits, semantic first.
func (s *Store) HybridSearch(ctx context.Context, query string, limit int) ([]*Entry, error) {
	keywordEntries, err := s.SearchLedger(query, nil, limit)
	if err != nil {
		return nil, err
	}

	if s.embedder == nil {
		return keywordEntries, nil
	}

	semanticEntries, err := s.SemanticSearch(ctx, query, limit)
	if err != nil {
		return keywordEntries, nil
	}

	seen := make(map[int64]bool)
	var results []*Entry

	for _, se := range semanticEntries {
		if !seen[se.Entry.ID] {
			seen[se.Entry.ID] = true
			results = append(results, se.Entry)
		}
	}

	for _, e := range keywordEntries {
		if !seen[e.ID] {
			seen[e.ID] = true
			results = append(results, e)
		}
	}

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// ReindexEmbeddings regenerates every ledger embedding. Used after switching
// embedding models.
func (s *Store) ReindexEmbeddings(ctx context.Context) error {
	if s.embedder == nil {
		return nil
	}

	rows, err := s.db.Query(`SELECT id, thought FROM ledger`)
	if err != nil {
		return err
	}
	defer rows.Close()

	type pending struct {
		id      int64
		thought string
	}
	var work []pending

	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.id, &p.thought); err != nil {
			return err
		}
		work = append(work, p)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var failed []string
	for _, p := range work {
		s.DeleteEntryEmbedding(p.id)
		if err := s.EmbedEntry(ctx, p.id, p.thought); err != nil {
			failed = append(failed, fmt.Sprintf("%d", p.id))
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("reindex failed for entries: %s", strings.Join(failed, ","))
	}

	return nil
}
