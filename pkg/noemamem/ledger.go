package noemamem

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

func (s *Store) Append(mode, thought string, confidence float64) (*Entry, error) {
	return s.AppendWithContext(context.Background(), mode, thought, confidence, "", "")
}

func (s *Store) AppendWithContext(ctx context.Context, mode, thought string, confidence float64, nextAction, cycleID string) (*Entry, error) {
	uid := uuid.New().String()

	result, err := s.db.Exec(queryInsertEntry, uid, mode, thought, confidence, nullable(nextAction), nullable(cycleID))
	if err != nil {
		return nil, err
	}

	id, _ := result.LastInsertId()

	s.EmbedEntry(ctx, id, thought)

	return &Entry{
		ID:         id,
		UID:        uid,
		Mode:       mode,
		Thought:    thought,
		Confidence: confidence,
		NextAction: nextAction,
		CycleID:    cycleID,
	}, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (s *Store) GetEntry(id int64) (*Entry, error) {
	var e Entry
	row := s.db.QueryRow(queryGetEntry, id)

	err := row.Scan(&e.ID, &e.UID, &e.Mode, &e.Thought, &e.Confidence, &e.NextAction, &e.CycleID, &e.AccessCount, &e.LastAccessed, &e.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &e, nil
}

// Tail returns the most recent entries, newest first.
func (s *Store) Tail(limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryEntries(queryTailLedger, limit)
}

// EntriesByCycle returns everything written under one wake cycle, oldest first.
func (s *Store) EntriesByCycle(cycleID string) ([]*Entry, error) {
	return s.queryEntries(queryLedgerCycle, cycleID)
}

// OpenActions returns recent entries that still carry a next_action.
func (s *Store) OpenActions(limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryEntries(queryOpenActions, limit)
}

func (s *Store) SearchLedger(query string, modes []string, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	args := []any{"%" + query + "%", "%" + query + "%"}
	q := querySearchLedgerPrefix

	if len(modes) > 0 {
		placeholders := make([]string, len(modes))
		for i, m := range modes {
			placeholders[i] = "?"
			args = append(args, m)
		}
		q += " AND mode IN (" + strings.Join(placeholders, ",") + ")"
	}

	args = append(args, limit)

	return s.queryEntries(q+querySearchLedgerSuffix, args...)
}

func (s *Store) queryEntries(query string, args ...any) ([]*Entry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()
	var entries []*Entry

	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.UID, &e.Mode, &e.Thought, &e.Confidence, &e.NextAction, &e.CycleID, &e.AccessCount, &e.LastAccessed, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// TouchEntries increments access_count and updates last_accessed for the
// given entries. This tracks salience - frequently recalled thoughts survive
// the decay pass longer.
func (s *Store) TouchEntries(entryIDs []int64) error {
	if len(entryIDs) == 0 {
		return nil
	}

	placeholders := make([]string, len(entryIDs))
	args := make([]any, len(entryIDs))
	for i, id := range entryIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(queryTouchEntries, strings.Join(placeholders, ","))
	_, err := s.db.Exec(query, args...)
	return err
}
