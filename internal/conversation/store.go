package conversation

import (
	"database/sql"
	"time"
)

const defaultMaxMessages = 12

type Message struct {
	Role      string
	Content   string
	CreatedAt time.Time
}

// Store is a rolling per-session buffer of recent chat messages, kept in
// the mind file alongside the ledger. Messages that fall off the end are
// returned as overflow so the reflection pass can distill them before they
// vanish.
type Store struct {
	db          *sql.DB
	maxMessages int
}

const schema = `
CREATE TABLE IF NOT EXISTS recent_messages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    role TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at DATETIME DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_recent_messages_session ON recent_messages(session_id, created_at DESC);
`

func NewStore(db *sql.DB, maxMessages int) (*Store, error) {
	if maxMessages <= 0 {
		maxMessages = defaultMaxMessages
	}

	s := &Store{db: db, maxMessages: maxMessages}
	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}
	return s, nil
}

// AddResult contains info about the add operation
type AddResult struct {
	Overflow []Message // Messages that were evicted from the buffer
}

func (s *Store) Add(sessionID string, role, content string) (*AddResult, error) {
	result := &AddResult{}

	rows, err := s.db.Query(`
		SELECT role, content, created_at
		FROM recent_messages
		WHERE session_id = ?
		ORDER BY id ASC
		LIMIT ?`,
		sessionID, s.maxMessages)
	if err != nil {
		return nil, err
	}

	var existing []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.Role, &m.Content, &m.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		existing = append(existing, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// A full buffer evicts its oldest entry for the incoming message.
	if len(existing) >= s.maxMessages {
		evictCount := len(existing) - s.maxMessages + 1
		result.Overflow = existing[:evictCount]
	}

	_, err = s.db.Exec(
		`INSERT INTO recent_messages (session_id, role, content) VALUES (?, ?, ?)`,
		sessionID, role, content,
	)
	if err != nil {
		return nil, err
	}

	// trim to max messages (FIFO)
	_, err = s.db.Exec(`
		DELETE FROM recent_messages
		WHERE session_id = ? AND id NOT IN (
			SELECT id FROM recent_messages
			WHERE session_id = ?
			ORDER BY id DESC
			LIMIT ?
		)`, sessionID, sessionID, s.maxMessages)

	return result, err
}

func (s *Store) GetRecent(sessionID string) ([]Message, error) {
	rows, err := s.db.Query(`
		SELECT role, content, created_at
		FROM recent_messages
		WHERE session_id = ?
		ORDER BY id ASC
		LIMIT ?`, sessionID, s.maxMessages)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

func (s *Store) Clear(sessionID string) error {
	_, err := s.db.Exec(`DELETE FROM recent_messages WHERE session_id = ?`, sessionID)
	return err
}
