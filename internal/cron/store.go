package cron

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Reminder is a scheduled recall: when it fires, the agent recalls the
// query from memory and reports to the chat.
type Reminder struct {
	ID        int64
	Query     string     // search term for memory recall
	Schedule  string     // cron expression "0 20 * * *"
	ChatID    int64      // where to send the result
	ExpiresAt *time.Time // auto-delete after this time (nil = never)
	NextRun   time.Time  // pre-computed next fire time
	CreatedAt time.Time
}

type Store struct {
	db *sql.DB
}

// cronParser is configured for standard 5-field cron expressions
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

const schema = `
CREATE TABLE IF NOT EXISTS reminders (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    query TEXT NOT NULL,
    schedule TEXT NOT NULL,
    chat_id INTEGER NOT NULL,
    expires_at DATETIME,
    next_run DATETIME NOT NULL,
    created_at DATETIME DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_reminders_next_run ON reminders(next_run);
CREATE INDEX IF NOT EXISTS idx_reminders_chat_id ON reminders(chat_id);
`

func NewStore(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}
	return s, nil
}

const timeLayout = "2006-01-02 15:04:05"

// sqlTime renders a Go time the way datetime('now') does, so the textual
// comparisons in GetDue and DeleteExpired stay consistent.
func sqlTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func (s *Store) Create(query, schedule string, chatID int64, expiresAt *time.Time) (*Reminder, error) {
	sched, err := cronParser.Parse(schedule)
	if err != nil {
		return nil, fmt.Errorf("invalid cron schedule: %w", err)
	}

	nextRun := sched.Next(time.Now())

	var expiresArg any
	if expiresAt != nil {
		expiresArg = sqlTime(*expiresAt)
	}

	result, err := s.db.Exec(`
		INSERT INTO reminders (query, schedule, chat_id, expires_at, next_run)
		VALUES (?, ?, ?, ?, ?)`,
		query, schedule, chatID, expiresArg, sqlTime(nextRun))
	if err != nil {
		return nil, err
	}

	id, _ := result.LastInsertId()
	return &Reminder{
		ID:        id,
		Query:     query,
		Schedule:  schedule,
		ChatID:    chatID,
		ExpiresAt: expiresAt,
		NextRun:   nextRun,
		CreatedAt: time.Now(),
	}, nil
}

// GetDue returns all reminders that should fire now (next_run <= now and
// not expired)
func (s *Store) GetDue() ([]Reminder, error) {
	rows, err := s.db.Query(`
		SELECT id, query, schedule, chat_id, expires_at, next_run, created_at
		FROM reminders
		WHERE next_run <= datetime('now')
		AND (expires_at IS NULL OR expires_at > datetime('now'))`)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	return s.scanReminders(rows)
}

// GetByChat returns all active reminders for a specific chat
func (s *Store) GetByChat(chatID int64) ([]Reminder, error) {
	rows, err := s.db.Query(`
		SELECT id, query, schedule, chat_id, expires_at, next_run, created_at
		FROM reminders
		WHERE chat_id = ?
		AND (expires_at IS NULL OR expires_at > datetime('now'))
		ORDER BY next_run ASC`,
		chatID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	return s.scanReminders(rows)
}

func (s *Store) UpdateNextRun(id int64, nextRun time.Time) error {
	_, err := s.db.Exec(`UPDATE reminders SET next_run = ? WHERE id = ?`, sqlTime(nextRun), id)
	return err
}

func (s *Store) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM reminders WHERE id = ?`, id)
	return err
}

func (s *Store) DeleteByQuery(query string, chatID int64) error {
	_, err := s.db.Exec(`DELETE FROM reminders WHERE query = ? AND chat_id = ?`, query, chatID)
	return err
}

// DeleteExpired removes all reminders past their expiry date
func (s *Store) DeleteExpired() (int, error) {
	result, err := s.db.Exec(`DELETE FROM reminders WHERE expires_at IS NOT NULL AND expires_at <= datetime('now')`)
	if err != nil {
		return 0, err
	}
	n, _ := result.RowsAffected()
	return int(n), nil
}

func (s *Store) scanReminders(rows *sql.Rows) ([]Reminder, error) {
	var reminders []Reminder

	for rows.Next() {
		var r Reminder
		var expiresAt, nextRun, createdAt *string

		err := rows.Scan(&r.ID, &r.Query, &r.Schedule, &r.ChatID, &expiresAt, &nextRun, &createdAt)
		if err != nil {
			return nil, err
		}

		if expiresAt != nil {
			t, perr := time.Parse(timeLayout, *expiresAt)
			if perr != nil {
				return nil, fmt.Errorf("parse expires_at: %w", perr)
			}
			r.ExpiresAt = &t
		}

		if nextRun != nil {
			if r.NextRun, err = time.Parse(timeLayout, *nextRun); err != nil {
				return nil, fmt.Errorf("parse next_run: %w", err)
			}
		}

		if createdAt != nil {
			if r.CreatedAt, err = time.Parse(timeLayout, *createdAt); err != nil {
				return nil, fmt.Errorf("parse created_at: %w", err)
			}
		}

		reminders = append(reminders, r)
	}

	return reminders, rows.Err()
}

// ComputeNextRun calculates the next run time from a cron schedule
func ComputeNextRun(schedule string) (time.Time, error) {
	sched, err := cronParser.Parse(schedule)
	if err != nil {
		return time.Time{}, err
	}

	return sched.Next(time.Now()), nil
}
