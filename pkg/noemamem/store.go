package noemamem

import (
	"database/sql"

	_ "github.com/asg017/sqlite-vec-go-bindings/ncruces"
	_ "github.com/ncruces/go-sqlite3/driver"
)

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	if _, err := s.db.Exec(vecSchema); err != nil {
		return err
	}

	if _, err := s.db.Exec(viewSchema); err != nil {
		return err
	}

	if err := s.seedAxioms(); err != nil {
		return err
	}

	if err := s.seedVoices(); err != nil {
		return err
	}

	if err := s.seedSelfNeuron(); err != nil {
		return err
	}

	return s.SeedProcedures(DefaultProcedures)
}

// seedSelfNeuron guarantees the graph has a root to traverse from.
func (s *Store) seedSelfNeuron() error {
	var count int

	err := s.db.QueryRow(`SELECT COUNT(*) FROM neurons WHERE label = 'self'`).Scan(&count)
	if err != nil {
		return err
	}

	if count == 0 {
		_, err = s.db.Exec(queryInsertNeuron, "self", "concept", 0.1, `{"seed":true}`)
		return err
	}

	return nil
}

func (s *Store) SetEmbedder(e Embedder) {
	s.embedder = e
}

func (s *Store) HasEmbedder() bool {
	return s.embedder != nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}

	return nil
}

func (s *Store) DB() *sql.DB {
	return s.db
}
